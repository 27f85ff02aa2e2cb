package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const defaultAdminPassword = "admin123"

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	CORSOrigins                   string        `mapstructure:"CORS_ORIGINS"`
	StudentCapacity               int64         `mapstructure:"STUDENT_CAPACITY"`
	VolunteerCapacity             int64         `mapstructure:"VOLUNTEER_CAPACITY"`
	AdminPassword                 string        `mapstructure:"ADMIN_PASSWORD"`
	AdminPasswordHash             string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	AdminTokenTTL                 time.Duration `mapstructure:"ADMIN_TOKEN_TTL"`
	AdminEmail                    string        `mapstructure:"ADMIN_EMAIL"`
	MailProvider                  string        `mapstructure:"MAIL_PROVIDER"`
	MailFrom                      string        `mapstructure:"MAIL_FROM"`
	SMTPHost                      string        `mapstructure:"SMTP_HOST"`
	SMTPPort                      int           `mapstructure:"SMTP_PORT"`
	SMTPUser                      string        `mapstructure:"SMTP_USER"`
	SMTPPass                      string        `mapstructure:"SMTP_PASS"`
	ResendAPIKey                  string        `mapstructure:"RESEND_API_KEY"`
	SheetID                       string        `mapstructure:"SHEET_ID"`
	StudentSheetRange             string        `mapstructure:"STUDENT_SHEET_RANGE"`
	FacultySheetRange             string        `mapstructure:"FACULTY_SHEET_RANGE"`
	VolunteerSheetRange           string        `mapstructure:"VOLUNTEER_SHEET_RANGE"`
	ContactSheetRange             string        `mapstructure:"CONTACT_SHEET_RANGE"`
	GoogleServiceAccount          string        `mapstructure:"GOOGLE_SERVICE_ACCOUNT"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func LoadConfig() *Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "spellbe.db")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("STUDENT_CAPACITY", 1000)
	viper.SetDefault("VOLUNTEER_CAPACITY", 1000)
	viper.SetDefault("ADMIN_TOKEN_TTL", "24h")
	viper.SetDefault("MAIL_PROVIDER", "smtp")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("STUDENT_SHEET_RANGE", "Students!A:Z")
	viper.SetDefault("FACULTY_SHEET_RANGE", "Faculty!A:Z")
	viper.SetDefault("VOLUNTEER_SHEET_RANGE", "Volunteers!A:Z")
	viper.SetDefault("CONTACT_SHEET_RANGE", "Contacts!A:Z")

	viper.BindEnv("ADMIN_PASSWORD")
	viper.BindEnv("ADMIN_PASSWORD_HASH")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("ADMIN_EMAIL")
	viper.BindEnv("MAIL_FROM")
	viper.BindEnv("SMTP_USER")
	viper.BindEnv("SMTP_PASS")
	viper.BindEnv("RESEND_API_KEY")
	viper.BindEnv("SHEET_ID")
	viper.BindEnv("GOOGLE_SERVICE_ACCOUNT")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	if err := config.finalize(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return &config
}

// finalize fills in values derived from other settings.
func (c *Config) finalize() error {
	if c.AdminPasswordHash == "" {
		password := c.AdminPassword
		if password == "" {
			password = defaultAdminPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		c.AdminPasswordHash = string(hash)
	}
	c.AdminPassword = ""

	if c.JWTSecret == "" {
		// Tokens issued with a per-process secret do not survive restarts.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		c.JWTSecret = hex.EncodeToString(buf)
	}

	if c.AdminTokenTTL <= 0 {
		c.AdminTokenTTL = 24 * time.Hour
	}

	if c.MailFrom == "" && c.SMTPUser != "" {
		c.MailFrom = `"Spell-BE" <` + c.SMTPUser + `>`
	}

	return nil
}
