package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/spellbe/portal-api/internal/config"
)

// Field is one labelled line of a notification.
type Field struct {
	Label string
	Value string
}

// Summary describes an accepted submission for the organisers' channel.
type Summary struct {
	Kind   string // "Student", "Volunteer", "Faculty", "Contact"
	ID     string
	Fields []Field
}

type Notifier interface {
	NotifyRegistration(ctx context.Context, summary Summary) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordNotifier returns an error when Discord is not configured; the
// caller runs without the notification sink in that case.
func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord bot token or channel ID not set")
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
	}, nil
}

func (n *DiscordNotifier) NotifyRegistration(ctx context.Context, summary Summary) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, FormatSummary(summary), discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

// FormatSummary renders summary as a Discord markdown message. Empty fields are left out.
func FormatSummary(summary Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 **New %s Registration**", summary.Kind)
	if summary.ID != "" {
		fmt.Fprintf(&b, "\n**ID:** %s", summary.ID)
	}
	for _, f := range summary.Fields {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(&b, "\n**%s:** %s", f.Label, f.Value)
	}
	return b.String()
}
