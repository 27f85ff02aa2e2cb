package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/spellbe/portal-api/internal/auth"
	"github.com/spellbe/portal-api/internal/capacity"
	"github.com/spellbe/portal-api/internal/config"
	"github.com/spellbe/portal-api/internal/database"
	"github.com/spellbe/portal-api/internal/dispatch"
	"github.com/spellbe/portal-api/internal/mailer"
	"github.com/spellbe/portal-api/internal/notifier"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

type fakeSheets struct {
	mu     sync.Mutex
	ranges []string
	rows   [][]string
	err    error
}

func (f *fakeSheets) Append(_ context.Context, rangeA1 string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.ranges = append(f.ranges, rangeA1)
	f.rows = append(f.rows, row)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	summaries []notifier.Summary
}

func (f *fakeNotifier) NotifyRegistration(_ context.Context, summary notifier.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, summary)
	return nil
}

type testEnv struct {
	db        *gorm.DB
	gate      *capacity.Gate
	sender    *fakeSender
	sheets    *fakeSheets
	notifier  *fakeNotifier
	auth      *auth.AuthHandler
	regs      *RegistrationHandler
	events    *EventHandler
	functions *FunctionHandler
	router    *chi.Mux
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupEnv(t *testing.T, studentCap, volunteerCap int64) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	gate := capacity.NewGate(db, studentCap, volunteerCap)
	if err := gate.Seed(context.Background()); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	env := &testEnv{
		db:       db,
		gate:     gate,
		sender:   &fakeSender{},
		sheets:   &fakeSheets{},
		notifier: &fakeNotifier{},
		auth: auth.NewAuthHandler(&config.Config{
			JWTSecret:     "test-secret",
			AdminTokenTTL: time.Hour,
		}),
	}
	sinks := Sinks{
		Mailer:     env.sender,
		AdminEmail: "admin@spellbe.org",
		Sheets:     env.sheets,
		Ranges: SheetRanges{
			Students:   "Students!A:Z",
			Faculty:    "Faculty!A:Z",
			Volunteers: "Volunteers!A:Z",
			Contacts:   "Contacts!A:Z",
		},
		Notifier: env.notifier,
	}

	dispatcher := dispatch.New(Policies)
	env.regs = NewRegistrationHandler(db, gate, dispatcher, sinks)
	env.events = NewEventHandler(db, env.auth)
	env.functions = NewFunctionHandler(db, dispatcher, sinks)

	// Each call moves the clock a second so receipt IDs never collide.
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	env.functions.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	env.router = chi.NewRouter()
	RegisterRoutes(env.router, []string{"*"}, env.auth, env.regs, env.events, env.functions)
	return env
}

func expectStatus(t *testing.T, err error, status int, detail string) {
	t.Helper()
	var se huma.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected status error %d, got %v", status, err)
	}
	if se.GetStatus() != status {
		t.Errorf("status = %d, want %d", se.GetStatus(), status)
	}
	var model *huma.ErrorModel
	if detail != "" && errors.As(err, &model) && model.Detail != detail {
		t.Errorf("detail = %q, want %q", model.Detail, detail)
	}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
