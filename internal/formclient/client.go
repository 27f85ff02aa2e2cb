// Package formclient drives a registration page: it validates the form
// locally, submits it to the static capture endpoint and forwards a copy to
// the backend API.
package formclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spellbe/portal-api/internal/capacity"
)

var (
	ErrSubmitting = errors.New("a submission is already in progress")
	ErrClosed     = errors.New(capacity.LimitReachedMessage)
)

// SubmitError is a failed capture submission. Message is what the user sees.
type SubmitError struct {
	Status  int
	Message string
	closed  bool
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error {
	if e.closed {
		return ErrClosed
	}
	return nil
}

// Outcome tells the page what to show after a successful submission.
type Outcome struct {
	Message       string
	Redirect      string
	RedirectAfter time.Duration
}

// View is what a registration page renders.
type View int

const (
	FormView View = iota
	ClosedView
)

type Controller struct {
	captureURL string
	backendURL string
	client     *http.Client
	pending    *PendingAdjustments

	mu         sync.Mutex
	submitting bool
	closed     map[capacity.Category]bool
}

type Option func(*Controller)

func WithHTTPClient(c *http.Client) Option {
	return func(ctl *Controller) { ctl.client = c }
}

// WithPending shares a marker queue with the page that displays the counts.
func WithPending(p *PendingAdjustments) Option {
	return func(ctl *Controller) { ctl.pending = p }
}

// New builds a controller. An empty backendURL disables forwarding and the
// capacity check.
func New(captureURL, backendURL string, opts ...Option) *Controller {
	c := &Controller{
		captureURL: captureURL,
		backendURL: strings.TrimRight(backendURL, "/"),
		client:     &http.Client{Timeout: 15 * time.Second},
		pending:    &PendingAdjustments{},
		closed:     make(map[capacity.Category]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pending returns the controller's marker queue.
func (c *Controller) Pending() *PendingAdjustments {
	return c.pending
}

// Submit validates form and sends it. Validation failures are returned
// before any request is made and satisfy registration.IsValidation.
func (c *Controller) Submit(ctx context.Context, form Form) (Outcome, error) {
	if err := c.begin(form.Category); err != nil {
		return Outcome{}, err
	}
	defer c.end()

	if err := form.payload.Prepare(); err != nil {
		return Outcome{}, err
	}
	body, values, err := form.encode()
	if err != nil {
		return Outcome{}, err
	}

	if err := c.capture(ctx, form, values.Encode()); err != nil {
		var se *SubmitError
		if errors.As(err, &se) && se.closed {
			c.close(form.Category)
		}
		return Outcome{}, err
	}

	if c.backendURL != "" {
		if err := c.forward(ctx, form.Path, body); err != nil {
			slog.Warn("backend_forward_failed", "form", form.Name, "error", err)
		}
	}

	if form.Category != "" {
		c.pending.Record(form.Category)
	}

	return Outcome{
		Message:       form.Success,
		Redirect:      ThankYouPath,
		RedirectAfter: form.RedirectAfter,
	}, nil
}

// CheckCapacity decides whether the page for cat shows the form. When the
// counts cannot be fetched the form is shown; the server still enforces the cap.
func (c *Controller) CheckCapacity(ctx context.Context, cat capacity.Category) View {
	c.mu.Lock()
	closed := c.closed[cat]
	c.mu.Unlock()
	if closed {
		return ClosedView
	}
	if c.backendURL == "" {
		return FormView
	}

	counts, err := c.fetchCounts(ctx)
	if err != nil {
		slog.Warn("capacity_check_failed", "category", cat, "error", err)
		return FormView
	}
	if counts.LimitReached(cat) {
		c.close(cat)
		return ClosedView
	}
	return FormView
}

// Counts fetches the totals for display, including a pending submission the
// backend may not have counted yet.
func (c *Controller) Counts(ctx context.Context) (capacity.Counts, error) {
	counts, err := c.fetchCounts(ctx)
	if err != nil {
		return capacity.Counts{}, err
	}
	return c.pending.Apply(counts), nil
}

func (c *Controller) begin(cat capacity.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrSubmitting
	}
	if cat != "" && c.closed[cat] {
		return ErrClosed
	}
	c.submitting = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

func (c *Controller) close(cat capacity.Category) {
	if cat == "" {
		return
	}
	c.mu.Lock()
	c.closed[cat] = true
	c.mu.Unlock()
}

func (c *Controller) capture(ctx context.Context, form Form, encoded string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.captureURL, strings.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("form_capture_failed", "form", form.Name, "error", err)
		return &SubmitError{Message: form.Fallback}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	slog.Error("form_capture_failed", "form", form.Name, "status", resp.StatusCode, "body", string(raw))
	msg := serverMessage(raw)
	if msg == "" {
		if text := strings.TrimSpace(string(raw)); text != "" {
			msg = fmt.Sprintf("Form submission failed (%d): %s", resp.StatusCode, text)
		} else {
			msg = form.Fallback
		}
	}
	return &SubmitError{
		Status:  resp.StatusCode,
		Message: msg,
		closed:  resp.StatusCode == http.StatusBadRequest && msg == capacity.LimitReachedMessage,
	}
}

func (c *Controller) forward(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.backendURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

func (c *Controller) fetchCounts(ctx context.Context) (capacity.Counts, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.backendURL+"/api/registrations/count", nil)
	if err != nil {
		return capacity.Counts{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return capacity.Counts{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return capacity.Counts{}, fmt.Errorf("count endpoint returned %d", resp.StatusCode)
	}
	var counts capacity.Counts
	if err := json.NewDecoder(resp.Body).Decode(&counts); err != nil {
		return capacity.Counts{}, err
	}
	return counts, nil
}

// serverMessage picks the most specific message from a JSON error body.
func serverMessage(raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	for _, m := range []string{body.Detail, body.Message, body.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}
