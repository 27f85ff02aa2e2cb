// Package sheets appends submission rows to a Google spreadsheet.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/oauth2/google"
)

const (
	DefaultBaseURL = "https://sheets.googleapis.com"
	scope          = "https://www.googleapis.com/auth/spreadsheets"
)

var (
	ErrMissingSpreadsheet = errors.New("sheets: missing spreadsheet ID")
	ErrMissingCredentials = errors.New("sheets: missing GOOGLE_SERVICE_ACCOUNT")
)

// Appender adds one row to the end of a sheet range such as "Students!A:Z".
type Appender interface {
	Append(ctx context.Context, rangeA1 string, row []string) error
}

// GoogleSheets calls the Sheets v4 values:append endpoint authenticated as a
// service account. Credentials are parsed on every append so a bad key
// surfaces as an append error rather than a startup failure.
type GoogleSheets struct {
	spreadsheetID string
	credentials   []byte
	baseURL       string
	client        *http.Client
}

type Option func(*GoogleSheets)

// WithBaseURL points the appender at another Sheets API host.
func WithBaseURL(u string) Option {
	return func(g *GoogleSheets) { g.baseURL = u }
}

// WithHTTPClient uses c as-is instead of a service-account client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *GoogleSheets) { g.client = c }
}

func NewGoogleSheets(spreadsheetID, credentialsJSON string, opts ...Option) *GoogleSheets {
	g := &GoogleSheets{
		spreadsheetID: spreadsheetID,
		credentials:   []byte(credentialsJSON),
		baseURL:       DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type appendRequest struct {
	Values [][]string `json:"values"`
}

func (g *GoogleSheets) Append(ctx context.Context, rangeA1 string, row []string) error {
	if g.spreadsheetID == "" {
		return ErrMissingSpreadsheet
	}

	client, err := g.httpClient(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(appendRequest{Values: [][]string{row}})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		g.baseURL, url.PathEscape(g.spreadsheetID), url.PathEscape(rangeA1))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheets append: status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	slog.Info("sheet_row_appended", "range", rangeA1, "columns", len(row))
	return nil
}

func (g *GoogleSheets) httpClient(ctx context.Context) (*http.Client, error) {
	if g.client != nil {
		return g.client, nil
	}
	if len(g.credentials) == 0 {
		return nil, ErrMissingCredentials
	}
	conf, err := google.JWTConfigFromJSON(g.credentials, scope)
	if err != nil {
		return nil, fmt.Errorf("sheets credentials: %w", err)
	}
	return conf.Client(ctx), nil
}
