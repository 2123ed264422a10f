package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends budget-alert rows to a Google Sheets spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	alertsSheet   string
}

// Ensure interface conformance
var _ ports.AlertWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_ALERTS_SHEET_NAME (default "Budget Alerts")
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	alertsSheet := strings.TrimSpace(os.Getenv("GOOGLE_ALERTS_SHEET_NAME"))
	if alertsSheet == "" {
		alertsSheet = "Budget Alerts"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		alertsSheet:   alertsSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// AppendAlert appends one alert row:
// timestamp, user id, month, spent, budget, overshoot.
func (c *Client) AppendAlert(ctx context.Context, row ports.AlertRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	ts := row.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	overshoot := -row.Spent.Cents - row.Budget.Cents

	vr := &gsheet.ValueRange{Values: [][]any{{
		ts.UTC().Format(time.RFC3339),
		row.UserID,
		row.MonthYear,
		row.Spent.Float64(),
		row.Budget.Float64(),
		float64(overshoot) / 100.0,
	}}}

	rng := fmt.Sprintf("%s!A:F", c.alertsSheet)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append alert to sheet %s: %w", c.alertsSheet, err)
	}
	return nil
}
