package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/kognisi/insight/pkg/config"
	"github.com/kognisi/insight/pkg/httputil"
	"github.com/kognisi/insight/pkg/logger"
)

// Client reads tabular data from Google Sheets. It talks to the Sheets
// API when service-account credentials are configured and can also read
// a published-CSV URL for sheets shared without credentials.
// SSOT: all spreadsheet access goes through this client.
type Client struct {
	svc        *sheets.Service
	httpClient *httputil.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// New creates a new Sheets client. The API service is only initialized
// when a credentials file is configured; CSV reads work either way.
func New(ctx context.Context, cfg config.SheetsConfig, httpClient *httputil.Client, log *logger.Logger) (*Client, error) {
	c := &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		logger:     log.WithField("module", "sheets"),
	}

	if cfg.CredentialsFile != "" {
		svc, err := sheets.NewService(ctx,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}
		c.svc = svc
	}

	return c, nil
}

// ReadTable fetches a range from a spreadsheet and returns one map per
// row, keyed by the normalized (trimmed, lowercased) header row.
func (c *Client) ReadTable(ctx context.Context, spreadsheetID, readRange string) ([]map[string]string, error) {
	if c.svc == nil {
		return nil, fmt.Errorf("sheets API not configured (missing credentials file)")
	}

	// Stay under the Sheets API read quota
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}

	if len(resp.Values) == 0 {
		return nil, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		header[i] = normalizeHeader(fmt.Sprintf("%v", cell))
	}

	rows := make([]map[string]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(raw) {
				row[name] = fmt.Sprintf("%v", raw[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	c.logger.WithFields(map[string]interface{}{
		"spreadsheet": spreadsheetID,
		"range":       readRange,
		"rows":        len(rows),
	}).Debug("Sheet range read")

	return rows, nil
}

// ReadCSVURL fetches a published-CSV spreadsheet export and returns the
// same row-map shape as ReadTable.
func (c *Client) ReadCSVURL(ctx context.Context, url string) ([]map[string]string, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch CSV: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // ragged rows happen in hand-edited sheets

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = normalizeHeader(cell)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, raw := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(raw) {
				row[name] = raw[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// normalizeHeader normalizes a header cell into a column key:
// "Admin HR" and "admin_hr" address the same column.
func normalizeHeader(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
