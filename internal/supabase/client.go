package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/crewdeck/crewclock/internal/config"
)

// ErrNotConfigured is returned when the Supabase URL or API key is missing.
var ErrNotConfigured = errors.New("supabase is not configured (set supabase.url and supabase.api_key)")

const pageSize = 100

// Client reads and updates the hosted time_entries table through PostgREST.
type Client struct {
	httpClient *http.Client
	restURL    string
	apiKey     string
	table      string
}

// NewClient creates a client authenticated with the project's API key.
// PostgREST wants the key both as a bearer token and as the apikey header;
// the bearer half is supplied by an oauth2 transport.
func NewClient(ctx context.Context, cfg config.SupabaseConfig) (*Client, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	table := cfg.Table
	if table == "" {
		table = config.DefaultTable
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
	return &Client{
		httpClient: oauth2.NewClient(ctx, ts),
		restURL:    strings.TrimRight(cfg.URL, "/") + "/rest/v1",
		apiKey:     cfg.APIKey,
		table:      table,
	}, nil
}

// EntryRow is one row of the remote time_entries table.
type EntryRow struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	PunchInTime     string   `json:"punch_in_time"`
	PunchOutTime    *string  `json:"punch_out_time"`
	LunchBreakStart *string  `json:"lunch_break_start"`
	LunchBreakEnd   *string  `json:"lunch_break_end"`
	TotalHours      *float64 `json:"total_hours"`
	StandardHours   *float64 `json:"standard_hours"`
	OvertimeHours   *float64 `json:"overtime_hours"`
	Notes           *string  `json:"notes"`
	IsEdited        bool     `json:"is_edited"`
	PayPeriodID     *string  `json:"pay_period_id"`
}

// rangeFilter selects one user's rows punched in within [from, to].
func rangeFilter(userID string, from, to time.Time) url.Values {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Add("punch_in_time", "gte."+from.UTC().Format(time.RFC3339))
	q.Add("punch_in_time", "lte."+to.UTC().Format(time.RFC3339))
	return q
}

// ListEntries fetches every row for userID punched in within [from, to],
// oldest first, following pages until a short page is returned.
func (c *Client) ListEntries(ctx context.Context, userID string, from, to time.Time) ([]EntryRow, error) {
	var all []EntryRow
	for offset := 0; ; offset += pageSize {
		q := rangeFilter(userID, from, to)
		q.Set("select", "*")
		q.Set("order", "punch_in_time.asc")
		q.Set("limit", strconv.Itoa(pageSize))
		q.Set("offset", strconv.Itoa(offset))

		var page []EntryRow
		if err := c.do(ctx, http.MethodGet, q, nil, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// AssignPayPeriod sets pay_period_id on the user's closed, unassigned rows
// in [from, to] and returns how many rows changed. The pay_period_id=is.null
// filter makes the update conditional, so concurrent or repeated calls
// never reassign a row.
func (c *Client) AssignPayPeriod(ctx context.Context, userID string, from, to time.Time, periodID string) (int, error) {
	q := rangeFilter(userID, from, to)
	q.Set("punch_out_time", "not.is.null")
	q.Set("pay_period_id", "is.null")

	body := map[string]string{"pay_period_id": periodID}
	headers := map[string]string{"Prefer": "return=representation"}

	var updated []EntryRow
	if err := c.do(ctx, http.MethodPatch, q, body, headers, &updated); err != nil {
		return 0, err
	}
	return len(updated), nil
}

func (c *Client) do(ctx context.Context, method string, q url.Values, body any, headers map[string]string, out any) error {
	endpoint := fmt.Sprintf("%s/%s?%s", c.restURL, c.table, q.Encode())

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("supabase error %d: %s", resp.StatusCode, string(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding supabase response: %w", err)
	}
	return nil
}
