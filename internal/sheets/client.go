package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Tab identifies one spreadsheet tab discovered on the edit page.
type Tab struct {
	GID  string
	Name string
}

// The export endpoint returns 403 to default HTTP clients, so every
// request carries a browser User-Agent. The sheet is public-by-link;
// no cookies or auth are involved.
const userAgent = "Mozilla/5.0"

const cacheTTL = time.Hour

var (
	// Tab definitions live inside the edit page's bootstrapData blob as
	// escaped JSON: \"GID\",[{\"1\":[[0,0,\"Sheet Name\"...
	bootstrapRe  = regexp.MustCompile(`(?s)var bootstrapData = ({.*?});`)
	tabEscapedRe = regexp.MustCompile(`\\"(\d+)\\",\[\{\\"1\\":\[\[0,0,\\"([^"]+)\\"`)
	tabPlainRe   = regexp.MustCompile(`"(\d+)",\[\{"1":\[\[0,0,"([^"]+)"`)
)

// Client fetches the published schedule and prep spreadsheets. All
// fetch methods degrade to an empty result on failure; callers must
// check for emptiness, they never see an error.
type Client struct {
	httpc *http.Client
	log   *zap.Logger

	baseURL       string // overridable for tests
	scheduleDocID string
	fallbackGID   string
	keyword       string
	prepsDocID    string
	prepsGID      string

	mu        sync.Mutex
	tabs      []Tab
	lastFetch time.Time
}

// Options configures a Client.
type Options struct {
	ScheduleDocID string
	FallbackGID   string
	Keyword       string
	PrepsDocID    string
	PrepsGID      string
	BaseURL       string // defaults to docs.google.com
}

func NewClient(opts Options, log *zap.Logger) *Client {
	base := opts.BaseURL
	if base == "" {
		base = "https://docs.google.com"
	}
	return &Client{
		httpc:         &http.Client{Timeout: 30 * time.Second},
		log:           log,
		baseURL:       strings.TrimRight(base, "/"),
		scheduleDocID: opts.ScheduleDocID,
		fallbackGID:   opts.FallbackGID,
		keyword:       strings.ToLower(opts.Keyword),
		prepsDocID:    opts.PrepsDocID,
		prepsGID:      opts.PrepsGID,
	}
}

// Tabs returns the schedule tabs whose name contains the configured
// keyword. Results are cached for an hour; forceRefresh bypasses the
// cache. When discovery yields nothing the single fallback tab is
// returned, so the system degrades to "assume one sheet".
func (c *Client) Tabs(ctx context.Context, forceRefresh bool) []Tab {
	c.mu.Lock()
	if !forceRefresh && c.tabs != nil && time.Since(c.lastFetch) < cacheTTL {
		tabs := c.tabs
		c.mu.Unlock()
		return tabs
	}
	c.mu.Unlock()

	url := fmt.Sprintf("%s/spreadsheets/d/%s/edit", c.baseURL, c.scheduleDocID)
	body, err := c.get(ctx, url)
	if err != nil {
		c.log.Error("failed to fetch spreadsheet edit page", zap.Error(err))
		return c.fallbackTabs()
	}

	tabs := c.extractTabs(string(body))
	if len(tabs) == 0 {
		c.log.Warn("no tabs discovered, using fallback gid",
			zap.String("gid", c.fallbackGID))
		return c.fallbackTabs()
	}

	c.mu.Lock()
	c.tabs = tabs
	c.lastFetch = time.Now()
	c.mu.Unlock()

	names := make([]string, len(tabs))
	for i, t := range tabs {
		names[i] = t.Name
	}
	c.log.Info("discovered schedule tabs", zap.Strings("names", names))
	return tabs
}

func (c *Client) fallbackTabs() []Tab {
	return []Tab{{GID: c.fallbackGID, Name: "Fallback"}}
}

func (c *Client) extractTabs(page string) []Tab {
	m := bootstrapRe.FindStringSubmatch(page)
	if m == nil {
		return nil
	}
	data := m[1]

	matches := tabEscapedRe.FindAllStringSubmatch(data, -1)
	if matches == nil {
		matches = tabPlainRe.FindAllStringSubmatch(data, -1)
	}

	var tabs []Tab
	for _, m := range matches {
		gid, name := m[1], m[2]
		if strings.Contains(strings.ToLower(name), c.keyword) {
			tabs = append(tabs, Tab{GID: gid, Name: name})
		}
	}
	return tabs
}

// ScheduleCSV downloads one schedule tab as a CSV grid. An empty grid
// means the fetch or parse failed.
func (c *Client) ScheduleCSV(ctx context.Context, gid string) [][]string {
	return c.csvExport(ctx, c.scheduleDocID, gid)
}

// PrepsCSV downloads the prep-checklist sheet as a CSV grid.
func (c *Client) PrepsCSV(ctx context.Context) [][]string {
	return c.csvExport(ctx, c.prepsDocID, c.prepsGID)
}

func (c *Client) csvExport(ctx context.Context, docID, gid string) [][]string {
	url := fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s", c.baseURL, docID, gid)
	body, err := c.get(ctx, url)
	if err != nil {
		c.log.Error("failed to fetch csv export",
			zap.String("gid", gid), zap.Error(err))
		return nil
	}

	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	grid, err := r.ReadAll()
	if err != nil {
		c.log.Error("failed to parse csv export",
			zap.String("gid", gid), zap.Error(err))
		return nil
	}
	return grid
}

// get performs a GET with the browser User-Agent, retrying transient
// failures with capped fibonacci backoff.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))

	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpc.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("server error: %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status: %s", resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	return body, err
}
