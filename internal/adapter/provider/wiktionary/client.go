// Package wiktionary talks to the MediaWiki API of en.wiktionary.org and
// carves the returned pages into the sections the crawler reads.
package wiktionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

const (
	defaultAPIURL    = "https://en.wiktionary.org/w/api.php"
	defaultSiteURL   = "https://en.wiktionary.org"
	defaultUserAgent = "etymologez/1.0"
)

// Client fetches JSON from the MediaWiki API, retrying transient failures.
type Client struct {
	apiURL      string
	siteURL     string
	userAgent   string
	httpClient  *http.Client
	maxAttempts int
	backoffStep time.Duration
	log         *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.WiktionaryConfig, logger *slog.Logger) *Client {
	c := &Client{
		apiURL:      cfg.APIURL,
		siteURL:     cfg.SiteURL,
		userAgent:   cfg.UserAgent,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxAttempts: cfg.MaxAttempts,
		backoffStep: cfg.BackoffStep,
		log:         logger.With("adapter", "wiktionary"),
	}
	if c.apiURL == "" {
		c.apiURL = defaultAPIURL
	}
	if c.siteURL == "" {
		c.siteURL = defaultSiteURL
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	return c
}

// NewClientWithURL creates a Client against a custom server (for testing).
// The API lives at serverURL/w/api.php, three attempts, no backoff delay.
func NewClientWithURL(serverURL string, logger *slog.Logger) *Client {
	return &Client{
		apiURL:      serverURL + "/w/api.php",
		siteURL:     serverURL,
		userAgent:   defaultUserAgent,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		maxAttempts: 3,
		log:         logger.With("adapter", "wiktionary"),
	}
}

// SiteURL is the wiki's base URL, against which page links resolve.
func (c *Client) SiteURL() string { return c.siteURL }

// FetchJSON GETs the API with params and decodes the body into v.
// Network errors, 5xx and 429 responses are retried with a fixed, jittered
// step up to the configured attempt count; other statuses fail at once.
// A body that is not valid JSON leaves v untouched and is not an error.
func (c *Client) FetchJSON(ctx context.Context, params url.Values, v any) error {
	reqURL := c.apiURL + "?" + params.Encode()

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.log.WarnContext(ctx, "wiktionary retry",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("reason", err.Error()),
		)
	}

	if err := backoff.RetryNotify(op, c.retryPolicy(ctx), notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("wiktionary: %w", ctxErr)
		}
		c.log.ErrorContext(ctx, "wiktionary request failed",
			slog.String("url", reqURL),
			slog.Int("attempts", attempt),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("wiktionary: %w: %v", domain.ErrUpstream, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		c.log.DebugContext(ctx, "wiktionary undecodable body",
			slog.String("url", reqURL),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoffStep
	b.MaxInterval = c.backoffStep
	b.Multiplier = 1
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxAttempts-1)), ctx)
}

// FetchPage loads a page's sections, rendered HTML and wikitext. When the
// API reports an error for the plain label (usually a missing page) the
// aggressive label is tried. Returns nil, nil if neither exists.
func (c *Client) FetchPage(ctx context.Context, word, languageHint string) (*Page, error) {
	for _, aggressive := range []bool{false, true} {
		label := Label(word, languageHint, aggressive)
		if label == "" {
			return nil, nil
		}

		var resp apiParseResponse
		if err := c.FetchJSON(ctx, parseParams(label), &resp); err != nil {
			return nil, err
		}
		if resp.Error == nil && resp.Parse != nil {
			c.log.DebugContext(ctx, "wiktionary page",
				slog.String("label", label),
				slog.Int("sections", len(resp.Parse.Sections)),
			)
			return newPage(label, c.siteURL, resp.Parse), nil
		}
		if resp.Error != nil {
			c.log.DebugContext(ctx, "wiktionary page error",
				slog.String("label", label),
				slog.String("code", resp.Error.Code),
			)
		}
	}
	return nil, nil
}

func parseParams(label string) url.Values {
	return url.Values{
		"action":    {"parse"},
		"page":      {label},
		"prop":      {"sections|text|wikitext"},
		"redirects": {"1"},
		"format":    {"json"},
		"origin":    {"*"},
	}
}

// CategoryMember is one entry of a category listing.
type CategoryMember struct {
	PageID int
	Title  string
}

// IsCategory reports whether the member is itself a subcategory.
func (m CategoryMember) IsCategory() bool {
	return len(m.Title) > len(categoryPrefix) && m.Title[:len(categoryPrefix)] == categoryPrefix
}

const categoryPrefix = "Category:"

// CategoryMembers lists a category by title or, when pageID is non-zero,
// by page id, following continuation tokens to the end.
func (c *Client) CategoryMembers(ctx context.Context, title string, pageID int) ([]CategoryMember, error) {
	if title == "" && pageID == 0 {
		return nil, errors.New("wiktionary: category title or page id required")
	}

	params := url.Values{
		"action":  {"query"},
		"list":    {"categorymembers"},
		"cmlimit": {"max"},
		"format":  {"json"},
		"origin":  {"*"},
	}
	if pageID != 0 {
		params.Set("cmpageid", strconv.Itoa(pageID))
	} else {
		if decoded, err := url.PathUnescape(title); err == nil {
			title = decoded
		}
		params.Set("cmtitle", title)
	}

	var members []CategoryMember
	for {
		var resp apiCategoryResponse
		if err := c.FetchJSON(ctx, params, &resp); err != nil {
			return nil, err
		}
		for _, m := range resp.Query.CategoryMembers {
			members = append(members, CategoryMember{PageID: m.PageID, Title: m.Title})
		}
		if resp.Continue.CMContinue == "" {
			return members, nil
		}
		params.Set("cmcontinue", resp.Continue.CMContinue)
	}
}
