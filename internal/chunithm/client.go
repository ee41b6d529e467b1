// Package chunithm scrapes the CHUNITHM-NET mobile pages that feed the
// rating image: player header, rating lists and music detail pages.
package chunithm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/youruser/ratingapp/internal/songs"
	"github.com/youruser/ratingapp/internal/util"
)

// DefaultBaseURL is the root of the CHUNITHM-NET mobile site.
const DefaultBaseURL = "https://new.chunithm-net.com/chuni-mobile/html/mobile/"

const defaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

// Page paths relative to the base URL.
const (
	pathPlayerData   = "home/playerData/"
	pathRatingBest   = "home/playerData/ratingDetailBest/"
	pathRatingRecent = "home/playerData/ratingDetailRecent/"
	pathSendDetail   = "record/musicGenre/sendMusicDetail/"
	pathDetail       = "record/musicDetail/"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL string
	// SessionCookie is sent verbatim as the Cookie header of every request.
	SessionCookie string
	UserAgent     string
	Timeout       time.Duration
	Log           *zap.Logger
}

// Client fetches and parses CHUNITHM-NET pages. It keeps cookies between
// requests because the detail page depends on the preceding form post.
type Client struct {
	httpClient *http.Client
	base       *url.URL
	cookie     string
	userAgent  string
	log        *zap.Logger
}

// NewClient creates a client for cfg.
func NewClient(cfg ClientConfig) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("chunithm: parse base url %q: %w", raw, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("chunithm: create cookie jar: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		base:       base,
		cookie:     strings.TrimSpace(cfg.SessionCookie),
		userAgent:  ua,
		log:        log,
	}, nil
}

// HTTPClient exposes the underlying client, e.g. for jacket downloads.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) resolve(path string) string {
	ref, _ := url.Parse(path)
	return c.base.ResolveReference(ref).String()
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.7,en;q=0.3")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	return req, nil
}

// fetchDocument GETs path and parses the response as HTML.
func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	target := c.resolve(path)
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	c.log.Debug("fetching page", zap.String("url", target))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, target)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML of %s: %w", target, err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

// postForm submits form values to path; the response body is discarded.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) error {
	target := c.resolve(path)
	req, err := c.newRequest(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, target)
	}
	return nil
}

// FetchChartConstants downloads and parses the chart constants document.
func (c *Client) FetchChartConstants(ctx context.Context, constURL string) (songs.Constants, error) {
	data, err := util.GetBytes(ctx, c.httpClient, constURL)
	if err != nil {
		return nil, fmt.Errorf("chunithm: fetch chart constants: %w", err)
	}
	table, err := songs.ParseConstants(data)
	if err != nil {
		return nil, fmt.Errorf("chunithm: %w", err)
	}
	c.log.Info("chart constants loaded", zap.Int("entries", len(table)))
	return table, nil
}
