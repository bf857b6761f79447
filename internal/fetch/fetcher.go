package fetch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prospectorhq/prospector/internal/cache"
	"github.com/prospectorhq/prospector/internal/model"
	"github.com/prospectorhq/prospector/internal/util"
	"github.com/prospectorhq/prospector/internal/worker"
)

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// Fetcher retrieves prospect pages. The zero extras (robots, limiter,
// cache) are optional; FromConfig wires them all.
type Fetcher struct {
	httpClient   *http.Client
	userAgent    string
	maxBytes     int64
	maxText      int
	fetchWorkers int
	robots       *util.RobotsChecker
	limiter      *worker.Limiter
	cache        cache.Cache
}

// NewFetcher creates a bare fetcher with the given HTTP settings
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
	}
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		maxText:   10_000,
	}
}

// FromConfig wires a fetcher with the robots gate, per-domain rate
// limiting, page caching, and text caps from cfg
func FromConfig(cfg *model.Config) *Fetcher {
	f := NewFetcher(
		cfg.HTTP.Timeout,
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS,
		cfg.HTTP.HTTPProxy,
		cfg.HTTP.HTTPSProxy,
		cfg.HTTP.NoProxy,
	)
	if cfg.Fetch.MaxTextChars > 0 {
		f.maxText = cfg.Fetch.MaxTextChars
	}
	f.fetchWorkers = cfg.Concurrency.FetchWorkers
	if cfg.Fetch.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}
	f.limiter = worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	f.cache = cache.New(cfg.Cache)
	return f
}

// Page is one fetched and extracted prospect page
type Page struct {
	URL         string    `json:"url"`       // Requested URL
	FinalURL    string    `json:"final_url"` // After redirects
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"` // <meta name="description">
	Text        string    `json:"text"`                  // Visible text, whitespace-collapsed, capped
	StatusCode  int       `json:"status_code"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Fetch retrieves and extracts a single page, consulting the cache,
// robots.txt, and the per-domain rate limit first
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if f.cache != nil {
		if data, found := f.cache.Get(cache.PageKey(rawURL)); found {
			var page Page
			if err := json.Unmarshal(data, &page); err == nil {
				return &page, nil
			}
		}
	}

	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
		}
		crawlDelay = delay
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title, description, text, err := ExtractPage(string(body), f.maxText)
	if err != nil {
		return nil, fmt.Errorf("extract page: %w", err)
	}

	page := &Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		Title:       title,
		Description: description,
		Text:        text,
		StatusCode:  resp.StatusCode,
		FetchedAt:   time.Now().UTC(),
	}

	if f.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			_ = f.cache.Set(cache.PageKey(rawURL), data, 0)
		}
	}

	return page, nil
}

// FetchWithRetry fetches with exponential backoff on transient failures
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Page, error) {
	var page *Page
	var err error

	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		page, err = f.Fetch(ctx, rawURL)
		if err == nil || !isRetryableFetchError(err) {
			return page, err
		}
		if attempt < fetchMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			fetchSleepFunc(backoff)
		}
	}

	return page, err
}

// isRetryableFetchError reports whether the failure is transient:
// 5xx and 429 statuses and network-level connection errors retry,
// other HTTP statuses and request/body errors do not.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	if idx := strings.Index(msg, "unexpected status: "); idx >= 0 {
		rest := msg[idx+len("unexpected status: "):]
		if len(rest) >= 3 {
			if code, convErr := strconv.Atoi(rest[:3]); convErr == nil {
				return code >= 500 || code == http.StatusTooManyRequests
			}
		}
		return false
	}

	s := strings.ToLower(msg)
	if !strings.HasPrefix(s, "fetch:") {
		return false
	}
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "timeout")
}

// Result pairs a planned URL with its fetch outcome
type Result struct {
	URL  string
	Page *Page
	Err  error
}

// FetchAll fetches the planned URLs concurrently under a semaphore,
// preserving input order in the results. A failed URL yields a Result
// with Err set; it never aborts the batch.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []Result {
	if len(urls) == 0 {
		return []Result{}
	}

	workers := f.fetchWorkers
	if workers <= 0 {
		workers = 3
	}

	results := make([]Result, len(urls))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, rawURL := range urls {
		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = Result{URL: rawURL, Err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			page, err := f.FetchWithRetry(ctx, rawURL)
			results[idx] = Result{URL: rawURL, Page: page, Err: err}
		}(i, rawURL)
	}

	wg.Wait()

	return results
}

// PlanURLs picks the URL list for one capture: the website first, then
// extras, deduplicated by normalized URL and capped at max. Bare hosts
// default to https.
func PlanURLs(website string, extras []string, max int) []string {
	if max <= 0 {
		max = 3
	}

	var plan []string
	seen := make(map[string]bool)

	for _, raw := range append([]string{website}, extras...) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key := normalizeURL(raw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		plan = append(plan, ensureScheme(raw))
		if len(plan) == max {
			break
		}
	}

	return plan
}

// Domain extracts the account domain from a URL: lowercased host with
// any www. prefix stripped
func Domain(rawURL string) (string, error) {
	parsed, err := url.Parse(ensureScheme(strings.TrimSpace(rawURL)))
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}

	return host, nil
}

func normalizeURL(raw string) string {
	parsed, err := url.Parse(ensureScheme(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	return host + strings.TrimSuffix(parsed.Path, "/")
}

func ensureScheme(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}
