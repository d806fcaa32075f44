package scanner

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

// APIScanConfig configures HTTP endpoint scanning.
type APIScanConfig struct {
	Method          string
	Headers         map[string]string
	Body            string
	TimeoutSecs     int
	FollowRedirects bool
	MaxRedirects    int
	ScanHeaders     bool
}

// DefaultAPIScanConfig returns the defaults: GET, 30 s timeout, up to
// 10 redirects, response headers not scanned.
func DefaultAPIScanConfig() APIScanConfig {
	return APIScanConfig{
		Method:          http.MethodGet,
		TimeoutSecs:     30,
		FollowRedirects: true,
		MaxRedirects:    10,
	}
}

// ScanEndpoint fetches one HTTP endpoint and scans the response body
// (and optionally the headers) as a pseudo-file whose path is the URL.
// Transport failures, timeouts, and non-2xx responses are recorded in
// the FileResult error; the scan continues across other endpoints.
func (e *Engine) ScanEndpoint(endpoint string, cfg APIScanConfig) detection.FileResult {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return detection.FileResultError(endpoint, fmt.Sprintf("Invalid URL: %v", err))
	}

	method := strings.ToUpper(cfg.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if cfg.Body != "" {
		body = strings.NewReader(cfg.Body)
	}

	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return detection.FileResultError(endpoint, fmt.Sprintf("Failed to build request: %v", err))
	}
	for key, value := range cfg.Headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if cfg.MaxRedirects > 0 {
		maxRedirects := cfg.MaxRedirects
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	}

	log.Debug().Str("url", endpoint).Str("method", method).Msg("scanning API endpoint")

	resp, err := client.Do(req)
	if err != nil {
		// Timeouts are reported distinctly from other transport errors.
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return detection.FileResultError(endpoint,
				fmt.Sprintf("Request timed out after %d seconds", cfg.TimeoutSecs))
		}
		return detection.FileResultError(endpoint, fmt.Sprintf("Request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return detection.FileResultError(endpoint,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return detection.FileResultError(endpoint, fmt.Sprintf("Failed to read response body: %v", err))
	}

	text := string(data)
	if cfg.ScanHeaders {
		var headerText strings.Builder
		for key, values := range resp.Header {
			fmt.Fprintf(&headerText, "%s: %s\n", key, strings.Join(values, ", "))
		}
		text = headerText.String() + "\n" + text
	}

	return e.ScanText(endpoint, text)
}

// ScanEndpoints scans several endpoints sequentially and aggregates
// the results. Failing endpoints contribute error-only FileResults.
func (e *Engine) ScanEndpoints(endpoints []string, cfg APIScanConfig) detection.ScanResults {
	start := time.Now()

	results := make([]detection.FileResult, 0, len(endpoints))
	for _, endpoint := range endpoints {
		results = append(results, e.ScanEndpoint(endpoint, cfg))
	}

	scanResults := detection.Aggregate(results)
	scanResults.TotalTimeMs = uint64(time.Since(start).Milliseconds())
	return scanResults
}
