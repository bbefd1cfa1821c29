package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/habedi/showcase/catalog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// --- HTTP Helper Functions (kept private) ---

const maxAttempts = 3

// retryBackoff is the pause before the first retry; it doubles on every further attempt.
var retryBackoff = time.Second

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// createRequest creates a GET request that asks for JSON.
func createRequest(ctx context.Context, urlStr string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		log.Error().Err(err).Str("url", urlStr).Msg("Failed to create HTTP request object")
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// sendRequest sends an HTTP request through client and checks status.
// Server errors (5xx) are retried with exponential backoff; other non-2xx statuses fail at once.
func sendRequest(client *http.Client, req *http.Request) (*http.Response, error) {
	backoff := retryBackoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("attempt", attempt).Msg("Sending HTTP request")
		resp, err := client.Do(req)
		if err != nil {
			log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
			return nil, err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			log.Debug().Str("url", req.URL.String()).Int("status", resp.StatusCode).Msg("HTTP request successful")
			return resp, nil
		}

		bodyBytes, readErr := io.ReadAll(resp.Body)
		bodyStr := ""
		if readErr == nil {
			bodyStr = string(bodyBytes)
		}
		resp.Body.Close()
		lastErr = fmt.Errorf("unexpected HTTP status: %d %s. Body: %s", resp.StatusCode, http.StatusText(resp.StatusCode), bodyStr)
		log.Error().Str("url", req.URL.String()).Int("status", resp.StatusCode).Str("body", bodyStr).Msg("HTTP request returned non-OK status")

		if resp.StatusCode < 500 || attempt == maxAttempts {
			break
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return nil, err
	}
	return body, nil
}

// readResponseBodyWithProgress reads the body while drawing a byte progress bar to w.
// Unknown content lengths show a spinner instead.
func readResponseBodyWithProgress(resp *http.Response, w io.Writer) ([]byte, error) {
	defer resp.Body.Close()
	bar := progressbar.NewOptions64(
		resp.ContentLength,
		progressbar.OptionSetDescription("Fetching catalogue"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSpinnerType(14),
	)
	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(&buf, bar), resp.Body); err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return nil, err
	}
	_ = bar.Finish()
	return buf.Bytes(), nil
}

// --- Catalogue sources ---

// HTTPSource fetches the catalogue document from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
	// Progress, when set, receives a download progress bar.
	Progress io.Writer
}

// Fetch retrieves and parses the catalogue document.
func (s *HTTPSource) Fetch(ctx context.Context) (catalog.Catalog, error) {
	log.Info().Str("url", s.URL).Msg("Fetching catalogue")
	req, err := createRequest(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for catalogue: %w", err)
	}

	client := s.Client
	if client == nil {
		client = defaultHTTPClient
	}
	resp, err := sendRequest(client, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request for catalogue: %w", err)
	}

	var body []byte
	if s.Progress != nil {
		body, err = readResponseBodyWithProgress(resp, s.Progress)
	} else {
		body, err = readResponseBody(resp)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue response body: %w", err)
	}

	c, err := catalog.Parse(body)
	if err != nil {
		log.Error().Err(err).Str("body_preview", string(body[:min(len(body), 200)])).Msg("Failed to parse catalogue JSON")
		return nil, err
	}
	log.Info().Int("entries", len(c)).Msg("Successfully fetched and parsed catalogue")
	return c, nil
}
