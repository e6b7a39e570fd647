package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/llehouerou/wavecast/internal/errmsg"
)

const defaultUserAgent = "wavecast/1.0 (https://github.com/llehouerou/wavecast)"

// HTTPTransport fetches http(s) URLs with net/http. File URLs and relative
// references without a scheme are read from the local filesystem.
type HTTPTransport struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPTransport creates a transport with the given request timeout.
func NewHTTPTransport(timeout time.Duration, userAgent string) *HTTPTransport {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Get implements Transport.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrMalformedURL, err)
	}

	switch u.Scheme {
	case "file", "":
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errmsg.ErrFetchFailed, err)
		}
		return data, nil
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", errmsg.ErrMalformedURL, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", errmsg.ErrMalformedURL, err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status: %s", errmsg.ErrFetchFailed, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", errmsg.ErrNetworkUnavailable, err)
	}
	return data, nil
}
