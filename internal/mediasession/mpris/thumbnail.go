package mpris

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tidewave-io/tidewave/internal/mediasession"
)

// artClient fetches remote cover art. MPRIS art URLs are served by the
// players themselves or their CDNs and occasionally flake, so a couple
// of quiet retries are worth it.
var artClient = newArtClient()

func newArtClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 1 * time.Second
	c.HTTPClient.Timeout = 15 * time.Second
	c.Logger = nil
	return c
}

// artSource resolves an mpris:artUrl into a byte stream. file:// and
// http(s):// schemes are supported; anything else is reported as an
// open failure and the cycle continues without cover art.
type artSource struct {
	url string
}

var _ mediasession.ThumbnailSource = (*artSource)(nil)

func (a *artSource) Open(ctx context.Context) (io.ReadCloser, error) {
	u, err := url.Parse(a.url)
	if err != nil {
		return nil, fmt.Errorf("parse art url %q: %w", a.url, err)
	}

	switch u.Scheme {
	case "file":
		return os.Open(u.Path)
	case "http", "https":
		req, err := retryablehttp.NewRequestWithContext(ctx, "GET", a.url, nil)
		if err != nil {
			return nil, fmt.Errorf("build art request: %w", err)
		}
		resp, err := artClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch art %q: %w", a.url, err)
		}
		if resp.StatusCode != 200 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch art %q: status %d", a.url, resp.StatusCode)
		}
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("unsupported art url scheme %q", u.Scheme)
	}
}
