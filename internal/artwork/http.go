package artwork

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// HTTPUploader posts the image directly, no curl involved. Same result
// contract as CurlUploader so the two are interchangeable via the
// "artwork.uploader" setting.
type HTTPUploader struct {
	Host   string
	Expiry time.Duration

	client *retryablehttp.Client
}

var _ Uploader = (*HTTPUploader)(nil)

// NewHTTPUploader builds an uploader with a conservative retry policy.
func NewHTTPUploader(host string, expiry time.Duration) *HTTPUploader {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 3 * time.Second
	c.HTTPClient.Timeout = 60 * time.Second
	c.Logger = nil
	return &HTTPUploader{Host: host, Expiry: expiry, client: c}
}

// Upload posts data as a multipart form ("file" + "expires" fields,
// the same shape the curl invocation produces).
func (u *HTTPUploader) Upload(ctx context.Context, data []byte) string {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", "cover.png")
	if err != nil {
		return fmt.Sprintf("%s build form: %v", MarkerError, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Sprintf("%s write form: %v", MarkerError, err)
	}
	expiresAt := time.Now().Add(u.Expiry).UnixMilli()
	if err := form.WriteField("expires", strconv.FormatInt(expiresAt, 10)); err != nil {
		return fmt.Sprintf("%s write form: %v", MarkerError, err)
	}
	if err := form.Close(); err != nil {
		return fmt.Sprintf("%s close form: %v", MarkerError, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", u.Host, body.Bytes())
	if err != nil {
		return fmt.Sprintf("%s build request: %v", MarkerError, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Sprintf("%s post failed: %v", MarkerError, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("%s read response: %v", MarkerError, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Sprintf("%s host returned %d: %s", MarkerError, resp.StatusCode, trimTrailingNewlines(string(out)))
	}
	return trimTrailingNewlines(string(out))
}
