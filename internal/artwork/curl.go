package artwork

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// CurlUploader shells out to curl for the actual HTTP transfer. The
// image bytes are staged in a uniquely named temp file which is removed
// regardless of outcome. The subprocess is waited on synchronously;
// the upload step of a cycle blocks until it exits.
type CurlUploader struct {
	// Host is the upload endpoint, e.g. "http://0x0.st".
	Host string
	// Expiry is how long the host should keep the image.
	Expiry time.Duration
}

var _ Uploader = (*CurlUploader)(nil)

// Upload writes data to a temp file and posts it via curl. The
// combined stdout/stderr of the subprocess is the result text: a bare
// URL on success, whatever curl printed otherwise.
func (u *CurlUploader) Upload(ctx context.Context, data []byte) string {
	tempFile := filepath.Join(os.TempDir(), "tidewave_"+uuid.NewString()+".png")
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Sprintf("%s could not stage temp file: %v", MarkerError, err)
	}
	defer os.Remove(tempFile)

	expiresAt := time.Now().Add(u.Expiry).UnixMilli()
	cmd := exec.CommandContext(ctx, "curl", "-s",
		"-F", fmt.Sprintf("file=@%s", tempFile),
		"-F", fmt.Sprintf("expires=%d", expiresAt),
		u.Host,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Sprintf("%s curl failed: %v", MarkerError, err)
	}
	return trimTrailingNewlines(string(out))
}
