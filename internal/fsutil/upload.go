package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// ErrEmptyBody is returned when the upload endpoint answered with an
// empty response body; the transport succeeded but the receiver gave no
// acknowledgement.
var ErrEmptyBody = errors.New("fsutil: empty body")

// UploadFile POSTs the file at path to uploadURL. Transport and HTTP
// failures are returned to the caller; an empty response body counts as
// a failure of its own.
func UploadFile(ctx context.Context, path, uploadURL string) error {
	if err := IsRegularFile(path); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("fsutil: open %s: %w", path, err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, f)
	if err != nil {
		return fmt.Errorf("fsutil: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fsutil: upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fsutil: upload %s: unexpected status %s", path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fsutil: read upload response: %w", err)
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}
	return nil
}
