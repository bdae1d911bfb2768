package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrBodyTooLarge is returned by GetBytes when the response exceeds the limit.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// GetBytes fetches url and returns the body and its declared content type.
// At most limit bytes are accepted; a longer body yields ErrBodyTooLarge.
func GetBytes(ctx context.Context, url string, timeout time.Duration, limit int64) ([]byte, string, error) {
	client := http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("non-200 response: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(body)) > limit {
		return nil, "", ErrBodyTooLarge
	}
	return body, resp.Header.Get("Content-Type"), nil
}
