package vlchttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
)

// maxBodySize caps how much of a response is read. status.json is a few KB
// even with large playlists' metadata.
const maxBodySize = 1 << 20

// get performs one authenticated GET against the VLC HTTP interface.
//
// It handles:
// - Request construction with Basic auth (empty user, configured password)
// - Status code checking (non-2xx becomes *Error)
// - Context cancellation
//
// There is no retry: a failed request is reported to the caller as-is.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	c.logDebugf("vlchttp: GET %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth("", c.password)
	req.Header.Set("User-Agent", "hush/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	c.logDebugf("vlchttp: GET %s succeeded (%d bytes)", path, len(body))
	return body, nil
}

// IsUnreachable reports whether err means VLC could not be reached at all
// (connection refused, timeout, DNS failure), as opposed to VLC answering
// with an error.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}

	// *url.Error implements net.Error, so any failure from the HTTP client
	// itself lands here; *Error responses do not.
	var netErr net.Error
	return errors.As(err, &netErr)
}
