package vlchttp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Status fetches the current player status.
//
// Returns *Error for non-2xx responses and ErrMalformedStatus when the body
// is not JSON or lacks a "state" field.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	body, err := c.get(ctx, statusPath, nil)
	if err != nil {
		return nil, err
	}

	return parseStatus(body)
}

// parseStatus extracts the fields of interest from a status.json body.
func parseStatus(body []byte) (*Status, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedStatus)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrMalformedStatus)
	}

	state := root.Get("state")
	if !state.Exists() || state.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing state", ErrMalformedStatus)
	}

	meta := root.Get("information.category.meta")

	return &Status{
		State:      state.String(),
		Volume:     int(root.Get("volume").Int()),
		Time:       time.Duration(root.Get("time").Int()) * time.Second,
		Length:     time.Duration(root.Get("length").Int()) * time.Second,
		Position:   root.Get("position").Float(),
		Fullscreen: root.Get("fullscreen").Bool(),
		Random:     root.Get("random").Bool(),
		Loop:       root.Get("loop").Bool(),
		Repeat:     root.Get("repeat").Bool(),
		Version:    root.Get("version").String(),
		Title:      meta.Get("title").String(),
		Filename:   meta.Get("filename").String(),
		Artist:     meta.Get("artist").String(),
	}, nil
}

// Command sends a playback command. The response body is discarded; only
// transport success and the HTTP status matter.
func (c *Client) Command(ctx context.Context, cmd Command, params url.Values) error {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("command", string(cmd))

	if _, err := c.get(ctx, commandPath, query); err != nil {
		return fmt.Errorf("command %s: %w", cmd, err)
	}
	return nil
}

// TogglePause flips VLC between playing and paused, whatever its current
// state is.
func (c *Client) TogglePause(ctx context.Context) error {
	return c.Command(ctx, CmdTogglePause, nil)
}

// SetVolume sets the raw VLC volume (0-512, 256 is 100%).
func (c *Client) SetVolume(ctx context.Context, level int) error {
	if level < 0 || level > 512 {
		return fmt.Errorf("volume level must be between 0 and 512, got %d", level)
	}
	return c.Command(ctx, CmdVolume, url.Values{"val": {strconv.Itoa(level)}})
}
