package vlchttp

import (
	"net/http"
	"strings"
	"time"
)

// Config holds client configuration.
type Config struct {
	BaseURL    string       // Optional: VLC HTTP interface address (defaults to DefaultBaseURL)
	Password   string       // Required: password configured for the VLC HTTP interface
	HTTPClient *http.Client // Optional: HTTP client (defaults to one with DefaultTimeout)
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client talks to a single VLC instance.
type Client struct {
	baseURL    string
	password   string
	httpClient *http.Client
	logger     Logger
}

const (
	// DefaultBaseURL is where VLC listens when the HTTP interface is enabled
	// with default settings.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout bounds every request made with the default HTTP client.
	DefaultTimeout = 3 * time.Second

	statusPath  = "/requests/status.json"
	commandPath = "/requests/status.xml"
)

// NewClient creates a new VLC HTTP client.
//
// Returns ErrNoPassword if no password is configured; VLC refuses
// unauthenticated requests so there is no point in building a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Password == "" {
		return nil, ErrNoPassword
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		password:   cfg.Password,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// BaseURL returns the address of the VLC HTTP interface.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
