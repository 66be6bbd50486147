// Package vlchttp provides a client for VLC's HTTP control interface.
//
// # Overview
//
// VLC ships a small web interface (the "Lua HTTP" interface) that exposes
// the player's status as JSON and accepts playback commands as query
// parameters. This package wraps the two endpoints that matter for remote
// control:
//
//   - GET /requests/status.json            current player status
//   - GET /requests/status.xml?command=... playback commands
//
// Both endpoints require HTTP Basic authentication with an empty user name
// and the password configured in VLC (Preferences > Interface > Main
// interfaces > Lua > Lua HTTP > Password).
//
// # Quick Start
//
//	client, err := vlchttp.NewClient(vlchttp.Config{
//	    BaseURL:  "http://localhost:8080",
//	    Password: "secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	status, err := client.Status(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(status.State, status.Title)
//
//	// Toggle between play and pause
//	err = client.TogglePause(ctx)
//
// # Error Handling
//
// Non-2xx responses are returned as *Error. Authentication failures match
// ErrUnauthorized:
//
//	if errors.Is(err, vlchttp.ErrUnauthorized) {
//	    // wrong password
//	}
//
// A status body without a "state" field is reported as ErrMalformedStatus.
//
// # Retries
//
// The client never retries. Callers that poll the player are expected to
// treat a failed request as "no information this round" and try again on
// their next poll.
//
// # Configuration
//
// A custom HTTP client can be supplied to change timeouts or transport:
//
//	client, err := vlchttp.NewClient(vlchttp.Config{
//	    Password:   "secret",
//	    HTTPClient: &http.Client{Timeout: 2 * time.Second},
//	    Logger:     myLogger, // Implements vlchttp.Logger interface
//	})
package vlchttp
