//go:build !linux && !darwin && !windows

package media

// NewSource creates a new platform-specific session source.
// This is the fallback for unsupported platforms.
func NewSource() (Source, error) {
	return nil, ErrUnsupportedPlatform
}
