package usecase

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	ErrRunRecentlySubmitted = errors.New("listing has been submitted recently and force is false")
	ErrInvalidCount         = errors.New("count must be a positive integer")
	ErrInvalidURL           = errors.New("url must be an absolute http(s) URL")
)

// validateSourceURL accepts absolute http and https URLs with a host.
func validateSourceURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}
