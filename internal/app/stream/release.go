//go:generate mockgen -source=release.go -destination=release_mock.go -package=stream
package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"porter/internal/app/errors"
	"porter/internal/config"
	"porter/internal/config/logger"
)

// Releaser tells the backend a stream for a machine can be torn down
type Releaser interface {
	Release(ctx context.Context, machineID string) error
}

type httpReleaser struct {
	client  *http.Client
	baseURL string
	token   string
	log     logger.Logger
}

// NewReleaser creates a releaser for the configured backend
func NewReleaser(cfg *config.Config, log logger.Logger) Releaser {
	return &httpReleaser{
		client:  &http.Client{Timeout: cfg.Stream.ReleaseTimeout},
		baseURL: cfg.API.URL,
		token:   cfg.API.Token,
		log:     log.WithComponent("RELEASE"),
	}
}

// Release posts the stop notification; the response body is ignored
func (r *httpReleaser) Release(ctx context.Context, machineID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, streamURL(r.baseURL, machineID)+"/stop", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToCreateRequest, err)
	}

	setAuth(req, r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrFailedToRelease, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %w: %d", errors.ErrFailedToRelease, errors.ErrUnexpectedStatus, resp.StatusCode)
	}

	r.log.Debug().Str("machine", machineID).Msg("Stream released")

	return nil
}
