// Package remote provides a policy source asking an HTTP endpoint whether mutations are blocked.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/logging"
)

// ErrMissingFlag is returned when remote responds without block_mutations field.
var ErrMissingFlag = errors.New("remote response has no block_mutations field")

const (
	defaultRetryInitialInterval = 100 * time.Millisecond
	defaultRetryMaxInterval     = time.Second
	maxResponseBodySize         = 64 * 1024
	sourceLoggerContextTag      = "remote"
)

// Config represents config of remote policy source.
type Config struct {
	// URL answering GET with JSON like {"block_mutations": true}.
	URL     string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
	// User and Password enable basic auth when User is not empty.
	User     string
	Password string
	// MaxRetries is count of retries after the first failed attempt. Only network errors and 5xx responses are retried.
	MaxRetries           uint64
	RetryInitialInterval time.Duration `validate:"gte=0"`
	RetryMaxInterval     time.Duration `validate:"gte=0"`
}

func (config Config) validate() error {
	validator := validator.New()
	return validator.Struct(config)
}

type flagResponse struct {
	BlockMutations *bool `json:"block_mutations"`
}

// Source requests remote endpoint on every call.
type Source struct {
	config Config
	client *http.Client
	logger logging.Logger
}

// NewSource creates remote source.
func NewSource(config Config, logger logging.Logger) (*Source, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("remote policy source configuration error: %w", err)
	}
	if config.RetryInitialInterval == 0 {
		config.RetryInitialInterval = defaultRetryInitialInterval
	}
	if config.RetryMaxInterval == 0 {
		config.RetryMaxInterval = defaultRetryMaxInterval
	}

	return &Source{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.Clone().String(mutguard.LogFieldNamePolicySource, sourceLoggerContextTag),
	}, nil
}

// ShouldBlockMutations fetches flag from remote, retrying transient failures.
func (source *Source) ShouldBlockMutations(ctx context.Context) (bool, error) {
	attempt := 0
	operation := func() (bool, error) {
		attempt++
		blocked, err := source.fetch(ctx)
		if err != nil {
			source.logger.Warning().
				Error(err).
				String(mutguard.LogFieldNameRemoteURL, source.config.URL).
				Int(mutguard.LogFieldNameRemoteAttempt, attempt).
				Msg("Failed to fetch mutations state")
		}
		return blocked, err
	}

	return backoff.RetryWithData(operation, backoff.WithContext(source.newBackOff(), ctx))
}

func (source *Source) newBackOff() backoff.BackOff {
	backoffPolicy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(source.config.RetryInitialInterval),
		backoff.WithMaxInterval(source.config.RetryMaxInterval),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithMaxRetries(backoffPolicy, source.config.MaxRetries)
}

func (source *Source) fetch(ctx context.Context) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, source.config.URL, http.NoBody)
	if err != nil {
		return false, backoff.Permanent(err)
	}
	request.Header.Set("Accept", "application/json")
	if source.config.User != "" {
		request.SetBasicAuth(source.config.User, source.config.Password)
	}

	response, err := source.client.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return false, backoff.Permanent(err)
		}
		return false, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
	if err != nil {
		return false, err
	}

	if response.StatusCode >= http.StatusInternalServerError {
		return false, fmt.Errorf("remote server responded with %d: %s", response.StatusCode, string(body))
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return false, backoff.Permanent(fmt.Errorf("remote server responded with %d: %s", response.StatusCode, string(body)))
	}

	flag := flagResponse{}
	if err = json.Unmarshal(body, &flag); err != nil {
		return false, backoff.Permanent(fmt.Errorf("failed to decode remote response: %w", err))
	}
	if flag.BlockMutations == nil {
		return false, backoff.Permanent(ErrMissingFlag)
	}

	return *flag.BlockMutations, nil
}
