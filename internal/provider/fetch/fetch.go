// Package fetch provides the request plumbing shared by provider
// clients: JSON decoding with structural validation, retries with
// capped exponential backoff and a minimum delay between consecutive
// requests to one provider.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdm12/dns-inventory/internal/provider/errors"
	"github.com/qdm12/dns-inventory/internal/provider/utils"
)

// Fetcher issues paced, retried GET requests for one provider.
// It is safe for concurrent use; the pacing applies across all
// goroutines fetching from the same provider.
type Fetcher struct {
	client      *http.Client
	minDelay    time.Duration
	maxAttempts uint64
	timeNow     func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error

	mutex       sync.Mutex
	lastRequest time.Time
}

type Settings struct {
	Client *http.Client
	// MinDelay is the minimum delay between two consecutive
	// requests to the provider.
	MinDelay time.Duration
	// MaxAttempts is the number of attempts for a single page
	// request before giving up.
	MaxAttempts uint64
}

func New(settings Settings) *Fetcher {
	return &Fetcher{
		client:      settings.Client,
		minDelay:    settings.MinDelay,
		maxAttempts: settings.MaxAttempts,
		timeNow:     time.Now,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return ctx.Err()
	}
}

// pace blocks until at least minDelay has elapsed since the
// previous request left, so sequential pagination and concurrent
// per-domain fetches respect the provider rate limit together.
func (f *Fetcher) pace(ctx context.Context) (err error) {
	f.mutex.Lock()
	now := f.timeNow()
	wait := f.minDelay - now.Sub(f.lastRequest)
	if wait < 0 {
		wait = 0
	}
	f.lastRequest = now.Add(wait)
	f.mutex.Unlock()

	if wait == 0 {
		return nil
	}
	return f.sleep(ctx, wait)
}

// JSONGet fetches the url and decodes the response body into target.
// Transport errors, HTTP 429, 5xx statuses and malformed JSON bodies
// are retried with capped exponential backoff up to MaxAttempts; other
// non-2xx statuses fail immediately. The response headers are returned
// for pagination links.
func (f *Fetcher) JSONGet(ctx context.Context, url string,
	setHeaders func(request *http.Request), target any) (
	header http.Header, err error) {
	operation := func() error {
		err = f.pace(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}

		header, err = f.jsonGetOnce(ctx, url, setHeaders, target)
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 250 * time.Millisecond
	expBackoff.MaxInterval = 4 * time.Second
	expBackoff.MaxElapsedTime = 0
	retryPolicy := backoff.WithContext(
		backoff.WithMaxRetries(expBackoff, f.maxAttempts-1), ctx)

	err = backoff.Retry(operation, retryPolicy)
	if err != nil {
		return nil, err
	}
	return header, nil
}

func (f *Fetcher) jsonGetOnce(ctx context.Context, url string,
	setHeaders func(request *http.Request), target any) (
	header http.Header, err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating http request: %w", err))
	}
	setHeaders(request)

	response, err := f.client.Do(request)
	if err != nil {
		return nil, err // retried
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", errors.ErrRateLimited,
			utils.BodyToSingleLine(response.Body)) // retried
	case response.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %d: %s", errors.ErrBadHTTPStatus,
			response.StatusCode, utils.BodyToSingleLine(response.Body)) // retried
	case response.StatusCode < http.StatusOK ||
		response.StatusCode >= http.StatusMultipleChoices:
		return nil, backoff.Permanent(fmt.Errorf("%w: %d: %s",
			errors.ErrBadHTTPStatus, response.StatusCode,
			utils.BodyToSingleLine(response.Body)))
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err) // retried
	}

	err = json.Unmarshal(body, target)
	if err != nil {
		// A structurally invalid response is a fetch failure,
		// not silently skipped data.
		return nil, fmt.Errorf("%w: %s: %s", errors.ErrResponseMalformed,
			err, utils.ToSingleLine(string(body))) // retried
	}

	return response.Header, nil
}
