package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Fetch struct {
	PageSize    *uint16
	MinDelay    time.Duration
	MaxAttempts *uint16
	Concurrency *uint16
	// ZoneCacheTTL is how long a cached Cloudflare zone
	// resolution stays fresh.
	ZoneCacheTTL time.Duration
}

var (
	ErrFetchPageSizeZero    = errors.New("FETCH_PAGE_SIZE cannot be zero")
	ErrFetchMaxAttemptsZero = errors.New("FETCH_MAX_ATTEMPTS cannot be zero")
	ErrFetchConcurrencyZero = errors.New("FETCH_CONCURRENCY cannot be zero")
)

func (f *Fetch) setDefaults() {
	const defaultPageSize = 100
	f.PageSize = gosettings.DefaultPointer(f.PageSize, defaultPageSize)
	const defaultMinDelay = 200 * time.Millisecond
	f.MinDelay = gosettings.DefaultComparable(f.MinDelay, defaultMinDelay)
	const defaultMaxAttempts = 3
	f.MaxAttempts = gosettings.DefaultPointer(f.MaxAttempts, defaultMaxAttempts)
	const defaultConcurrency = 4
	f.Concurrency = gosettings.DefaultPointer(f.Concurrency, defaultConcurrency)
	const defaultZoneCacheTTL = 7 * 24 * time.Hour
	f.ZoneCacheTTL = gosettings.DefaultComparable(f.ZoneCacheTTL, defaultZoneCacheTTL)
}

func (f Fetch) Validate() (err error) {
	switch {
	case *f.PageSize == 0:
		return fmt.Errorf("%w", ErrFetchPageSizeZero)
	case *f.MaxAttempts == 0:
		return fmt.Errorf("%w", ErrFetchMaxAttemptsZero)
	case *f.Concurrency == 0:
		return fmt.Errorf("%w", ErrFetchConcurrencyZero)
	}
	return nil
}

func (f Fetch) String() string {
	return f.toLinesNode().String()
}

func (f Fetch) toLinesNode() *gotree.Node {
	node := gotree.New("Fetch")
	node.Appendf("Page size: %d", *f.PageSize)
	node.Appendf("Minimum delay between requests: %s", f.MinDelay)
	node.Appendf("Maximum attempts per request: %d", *f.MaxAttempts)
	node.Appendf("Concurrency: %d", *f.Concurrency)
	node.Appendf("Zone cache TTL: %s", f.ZoneCacheTTL)
	return node
}

func (f *Fetch) read(r *reader.Reader, warner Warner) (err error) {
	f.PageSize, err = r.Uint16Ptr("FETCH_PAGE_SIZE")
	if err != nil {
		return err
	}
	const cloudflareMaxPageSize = 1000
	if f.PageSize != nil && *f.PageSize > cloudflareMaxPageSize {
		warner.Warnf("FETCH_PAGE_SIZE %d will be capped to %d for Cloudflare",
			*f.PageSize, cloudflareMaxPageSize)
	}

	f.MinDelay, err = r.Duration("FETCH_PAGE_MIN_DELAY")
	if err != nil {
		return err
	}

	f.MaxAttempts, err = r.Uint16Ptr("FETCH_MAX_ATTEMPTS")
	if err != nil {
		return err
	}

	f.Concurrency, err = r.Uint16Ptr("FETCH_CONCURRENCY")
	if err != nil {
		return err
	}

	f.ZoneCacheTTL, err = r.Duration("ZONE_CACHE_TTL")
	return err
}
