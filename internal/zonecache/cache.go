// Package zonecache persists the mapping from registrable domain
// names to provider-internal zone identifiers, so the zone lookup
// network call is skipped while an entry is fresh. "No zone found"
// outcomes are cached as well (negative caching) so a domain absent
// from the provider is not re-queried on every run.
package zonecache

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/qdm12/dns-inventory/internal/persistence/statefile"
)

type Cache struct {
	path    string
	ttl     time.Duration
	timeNow func() time.Time

	mutex   sync.Mutex
	entries map[string]entry
}

type entry struct {
	ZoneID string `json:"zone_id,omitempty"`
	// NotFound marks a cached negative lookup outcome.
	NotFound   bool      `json:"not_found,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

type Settings struct {
	// Path is the JSON cache file path, persisted across runs.
	Path string
	// TTL is the freshness window; entries older than it are
	// treated as absent and re-resolved.
	TTL     time.Duration
	TimeNow func() time.Time
}

func New(settings Settings) *Cache {
	if settings.TimeNow == nil {
		settings.TimeNow = time.Now
	}
	return &Cache{
		path:    settings.Path,
		ttl:     settings.TTL,
		timeNow: settings.TimeNow,
		entries: make(map[string]entry),
	}
}

// Load reads the cache file. Corrupt content is returned as an error
// wrapping statefile.ErrCorrupt and the cache starts empty; the
// caller logs a warning and continues.
func (c *Cache) Load() (err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries := make(map[string]entry)
	err = statefile.Load(c.path, &entries)
	switch {
	case errors.Is(err, statefile.ErrCorrupt):
		c.entries = make(map[string]entry)
		return err
	case err != nil:
		return fmt.Errorf("loading zone cache: %w", err)
	}
	c.entries = entries
	return nil
}

func (c *Cache) Save() (err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return statefile.Save(c.path, c.entries)
}

// Lookup returns the cached zone id for the domain.
// ok is false when there is no entry or the entry is stale.
// negative reports a fresh "no zone found" outcome, in which case
// zoneID is empty and ok is true.
func (c *Cache) Lookup(domain string) (zoneID string, negative, ok bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, found := c.entries[normalize(domain)]
	if !found {
		return "", false, false
	}

	stale := c.timeNow().Sub(e.CapturedAt) > c.ttl
	if stale {
		return "", false, false
	}

	return e.ZoneID, e.NotFound, true
}

// SetZone records a resolved zone identifier for the domain,
// captured at the current time.
func (c *Cache) SetZone(domain, zoneID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[normalize(domain)] = entry{
		ZoneID:     zoneID,
		CapturedAt: c.timeNow(),
	}
}

// SetNotFound records a negative lookup outcome for the domain.
func (c *Cache) SetNotFound(domain string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[normalize(domain)] = entry{
		NotFound:   true,
		CapturedAt: c.timeNow(),
	}
}

func normalize(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
