// Package ledger tracks the first-observed date of every asset and
// domain identity key across runs. Dates are recorded once and never
// rewritten, even if an asset disappears and reappears later.
// Entries are never pruned here; retention is an external policy.
package ledger

import (
	"errors"
	"fmt"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/persistence/statefile"
)

// Ledger maps identity keys to first-seen YYYY-MM-DD dates.
// The zero value is a valid empty ledger (bootstrap case).
type Ledger struct {
	Assets  map[string]string `json:"assets"`
	Domains map[string]string `json:"domains"`
}

// Load reads the ledger from path. A missing file yields an empty
// ledger. Corrupt content also yields an empty ledger together with
// an error wrapping statefile.ErrCorrupt, so the caller can warn
// and continue: discovery tracking is best effort, never fatal.
func Load(path string) (l Ledger, err error) {
	err = statefile.Load(path, &l)
	if errors.Is(err, statefile.ErrCorrupt) {
		return Ledger{}.withMaps(), err
	} else if err != nil {
		return l, fmt.Errorf("loading ledger: %w", err)
	}
	return l.withMaps(), nil
}

func (l Ledger) withMaps() Ledger {
	if l.Assets == nil {
		l.Assets = make(map[string]string)
	}
	if l.Domains == nil {
		l.Domains = make(map[string]string)
	}
	return l
}

func (l Ledger) Save(path string) (err error) {
	return statefile.Save(path, l)
}

// Advance records today's date for every identity key absent from
// the ledger, and stamps all given assets and domains with their
// ledger date. Existing ledger dates are never changed and keys
// absent from the current inventory are retained untouched.
// The given slices are modified in place.
func (l Ledger) Advance(assets []models.Asset,
	domains []models.Domain, today string) {
	for i, asset := range assets {
		key := asset.Key()
		date, known := l.Assets[key]
		if !known {
			date = firstDate(asset.DiscoveryDate, today)
			l.Assets[key] = date
		}
		assets[i].DiscoveryDate = date
	}

	for i, domain := range domains {
		key := domain.Key()
		date, known := l.Domains[key]
		if !known {
			date = firstDate(domain.DiscoveryDate, today)
			l.Domains[key] = date
		}
		domains[i].DiscoveryDate = date
	}
}

// firstDate keeps a date already carried by the record, for example
// from a previous master inventory, and falls back to today.
func firstDate(carried, today string) string {
	if carried != "" && carried < today {
		return carried
	}
	return today
}
