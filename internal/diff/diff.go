// Package diff computes newly-appeared inventory items against a
// per-consumer acknowledged snapshot. The comparison is on identity
// key presence only: field or status changes on an already-known key
// are deliberately not reported as new, consistently across all
// consumers.
package diff

import (
	"errors"
	"fmt"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/persistence/statefile"
)

// Snapshot is a point-in-time copy of the inventory keyed by
// identity, used only for diffing.
type Snapshot struct {
	Assets  map[string]models.Asset  `json:"assets"`
	Domains map[string]models.Domain `json:"domains"`
}

// Capture builds a snapshot from the current inventory.
func Capture(assets []models.Asset, domains []models.Domain) (s Snapshot) {
	s.Assets = make(map[string]models.Asset, len(assets))
	for _, asset := range assets {
		s.Assets[asset.Key()] = asset
	}
	s.Domains = make(map[string]models.Domain, len(domains))
	for _, domain := range domains {
		s.Domains[domain.Key()] = domain
	}
	return s
}

// NewAssets returns the assets whose identity key exists in s but
// not in lastAcknowledged, sorted for stable output.
func (s Snapshot) NewAssets(lastAcknowledged Snapshot) (newAssets []models.Asset) {
	for key, asset := range s.Assets {
		_, known := lastAcknowledged.Assets[key]
		if !known {
			newAssets = append(newAssets, asset)
		}
	}
	models.SortAssets(newAssets)
	return newAssets
}

// NewDomains returns the domains whose identity key exists in s but
// not in lastAcknowledged, sorted for stable output.
func (s Snapshot) NewDomains(lastAcknowledged Snapshot) (newDomains []models.Domain) {
	for key, domain := range s.Domains {
		_, known := lastAcknowledged.Domains[key]
		if !known {
			newDomains = append(newDomains, domain)
		}
	}
	models.SortDomains(newDomains)
	return newDomains
}

// LoadSnapshot reads a consumer's acknowledged snapshot from path.
// Missing and corrupt files both yield an empty snapshot; corruption
// additionally returns an error wrapping statefile.ErrCorrupt for
// the caller to warn about. An empty snapshot makes every current
// item "new", which only re-notifies, never loses data.
func LoadSnapshot(path string) (s Snapshot, err error) {
	err = statefile.Load(path, &s)
	if errors.Is(err, statefile.ErrCorrupt) {
		return Snapshot{}, err
	} else if err != nil {
		return s, fmt.Errorf("loading snapshot: %w", err)
	}
	return s, nil
}

// SaveSnapshot persists a consumer's acknowledged snapshot. It must
// only be called after a successful notification dispatch, so failed
// dispatches retry the same new items on the next cycle.
func SaveSnapshot(path string, s Snapshot) (err error) {
	return statefile.Save(path, s)
}
