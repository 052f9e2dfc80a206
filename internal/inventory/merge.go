// Package inventory reconciles normalized assets from all providers
// into one canonical, deduplicated inventory.
package inventory

import (
	"strings"

	"github.com/qdm12/dns-inventory/internal/models"
)

// Merge combines asset batches into a deduplicated inventory keyed
// by asset identity. Records from different providers sharing an
// identity key collapse into one asset whose source becomes
// "multiple" and whose discovery date is the earliest seen.
// Merge is commutative and idempotent: batch order does not matter
// and merging a batch with itself changes nothing.
func Merge(batches ...[]models.Asset) (merged []models.Asset) {
	byKey := make(map[string]models.Asset)
	for _, batch := range batches {
		for _, asset := range batch {
			key := asset.Key()
			existing, found := byKey[key]
			if !found {
				byKey[key] = asset
				continue
			}
			byKey[key] = mergeAssets(existing, asset)
		}
	}

	merged = make([]models.Asset, 0, len(byKey))
	for _, asset := range byKey {
		merged = append(merged, asset)
	}
	models.SortAssets(merged)
	return merged
}

// mergeAssets merges two assets sharing an identity key. The
// representative fields are picked independently of argument order
// so the merge stays commutative even when providers disagree on
// letter casing.
func mergeAssets(a, b models.Asset) (merged models.Asset) {
	merged = a
	if lessAsset(b, a) {
		merged = b
	}
	if b.Source != a.Source {
		merged.Source = models.SourceMultiple
	}
	merged.DiscoveryDate = earliestDate(a.DiscoveryDate, b.DiscoveryDate)
	merged.Status = models.AssetStatusRemoved
	if a.Status == models.AssetStatusActive || b.Status == models.AssetStatusActive {
		merged.Status = models.AssetStatusActive
	}
	return merged
}

func lessAsset(a, b models.Asset) bool {
	tupleA := a.Domain + "\x00" + a.Owner + "\x00" + a.RecordType + "\x00" + a.Value
	tupleB := b.Domain + "\x00" + b.Owner + "\x00" + b.RecordType + "\x00" + b.Value
	return tupleA < tupleB
}

// earliestDate returns the earliest of two YYYY-MM-DD dates,
// ignoring empty values.
func earliestDate(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case b < a:
		return b
	default:
		return a
	}
}

// Reconcile applies the previous inventory to the freshly merged
// one: an asset present before but absent from the current run is
// retained with status "removed", but only if its source provider
// was reachable this run. An unreachable provider cannot confirm an
// absence, so its assets are carried over unchanged.
func Reconcile(current, previous []models.Asset,
	reachable map[models.Source]bool) (full []models.Asset) {
	currentKeys := make(map[string]struct{}, len(current))
	for _, asset := range current {
		currentKeys[asset.Key()] = struct{}{}
	}

	full = make([]models.Asset, len(current))
	copy(full, current)

	for _, old := range previous {
		_, stillPresent := currentKeys[old.Key()]
		if stillPresent {
			continue
		}
		if sourceReachable(old.Source, reachable) {
			old.Status = models.AssetStatusRemoved
		}
		full = append(full, old)
		currentKeys[old.Key()] = struct{}{}
	}

	models.SortAssets(full)
	return full
}

// sourceReachable reports whether every provider behind the source
// tag was reachable; a "multiple" asset needs both providers to
// confirm its absence.
func sourceReachable(source models.Source, reachable map[models.Source]bool) bool {
	if source == models.SourceMultiple {
		return reachable[models.SourceGoDaddy] && reachable[models.SourceCloudflare]
	}
	return reachable[source]
}

// MergeDomains combines the domain listings of all providers into
// one list keyed by case-normalized name. A domain listed by both
// providers keeps the registrar's (GoDaddy) status and is tagged
// with source "multiple".
func MergeDomains(batches ...[]models.Domain) (merged []models.Domain) {
	byKey := make(map[string]models.Domain)
	for _, batch := range batches {
		for _, domain := range batch {
			key := domain.Key()
			existing, found := byKey[key]
			if !found {
				byKey[key] = domain
				continue
			}
			byKey[key] = mergeDomains(existing, domain)
		}
	}

	merged = make([]models.Domain, 0, len(byKey))
	for _, domain := range byKey {
		merged = append(merged, domain)
	}
	models.SortDomains(merged)
	return merged
}

func mergeDomains(a, b models.Domain) (merged models.Domain) {
	merged = a
	if b.Name < a.Name { // order-insensitive representative
		merged = b
	}
	if b.Source != a.Source {
		merged.Source = models.SourceMultiple
		// registration status comes from the registrar
		switch models.SourceGoDaddy {
		case a.Source:
			merged.Status = a.Status
		case b.Source:
			merged.Status = b.Status
		}
	}
	merged.DiscoveryDate = earliestDate(a.DiscoveryDate, b.DiscoveryDate)
	return merged
}

// NoDataDomains returns the domains from the authoritative list
// without a single asset in the merged inventory, including domains
// that failed on one provider and were empty on the other.
func NoDataDomains(domains []models.Domain,
	assets []models.Asset) (noData []string) {
	domainsWithAssets := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		domainsWithAssets[strings.ToLower(asset.Domain)] = struct{}{}
	}

	for _, domain := range domains {
		_, found := domainsWithAssets[domain.Key()]
		if !found {
			noData = append(noData, domain.Name)
		}
	}
	return noData
}
