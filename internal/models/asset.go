package models

import (
	"sort"
	"strings"
)

// Source is the provider an asset was discovered from.
type Source string

const (
	SourceGoDaddy    Source = "godaddy"
	SourceCloudflare Source = "cloudflare"
	// SourceMultiple marks an asset returned by more than
	// one provider for the same identity key.
	SourceMultiple Source = "multiple"
)

// AssetStatus is the lifecycle status of an asset.
type AssetStatus string

const (
	AssetStatusActive  AssetStatus = "active"
	AssetStatusRemoved AssetStatus = "removed"
)

// UnknownField is the placeholder used when a provider
// payload is missing an expected field.
const UnknownField = "unknown"

// Asset is one canonical, deduplicated DNS record tied to a domain.
type Asset struct {
	Domain     string `json:"domain"`
	// Owner is the subdomain label, "@" for the zone apex.
	Owner      string      `json:"owner"`
	RecordType string      `json:"record_type"`
	Value      string      `json:"value"`
	Source     Source      `json:"source"`
	Status     AssetStatus `json:"status"`
	// DiscoveryDate is the date the asset was first observed,
	// formatted as YYYY-MM-DD. It is set once and never rewritten.
	DiscoveryDate string `json:"discovery_date"`
}

const keySeparator = "|"

// Key returns the case-normalized identity key of the asset.
// Two records sharing a key are the same asset regardless of
// their source provider.
func (a Asset) Key() string {
	return strings.ToLower(strings.Join([]string{
		a.Domain, a.Owner, a.RecordType, a.Value,
	}, keySeparator))
}

// BuildDomainName returns the fully qualified name of the asset.
func (a Asset) BuildDomainName() string {
	if a.Owner == "@" || a.Owner == "" {
		return a.Domain
	}
	return a.Owner + "." + a.Domain
}

func (a Asset) String() string {
	return a.BuildDomainName() + " " + a.RecordType + " " + a.Value +
		" (" + string(a.Source) + ")"
}

// SortAssets sorts assets in place by domain, owner, record type
// and value, for stable presentation.
func SortAssets(assets []Asset) {
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].Domain != assets[j].Domain {
			return assets[i].Domain < assets[j].Domain
		}
		if assets[i].Owner != assets[j].Owner {
			return assets[i].Owner < assets[j].Owner
		}
		if assets[i].RecordType != assets[j].RecordType {
			return assets[i].RecordType < assets[j].RecordType
		}
		return assets[i].Value < assets[j].Value
	})
}
