package models

import (
	"sort"
	"strings"
)

// DomainStatus is the registration status reported by a provider.
// It is an open set: unknown values are carried through as-is.
type DomainStatus string

const (
	DomainStatusActive            DomainStatus = "ACTIVE"
	DomainStatusCancelled         DomainStatus = "CANCELLED"
	DomainStatusPendingTransfer   DomainStatus = "PENDING_TRANSFER"
	DomainStatusExpiredReassigned DomainStatus = "EXPIRED_REASSIGNED"
	DomainStatusUnknown           DomainStatus = "UNKNOWN"
)

// Domain is a registrable name owned by the account.
type Domain struct {
	Name   string       `json:"name"`
	Status DomainStatus `json:"status"`
	Source Source       `json:"source"`
	// DiscoveryDate is the date the domain was first observed,
	// formatted as YYYY-MM-DD. It is set once and never rewritten.
	DiscoveryDate string `json:"discovery_date"`
}

// Key returns the case-normalized identity key of the domain.
func (d Domain) Key() string {
	return strings.ToLower(d.Name)
}

func (d Domain) String() string {
	return d.Name + " (" + string(d.Status) + ")"
}

// SortDomains sorts domains in place by name.
func SortDomains(domains []Domain) {
	sort.Slice(domains, func(i, j int) bool {
		return domains[i].Name < domains[j].Name
	})
}
