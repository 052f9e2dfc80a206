// Package provider defines the read-only client interface
// implemented by each DNS provider.
package provider

import (
	"context"

	"github.com/qdm12/dns-inventory/internal/models"
)

// Client lists the domains and DNS records of one provider account.
type Client interface {
	String() string
	Name() models.Source
	// CheckAccess verifies the credentials work before any
	// inventory fetch begins.
	CheckAccess(ctx context.Context) (err error)
	// ListDomains pages through the account's domain (or zone)
	// listing and returns all of them normalized.
	ListDomains(ctx context.Context) (domains []models.Domain, err error)
	// ListRecords pages through the DNS records of the given domain
	// and returns them normalized, stamped with the domain and the
	// provider source tag.
	ListRecords(ctx context.Context, domain string) (assets []models.Asset, err error)
}
