package godaddy

import (
	"context"
	"fmt"

	"github.com/qdm12/dns-inventory/internal/models"
)

type domainData struct {
	Domain string `json:"domain"`
	Status string `json:"status"`
}

// ListDomains pages through the account domain listing following
// the Link header markers. Pagination ends on the first of: no
// next link, or a batch smaller than the page size.
func (p *Provider) ListDomains(ctx context.Context) (
	domains []models.Domain, err error) {
	pageURL := p.listURL("/v1/domains")
	for pageURL != "" {
		var page []domainData
		header, err := p.fetcher.JSONGet(ctx, pageURL, p.setHeaders, &page)
		if err != nil {
			return nil, fmt.Errorf("fetching domains page: %w", err)
		}

		for _, data := range page {
			domains = append(domains, normalizeDomain(data))
		}

		if uint(len(page)) < p.pageSize {
			break
		}
		pageURL = nextPageURL(header)
	}
	return domains, nil
}

// normalizeDomain converts a GoDaddy domain entry to the canonical
// schema. The status set is open so unknown values pass through.
func normalizeDomain(data domainData) (domain models.Domain) {
	domain = models.Domain{
		Name:   data.Domain,
		Status: models.DomainStatus(data.Status),
		Source: models.SourceGoDaddy,
	}
	if domain.Name == "" {
		domain.Name = models.UnknownField
	}
	if domain.Status == "" {
		domain.Status = models.DomainStatusUnknown
	}
	return domain
}
