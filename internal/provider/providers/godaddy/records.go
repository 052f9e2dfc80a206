package godaddy

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/qdm12/dns-inventory/internal/models"
)

type recordData struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// ListRecords pages through the DNS records of the given domain.
// The payload does not echo the domain name, so every normalized
// asset is stamped with the domain from the request context.
func (p *Provider) ListRecords(ctx context.Context, domain string) (
	assets []models.Asset, err error) {
	pageURL := p.listURL("/v1/domains/" + url.PathEscape(domain) + "/records")
	for pageURL != "" {
		var page []recordData
		header, err := p.fetcher.JSONGet(ctx, pageURL, p.setHeaders, &page)
		if err != nil {
			return nil, fmt.Errorf("fetching records page for %s: %w", domain, err)
		}

		for _, data := range page {
			assets = append(assets, normalizeRecord(data, domain))
		}

		if uint(len(page)) < p.pageSize {
			break
		}
		pageURL = nextPageURL(header)
	}
	return assets, nil
}

// normalizeRecord converts a GoDaddy DNS record to the canonical
// asset schema. Missing fields become the "unknown" placeholder
// instead of failing the batch.
func normalizeRecord(data recordData, domain string) (asset models.Asset) {
	owner := strings.TrimSpace(data.Name)
	if owner == "" {
		owner = models.UnknownField
	}

	asset = models.Asset{
		Domain:     domain,
		Owner:      owner,
		RecordType: data.Type,
		Value:      data.Data,
		Source:     models.SourceGoDaddy,
		Status:     models.AssetStatusActive,
	}
	if asset.RecordType == "" {
		asset.RecordType = models.UnknownField
	}
	if asset.Value == "" {
		asset.Value = models.UnknownField
	}
	return asset
}
