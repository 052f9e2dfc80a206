package cloudflare

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/provider/errors"
)

type zoneData struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type zonesResponse struct {
	Success    bool        `json:"success"`
	Errors     []apiError  `json:"errors"`
	Result     []zoneData  `json:"result"`
	ResultInfo *resultInfo `json:"result_info"`
}

func (p *Provider) zonesURL(values url.Values, page uint) string {
	values.Set("per_page", strconv.FormatUint(uint64(p.pageSize), 10))
	values.Set("page", strconv.FormatUint(uint64(page), 10))
	return p.baseURL + "/client/v4/zones?" + values.Encode()
}

func (p *Provider) listZones(ctx context.Context, values url.Values) (
	zones []zoneData, err error) {
	for page := uint(1); ; page++ {
		var response zonesResponse
		_, err = p.fetcher.JSONGet(ctx, p.zonesURL(values, page),
			p.setHeaders, &response)
		if err != nil {
			return nil, fmt.Errorf("fetching zones page %d: %w", page, err)
		}
		if !response.Success {
			return nil, fmt.Errorf("%w: %s", errors.ErrUnsuccessfulResponse,
				joinAPIErrors(response.Errors))
		}

		zones = append(zones, response.Result...)

		lastPage := response.ResultInfo == nil ||
			page >= response.ResultInfo.TotalPages ||
			uint(len(response.Result)) < p.pageSize
		if lastPage {
			return zones, nil
		}
	}
}

// ListDomains lists the account zones; each zone name is a
// registrable domain of the inventory.
func (p *Provider) ListDomains(ctx context.Context) (
	domains []models.Domain, err error) {
	zones, err := p.listZones(ctx, url.Values{})
	if err != nil {
		return nil, err
	}

	domains = make([]models.Domain, 0, len(zones))
	for _, zone := range zones {
		domains = append(domains, normalizeZone(zone))
		if zone.Name != "" && zone.ID != "" {
			// opportunistic cache fill, saves one lookup per zone
			p.zones.SetZone(zone.Name, zone.ID)
		}
	}
	return domains, nil
}

func normalizeZone(zone zoneData) (domain models.Domain) {
	domain = models.Domain{
		Name:   zone.Name,
		Status: normalizeZoneStatus(zone.Status),
		Source: models.SourceCloudflare,
	}
	if domain.Name == "" {
		domain.Name = models.UnknownField
	}
	return domain
}

// normalizeZoneStatus maps the Cloudflare zone status strings onto
// the open canonical status set; unmapped values pass through
// uppercased so nothing is lost.
func normalizeZoneStatus(status string) models.DomainStatus {
	switch status {
	case "active":
		return models.DomainStatusActive
	case "deactivated":
		return models.DomainStatusCancelled
	case "":
		return models.DomainStatusUnknown
	default:
		return models.DomainStatus(status)
	}
}

// resolveZone returns the zone identifier for the domain, using the
// persisted cache first. A cache miss or a stale entry triggers an
// exact-name zone lookup; its outcome, positive or negative, is
// cached with the current timestamp.
// It returns an error wrapping errors.ErrZoneNotFound when the
// domain has no zone on this provider.
func (p *Provider) resolveZone(ctx context.Context, domain string) (
	zoneID string, err error) {
	zoneID, negative, ok := p.zones.Lookup(domain)
	if ok {
		if negative {
			return "", fmt.Errorf("%w: for domain %s (cached)",
				errors.ErrZoneNotFound, domain)
		}
		return zoneID, nil
	}

	values := url.Values{}
	values.Set("name", domain) // exact match only
	zones, err := p.listZones(ctx, values)
	if err != nil {
		return "", fmt.Errorf("resolving zone for %s: %w", domain, err)
	}

	if len(zones) == 0 {
		p.zones.SetNotFound(domain)
		return "", fmt.Errorf("%w: for domain %s", errors.ErrZoneNotFound, domain)
	}

	// first result wins on ambiguity
	zoneID = zones[0].ID
	p.zones.SetZone(domain, zoneID)
	return zoneID, nil
}
