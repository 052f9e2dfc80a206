package cloudflare

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/provider/errors"
)

type recordData struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type recordsResponse struct {
	Success    bool         `json:"success"`
	Errors     []apiError   `json:"errors"`
	Result     []recordData `json:"result"`
	ResultInfo *resultInfo  `json:"result_info"`
}

func (p *Provider) recordsURL(zoneID string, page uint) string {
	values := url.Values{}
	values.Set("per_page", strconv.FormatUint(uint64(p.pageSize), 10))
	values.Set("page", strconv.FormatUint(uint64(page), 10))
	return p.baseURL + "/client/v4/zones/" + url.PathEscape(zoneID) +
		"/dns_records?" + values.Encode()
}

// ListRecords resolves the zone for the domain and pages through its
// DNS records. A domain without a zone on this provider returns an
// error wrapping errors.ErrZoneNotFound, which callers demote to a
// per-domain skip.
func (p *Provider) ListRecords(ctx context.Context, domain string) (
	assets []models.Asset, err error) {
	zoneID, err := p.resolveZone(ctx, domain)
	if err != nil {
		return nil, err
	}

	for page := uint(1); ; page++ {
		var response recordsResponse
		_, err = p.fetcher.JSONGet(ctx, p.recordsURL(zoneID, page),
			p.setHeaders, &response)
		if err != nil {
			return nil, fmt.Errorf("fetching records page %d for %s: %w",
				page, domain, err)
		}
		if !response.Success {
			return nil, fmt.Errorf("%w: %s", errors.ErrUnsuccessfulResponse,
				joinAPIErrors(response.Errors))
		}

		for _, data := range response.Result {
			assets = append(assets, normalizeRecord(data, domain))
		}

		lastPage := response.ResultInfo == nil ||
			page >= response.ResultInfo.TotalPages ||
			uint(len(response.Result)) < p.pageSize
		if lastPage {
			return assets, nil
		}
	}
}

// normalizeRecord converts a Cloudflare DNS record to the canonical
// asset schema. Record names are fully qualified, so the zone suffix
// is stripped to obtain the owner label, "@" for the apex. Missing
// fields become the "unknown" placeholder instead of failing the
// batch.
func normalizeRecord(data recordData, domain string) (asset models.Asset) {
	asset = models.Asset{
		Domain:     domain,
		Owner:      ownerFromName(data.Name, domain),
		RecordType: data.Type,
		Value:      data.Content,
		Source:     models.SourceCloudflare,
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

func ownerFromName(name, domain string) (owner string) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return models.UnknownField
	case strings.EqualFold(name, domain):
		return "@"
	}
	owner, found := strings.CutSuffix(name, "."+domain)
	if !found {
		// record name outside the zone suffix, keep it whole
		return name
	}
	return owner
}
