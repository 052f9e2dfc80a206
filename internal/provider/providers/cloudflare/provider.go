// Package cloudflare implements the inventory client for the
// Cloudflare API v4, using bearer token authentication and
// page/per_page pagination driven by the result_info envelope.
package cloudflare

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/provider/errors"
	"github.com/qdm12/dns-inventory/internal/provider/fetch"
	"github.com/qdm12/dns-inventory/internal/provider/headers"
	"github.com/qdm12/dns-inventory/internal/zonecache"
)

type Provider struct {
	fetcher  *fetch.Fetcher
	token    string
	pageSize uint
	zones    *zonecache.Cache
	baseURL  string
}

type Settings struct {
	Fetcher  *fetch.Fetcher
	Token    string
	PageSize uint
	// Zones caches domain name to zone identifier resolutions
	// across runs.
	Zones *zonecache.Cache
	// BaseURL can be overridden for tests; it defaults to
	// the production API endpoint.
	BaseURL string
}

func New(settings Settings) (p *Provider, err error) {
	if settings.Token == "" {
		return nil, fmt.Errorf("%w", errors.ErrTokenNotSet)
	}

	if settings.BaseURL == "" {
		settings.BaseURL = "https://api.cloudflare.com"
	}

	const maxPageSize = 1000 // hard limit of the dns_records endpoint
	if settings.PageSize > maxPageSize {
		settings.PageSize = maxPageSize
	}

	return &Provider{
		fetcher:  settings.Fetcher,
		token:    settings.Token,
		pageSize: settings.PageSize,
		zones:    settings.Zones,
		baseURL:  settings.BaseURL,
	}, nil
}

func (p *Provider) String() string {
	return "Cloudflare"
}

func (p *Provider) Name() models.Source {
	return models.SourceCloudflare
}

func (p *Provider) setHeaders(request *http.Request) {
	headers.SetUserAgent(request)
	headers.SetAuthBearer(request, p.token)
	headers.SetAccept(request, "application/json")
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type resultInfo struct {
	Page       uint `json:"page"`
	TotalPages uint `json:"total_pages"`
}

func joinAPIErrors(apiErrors []apiError) string {
	messages := make([]string, len(apiErrors))
	for i, apiError := range apiErrors {
		messages[i] = fmt.Sprintf("error %d: %s", apiError.Code, apiError.Message)
	}
	return strings.Join(messages, "; ")
}

// CheckAccess verifies the API token.
func (p *Provider) CheckAccess(ctx context.Context) (err error) {
	response := struct {
		Success bool       `json:"success"`
		Errors  []apiError `json:"errors"`
	}{}
	_, err = p.fetcher.JSONGet(ctx,
		p.baseURL+"/client/v4/user/tokens/verify",
		p.setHeaders, &response)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrAuth, err)
	}
	if !response.Success {
		return fmt.Errorf("%w: %w: %s", errors.ErrAuth,
			errors.ErrUnsuccessfulResponse, joinAPIErrors(response.Errors))
	}
	return nil
}
