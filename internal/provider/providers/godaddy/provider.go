// Package godaddy implements the inventory client for the GoDaddy
// API v1, using sso-key authentication and opaque marker pagination
// through the Link response header.
package godaddy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/provider/errors"
	"github.com/qdm12/dns-inventory/internal/provider/fetch"
	"github.com/qdm12/dns-inventory/internal/provider/headers"
)

type Provider struct {
	fetcher  *fetch.Fetcher
	key      string
	secret   string
	pageSize uint
	baseURL  string
}

type Settings struct {
	Fetcher  *fetch.Fetcher
	Key      string
	Secret   string
	PageSize uint
	// BaseURL can be overridden for tests; it defaults to
	// the production API endpoint.
	BaseURL string
}

var keyRegex = regexp.MustCompile(`^[A-Za-z0-9_]{8,50}$`)

func New(settings Settings) (p *Provider, err error) {
	switch {
	case !keyRegex.MatchString(settings.Key):
		return nil, fmt.Errorf("%w: key %q does not match regex %s",
			errors.ErrKeyNotValid, settings.Key, keyRegex)
	case settings.Secret == "":
		return nil, fmt.Errorf("%w", errors.ErrSecretNotSet)
	}

	if settings.BaseURL == "" {
		settings.BaseURL = "https://api.godaddy.com"
	}

	return &Provider{
		fetcher:  settings.Fetcher,
		key:      settings.Key,
		secret:   settings.Secret,
		pageSize: settings.PageSize,
		baseURL:  settings.BaseURL,
	}, nil
}

func (p *Provider) String() string {
	return "GoDaddy"
}

func (p *Provider) Name() models.Source {
	return models.SourceGoDaddy
}

func (p *Provider) setHeaders(request *http.Request) {
	headers.SetUserAgent(request)
	headers.SetAuthSSOKey(request, p.key, p.secret)
	headers.SetAccept(request, "application/json")
}

// CheckAccess requests a single domain to verify the key and secret.
func (p *Provider) CheckAccess(ctx context.Context) (err error) {
	var page []domainData
	_, err = p.fetcher.JSONGet(ctx, p.baseURL+"/v1/domains?limit=1",
		p.setHeaders, &page)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrAuth, err)
	}
	return nil
}

func (p *Provider) listURL(path string) string {
	values := url.Values{}
	values.Set("limit", strconv.FormatUint(uint64(p.pageSize), 10))
	return p.baseURL + path + "?" + values.Encode()
}

// nextPageURL extracts the opaque next page URL from the Link
// response header. It returns an empty string when the provider
// signals there is no next page.
func nextPageURL(header http.Header) (nextURL string) {
	for _, link := range header.Values("Link") {
		parts := splitLinkParts(link)
		for _, part := range parts {
			u, rel, ok := parseLinkPart(part)
			if ok && rel == "next" {
				return u
			}
		}
	}
	return ""
}
