package cloudflare

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/qdm12/dns-inventory/internal/models"
	providererrors "github.com/qdm12/dns-inventory/internal/provider/errors"
	"github.com/qdm12/dns-inventory/internal/provider/fetch"
	"github.com/qdm12/dns-inventory/internal/zonecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, serverURL string,
	client *http.Client, pageSize uint) (*Provider, *zonecache.Cache) {
	t.Helper()
	zones := zonecache.New(zonecache.Settings{
		Path: filepath.Join(t.TempDir(), "zonecache.json"),
		TTL:  time.Hour,
	})
	provider, err := New(Settings{
		Fetcher:  fetch.New(fetch.Settings{Client: client, MaxAttempts: 1}),
		Token:    "testtoken",
		PageSize: pageSize,
		Zones:    zones,
		BaseURL:  serverURL,
	})
	require.NoError(t, err)
	return provider, zones
}

func Test_New_missing_token(t *testing.T) {
	t.Parallel()

	_, err := New(Settings{})

	assert.ErrorIs(t, err, providererrors.ErrTokenNotSet)
}

func Test_Provider_ListDomains_pagination(t *testing.T) {
	t.Parallel()

	// 5 zones with page size 2 must terminate
	// in exactly 3 page requests.
	const totalZones = 5
	const pageSize = 2

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer testtoken", r.Header.Get("Authorization"))
			assert.Equal(t, "/client/v4/zones", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("per_page"))

			page := requests + 1
			requests++
			assert.Equal(t, fmt.Sprint(page), r.URL.Query().Get("page"))

			offset := (page - 1) * pageSize
			result := ""
			for i := offset; i < offset+pageSize && i < totalZones; i++ {
				if result != "" {
					result += ","
				}
				result += fmt.Sprintf(
					`{"id": "zone%d", "name": "d%d.com", "status": "active"}`, i, i)
			}
			_, _ = fmt.Fprintf(w, `{
				"success": true, "errors": [],
				"result": [%s],
				"result_info": {"page": %d, "total_pages": 3}
			}`, result, page)
		}))
	defer server.Close()

	provider, zones := newTestProvider(t, server.URL, server.Client(), pageSize)

	domains, err := provider.ListDomains(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	require.Len(t, domains, totalZones)
	assert.Equal(t, models.Domain{
		Name:   "d0.com",
		Status: models.DomainStatusActive,
		Source: models.SourceCloudflare,
	}, domains[0])

	// zone ids are cached opportunistically while listing
	zoneID, negative, ok := zones.Lookup("d0.com")
	assert.True(t, ok)
	assert.False(t, negative)
	assert.Equal(t, "zone0", zoneID)
}

func Test_Provider_ListRecords(t *testing.T) {
	t.Parallel()

	zoneLookups := 0
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/client/v4/zones":
				zoneLookups++
				assert.Equal(t, "example.com", r.URL.Query().Get("name"))
				_, _ = w.Write([]byte(`{
					"success": true, "errors": [],
					"result": [{"id": "zone123", "name": "example.com", "status": "active"}],
					"result_info": {"page": 1, "total_pages": 1}
				}`))
			case "/client/v4/zones/zone123/dns_records":
				_, _ = w.Write([]byte(`{
					"success": true, "errors": [],
					"result": [
						{"name": "example.com", "type": "A", "content": "203.0.113.5"},
						{"name": "www.example.com", "type": "CNAME", "content": "example.com"},
						{"name": "mail.example.com"}
					],
					"result_info": {"page": 1, "total_pages": 1}
				}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
	defer server.Close()

	provider, _ := newTestProvider(t, server.URL, server.Client(), 100)

	assets, err := provider.ListRecords(context.Background(), "example.com")

	require.NoError(t, err)
	assert.Equal(t, []models.Asset{
		{
			Domain: "example.com", Owner: "@", RecordType: "A",
			Value: "203.0.113.5", Source: models.SourceCloudflare,
			Status: models.AssetStatusActive,
		},
		{
			Domain: "example.com", Owner: "www", RecordType: "CNAME",
			Value: "example.com", Source: models.SourceCloudflare,
			Status: models.AssetStatusActive,
		},
		{
			Domain: "example.com", Owner: "mail", RecordType: "unknown",
			Value: "unknown", Source: models.SourceCloudflare,
			Status: models.AssetStatusActive,
		},
	}, assets)

	// second call hits the zone cache, not the zones endpoint
	_, err = provider.ListRecords(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, zoneLookups)
}

func Test_Provider_ListRecords_no_zone(t *testing.T) {
	t.Parallel()

	zoneLookups := 0
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			zoneLookups++
			_, _ = w.Write([]byte(`{
				"success": true, "errors": [], "result": [],
				"result_info": {"page": 1, "total_pages": 1}
			}`))
		}))
	defer server.Close()

	provider, _ := newTestProvider(t, server.URL, server.Client(), 100)

	_, err := provider.ListRecords(context.Background(), "elsewhere.com")
	assert.ErrorIs(t, err, providererrors.ErrZoneNotFound)

	// the negative outcome is cached
	_, err = provider.ListRecords(context.Background(), "elsewhere.com")
	assert.ErrorIs(t, err, providererrors.ErrZoneNotFound)
	assert.Equal(t, 1, zoneLookups)
}

func Test_ownerFromName(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		name   string
		domain string
		owner  string
	}{
		"apex":          {name: "example.com", domain: "example.com", owner: "@"},
		"subdomain":     {name: "www.example.com", domain: "example.com", owner: "www"},
		"deep":          {name: "a.b.example.com", domain: "example.com", owner: "a.b"},
		"empty":         {name: "", domain: "example.com", owner: "unknown"},
		"outside_zone":  {name: "other.net", domain: "example.com", owner: "other.net"},
		"case_mismatch": {name: "Example.COM", domain: "example.com", owner: "@"},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			owner := ownerFromName(testCase.name, testCase.domain)

			assert.Equal(t, testCase.owner, owner)
		})
	}
}
