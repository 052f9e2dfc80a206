package inventory

import (
	"testing"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/stretchr/testify/assert"
)

func makeAsset(domain, owner, recordType, value string,
	source models.Source) models.Asset {
	return models.Asset{
		Domain:     domain,
		Owner:      owner,
		RecordType: recordType,
		Value:      value,
		Source:     source,
		Status:     models.AssetStatusActive,
	}
}

func Test_Merge_idempotent(t *testing.T) {
	t.Parallel()

	batch := []models.Asset{
		makeAsset("a.com", "www", "CNAME", "a.com", models.SourceGoDaddy),
		makeAsset("b.com", "@", "A", "203.0.113.5", models.SourceCloudflare),
	}

	assert.Equal(t, Merge(batch), Merge(batch, batch))
}

func Test_Merge_commutative(t *testing.T) {
	t.Parallel()

	batchA := []models.Asset{
		makeAsset("a.com", "www", "CNAME", "a.com", models.SourceGoDaddy),
		makeAsset("a.com", "@", "MX", "10 mail.a.com", models.SourceGoDaddy),
	}
	batchB := []models.Asset{
		makeAsset("a.com", "www", "CNAME", "a.com", models.SourceCloudflare),
		makeAsset("b.com", "@", "TXT", "v=spf1 -all", models.SourceCloudflare),
	}

	assert.Equal(t, Merge(batchA, batchB), Merge(batchB, batchA))
}

func Test_Merge_cross_source_collision(t *testing.T) {
	t.Parallel()

	godaddyAsset := makeAsset("a.com", "www", "CNAME", "a.com", models.SourceGoDaddy)
	godaddyAsset.DiscoveryDate = "2025-01-01"
	cloudflareAsset := makeAsset("a.com", "WWW", "cname", "A.COM", models.SourceCloudflare)
	cloudflareAsset.DiscoveryDate = "2025-03-01"

	merged := Merge(
		[]models.Asset{godaddyAsset},
		[]models.Asset{cloudflareAsset},
	)

	// the representative is picked independently of batch order
	expected := cloudflareAsset
	expected.Source = models.SourceMultiple
	expected.DiscoveryDate = "2025-01-01"
	assert.Equal(t, []models.Asset{expected}, merged)
	assert.Equal(t, merged, Merge(
		[]models.Asset{cloudflareAsset},
		[]models.Asset{godaddyAsset},
	))
}

func Test_Merge_scenario_two_providers_two_domains(t *testing.T) {
	t.Parallel()

	domains := []models.Domain{
		{Name: "a.com", Source: models.SourceGoDaddy},
		{Name: "b.com", Source: models.SourceGoDaddy},
	}
	provider1 := []models.Asset{
		makeAsset("a.com", "www", "CNAME", "a.com", models.SourceGoDaddy),
	}
	provider2 := []models.Asset{
		makeAsset("b.com", "@", "A", "203.0.113.5", models.SourceCloudflare),
	}

	merged := Merge(provider1, provider2)

	assert.Len(t, merged, 2)
	assert.Empty(t, NoDataDomains(domains, merged))
}

func Test_NoDataDomains(t *testing.T) {
	t.Parallel()

	domains := []models.Domain{
		{Name: "a.com"},
		{Name: "empty.com"},
		{Name: "Mixed.COM"},
	}
	assets := []models.Asset{
		makeAsset("a.com", "www", "CNAME", "a.com", models.SourceGoDaddy),
		makeAsset("mixed.com", "@", "A", "203.0.113.5", models.SourceCloudflare),
	}

	noData := NoDataDomains(domains, assets)

	assert.Equal(t, []string{"empty.com"}, noData)
}

func Test_Reconcile(t *testing.T) {
	t.Parallel()

	bothReachable := map[models.Source]bool{
		models.SourceGoDaddy:    true,
		models.SourceCloudflare: true,
	}
	godaddyDown := map[models.Source]bool{
		models.SourceCloudflare: true,
	}

	current := []models.Asset{
		makeAsset("a.com", "www", "CNAME", "a.com", models.SourceGoDaddy),
	}
	gone := makeAsset("a.com", "old", "A", "198.51.100.9", models.SourceGoDaddy)
	goneMultiple := makeAsset("a.com", "shared", "A", "198.51.100.10", models.SourceMultiple)

	testCases := map[string]struct {
		previous  []models.Asset
		reachable map[models.Source]bool
		expected  map[string]models.AssetStatus // key → expected status
	}{
		"absent_with_reachable_source_marked_removed": {
			previous:  []models.Asset{gone},
			reachable: bothReachable,
			expected: map[string]models.AssetStatus{
				gone.Key(): models.AssetStatusRemoved,
			},
		},
		"absent_with_unreachable_source_kept_active": {
			previous:  []models.Asset{gone},
			reachable: godaddyDown,
			expected: map[string]models.AssetStatus{
				gone.Key(): models.AssetStatusActive,
			},
		},
		"multiple_source_needs_both_providers": {
			previous:  []models.Asset{goneMultiple},
			reachable: godaddyDown,
			expected: map[string]models.AssetStatus{
				goneMultiple.Key(): models.AssetStatusActive,
			},
		},
		"still_present_stays_active": {
			previous:  current,
			reachable: bothReachable,
			expected: map[string]models.AssetStatus{
				current[0].Key(): models.AssetStatusActive,
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			full := Reconcile(current, testCase.previous, testCase.reachable)

			statuses := make(map[string]models.AssetStatus)
			for _, asset := range full {
				statuses[asset.Key()] = asset.Status
			}
			for key, expectedStatus := range testCase.expected {
				assert.Equal(t, expectedStatus, statuses[key], key)
			}
		})
	}
}

func Test_MergeDomains(t *testing.T) {
	t.Parallel()

	godaddyDomains := []models.Domain{
		{Name: "a.com", Status: models.DomainStatusActive, Source: models.SourceGoDaddy},
	}
	cloudflareDomains := []models.Domain{
		{Name: "A.com", Status: models.DomainStatus("pending"), Source: models.SourceCloudflare},
		{Name: "b.com", Status: models.DomainStatusActive, Source: models.SourceCloudflare},
	}

	merged := MergeDomains(cloudflareDomains, godaddyDomains)

	assert.Equal(t, []models.Domain{
		{Name: "A.com", Status: models.DomainStatusActive, Source: models.SourceMultiple},
		{Name: "b.com", Status: models.DomainStatusActive, Source: models.SourceCloudflare},
	}, merged)

	// commutative on the identity key set
	reversed := MergeDomains(godaddyDomains, cloudflareDomains)
	assert.Len(t, reversed, len(merged))
}
