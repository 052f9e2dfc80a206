package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/qdm12/dns-inventory/internal/data"
	"github.com/qdm12/dns-inventory/internal/diff"
	"github.com/qdm12/dns-inventory/internal/inventory"
	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/provider"
	providererrors "github.com/qdm12/dns-inventory/internal/provider/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      models.Source
	accessErr error
	domains   []models.Domain
	records   map[string][]models.Asset
}

func (p *fakeProvider) String() string      { return string(p.name) }
func (p *fakeProvider) Name() models.Source { return p.name }

func (p *fakeProvider) CheckAccess(_ context.Context) error {
	return p.accessErr
}

func (p *fakeProvider) ListDomains(_ context.Context) ([]models.Domain, error) {
	return p.domains, nil
}

func (p *fakeProvider) ListRecords(_ context.Context, domain string) (
	[]models.Asset, error) {
	records, ok := p.records[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", providererrors.ErrZoneNotFound, domain)
	}
	return records, nil
}

type fakeZoneCache struct{}

func (z fakeZoneCache) Save() error { return nil }

type fakeConsumer struct {
	snapshots []diff.Snapshot
	err       error
}

func (c *fakeConsumer) String() string { return "consumer fake" }

func (c *fakeConsumer) Process(current diff.Snapshot) error {
	c.snapshots = append(c.snapshots, current)
	return c.err
}

type testLogger struct{}

func (l testLogger) Debug(_ string) {}
func (l testLogger) Info(_ string)  {}
func (l testLogger) Warn(_ string)  {}
func (l testLogger) Error(_ string) {}

func Test_Runner_RunOnce(t *testing.T) {
	t.Parallel()

	godaddy := &fakeProvider{
		name: models.SourceGoDaddy,
		domains: []models.Domain{
			{Name: "a.com", Status: models.DomainStatusActive,
				Source: models.SourceGoDaddy},
		},
		records: map[string][]models.Asset{
			"a.com": {
				{Domain: "a.com", Owner: "www", RecordType: "CNAME",
					Value: "a.com", Source: models.SourceGoDaddy,
					Status: models.AssetStatusActive},
			},
		},
	}
	cloudflare := &fakeProvider{
		name: models.SourceCloudflare,
		domains: []models.Domain{
			{Name: "b.com", Status: models.DomainStatusActive,
				Source: models.SourceCloudflare},
		},
		records: map[string][]models.Asset{
			"b.com": {
				{Domain: "b.com", Owner: "@", RecordType: "A",
					Value: "203.0.113.5", Source: models.SourceCloudflare,
					Status: models.AssetStatusActive},
			},
		},
	}
	consumer := &fakeConsumer{}
	db := data.NewDatabase()
	runner := NewRunner(RunnerSettings{
		Providers:   []provider.Client{godaddy, cloudflare},
		Zones:       fakeZoneCache{},
		Concurrency: 2,
		DataDir:     t.TempDir(),
		Consumers:   []ConsumerProcessor{consumer},
		Database:    db,
		Logger:      testLogger{},
	})

	err := runner.RunOnce(context.Background())
	require.NoError(t, err)

	assets := db.Assets()
	require.Len(t, assets, 2)
	domains := db.Domains()
	require.Len(t, domains, 2)
	assert.Empty(t, db.NoDataDomains())
	assert.NotEmpty(t, assets[0].DiscoveryDate)

	lastRunTime, lastRunErr := db.LastRun()
	assert.False(t, lastRunTime.IsZero())
	assert.NoError(t, lastRunErr)

	require.Len(t, consumer.snapshots, 1)
	assert.Len(t, consumer.snapshots[0].Assets, 2)

	// the master inventory was persisted
	document, err := inventory.LoadDocument(runner.inventoryPath())
	require.NoError(t, err)
	assert.Len(t, document.Assets, 2)

	// second run with a record gone on a reachable provider
	godaddy.records["a.com"] = nil

	err = runner.RunOnce(context.Background())
	require.NoError(t, err)

	assets = db.Assets()
	require.Len(t, assets, 2)
	statuses := make(map[string]models.AssetStatus, len(assets))
	for _, asset := range assets {
		statuses[asset.Key()] = asset.Status
	}
	assert.Equal(t, models.AssetStatusRemoved,
		statuses["a.com|www|cname|a.com"])
	assert.Equal(t, models.AssetStatusActive,
		statuses["b.com|@|a|203.0.113.5"])
}

func Test_Runner_RunOnce_all_providers_unreachable(t *testing.T) {
	t.Parallel()

	godaddy := &fakeProvider{
		name:      models.SourceGoDaddy,
		accessErr: providererrors.ErrAuth,
	}
	db := data.NewDatabase()
	runner := NewRunner(RunnerSettings{
		Providers:   []provider.Client{godaddy},
		Zones:       fakeZoneCache{},
		Concurrency: 1,
		DataDir:     t.TempDir(),
		Database:    db,
		Logger:      testLogger{},
	})

	err := runner.RunOnce(context.Background())

	assert.ErrorIs(t, err, ErrAllProvidersUnreachable)
	_, lastRunErr := db.LastRun()
	assert.ErrorIs(t, lastRunErr, ErrAllProvidersUnreachable)
}

func Test_Service_ForceRun(t *testing.T) {
	t.Parallel()

	godaddy := &fakeProvider{
		name: models.SourceGoDaddy,
		domains: []models.Domain{
			{Name: "a.com", Status: models.DomainStatusActive,
				Source: models.SourceGoDaddy},
		},
		records: map[string][]models.Asset{
			"a.com": {
				{Domain: "a.com", Owner: "@", RecordType: "A",
					Value: "203.0.113.5", Source: models.SourceGoDaddy,
					Status: models.AssetStatusActive},
			},
		},
	}
	db := data.NewDatabase()
	runner := NewRunner(RunnerSettings{
		Providers:   []provider.Client{godaddy},
		Zones:       fakeZoneCache{},
		Concurrency: 1,
		DataDir:     t.TempDir(),
		Database:    db,
		Logger:      testLogger{},
	})
	service := NewService(runner, time.Hour, testLogger{})

	_, err := service.Start(context.Background())
	require.NoError(t, err)

	err = service.ForceRun(context.Background())
	assert.NoError(t, err)

	assets := db.Assets()
	assert.Len(t, assets, 1)

	err = service.Stop()
	assert.NoError(t, err)
}
