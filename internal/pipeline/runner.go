// Package pipeline orchestrates one inventory run: provider access
// checks, domain enumeration, concurrent record fetching, merging,
// reconciliation, discovery dating, persistence, reports and
// notifications.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/qdm12/dns-inventory/internal/diff"
	"github.com/qdm12/dns-inventory/internal/inventory"
	"github.com/qdm12/dns-inventory/internal/ledger"
	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/provider"
	providererrors "github.com/qdm12/dns-inventory/internal/provider/errors"
	"github.com/qdm12/dns-inventory/internal/report"
	"golang.org/x/sync/errgroup"
)

const (
	InventoryFileName = "inventory.json"
	LedgerFileName    = "ledger.json"
)

var (
	ErrAllProvidersUnreachable = errors.New("all providers are unreachable")
	ErrNoDomainFound           = errors.New("no domain found on any provider")
)

type Runner struct {
	providers           []provider.Client
	zones               ZoneCache
	concurrency         uint
	dataDir             string
	fallbackDomainsFile string
	consumers           []ConsumerProcessor
	db                  Database
	logger              Logger
	timeNow             func() time.Time
}

type RunnerSettings struct {
	Providers []provider.Client
	Zones     ZoneCache
	// Concurrency bounds the number of in-flight record listing
	// operations across all providers and domains.
	Concurrency         uint
	DataDir             string
	FallbackDomainsFile string
	Consumers           []ConsumerProcessor
	Database            Database
	Logger              Logger
	TimeNow             func() time.Time
}

func NewRunner(settings RunnerSettings) *Runner {
	if settings.Concurrency == 0 {
		settings.Concurrency = 1
	}
	if settings.TimeNow == nil {
		settings.TimeNow = time.Now
	}
	return &Runner{
		providers:           settings.Providers,
		zones:               settings.Zones,
		concurrency:         settings.Concurrency,
		dataDir:             settings.DataDir,
		fallbackDomainsFile: settings.FallbackDomainsFile,
		consumers:           settings.Consumers,
		db:                  settings.Database,
		logger:              settings.Logger,
		timeNow:             settings.TimeNow,
	}
}

// RunOnce executes a full inventory run. It is not safe for
// concurrent calls; the Service serializes runs.
func (r *Runner) RunOnce(ctx context.Context) (err error) {
	startTime := r.timeNow()
	defer func() {
		r.db.SetLastRun(r.timeNow(), err)
	}()

	reachable, reachableProviders := r.checkAccess(ctx)
	if len(reachableProviders) == 0 {
		return fmt.Errorf("%w", ErrAllProvidersUnreachable)
	}

	domains, err := r.enumerateDomains(ctx, reachableProviders, reachable)
	if err != nil {
		return err
	}

	assets, fetchErrorsCount := r.fetchRecords(ctx, reachableProviders, domains)

	previous, err := inventory.LoadDocument(r.inventoryPath())
	if err != nil {
		r.logger.Warn("previous inventory is unusable, " +
			"rebuilding from scratch: " + err.Error())
	}
	assets = inventory.Reconcile(assets, previous.Assets, reachable)

	discoveryLedger, err := ledger.Load(r.ledgerPath())
	if err != nil {
		r.logger.Warn("discovery ledger is unusable, " +
			"restarting discovery dates: " + err.Error())
	}
	today := startTime.UTC().Format(time.DateOnly)
	discoveryLedger.Advance(assets, domains, today)
	err = discoveryLedger.Save(r.ledgerPath())
	if err != nil {
		return fmt.Errorf("saving discovery ledger: %w", err)
	}

	noDataDomains := inventory.NoDataDomains(domains, assets)

	document := inventory.Document{
		GeneratedAt:   startTime,
		Domains:       domains,
		Assets:        assets,
		NoDataDomains: noDataDomains,
	}
	err = document.Save(r.inventoryPath())
	if err != nil {
		return fmt.Errorf("saving inventory: %w", err)
	}

	err = report.Write(r.dataDir, report.Data{
		GeneratedAt:   startTime,
		Domains:       domains,
		Assets:        assets,
		NoDataDomains: noDataDomains,
		Reachable:     reachable,
	})
	if err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}

	err = r.zones.Save()
	if err != nil {
		r.logger.Warn("saving zone cache: " + err.Error())
	}

	consumerErr := r.notifyConsumers(assets, domains)

	r.db.SetInventory(assets, domains, noDataDomains)
	r.logSummary(domains, assets, noDataDomains, fetchErrorsCount, startTime)

	return consumerErr
}

func (r *Runner) inventoryPath() string {
	return filepath.Join(r.dataDir, InventoryFileName)
}

func (r *Runner) ledgerPath() string {
	return filepath.Join(r.dataDir, LedgerFileName)
}

// checkAccess verifies each provider's credentials and splits the
// providers into reachable and unreachable. An unreachable provider
// only logs a warning: its previously discovered assets stay active
// in the reconciliation.
func (r *Runner) checkAccess(ctx context.Context) (
	reachable map[models.Source]bool, reachableProviders []provider.Client) {
	reachable = make(map[models.Source]bool, len(r.providers))
	for _, client := range r.providers {
		err := client.CheckAccess(ctx)
		if err != nil {
			r.logger.Warn("provider " + client.String() +
				" is unreachable: " + err.Error())
			reachable[client.Name()] = false
			continue
		}
		reachable[client.Name()] = true
		reachableProviders = append(reachableProviders, client)
	}
	return reachable, reachableProviders
}

func (r *Runner) enumerateDomains(ctx context.Context,
	reachableProviders []provider.Client, reachable map[models.Source]bool) (
	domains []models.Domain, err error) {
	batches := make([][]models.Domain, 0, len(reachableProviders))
	for _, client := range reachableProviders {
		batch, err := client.ListDomains(ctx)
		if err != nil {
			// listing failed after passing the access check, demote
			// the provider so its assets are not marked removed
			r.logger.Warn("listing domains of " + client.String() +
				" failed: " + err.Error())
			reachable[client.Name()] = false
			continue
		}
		batches = append(batches, batch)
	}

	domains = inventory.MergeDomains(batches...)
	if len(domains) == 0 && r.fallbackDomainsFile != "" {
		domains, err = readFallbackDomains(r.fallbackDomainsFile)
		if err != nil {
			return nil, fmt.Errorf("reading fallback domains: %w", err)
		}
		r.logger.Warn("no domain listed by any provider, using " +
			strconv.Itoa(len(domains)) + " fallback domains from " +
			r.fallbackDomainsFile)
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("%w", ErrNoDomainFound)
	}
	return domains, nil
}

// readFallbackDomains reads one domain name per line, ignoring
// blank lines and lines starting with '#'.
func readFallbackDomains(path string) (domains []models.Domain, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, models.Domain{
			Name:   line,
			Status: models.DomainStatusUnknown,
		})
	}
	models.SortDomains(domains)
	return domains, nil
}

// fetchRecords lists the DNS records of every (provider, domain)
// pair with bounded concurrency and merges all batches. Fetch
// failures are logged and leave the domain without data for that
// provider, they never abort the run.
func (r *Runner) fetchRecords(ctx context.Context,
	reachableProviders []provider.Client, domains []models.Domain) (
	assets []models.Asset, fetchErrorsCount int) {
	var mutex sync.Mutex
	var batches [][]models.Asset

	group := new(errgroup.Group)
	group.SetLimit(int(r.concurrency))

	for _, client := range reachableProviders {
		client := client
		for _, domain := range domains {
			domainName := domain.Name
			group.Go(func() error {
				batch, err := client.ListRecords(ctx, domainName)
				switch {
				case errors.Is(err, providererrors.ErrZoneNotFound):
					// the domain is simply not hosted on this provider
					r.logger.Debug("no zone for " + domainName +
						" on " + client.String())
					return nil
				case err != nil:
					r.logger.Warn("listing records of " + domainName +
						" on " + client.String() + ": " + err.Error())
					mutex.Lock()
					fetchErrorsCount++
					mutex.Unlock()
					return nil
				}
				mutex.Lock()
				batches = append(batches, batch)
				mutex.Unlock()
				return nil
			})
		}
	}
	_ = group.Wait() // tasks never return an error

	return inventory.Merge(batches...), fetchErrorsCount
}

// notifyConsumers lets every consumer process the new snapshot.
// A failing consumer does not block the others and keeps its own
// acknowledged snapshot behind for the next run.
func (r *Runner) notifyConsumers(assets []models.Asset,
	domains []models.Domain) (err error) {
	snapshot := diff.Capture(assets, domains)
	var errs []error
	for _, consumer := range r.consumers {
		processErr := consumer.Process(snapshot)
		if processErr != nil {
			r.logger.Error(consumer.String() + ": " + processErr.Error())
			errs = append(errs, fmt.Errorf("%s: %w", consumer, processErr))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) logSummary(domains []models.Domain, assets []models.Asset,
	noDataDomains []string, fetchErrorsCount int, startTime time.Time) {
	activeCount := 0
	for _, asset := range assets {
		if asset.Status == models.AssetStatusActive {
			activeCount++
		}
	}
	r.logger.Info("inventory run completed in " +
		r.timeNow().Sub(startTime).Round(time.Millisecond).String() + ": " +
		strconv.Itoa(len(domains)) + " domains, " +
		strconv.Itoa(activeCount) + " active records, " +
		strconv.Itoa(len(assets)-activeCount) + " removed records, " +
		strconv.Itoa(len(noDataDomains)) + " domains without data, " +
		strconv.Itoa(fetchErrorsCount) + " fetch errors")
}
