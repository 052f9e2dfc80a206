package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/breml/rootcerts"
	"github.com/joho/godotenv"
	"github.com/qdm12/dns-inventory/internal/backup"
	"github.com/qdm12/dns-inventory/internal/config"
	"github.com/qdm12/dns-inventory/internal/data"
	"github.com/qdm12/dns-inventory/internal/health"
	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/noop"
	"github.com/qdm12/dns-inventory/internal/notify"
	"github.com/qdm12/dns-inventory/internal/pipeline"
	"github.com/qdm12/dns-inventory/internal/provider"
	"github.com/qdm12/dns-inventory/internal/provider/fetch"
	"github.com/qdm12/dns-inventory/internal/provider/providers/cloudflare"
	"github.com/qdm12/dns-inventory/internal/provider/providers/godaddy"
	"github.com/qdm12/dns-inventory/internal/server"
	"github.com/qdm12/dns-inventory/internal/shoutrrr"
	"github.com/qdm12/dns-inventory/internal/zonecache"
	"github.com/qdm12/goservices"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosplash"
	"github.com/qdm12/log"
)

//nolint:gochecknoglobals
var (
	version = "unknown"
	commit  = "unknown"
	date    = "an unknown date"
)

func main() {
	buildInfo := models.BuildInformation{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	logger := log.New()

	reader := reader.New(reader.Settings{
		HandleDeprecatedKey: func(source, oldKey, newKey string) {
			logger.Warnf("%q key %s is deprecated, please use %q instead",
				source, oldKey, newKey)
		},
	})

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)

	errorCh := make(chan error)
	go func() {
		errorCh <- _main(ctx, reader, os.Args, logger, buildInfo)
	}()

	select {
	case <-ctx.Done():
		stop()
		logger.Warn("Caught OS signal, shutting down")
	case err := <-errorCh:
		stop()
		close(errorCh)
		if err == nil { // expected exit such as healthcheck or run-once
			os.Exit(0)
		}
		logger.Error(err.Error())
		cancel()
	}

	const shutdownGracePeriod = 5 * time.Second
	timer := time.NewTimer(shutdownGracePeriod)
	select {
	case err := <-errorCh:
		if !timer.Stop() {
			<-timer.C
		}
		if err != nil {
			logger.Error(err.Error())
		}
		logger.Info("Shutdown successful")
	case <-timer.C:
		logger.Warn("Shutdown timed out")
	}

	os.Exit(1)
}

//nolint:gocyclo,cyclop
func _main(ctx context.Context, reader *reader.Reader, args []string,
	logger log.LoggerInterface, buildInfo models.BuildInformation) (err error) {
	if len(args) > 1 {
		switch args[1] {
		case "version", "-version", "--version":
			fmt.Println(buildInfo.VersionString())
			return nil
		case "healthcheck":
			// Running the program in a separate instance through the Docker
			// built-in healthcheck, in an ephemeral fashion to query the
			// long running instance of the program about its status
			var healthSettings config.Health
			healthSettings.Read(reader)
			healthSettings.SetDefaults()
			err = healthSettings.Validate()
			if err != nil {
				return fmt.Errorf("health settings: %w", err)
			}

			client := health.NewClient()
			return client.Query(ctx, *healthSettings.ServerAddress)
		}
	}

	err = loadSecretsFile(logger)
	if err != nil {
		return err
	}

	printSplash(buildInfo)

	config, err := readConfig(reader, logger)
	if err != nil {
		return err
	}

	shoutrrrClient, err := shoutrrr.New(shoutrrr.Settings{
		Addresses:    config.Shoutrrr.Addresses,
		DefaultTitle: config.Shoutrrr.DefaultTitle,
		Logger:       logger.New(log.SetComponent("shoutrrr")),
	})
	if err != nil {
		return fmt.Errorf("setting up shoutrrr: %w", err)
	}

	dataDir := *config.Paths.DataDir
	err = os.MkdirAll(dataDir, 0o755)
	if err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	httpClient := &http.Client{Timeout: config.Client.Timeout}
	defer httpClient.CloseIdleConnections()

	zones := zonecache.New(zonecache.Settings{
		Path: filepath.Join(dataDir, "zonecache.json"),
		TTL:  config.Fetch.ZoneCacheTTL,
	})
	err = zones.Load()
	if err != nil {
		logger.Warn("zone cache is unusable, starting empty: " + err.Error())
	}

	providers, err := setupProviders(config, httpClient, zones)
	if err != nil {
		return fmt.Errorf("setting up providers: %w", err)
	}

	db := data.NewDatabase()
	consumers := setupConsumers(config, dataDir, shoutrrrClient, logger)

	runner := pipeline.NewRunner(pipeline.RunnerSettings{
		Providers:           providers,
		Zones:               zones,
		Concurrency:         uint(*config.Fetch.Concurrency),
		DataDir:             dataDir,
		FallbackDomainsFile: config.Paths.DomainsFallbackFile,
		Consumers:           consumers,
		Database:            db,
		Logger:              logger.New(log.SetComponent("pipeline")),
	})

	if *config.Update.RunOnce {
		logger.Info("running a single inventory pass")
		return runner.RunOnce(ctx)
	}

	pipelineService := pipeline.NewService(runner, config.Update.Period,
		logger.New(log.SetComponent("pipeline")))

	healthServer, err := createHealthServer(db, logger, *config.Health.ServerAddress)
	if err != nil {
		return fmt.Errorf("creating health server: %w", err)
	}

	httpServer, err := createServer(ctx, config.Server, dataDir, db,
		logger, pipelineService)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	var backupService goservices.Service
	backupLogger := logger.New(log.SetComponent("backup"))
	backupService = backup.New(*config.Backup.Period, dataDir,
		*config.Backup.Directory, backupLogger)
	backupService, err = goservices.NewRestarter(goservices.RestarterSettings{Service: backupService})
	if err != nil {
		return fmt.Errorf("creating backup restarter: %w", err)
	}

	servicesSequence, err := goservices.NewSequence(goservices.SequenceSettings{
		ServicesStart: []goservices.Service{pipelineService, healthServer, httpServer, backupService},
		ServicesStop:  []goservices.Service{httpServer, healthServer, pipelineService, backupService},
	})
	if err != nil {
		return fmt.Errorf("creating services sequence: %w", err)
	}

	runError, startErr := servicesSequence.Start(ctx)
	if startErr != nil {
		return fmt.Errorf("starting services: %w", startErr)
	}

	// initial run without waiting for the first period to elapse;
	// its error is already logged by the pipeline service user.
	go func() {
		err := pipelineService.ForceRun(ctx)
		if err != nil && ctx.Err() == nil {
			logger.Error("initial inventory run: " + err.Error())
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-runError:
		notifyError(shoutrrrClient, err)
		return fmt.Errorf("exiting due to critical error: %w", err)
	}

	err = servicesSequence.Stop()
	if err != nil {
		notifyError(shoutrrrClient, err)
		return fmt.Errorf("stopping failed: %w", err)
	}

	return nil
}

// loadSecretsFile loads provider credentials from a dotenv file if
// SECRETS_FILE points to one, before the environment is read.
func loadSecretsFile(logger log.LoggerInterface) (err error) {
	secretsFile := os.Getenv("SECRETS_FILE")
	if secretsFile == "" {
		return nil
	}
	err = godotenv.Load(secretsFile)
	if err != nil {
		return fmt.Errorf("loading secrets file: %w", err)
	}
	logger.Info("loaded secrets from " + secretsFile)
	return nil
}

func printSplash(buildInfo models.BuildInformation) {
	splashSettings := gosplash.Settings{
		User:       "qdm12",
		Repository: "dns-inventory",
		Emails:     []string{"quentin.mcgaw@gmail.com"},
		Version:    buildInfo.Version,
		Commit:     buildInfo.Commit,
		BuildDate:  buildInfo.Date,
		// Sponsor information
		PaypalUser:    "qmcgaw",
		GithubSponsor: "qdm12",
	}
	for _, line := range gosplash.MakeLines(splashSettings) {
		fmt.Println(line)
	}
}

func readConfig(reader *reader.Reader, logger log.LoggerInterface) (
	config config.Config, err error) {
	err = config.Read(reader, logger)
	if err != nil {
		return config, fmt.Errorf("reading settings: %w", err)
	}
	config.SetDefaults()
	err = config.Validate()
	if err != nil {
		return config, fmt.Errorf("settings validation: %w", err)
	}

	logger.Patch(config.Logger.ToOptions()...)
	logger.Info(config.String())

	return config, nil
}

func setupProviders(config config.Config, httpClient *http.Client,
	zones *zonecache.Cache) (providers []provider.Client, err error) {
	if *config.GoDaddy.Enabled {
		fetcher := fetch.New(fetch.Settings{
			Client:      httpClient,
			MinDelay:    config.Fetch.MinDelay,
			MaxAttempts: uint64(*config.Fetch.MaxAttempts),
		})
		godaddyProvider, err := godaddy.New(godaddy.Settings{
			Fetcher:  fetcher,
			Key:      config.GoDaddy.Key,
			Secret:   config.GoDaddy.Secret,
			PageSize: uint(*config.Fetch.PageSize),
		})
		if err != nil {
			return nil, fmt.Errorf("creating godaddy provider: %w", err)
		}
		providers = append(providers, godaddyProvider)
	}

	if *config.Cloudflare.Enabled {
		fetcher := fetch.New(fetch.Settings{
			Client:      httpClient,
			MinDelay:    config.Fetch.MinDelay,
			MaxAttempts: uint64(*config.Fetch.MaxAttempts),
		})
		cloudflareProvider, err := cloudflare.New(cloudflare.Settings{
			Fetcher:  fetcher,
			Token:    config.Cloudflare.Token,
			PageSize: uint(*config.Fetch.PageSize),
			Zones:    zones,
		})
		if err != nil {
			return nil, fmt.Errorf("creating cloudflare provider: %w", err)
		}
		providers = append(providers, cloudflareProvider)
	}

	return providers, nil
}

func setupConsumers(config config.Config, dataDir string,
	shoutrrrClient *shoutrrr.Client, logger log.LoggerInterface) (
	consumers []pipeline.ConsumerProcessor) {
	if len(config.Shoutrrr.Addresses) == 0 {
		return nil
	}
	notifyLogger := logger.New(log.SetComponent("notify"))
	consumers = append(consumers,
		notify.NewConsumer(notify.ConsumerSettings{
			Name:         "shoutrrr-assets",
			Kind:         notify.KindAssets,
			SnapshotPath: filepath.Join(dataDir, "snapshot-assets.json"),
			MaxItems:     uint(*config.Notify.MaxItems),
			Dispatcher:   shoutrrrClient,
			Logger:       notifyLogger,
		}),
		notify.NewConsumer(notify.ConsumerSettings{
			Name:         "shoutrrr-domains",
			Kind:         notify.KindDomains,
			SnapshotPath: filepath.Join(dataDir, "snapshot-domains.json"),
			MaxItems:     uint(*config.Notify.MaxItems),
			Dispatcher:   shoutrrrClient,
			Logger:       notifyLogger,
		}),
	)
	return consumers
}

func notifyError(shoutrrrClient *shoutrrr.Client, err error) {
	notifyErr := shoutrrrClient.Notify(err.Error())
	_ = notifyErr // already logged by the shoutrrr client
}

//nolint:ireturn
func createHealthServer(db *data.Database, logger log.LoggerInterface,
	serverAddress string) (healthServer goservices.Service, err error) {
	if !health.IsDocker() {
		return noop.New("healthcheck server"), nil
	}
	healthLogger := logger.New(log.SetComponent("healthcheck server"))
	isHealthy := health.MakeIsHealthy(db, healthLogger)
	return health.NewServer(serverAddress, healthLogger, isHealthy)
}

//nolint:ireturn
func createServer(ctx context.Context, config config.Server, dataDir string,
	db *data.Database, logger log.LoggerInterface,
	forcer server.RunForcer) (service goservices.Service, err error) {
	if !*config.Enabled {
		return noop.New("server"), nil
	}
	serverLogger := logger.New(log.SetComponent("http server"))
	return server.New(ctx, config.ListeningAddress, config.RootURL,
		dataDir, db, serverLogger, forcer)
}
