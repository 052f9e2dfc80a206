// Package backup periodically zips the JSON state files of the data
// directory to an output directory.
package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

type Logger interface {
	Info(s string)
}

type Service struct {
	// Injected fields
	backupPeriod time.Duration
	dataDir      string
	outputDir    string
	logger       Logger

	// Internal fields
	stopCh chan<- struct{}
	done   <-chan struct{}
}

func New(backupPeriod time.Duration,
	dataDir, outputDir string, logger Logger) *Service {
	return &Service{
		logger:       logger,
		backupPeriod: backupPeriod,
		dataDir:      dataDir,
		outputDir:    outputDir,
	}
}

func (s *Service) String() string {
	return "backup"
}

func makeZipFileName() string {
	return "dns-inventory-backup-" +
		strconv.Itoa(int(time.Now().UnixNano())) + ".zip"
}

func (s *Service) Start(ctx context.Context) (runError <-chan error, startErr error) {
	ready := make(chan struct{})
	runErrorCh := make(chan error)
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	done := make(chan struct{})
	s.done = done
	go run(ready, runErrorCh, stopCh, done,
		s.outputDir, s.dataDir, s.backupPeriod, s.logger)
	select {
	case <-ready:
	case <-ctx.Done():
		return nil, s.Stop()
	}
	return runErrorCh, nil
}

func run(ready chan<- struct{}, runError chan<- error, stopCh <-chan struct{},
	done chan<- struct{}, outputDir, dataDir string, backupPeriod time.Duration,
	logger Logger) {
	defer close(done)

	if backupPeriod == 0 {
		close(ready)
		logger.Info("disabled")
		return
	}

	logger.Info("each " + backupPeriod.String() +
		"; writing zip files to directory " + outputDir)
	timer := time.NewTimer(backupPeriod)
	close(ready)

	for {
		select {
		case <-timer.C:
		case <-stopCh:
			_ = timer.Stop()
			return
		}
		err := backupDataDir(outputDir, dataDir)
		if err != nil {
			runError <- err
			return
		}
		timer.Reset(backupPeriod)
	}
}

// backupDataDir zips every JSON state file of the data directory,
// including the inventory, the discovery ledger, the zone cache and
// the per-consumer snapshots.
func backupDataDir(outputDir, dataDir string) (err error) {
	inputFilepaths, err := filepath.Glob(filepath.Join(dataDir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing data directory: %w", err)
	}
	if len(inputFilepaths) == 0 {
		return nil
	}
	return zipFiles(
		filepath.Join(outputDir, makeZipFileName()),
		inputFilepaths...)
}

func (s *Service) Stop() (err error) {
	close(s.stopCh)
	<-s.done
	return nil
}
