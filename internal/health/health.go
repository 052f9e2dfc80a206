// Package health exposes the internal healthcheck server together
// with the ephemeral client querying it, used as Docker healthcheck.
package health

import (
	"errors"
	"fmt"
	"time"
)

type Database interface {
	LastRun() (t time.Time, err error)
}

type Logger interface {
	Info(s string)
	Warn(s string)
	Error(s string)
}

var errNoRunCompleted = errors.New("no inventory run completed yet")

// MakeIsHealthy reports healthy once a run completed without error.
// Before the first run completes the program is still starting up,
// which counts as unhealthy so orchestrators wait for real data.
func MakeIsHealthy(db Database, logger Logger) func() error {
	return func() (err error) {
		err = isHealthy(db)
		if err != nil {
			logger.Warn("unhealthy: " + err.Error())
		}
		return err
	}
}

func isHealthy(db Database) (err error) {
	lastRunTime, lastRunErr := db.LastRun()
	if lastRunTime.IsZero() {
		return errNoRunCompleted
	}
	if lastRunErr != nil {
		return fmt.Errorf("last inventory run failed: %w", lastRunErr)
	}
	return nil
}
