// Package notify delivers "new item" notifications per consumer
// channel, each with its own acknowledged snapshot file so consumers
// catch up independently after downtime.
package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/qdm12/dns-inventory/internal/diff"
	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/persistence/statefile"
)

type Dispatcher interface {
	Notify(message string) (err error)
}

type Logger interface {
	Debug(s string)
	Info(s string)
	Warn(s string)
}

// Kind selects which part of the inventory a consumer reports on.
type Kind string

const (
	KindAssets  Kind = "assets"
	KindDomains Kind = "domains"
)

// Consumer notifies about inventory items appearing for the first
// time since its last acknowledged snapshot.
type Consumer struct {
	name         string
	kind         Kind
	snapshotPath string
	maxItems     uint
	dispatcher   Dispatcher
	logger       Logger
}

type ConsumerSettings struct {
	Name         string
	Kind         Kind
	SnapshotPath string
	MaxItems     uint
	Dispatcher   Dispatcher
	Logger       Logger
}

func NewConsumer(settings ConsumerSettings) *Consumer {
	return &Consumer{
		name:         settings.Name,
		kind:         settings.Kind,
		snapshotPath: settings.SnapshotPath,
		maxItems:     settings.MaxItems,
		dispatcher:   settings.Dispatcher,
		logger:       settings.Logger,
	}
}

func (c *Consumer) String() string {
	return "consumer " + c.name
}

// Process diffs the current snapshot against the consumer's last
// acknowledged one, dispatches a message if anything is new, and
// acknowledges the current snapshot. The snapshot is acknowledged
// when there is nothing to send as well, but never after a failed
// dispatch, so undelivered items are retried next run.
func (c *Consumer) Process(current diff.Snapshot) (err error) {
	lastAcknowledged, err := diff.LoadSnapshot(c.snapshotPath)
	switch {
	case errors.Is(err, statefile.ErrCorrupt):
		c.logger.Warn("snapshot for " + c.name + " is corrupt, " +
			"treating all current items as new: " + err.Error())
	case err != nil:
		return fmt.Errorf("loading acknowledged snapshot: %w", err)
	}

	message := c.buildMessage(current, lastAcknowledged)
	if message == "" {
		c.logger.Debug("nothing new for consumer " + c.name)
	} else {
		err = c.dispatcher.Notify(message)
		if err != nil {
			return fmt.Errorf("dispatching to %s: %w", c.name, err)
		}
		c.logger.Info("notified consumer " + c.name)
	}

	err = diff.SaveSnapshot(c.snapshotPath, current)
	if err != nil {
		return fmt.Errorf("saving acknowledged snapshot: %w", err)
	}
	return nil
}

func (c *Consumer) buildMessage(current, lastAcknowledged diff.Snapshot) (
	message string) {
	switch c.kind {
	case KindDomains:
		newDomains := current.NewDomains(lastAcknowledged)
		if len(newDomains) == 0 {
			return ""
		}
		lines := make([]string, len(newDomains))
		for i, domain := range newDomains {
			lines[i] = domainLine(domain)
		}
		return formatMessage("domain", lines, c.maxItems)
	default: // KindAssets
		newAssets := current.NewAssets(lastAcknowledged)
		if len(newAssets) == 0 {
			return ""
		}
		lines := make([]string, len(newAssets))
		for i, asset := range newAssets {
			lines[i] = assetLine(asset)
		}
		return formatMessage("DNS record", lines, c.maxItems)
	}
}

func assetLine(asset models.Asset) string {
	return fmt.Sprintf("%s %s -> %s (%s, first seen %s)",
		asset.RecordType, asset.BuildDomainName(),
		asset.Value, asset.Source, asset.DiscoveryDate)
}

func domainLine(domain models.Domain) string {
	return fmt.Sprintf("%s [%s] (%s, first seen %s)",
		domain.Name, domain.Status, domain.Source, domain.DiscoveryDate)
}

func formatMessage(noun string, lines []string, maxItems uint) string {
	total := len(lines)
	truncated := 0
	if maxItems > 0 && total > int(maxItems) {
		truncated = total - int(maxItems)
		lines = lines[:maxItems]
	}

	builder := new(strings.Builder)
	plural := ""
	if total > 1 {
		plural = "s"
	}
	fmt.Fprintf(builder, "%d new %s%s discovered:\n", total, noun, plural)
	for _, line := range lines {
		builder.WriteString("- " + line + "\n")
	}
	if truncated > 0 {
		fmt.Fprintf(builder, "... and %d more", truncated)
	}
	return strings.TrimSuffix(builder.String(), "\n")
}
