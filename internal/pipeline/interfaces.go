package pipeline

import (
	"time"

	"github.com/qdm12/dns-inventory/internal/diff"
	"github.com/qdm12/dns-inventory/internal/models"
)

type Database interface {
	SetInventory(assets []models.Asset, domains []models.Domain,
		noDataDomains []string)
	SetLastRun(t time.Time, err error)
}

// ConsumerProcessor is implemented by notify consumers.
type ConsumerProcessor interface {
	String() string
	Process(current diff.Snapshot) (err error)
}

type ZoneCache interface {
	Save() (err error)
}

type Logger interface {
	Debug(s string)
	Info(s string)
	Warn(s string)
	Error(s string)
}
