package server

import (
	"context"
	"time"

	"github.com/qdm12/dns-inventory/internal/models"
)

type Database interface {
	Assets() (assets []models.Asset)
	Domains() (domains []models.Domain)
	NoDataDomains() (noDataDomains []string)
	LastRun() (t time.Time, err error)
}

type RunForcer interface {
	ForceRun(ctx context.Context) (err error)
}

type Logger interface {
	Info(s string)
	Warn(s string)
	Error(s string)
}
