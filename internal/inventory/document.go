package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/qdm12/dns-inventory/internal/persistence/statefile"
)

// Document is the master inventory written to disk after each run.
// It is also the previous-state input of the next run's
// reconciliation.
type Document struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	Domains       []models.Domain `json:"domains"`
	Assets        []models.Asset  `json:"assets"`
	NoDataDomains []string        `json:"no_data_domains"`
}

// LoadDocument reads the master inventory from path. A missing file
// yields an empty document. Corrupt content yields an empty document
// together with an error wrapping statefile.ErrCorrupt so the caller
// can warn and rebuild from scratch.
func LoadDocument(path string) (document Document, err error) {
	err = statefile.Load(path, &document)
	if errors.Is(err, statefile.ErrCorrupt) {
		return Document{}, err
	} else if err != nil {
		return document, fmt.Errorf("loading inventory: %w", err)
	}
	return document, nil
}

func (d Document) Save(path string) (err error) {
	return statefile.Save(path, d)
}
