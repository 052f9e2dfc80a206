// Package data holds the in memory view of the latest inventory run,
// served by the web server and queried by the health check.
package data

import (
	"sync"
	"time"

	"github.com/qdm12/dns-inventory/internal/models"
)

type Database struct {
	mutex         sync.RWMutex
	assets        []models.Asset
	domains       []models.Domain
	noDataDomains []string
	lastRunTime   time.Time
	lastRunErr    error
}

// NewDatabase creates a new empty in memory database.
func NewDatabase() *Database {
	return &Database{}
}

// SetInventory replaces the stored inventory with the result of a run.
func (db *Database) SetInventory(assets []models.Asset,
	domains []models.Domain, noDataDomains []string) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.assets = assets
	db.domains = domains
	db.noDataDomains = noDataDomains
}

func (db *Database) Assets() (assets []models.Asset) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	assets = make([]models.Asset, len(db.assets))
	copy(assets, db.assets)
	return assets
}

func (db *Database) Domains() (domains []models.Domain) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	domains = make([]models.Domain, len(db.domains))
	copy(domains, db.domains)
	return domains
}

func (db *Database) NoDataDomains() (noDataDomains []string) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	noDataDomains = make([]string, len(db.noDataDomains))
	copy(noDataDomains, db.noDataDomains)
	return noDataDomains
}

// SetLastRun records the completion time and outcome of a run.
func (db *Database) SetLastRun(t time.Time, err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.lastRunTime = t
	db.lastRunErr = err
}

func (db *Database) LastRun() (t time.Time, err error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.lastRunTime, db.lastRunErr
}
