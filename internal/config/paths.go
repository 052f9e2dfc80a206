package config

import (
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Paths struct {
	DataDir *string
	// DomainsFallbackFile optionally lists domains to inventory
	// when no provider returns any domain.
	DomainsFallbackFile string
}

func (p *Paths) setDefaults() {
	p.DataDir = gosettings.DefaultPointer(p.DataDir, "./data")
}

func (p Paths) Validate() (err error) {
	return nil
}

func (p Paths) String() string {
	return p.toLinesNode().String()
}

func (p Paths) toLinesNode() *gotree.Node {
	node := gotree.New("Paths")
	node.Appendf("Data directory: %s", *p.DataDir)
	if p.DomainsFallbackFile != "" {
		node.Appendf("Domains fallback file: %s", p.DomainsFallbackFile)
	}
	return node
}

func (p *Paths) read(r *reader.Reader) {
	p.DataDir = r.Get("DATADIR")
	p.DomainsFallbackFile = r.String("DOMAINS_FALLBACK_FILE",
		reader.ForceLowercase(false))
}
