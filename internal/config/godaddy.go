package config

import (
	"errors"
	"fmt"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type GoDaddy struct {
	Enabled *bool
	Key     string
	Secret  string
}

var (
	ErrGoDaddyKeyNotSet    = errors.New("GODADDY_API_KEY is not set")
	ErrGoDaddySecretNotSet = errors.New("GODADDY_API_SECRET is not set")
	ErrNoProviderEnabled   = errors.New("no provider is enabled")
)

func (g *GoDaddy) setDefaults() {
	g.Enabled = gosettings.DefaultPointer(g.Enabled, true)
}

func (g GoDaddy) Validate() (err error) {
	if !*g.Enabled {
		return nil
	}
	if g.Key == "" {
		return fmt.Errorf("%w", ErrGoDaddyKeyNotSet)
	}
	if g.Secret == "" {
		return fmt.Errorf("%w", ErrGoDaddySecretNotSet)
	}
	return nil
}

func (g GoDaddy) String() string {
	return g.toLinesNode().String()
}

func (g GoDaddy) toLinesNode() *gotree.Node {
	if !*g.Enabled {
		return gotree.New("GoDaddy: disabled")
	}
	node := gotree.New("GoDaddy")
	node.Appendf("API key: %s", obfuscateSecret(g.Key))
	node.Appendf("API secret: %s", obfuscateSecret(g.Secret))
	return node
}

func (g *GoDaddy) read(r *reader.Reader) (err error) {
	g.Enabled, err = r.BoolPtr("GODADDY_ENABLED")
	if err != nil {
		return err
	}
	g.Key = r.String("GODADDY_API_KEY", reader.ForceLowercase(false))
	g.Secret = r.String("GODADDY_API_SECRET", reader.ForceLowercase(false))
	return nil
}
