package config

import (
	"errors"
	"fmt"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Cloudflare struct {
	Enabled *bool
	Token   string
}

var ErrCloudflareTokenNotSet = errors.New("CLOUDFLARE_API_TOKEN is not set")

func (c *Cloudflare) setDefaults() {
	c.Enabled = gosettings.DefaultPointer(c.Enabled, true)
}

func (c Cloudflare) Validate() (err error) {
	if !*c.Enabled {
		return nil
	}
	if c.Token == "" {
		return fmt.Errorf("%w", ErrCloudflareTokenNotSet)
	}
	return nil
}

func (c Cloudflare) String() string {
	return c.toLinesNode().String()
}

func (c Cloudflare) toLinesNode() *gotree.Node {
	if !*c.Enabled {
		return gotree.New("Cloudflare: disabled")
	}
	node := gotree.New("Cloudflare")
	node.Appendf("API token: %s", obfuscateSecret(c.Token))
	return node
}

func (c *Cloudflare) read(r *reader.Reader) (err error) {
	c.Enabled, err = r.BoolPtr("CLOUDFLARE_ENABLED")
	if err != nil {
		return err
	}
	c.Token = r.String("CLOUDFLARE_API_TOKEN", reader.ForceLowercase(false))
	return nil
}
