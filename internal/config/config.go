// Package config reads, defaults and validates all the program
// settings from environment variables.
package config

import (
	"fmt"

	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Config struct {
	Client     Client
	GoDaddy    GoDaddy
	Cloudflare Cloudflare
	Fetch      Fetch
	Update     Update
	Server     Server
	Health     Health
	Paths      Paths
	Backup     Backup
	Logger     Logger
	Shoutrrr   Shoutrrr
	Notify     Notify
}

type Warner interface {
	Warnf(format string, a ...interface{})
}

func (c *Config) SetDefaults() {
	c.Client.setDefaults()
	c.GoDaddy.setDefaults()
	c.Cloudflare.setDefaults()
	c.Fetch.setDefaults()
	c.Update.setDefaults()
	c.Server.setDefaults()
	c.Health.SetDefaults()
	c.Paths.setDefaults()
	c.Backup.setDefaults()
	c.Logger.setDefaults()
	c.Shoutrrr.setDefaults()
	c.Notify.setDefaults()
}

func (c Config) Validate() (err error) {
	type validator interface {
		Validate() (err error)
	}
	toValidate := map[string]validator{
		"client":     &c.Client,
		"godaddy":    &c.GoDaddy,
		"cloudflare": &c.Cloudflare,
		"fetch":      &c.Fetch,
		"update":     &c.Update,
		"server":     &c.Server,
		"health":     &c.Health,
		"paths":      &c.Paths,
		"backup":     &c.Backup,
		"logger":     &c.Logger,
		"shoutrrr":   &c.Shoutrrr,
		"notify":     &c.Notify,
	}

	for name, v := range toValidate {
		err = v.Validate()
		if err != nil {
			return fmt.Errorf("%s settings: %w", name, err)
		}
	}

	if !*c.GoDaddy.Enabled && !*c.Cloudflare.Enabled {
		return fmt.Errorf("%w", ErrNoProviderEnabled)
	}

	return nil
}

func (c Config) String() string {
	return c.toLinesNode().String()
}

func (c Config) toLinesNode() *gotree.Node {
	node := gotree.New("Settings summary:")
	node.AppendNode(c.Client.toLinesNode())
	node.AppendNode(c.GoDaddy.toLinesNode())
	node.AppendNode(c.Cloudflare.toLinesNode())
	node.AppendNode(c.Fetch.toLinesNode())
	node.AppendNode(c.Update.toLinesNode())
	node.AppendNode(c.Server.toLinesNode())
	node.AppendNode(c.Health.toLinesNode())
	node.AppendNode(c.Paths.toLinesNode())
	node.AppendNode(c.Backup.toLinesNode())
	node.AppendNode(c.Logger.toLinesNode())
	node.AppendNode(c.Shoutrrr.ToLinesNode())
	node.AppendNode(c.Notify.toLinesNode())
	return node
}

func (c *Config) Read(reader *reader.Reader, warner Warner) (err error) {
	err = c.Client.read(reader)
	if err != nil {
		return fmt.Errorf("reading client settings: %w", err)
	}

	err = c.GoDaddy.read(reader)
	if err != nil {
		return fmt.Errorf("reading godaddy settings: %w", err)
	}

	err = c.Cloudflare.read(reader)
	if err != nil {
		return fmt.Errorf("reading cloudflare settings: %w", err)
	}

	err = c.Fetch.read(reader, warner)
	if err != nil {
		return fmt.Errorf("reading fetch settings: %w", err)
	}

	err = c.Update.read(reader)
	if err != nil {
		return fmt.Errorf("reading update settings: %w", err)
	}

	err = c.Server.read(reader)
	if err != nil {
		return fmt.Errorf("reading server settings: %w", err)
	}

	c.Health.Read(reader)
	c.Paths.read(reader)

	err = c.Backup.read(reader)
	if err != nil {
		return fmt.Errorf("reading backup settings: %w", err)
	}

	err = c.Logger.read(reader)
	if err != nil {
		return fmt.Errorf("reading logger settings: %w", err)
	}

	c.Shoutrrr.read(reader)

	err = c.Notify.read(reader)
	if err != nil {
		return fmt.Errorf("reading notify settings: %w", err)
	}

	return nil
}
