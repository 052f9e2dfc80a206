package config

import (
	"time"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Update struct {
	Period time.Duration
	// RunOnce runs a single inventory pass and exits,
	// instead of running the long lived services.
	RunOnce *bool
}

func (u *Update) setDefaults() {
	const defaultPeriod = 24 * time.Hour
	u.Period = gosettings.DefaultComparable(u.Period, defaultPeriod)
	u.RunOnce = gosettings.DefaultPointer(u.RunOnce, false)
}

func (u Update) Validate() (err error) {
	return nil
}

func (u Update) String() string {
	return u.toLinesNode().String()
}

func (u Update) toLinesNode() *gotree.Node {
	if *u.RunOnce {
		return gotree.New("Update: run once")
	}
	node := gotree.New("Update")
	node.Appendf("Period: %s", u.Period)
	return node
}

func (u *Update) read(reader *reader.Reader) (err error) {
	u.Period, err = reader.Duration("PERIOD")
	if err != nil {
		return err
	}

	u.RunOnce, err = reader.BoolPtr("RUN_ONCE")
	return err
}
