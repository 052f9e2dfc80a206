package config

import (
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Notify struct {
	// MaxItems caps the number of items detailed per notification
	// message, zero meaning no limit.
	MaxItems *uint16
}

func (n *Notify) setDefaults() {
	const defaultMaxItems = 20
	n.MaxItems = gosettings.DefaultPointer(n.MaxItems, defaultMaxItems)
}

func (n Notify) Validate() (err error) {
	return nil
}

func (n Notify) String() string {
	return n.toLinesNode().String()
}

func (n Notify) toLinesNode() *gotree.Node {
	node := gotree.New("Notify")
	node.Appendf("Maximum items per message: %d", *n.MaxItems)
	return node
}

func (n *Notify) read(reader *reader.Reader) (err error) {
	n.MaxItems, err = reader.Uint16Ptr("NOTIFY_MAX_ITEMS")
	return err
}
