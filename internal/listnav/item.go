package listnav

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/wilbur182/disclosure/internal/node"
)

// Item is one entry of a composite list.
type Item struct {
	// Key identifies the item across SetItems calls. Empty means a hash of
	// the label.
	Key      string
	Label    string
	Disabled bool
	Node     *node.Node
	Value    any
}

// ID returns the item's stable identity.
func (it Item) ID() string {
	if it.Key != "" {
		return it.Key
	}
	return strconv.FormatUint(xxhash.Sum64String(it.Label), 16)
}

// Labels builds enabled items from plain labels.
func Labels(labels ...string) []Item {
	items := make([]Item, len(labels))
	for i, l := range labels {
		items[i] = Item{Label: l}
	}
	return items
}
