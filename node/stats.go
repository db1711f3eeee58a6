package node

import (
	"fmt"
	"strings"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/tobiajo/whirlpool/protocol"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Stats counts processed messages per inbound type. Safe to read from
// another goroutine while the node runs.
type Stats struct {
	counts cmap.ConcurrentMap[string, uint64]
}

func NewStats() *Stats {
	return &Stats{
		counts: cmap.New[uint64](),
	}
}

func (s *Stats) Record(typ protocol.Type) {
	s.counts.Upsert(string(typ), 1, func(exist bool, valueInMap uint64, newValue uint64) uint64 {
		if exist {
			return valueInMap + newValue
		}
		return newValue
	})
}

func (s *Stats) Count(typ protocol.Type) uint64 {
	n, _ := s.counts.Get(string(typ))
	return n
}

func (s *Stats) Total() uint64 {
	var total uint64
	for _, n := range s.counts.Items() {
		total += n
	}
	return total
}

// String renders the counts as "type=n" pairs sorted by type.
func (s *Stats) String() string {
	items := s.counts.Items()
	types := maps.Keys(items)
	slices.Sort(types)

	pairs := make([]string, 0, len(types))
	for _, typ := range types {
		pairs = append(pairs, fmt.Sprintf("%s=%d", typ, items[typ]))
	}
	return strings.Join(pairs, " ")
}
