package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/slices"
)

// NodeSet is a set of node ids, encoded on the wire as a JSON array.
// Integer elements are accepted and kept in their decimal form, since some
// harness schemas type neighbor lists as integers.
type NodeSet struct {
	set mapset.Set[string]
}

func NewNodeSet(ids ...string) NodeSet {
	return NodeSet{set: mapset.NewThreadUnsafeSet(ids...)}
}

// Set exposes the underlying set; never nil.
func (s NodeSet) Set() mapset.Set[string] {
	if s.set == nil {
		return mapset.NewThreadUnsafeSet[string]()
	}
	return s.set
}

func (s NodeSet) Contains(id string) bool {
	return s.set != nil && s.set.Contains(id)
}

func (s NodeSet) Len() int {
	if s.set == nil {
		return 0
	}
	return s.set.Cardinality()
}

func (s NodeSet) Equal(other NodeSet) bool {
	return s.Set().Equal(other.Set())
}

// Sorted returns the members in ascending order.
func (s NodeSet) Sorted() []string {
	ids := s.Set().ToSlice()
	slices.Sort(ids)
	return ids
}

func (s NodeSet) Clone() NodeSet {
	return NodeSet{set: s.Set().Clone()}
}

func (s *NodeSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("expected array of node ids, got null")
	}

	set := mapset.NewThreadUnsafeSet[string]()
	for i, elem := range raw {
		switch v := elem.(type) {
		case string:
			set.Add(v)
		case json.Number:
			n, err := strconv.ParseUint(v.String(), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid node id at index %d: %s", i, v)
			}
			set.Add(strconv.FormatUint(n, 10))
		default:
			return fmt.Errorf("invalid node id type at index %d", i)
		}
	}
	s.set = set
	return nil
}

func (s NodeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s NodeSet) String() string {
	return fmt.Sprint(s.Sorted())
}
