package domain

import (
	"slices"
	"strings"
)

// FieldSet is the backend-specific view of one Target.
// Key must be equal for field sets extracted from equivalent targets so they collapse into one entry.
type FieldSet interface {
	// Address returns the address of the target the field set was extracted from.
	Address() InternedString
	// Key returns the canonical identity of the field set.
	Key() string
}

// SourceFieldSet is the field set used by command backends: the target's sources and attributes.
type SourceFieldSet struct {
	address    InternedString
	kind       InternedString
	sources    []InternedString
	attributes map[string]string
	key        string
}

// NewSourceFieldSet extracts a SourceFieldSet from the target.
// The target is copied, later changes to it are not observed.
func NewSourceFieldSet(t *Target) *SourceFieldSet {
	sources := slices.Clone(t.Sources)
	attrs := make(map[string]string, len(t.Attributes))
	for k, v := range t.Attributes {
		attrs[k] = v
	}

	fs := &SourceFieldSet{
		address:    t.Address,
		kind:       t.Kind,
		sources:    sources,
		attributes: attrs,
	}
	fs.key = fs.computeKey()
	return fs
}

// Address returns the target address.
func (fs *SourceFieldSet) Address() InternedString {
	return fs.address
}

// Kind returns the target kind.
func (fs *SourceFieldSet) Kind() InternedString {
	return fs.kind
}

// Sources returns a copy of the source paths.
func (fs *SourceFieldSet) Sources() []string {
	out := make([]string, len(fs.sources))
	for i, s := range fs.sources {
		out[i] = s.String()
	}
	return out
}

// Attribute returns the value of a target attribute.
func (fs *SourceFieldSet) Attribute(name string) (string, bool) {
	v, ok := fs.attributes[name]
	return v, ok
}

// Key returns the canonical identity: address, kind, sorted sources and sorted attributes.
func (fs *SourceFieldSet) Key() string {
	return fs.key
}

func (fs *SourceFieldSet) computeKey() string {
	var b strings.Builder
	b.WriteString(fs.address.String())
	b.WriteByte(0)
	b.WriteString(fs.kind.String())
	b.WriteByte(0)

	sources := fs.Sources()
	slices.Sort(sources)
	for _, s := range sources {
		b.WriteString(s)
		b.WriteByte(0)
	}
	b.WriteByte(0)

	keys := make([]string, 0, len(fs.attributes))
	for k := range fs.attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fs.attributes[k])
		b.WriteByte(0)
	}
	return b.String()
}

// FieldSets is an order-stable, duplicate-free collection of field sets keyed by FieldSet.Key.
// The zero value is ready to use.
type FieldSets struct {
	index map[string]struct{}
	items []FieldSet
}

// NewFieldSets creates a collection holding the given field sets, dropping duplicates.
func NewFieldSets(items ...FieldSet) *FieldSets {
	s := &FieldSets{}
	for _, fs := range items {
		s.Add(fs)
	}
	return s
}

// Add appends fs unless a field set with the same key is already present.
// It reports whether fs was added.
func (s *FieldSets) Add(fs FieldSet) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	key := fs.Key()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.items = append(s.items, fs)
	return true
}

// Len returns the number of distinct field sets.
func (s *FieldSets) Len() int {
	return len(s.items)
}

// All returns the field sets in insertion order.
func (s *FieldSets) All() []FieldSet {
	return slices.Clone(s.items)
}
