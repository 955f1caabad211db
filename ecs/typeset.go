package ecs

import (
	"slices"
	"strconv"
	"strings"
)

// TypeSet is a sorted, de-duplicated set of component ids plus a 64-bit
// membership mask. Each id contributes one bit chosen by hashing the id, so the
// mask is a fast necessary (not sufficient) pre-filter for set comparisons.
// A TypeSet is immutable once built.
type TypeSet struct {
	ids  []ComponentId
	mask uint64
}

// NewTypeSet builds a set from ids, sorting them and dropping duplicates.
func NewTypeSet(ids ...ComponentId) TypeSet {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var mask uint64
	for _, id := range sorted {
		mask |= flagOf(id)
	}
	return TypeSet{ids: sorted, mask: mask}
}

// flagOf maps an id to its mask bit using Fibonacci hashing onto 6 bits.
func flagOf(id ComponentId) uint64 {
	return 1 << ((uint64(id) * 0x9E3779B97F4A7C15) >> 58)
}

// Len returns the number of ids in the set.
func (s TypeSet) Len() int { return len(s.ids) }

// Ids returns the sorted ids. The slice must not be modified.
func (s TypeSet) Ids() []ComponentId { return s.ids }

// Mask returns the membership mask.
func (s TypeSet) Mask() uint64 { return s.mask }

// Clone returns a deep copy of the set.
func (s TypeSet) Clone() TypeSet {
	return TypeSet{ids: slices.Clone(s.ids), mask: s.mask}
}

// Contains reports whether id is a member of the set.
func (s TypeSet) Contains(id ComponentId) bool {
	if s.mask&flagOf(id) == 0 {
		return false
	}
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

// With reports whether s is a superset of other.
func (s TypeSet) With(other TypeSet) bool {
	if s.mask&other.mask != other.mask || len(other.ids) > len(s.ids) {
		return false
	}

	i := 0
	for _, want := range other.ids {
		for i < len(s.ids) && s.ids[i] < want {
			i++
		}
		if i == len(s.ids) || s.ids[i] != want {
			return false
		}
		i++
	}
	return true
}

// Without reports whether s and other share no ids.
func (s TypeSet) Without(other TypeSet) bool {
	if s.mask&other.mask == 0 {
		return true
	}

	i, j := 0, 0
	for i < len(s.ids) && j < len(other.ids) {
		switch {
		case s.ids[i] < other.ids[j]:
			i++
		case s.ids[i] > other.ids[j]:
			j++
		default:
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold exactly the same ids. Equal masks alone
// are not enough: distinct ids can share a mask bit.
func (s TypeSet) Equal(other TypeSet) bool {
	return s.mask == other.mask && slices.Equal(s.ids, other.ids)
}

// Union returns the set of ids present in either set.
func (s TypeSet) Union(other TypeSet) TypeSet {
	ids := make([]ComponentId, 0, len(s.ids)+len(other.ids))
	i, j := 0, 0
	for i < len(s.ids) && j < len(other.ids) {
		switch {
		case s.ids[i] < other.ids[j]:
			ids = append(ids, s.ids[i])
			i++
		case s.ids[i] > other.ids[j]:
			ids = append(ids, other.ids[j])
			j++
		default:
			ids = append(ids, s.ids[i])
			i++
			j++
		}
	}
	ids = append(ids, s.ids[i:]...)
	ids = append(ids, other.ids[j:]...)
	return TypeSet{ids: ids, mask: s.mask | other.mask}
}

// Difference returns the ids of s that are not in other.
func (s TypeSet) Difference(other TypeSet) TypeSet {
	ids := make([]ComponentId, 0, len(s.ids))
	var mask uint64
	j := 0
	for _, id := range s.ids {
		for j < len(other.ids) && other.ids[j] < id {
			j++
		}
		if j < len(other.ids) && other.ids[j] == id {
			continue
		}
		ids = append(ids, id)
		mask |= flagOf(id)
	}
	return TypeSet{ids: ids, mask: mask}
}

// Hash returns an FNV-1a hash of the sorted ids, used to index archetypes.
func (s TypeSet) Hash() uint64 {
	var h uint64 = 14695981039346656037 // FNV-1a 64-bit offset basis
	const prime uint64 = 1099511628211  // FNV-1a 64-bit prime

	for _, id := range s.ids {
		for shift := 0; shift < 32; shift += 8 {
			h ^= uint64(byte(id >> shift))
			h *= prime
		}
	}
	return h
}

func (s TypeSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, id := range s.ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	sb.WriteByte('}')
	return sb.String()
}
