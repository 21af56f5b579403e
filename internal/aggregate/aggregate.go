package aggregate

import (
	"fmt"
	"strings"
)

// Policy decides what a fetched item does to a collection that may already
// hold an item with the same key.
type Policy int

const (
	// ReplaceByKey removes every item with the same key, then appends the new
	// one (last write wins, insertion order of the rest preserved).
	ReplaceByKey Policy = iota
	// AppendAlways appends unconditionally; repeated keys accumulate.
	AppendAlways
)

func (p Policy) String() string {
	switch p {
	case ReplaceByKey:
		return "replace_by_key"
	case AppendAlways:
		return "append_always"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy reads a policy name. Rules:
// - case and surrounding spaces are ignored
// - "replace", "replace_by_key", "dedupe" -> ReplaceByKey
// - "append", "append_always", "" -> AppendAlways
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "replace_by_key", "dedupe":
		return ReplaceByKey, nil
	case "append", "append_always", "":
		return AppendAlways, nil
	}
	return AppendAlways, fmt.Errorf("unknown merge policy %q", s)
}

// Grows reports whether merging an item with key under policy adds a slot.
func Grows[T any](list []T, key string, policy Policy, keyOf func(T) string) bool {
	if policy == AppendAlways {
		return true
	}
	for _, it := range list {
		if keyOf(it) == key {
			return false
		}
	}
	return true
}

// Merge applies item to list under policy and returns the new list. The input
// slice is not modified.
func Merge[T any](list []T, item T, policy Policy, keyOf func(T) string) []T {
	var out []T
	switch policy {
	case ReplaceByKey:
		out = RemoveAll(list, keyOf(item), keyOf)
	default:
		out = make([]T, len(list), len(list)+1)
		copy(out, list)
	}
	return append(out, item)
}

// RemoveAll returns a copy of list without the items whose key is key.
func RemoveAll[T any](list []T, key string, keyOf func(T) string) []T {
	out := make([]T, 0, len(list)+1)
	for _, it := range list {
		if keyOf(it) != key {
			out = append(out, it)
		}
	}
	return out
}
