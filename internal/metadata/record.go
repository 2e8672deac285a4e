// Package metadata reads and mutates the workflow's metadata.json
// record. The record is a schema-less tree; fields are addressed by
// dotted paths so the workflow driver can evolve the shape without
// code changes here.
package metadata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is the parsed metadata tree.
type Record map[string]any

// Parse decodes a metadata record from JSON.
func Parse(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// Marshal encodes the record as indented JSON.
func (r Record) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Get walks a dotted path and returns the value at its end. The
// second return value distinguishes "present" from "absent": a stored
// null is (nil, true), a missing field is (nil, false).
func (r Record) Get(path string) (any, bool) {
	var current any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Truthy reports whether the value at path is present and non-falsy.
// Empty strings, zero numbers, false, and empty containers all count
// as falsy, matching the record's loosely-typed conventions.
func (r Record) Truthy(path string) bool {
	v, ok := r.Get(path)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// StringAt returns the string at path, or "" when absent or not a
// string.
func (r Record) StringAt(path string) string {
	v, _ := r.Get(path)
	s, _ := v.(string)
	return s
}

// StringsAt returns the list of strings at path. Non-string elements
// are skipped.
func (r Record) StringsAt(path string) []string {
	v, ok := r.Get(path)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Set writes a value at a dotted path, creating intermediate maps as
// needed. Intermediate non-map values are replaced.
func (r Record) Set(path string, value any) {
	keys := strings.Split(path, ".")
	node := map[string]any(r)
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[key] = child
		}
		node = child
	}
	node[keys[len(keys)-1]] = value
}

// CoerceValue converts a CLI-supplied string to the most specific
// type it parses as: bool, int, float, else string.
func CoerceValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
