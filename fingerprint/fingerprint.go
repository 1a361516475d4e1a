package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Length is the number of hex characters in a derived fingerprint.
const Length = 32

// ErrInvalidQuerySpec is returned for malformed query shapes: empty or
// duplicate filter keys, values that cannot be canonicalized, or a Select
// list mixing inclusion and exclusion fields. It is surfaced before any
// store access.
var ErrInvalidQuerySpec = errors.New("invalid query spec")

// Field is one filter predicate. Value may be a scalar or a nested operator
// map such as map[string]any{"gt": 50}; nested maps are canonicalized with
// sorted keys by the JSON encoder.
type Field struct {
	Key   string
	Value any
}

// QuerySpec describes a list or search query shape for fingerprinting.
//
// For plain queries the filter order is irrelevant: keys are sorted before
// hashing, so reordered but equivalent queries collide to the same
// fingerprint. When Search is set the shape is hashed in the given order,
// so the search term's position stays distinguishable from a filter-only
// query carrying the same fields.
type QuerySpec struct {
	Filter []Field
	Sort   string
	Limit  int
	Skip   int
	Select string
	Search string
}

// Query derives the fingerprint of a query shape. Filter predicates are
// merged with the sort/limit/skip/select scalars into one flat shape,
// entries with nil or zero values are dropped, and the result is hashed as
// canonical JSON.
func Query(spec QuerySpec) (string, error) {
	entries := make([]Field, 0, len(spec.Filter)+5)

	if spec.Search != "" {
		entries = append(entries, Field{Key: "value", Value: spec.Search})
	}

	seen := make(map[string]struct{}, len(spec.Filter))
	for _, f := range spec.Filter {
		if f.Key == "" {
			return "", fmt.Errorf("%w: empty filter key", ErrInvalidQuerySpec)
		}
		if _, dup := seen[f.Key]; dup {
			return "", fmt.Errorf("%w: duplicate filter key %q", ErrInvalidQuerySpec, f.Key)
		}
		seen[f.Key] = struct{}{}

		if f.Value == nil {
			continue
		}
		entries = append(entries, f)
	}

	if spec.Sort != "" {
		entries = append(entries, Field{Key: "sort", Value: spec.Sort})
	}
	if spec.Limit > 0 {
		entries = append(entries, Field{Key: "limit", Value: spec.Limit})
	}
	if spec.Skip > 0 {
		entries = append(entries, Field{Key: "skip", Value: spec.Skip})
	}
	if spec.Select != "" {
		if err := validateSelect(spec.Select); err != nil {
			return "", err
		}
		entries = append(entries, Field{Key: "select", Value: spec.Select})
	}

	if spec.Search == "" {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidQuerySpec, err)
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return "", fmt.Errorf("%w: field %q: %v", ErrInvalidQuerySpec, e.Key, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')

	return digest([]byte(b.String())), nil
}

// Binary derives the fingerprint of a raw byte payload, used when the cache
// key source is an uploaded artifact rather than a structured query.
func Binary(payload []byte) string {
	return digest(payload)
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:Length]
}

// validateSelect rejects field-selection lists that mix inclusion and
// exclusion, e.g. "name -password". A leading '-' marks exclusion; '+' or
// no prefix marks inclusion.
func validateSelect(sel string) error {
	var includes, excludes int

	for _, raw := range strings.FieldsFunc(sel, func(r rune) bool { return r == ' ' || r == ',' }) {
		if strings.HasPrefix(raw, "-") {
			excludes++
		} else {
			includes++
		}
	}

	if includes > 0 && excludes > 0 {
		return fmt.Errorf("%w: select mixes inclusion and exclusion fields", ErrInvalidQuerySpec)
	}

	return nil
}
