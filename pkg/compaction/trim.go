// Package compaction caps JSON artifacts at a byte budget by deleting
// caller-ranked fields, least important first.
package compaction

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Path addresses a field by its JSON keys from the root object.
type Path []string

// Result is the compacted JSON and what it took to get there.
type Result struct {
	Data    json.RawMessage
	Bytes   int
	Fits    bool
	Dropped []Path
}

// TrimToByteBudget serializes v and, when it exceeds maxBytes, deletes the
// given paths one at a time from a decoded copy until the output fits. When
// every path is gone and the copy is still too large it is returned as-is
// with Fits=false. Object keys of a trimmed copy are emitted sorted, so the
// output depends only on the input and the drop order.
func TrimToByteBudget(v any, maxBytes int, dropPaths []Path) (Result, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Result{}, fmt.Errorf("marshal: %w", err)
	}
	if len(raw) <= maxBytes {
		return Result{Data: raw, Bytes: len(raw), Fits: true}, nil
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}

	res := Result{Data: raw, Bytes: len(raw)}
	for _, path := range dropPaths {
		if deletePath(doc, path) {
			res.Dropped = append(res.Dropped, path)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return Result{}, fmt.Errorf("marshal trimmed: %w", err)
		}
		res.Data, res.Bytes = out, len(out)
		if len(out) <= maxBytes {
			res.Fits = true
			return res, nil
		}
	}
	if len(dropPaths) == 0 {
		out, err := json.Marshal(doc)
		if err != nil {
			return Result{}, fmt.Errorf("marshal trimmed: %w", err)
		}
		res.Data, res.Bytes = out, len(out)
	}
	return res, nil
}

// deletePath removes the last key of path from the object it addresses.
// Missing intermediates or non-object values leave doc untouched.
func deletePath(doc any, path Path) bool {
	if len(path) == 0 {
		return false
	}
	ref := doc
	for _, key := range path[:len(path)-1] {
		obj, ok := ref.(map[string]any)
		if !ok {
			return false
		}
		ref = obj[key]
	}
	obj, ok := ref.(map[string]any)
	if !ok {
		return false
	}
	last := path[len(path)-1]
	if _, ok := obj[last]; !ok {
		return false
	}
	delete(obj, last)
	return true
}
