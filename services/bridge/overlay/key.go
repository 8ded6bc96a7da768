// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package overlay

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedKey is returned when a key's text form cannot be parsed.
	ErrMalformedKey = errors.New("malformed overlay key")

	// ErrUnknownMode is returned by ParseMode.
	ErrUnknownMode = errors.New("unknown overlay mode")
)

const (
	separator = '-'
	escape    = '\\'
)

// Key addresses one node or one edge in an overlay map.
//
// Database ids may themselves contain '-', so keys are structured rather
// than joined strings. The text form used for JSON and YAML map keys
// escapes '-' and '\' inside ids; String keeps the plain "from-to"
// rendering for display.
type Key struct {
	From string
	To   string
	Edge bool
}

// NodeKey returns the key for a node.
func NodeKey(id string) Key {
	return Key{From: id}
}

// EdgeKey returns the key for the edge from -> to.
func EdgeKey(from, to string) Key {
	return Key{From: from, To: to, Edge: true}
}

// String renders the key as "id" or "from-to". The edge form is
// ambiguous when ids contain '-'; use MarshalText for a reversible form.
func (k Key) String() string {
	if !k.Edge {
		return k.From
	}
	return k.From + string(separator) + k.To
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	var b strings.Builder
	writeEscaped(&b, k.From)
	if k.Edge {
		b.WriteByte(separator)
		writeEscaped(&b, k.To)
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey parses the escaped text form produced by MarshalText.
func ParseKey(s string) (Key, error) {
	var (
		parts   [2]strings.Builder
		part    int
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			if c != separator && c != escape {
				return Key{}, fmt.Errorf("%w: invalid escape %q in %q", ErrMalformedKey, c, s)
			}
			parts[part].WriteByte(c)
			escaped = false
		case c == escape:
			escaped = true
		case c == separator:
			if part == 1 {
				return Key{}, fmt.Errorf("%w: more than one separator in %q", ErrMalformedKey, s)
			}
			part = 1
		default:
			parts[part].WriteByte(c)
		}
	}
	if escaped {
		return Key{}, fmt.Errorf("%w: trailing escape in %q", ErrMalformedKey, s)
	}
	if part == 0 {
		return NodeKey(parts[0].String()), nil
	}
	return EdgeKey(parts[0].String(), parts[1].String()), nil
}

func writeEscaped(b *strings.Builder, id string) {
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c == separator || c == escape {
			b.WriteByte(escape)
		}
		b.WriteByte(c)
	}
}
