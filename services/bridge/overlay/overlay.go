// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package overlay models the visual hints an algorithm attaches to its
// result: a per-node/per-edge colour intensity map, an optional size map,
// and the mode telling the renderer how to interpret them.
package overlay

import (
	"fmt"
	"strconv"
)

// Mode tells the renderer how to read the colour and size maps.
type Mode int

const (
	// ModeColorImportant highlights keys present in the colour map.
	ModeColorImportant Mode = 1

	// ModeColorShadeDefault shades keys by intensity in [0, 1].
	ModeColorShadeDefault Mode = 2

	// ModeColorShadeError shades keys with the error palette.
	ModeColorShadeError Mode = 3

	// ModeSizeScalar scales node size by the size map.
	ModeSizeScalar Mode = 4

	// ModeRainbow assigns one hue per distinct colour value.
	ModeRainbow Mode = 5

	// ModeUnresolved marks a trivial result produced without running the
	// engine because an argument id was not in the graph.
	ModeUnresolved Mode = 6
)

var modeNames = map[Mode]string{
	ModeColorImportant:    "color_important",
	ModeColorShadeDefault: "color_shade_default",
	ModeColorShadeError:   "color_shade_error",
	ModeSizeScalar:        "size_scalar",
	ModeRainbow:           "rainbow",
	ModeUnresolved:        "unresolved",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode converts an engine mode number, rejecting unknown values.
func ParseMode(n int) (Mode, error) {
	m := Mode(n)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownMode, n)
	}
	return m, nil
}

// Overlay is the translated colour and size maps of a result.
type Overlay struct {
	Colors map[Key]float64 `json:"colors" yaml:"colors"`

	// Sizes is nil when the engine produced no size map.
	Sizes map[Key]float64 `json:"sizes,omitempty" yaml:"sizes,omitempty"`
}

// New returns an Overlay with an empty colour map.
func New() Overlay {
	return Overlay{Colors: make(map[Key]float64)}
}

// Highlight sets every given node id to full intensity.
func (o Overlay) Highlight(ids ...string) {
	for _, id := range ids {
		o.Colors[NodeKey(id)] = 1
	}
}

// Color returns the colour of k and whether it is present.
func (o Overlay) Color(k Key) (float64, bool) {
	v, ok := o.Colors[k]
	return v, ok
}

// Size returns the size of k and whether it is present.
func (o Overlay) Size(k Key) (float64, bool) {
	if o.Sizes == nil {
		return 0, false
	}
	v, ok := o.Sizes[k]
	return v, ok
}

// RawNodeKey renders the engine-side key for node u.
func RawNodeKey(u int32) string {
	return strconv.FormatInt(int64(u), 10)
}

// RawEdgeKey renders the engine-side key for the edge u -> v.
func RawEdgeKey(u, v int32) string {
	return strconv.FormatInt(int64(u), 10) + "-" + strconv.FormatInt(int64(v), 10)
}
