// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
)

// Defaults applied when an optional argument is zero.
const (
	DefaultDamping    = 0.85
	DefaultResolution = 1.0
)

// Request is one algorithm call in database ids.
//
// Which arguments are required depends on the operation; see Spec.
type Request struct {
	Op engine.Operation `json:"op" yaml:"op" validate:"required"`

	Source string   `json:"source,omitempty" yaml:"source,omitempty"`
	Target string   `json:"target,omitempty" yaml:"target,omitempty"`
	Nodes  []string `json:"nodes,omitempty" yaml:"nodes,omitempty" validate:"omitempty,max=1000,dive,required"`

	K          int     `json:"k,omitempty" yaml:"k,omitempty" validate:"gte=0,lte=10000"`
	Steps      int     `json:"steps,omitempty" yaml:"steps,omitempty" validate:"gte=0,lte=10000000"`
	Damping    float64 `json:"damping,omitempty" yaml:"damping,omitempty" validate:"gte=0,lt=1"`
	Resolution float64 `json:"resolution,omitempty" yaml:"resolution,omitempty" validate:"gte=0"`
	SampleSize int     `json:"sample_size,omitempty" yaml:"sample_size,omitempty" validate:"gte=0"`
	Bins       int     `json:"bins,omitempty" yaml:"bins,omitempty" validate:"gte=0"`

	// Seed makes randomized operations reproducible. Zero lets the engine
	// choose.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// RequestID correlates logs; generated when empty.
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty" validate:"omitempty,max=128"`
}

var validate = validator.New()

// Validate checks field constraints and the arguments spec requires.
//
// Outputs:
//
//	error - Wraps ErrInvalidRequest, naming every failed field.
func (r *Request) Validate(spec Spec) error {
	var problems []string

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}

	for _, a := range spec.Required {
		if !r.has(a) {
			problems = append(problems, fmt.Sprintf("%s is required for %s", a, spec.Op))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}
	return nil
}

func (r *Request) has(a Arg) bool {
	switch a {
	case ArgSource:
		return r.Source != ""
	case ArgTarget:
		return r.Target != ""
	case ArgNodes:
		return len(r.Nodes) > 0
	case ArgK:
		return r.K > 0
	case ArgSteps:
		return r.Steps > 0
	case ArgDamping:
		return r.Damping > 0
	case ArgResolution:
		return r.Resolution > 0
	case ArgSampleSize:
		return r.SampleSize > 0
	case ArgBins:
		return r.Bins > 0
	}
	return false
}

// ids lists the database ids the request refers to, in argument order.
func (r *Request) ids(spec Spec) []string {
	var out []string
	if spec.Needs(ArgSource) {
		out = append(out, r.Source)
	}
	if spec.Needs(ArgTarget) {
		out = append(out, r.Target)
	}
	if spec.Needs(ArgNodes) {
		out = append(out, r.Nodes...)
	}
	return out
}

// missingEdgeDefaults sizes link prediction sampling to the graph.
func missingEdgeDefaults(vertices, edges int) (samples, bins int) {
	switch {
	case vertices < 100:
		return 500, 10
	case vertices <= 1000:
		return 1000 + edges/100, 25
	default:
		return 5000 + edges/50, 50 + edges/200
	}
}
