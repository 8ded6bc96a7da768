// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package translate

import (
	"fmt"
	"reflect"
)

// Rekey translates src, a payload variant instantiated at int32, into the
// same variant instantiated at string.
//
// The walk is driven by the two instantiations side by side: wherever the
// source holds an int32 and the destination a string, the value is an
// engine id and goes through r. Structs, slices, arrays, pointers and
// maps are descended into; every other value is copied as is.
func Rekey[D any, S any](src *S, r *Resolver) (*D, error) {
	if src == nil {
		return nil, nil
	}
	dst := new(D)
	if err := rekey(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem(), r, ""); err != nil {
		return nil, err
	}
	return dst, nil
}

var (
	int32Type  = reflect.TypeOf(int32(0))
	stringType = reflect.TypeOf("")
)

func rekey(dst, src reflect.Value, r *Resolver, path string) error {
	dt, st := dst.Type(), src.Type()

	if st == dt {
		dst.Set(src)
		return nil
	}

	if st == int32Type && dt == stringType {
		dst.SetString(r.ID(int32(src.Int())))
		return nil
	}

	if st.Kind() != dt.Kind() {
		return fmt.Errorf("%w at %q: %s into %s", ErrSchemaMismatch, path, st, dt)
	}

	switch st.Kind() {
	case reflect.Struct:
		if st.NumField() != dt.NumField() {
			return fmt.Errorf("%w at %q: %d fields into %d", ErrSchemaMismatch, path, st.NumField(), dt.NumField())
		}
		for i := 0; i < st.NumField(); i++ {
			name := st.Field(i).Name
			if dt.Field(i).Name != name {
				return fmt.Errorf("%w at %q: field %s into %s", ErrSchemaMismatch, path, name, dt.Field(i).Name)
			}
			if err := rekey(dst.Field(i), src.Field(i), r, path+"."+name); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice:
		if src.IsNil() {
			return nil
		}
		n := src.Len()
		dst.Set(reflect.MakeSlice(dt, n, n))
		for i := 0; i < n; i++ {
			if err := rekey(dst.Index(i), src.Index(i), r, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Array:
		if st.Len() != dt.Len() {
			return fmt.Errorf("%w at %q: array length %d into %d", ErrSchemaMismatch, path, st.Len(), dt.Len())
		}
		for i := 0; i < src.Len(); i++ {
			if err := rekey(dst.Index(i), src.Index(i), r, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Pointer:
		if src.IsNil() {
			return nil
		}
		dst.Set(reflect.New(dt.Elem()))
		return rekey(dst.Elem(), src.Elem(), r, path)

	case reflect.Map:
		if src.IsNil() {
			return nil
		}
		dst.Set(reflect.MakeMapWithSize(dt, src.Len()))
		iter := src.MapRange()
		for iter.Next() {
			k := reflect.New(dt.Key()).Elem()
			if err := rekey(k, iter.Key(), r, path+"{key}"); err != nil {
				return err
			}
			v := reflect.New(dt.Elem()).Elem()
			if err := rekey(v, iter.Value(), r, fmt.Sprintf("%s{%v}", path, iter.Key())); err != nil {
				return err
			}
			dst.SetMapIndex(k, v)
		}
		return nil
	}

	return fmt.Errorf("%w at %q: %s into %s", ErrSchemaMismatch, path, st, dt)
}
