// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

import (
	"fmt"
	"reflect"
)

// VarNames returns the names of all float32 state variables of a
// connection struct (embedded structs included, depth first), for
// tabular reporting and variable access by name.
func VarNames(cn any) []string {
	var names []string
	collectVarNames(reflect.TypeOf(cn), &names)
	return names
}

func collectVarNames(tp reflect.Type, names *[]string) {
	if tp.Kind() == reflect.Pointer {
		tp = tp.Elem()
	}
	if tp.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < tp.NumField(); i++ {
		f := tp.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectVarNames(f.Type, names)
			continue
		}
		if f.Type.Kind() == reflect.Float32 {
			*names = append(*names, f.Name)
		}
	}
}

// VarByName returns the named float32 state variable of a connection
// struct, or an error for an invalid name.
func VarByName(cn any, varNm string) (float32, error) {
	v := reflect.ValueOf(cn)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	fv, ok := findVar(v, varNm)
	if !ok {
		return 0, fmt.Errorf("synapse.VarByName: variable name: %v not valid", varNm)
	}
	return float32(fv.Float()), nil
}

// SetVarByName sets the named float32 state variable of a connection
// struct, which must be passed by pointer.
func SetVarByName(cn any, varNm string, val float32) error {
	v := reflect.ValueOf(cn)
	if v.Kind() != reflect.Pointer {
		return fmt.Errorf("synapse.SetVarByName: connection must be passed by pointer")
	}
	fv, ok := findVar(v.Elem(), varNm)
	if !ok {
		return fmt.Errorf("synapse.SetVarByName: variable name: %v not valid", varNm)
	}
	fv.SetFloat(float64(val))
	return nil
}

func findVar(v reflect.Value, varNm string) (reflect.Value, bool) {
	tp := v.Type()
	for i := 0; i < tp.NumField(); i++ {
		f := tp.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if fv, ok := findVar(v.Field(i), varNm); ok {
				return fv, true
			}
			continue
		}
		if f.Name == varNm && f.Type.Kind() == reflect.Float32 {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
