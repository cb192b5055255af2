// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"strconv"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 6

// ConfigLog configures a log table for connection state: time and edge
// identity columns plus one float column per state variable.  vars is
// typically synapse.VarNames of the model's connection struct.
func ConfigLog(dt *etable.Table, vars []string) {
	sch := etable.Schema{
		{Name: "Time", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Source", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Target", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Model", Type: etensor.STRING, CellShape: nil, DimNames: nil},
	}
	for _, vn := range vars {
		sch = append(sch, etable.Column{Name: vn, Type: etensor.FLOAT32, CellShape: nil, DimNames: nil})
	}
	dt.SetFromSchema(sch, 0)
	dt.SetMetaData("name", "ConnLog")
	dt.SetMetaData("desc", "connection state over time")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
}

// LogRecord appends one row of a record's state to the log table.
// Variables not present on the record's connection struct are left at
// zero.
func (nt *Network) LogRecord(dt *etable.Table, src synapse.NodeID, rec Record) {
	row := dt.Rows
	dt.SetNumRows(row + 1)
	base := rec.Base()
	dt.SetCellFloat("Time", row, nt.Time.Ms())
	dt.SetCellFloat("Source", row, float64(src))
	dt.SetCellFloat("Target", row, float64(base.Target))
	if cm, ok := nt.Models.Model(base.P.ModelTag()); ok {
		dt.SetCellString("Model", row, cm.Name())
	}
	st := rec.State()
	for _, vn := range synapse.VarNames(st) {
		if dt.ColIdx(vn) < 0 {
			continue
		}
		v, err := synapse.VarByName(st, vn)
		if err != nil {
			continue
		}
		dt.SetCellFloat(vn, row, float64(v))
	}
}

// LogAllFrom appends one row per outbound record of src.
func (nt *Network) LogAllFrom(dt *etable.Table, src synapse.NodeID) {
	for _, rec := range nt.RecordsFrom(src) {
		nt.LogRecord(dt, src, rec)
	}
}
