package addrconfig

import (
	"strconv"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// ============================================================================
//                              列定义
// ============================================================================

// 列序号
const (
	ColName = iota
	ColIdentity
	ColType
	ColPrefix
	ColDistribution
	ColWaypoint
	ColIngressPhase
	ColEgressPhase
)

// columns 列名，按列序号排列
var columns = []string{
	"name",
	"identity",
	"type",
	"prefix",
	"distribution",
	"waypoint",
	"ingressPhase",
	"egressPhase",
}

// Columns 返回全部列名
func Columns() []string {
	return append([]string(nil), columns...)
}

// ColumnIndex 返回列名对应的序号
func ColumnIndex(name string) (int, bool) {
	for i, c := range columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// ============================================================================
//                              投影
// ============================================================================

// insertColumn 把实体的一列写入 body；asMap 时先写列名作为键
func insertColumn(e *AddressConfig, col int, body pkgif.Composer, asMap bool) {
	if col < 0 || col >= len(columns) {
		return
	}
	if asMap {
		body.InsertString(columns[col])
	}

	switch col {
	case ColName:
		if name, ok := e.Name(); ok {
			body.InsertString(name)
		} else {
			body.InsertNull()
		}

	case ColIdentity:
		body.InsertString(strconv.FormatInt(e.identity, 10))

	case ColType:
		body.InsertString(types.EntityTypeConfigAddress)

	case ColPrefix:
		if prefix, ok := e.Prefix(); ok {
			body.InsertString(prefix)
		} else {
			body.InsertNull()
		}

	case ColDistribution:
		if d, ok := e.treatment.Distribution(); ok {
			body.InsertString(d)
		} else {
			body.InsertNull()
		}

	case ColWaypoint:
		body.InsertBool(e.Waypoint())

	case ColIngressPhase:
		body.InsertInt(int64(e.inPhase))

	case ColEgressPhase:
		body.InsertInt(int64(e.outPhase))
	}
}

// WriteRow 按 cols 的顺序把实体写成一个列表
func WriteRow(e *AddressConfig, cols []int, body pkgif.Composer) {
	body.StartList()
	for _, col := range cols {
		insertColumn(e, col, body, false)
	}
	body.EndList()
}

// WriteMap 把实体全部列写成 列名 -> 值 的映射
func WriteMap(e *AddressConfig, body pkgif.Composer) {
	body.StartMap()
	for col := range columns {
		insertColumn(e, col, body, true)
	}
	body.EndMap()
}
