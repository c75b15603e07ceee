package tables

import (
	"fmt"
	"sort"

	"golang.org/x/exp/slices"
)

// RunMatrix is a type for a sparse matrix of int32 values with 256 columns,
// one for each byte value. Construct with
//
//	M := NewRunMatrix(10, -1)     // last parameter is M's null-value
//
// Now
//
//	M.Set(2, 'a', 7)              // set a value
//	M.Set(2, 'b', 7)              // extends the run of row 2 to a…b
//	v := M.Value(2, 'b')          // returns 7
//	cnt := M.ValueCount()         // returns 1 (one run stored)
//	v = M.Value(3, 'a')           // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten.
type RunMatrix struct {
	runs    []run
	rowcnt  int
	nullval int32
}

// run is a range of columns lo…hi (inclusive) of a row, all holding value.
type run struct {
	row    int
	lo, hi int
	value  int32
}

// Run is a range of byte values Lo…Hi (inclusive) within a row, all mapping
// to the same value.
type Run struct {
	Lo, Hi byte
	Value  int32
}

func (r Run) String() string {
	return fmt.Sprintf("[%d…%d]=%d", r.Lo, r.Hi, r.Value)
}

// NewRunMatrix creates a new matrix with m rows. The 2nd argument is a
// null-value, indicating empty entries (use DefaultNullValue if you haven't
// any specific requirements).
func NewRunMatrix(m int, nullValue int32) *RunMatrix {
	return &RunMatrix{
		rowcnt:  m,
		nullval: nullValue,
	}
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// M returns the row count.
func (m *RunMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *RunMatrix) N() int {
	return 256
}

// NullValue returns this matrix' null value
func (m *RunMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of runs in the matrix.
func (m *RunMatrix) ValueCount() int {
	return len(m.runs)
}

// search returns the index of the first run not stored left of (i,j).
func (m *RunMatrix) search(i, j int) int {
	return sort.Search(len(m.runs), func(k int) bool {
		return !m.runs[k].storedLeftOf(i, j)
	})
}

// Value returns the value at position (i,j), or NullValue
func (m *RunMatrix) Value(i int, j byte) int32 {
	k := m.search(i, int(j))
	if k < len(m.runs) && m.runs[k].storedAt(i, int(j)) {
		return m.runs[k].value
	}
	return m.nullval
}

// Row returns the runs of row i, ordered by byte.
func (m *RunMatrix) Row(i int) []Run {
	var runs []Run
	for k := m.search(i, 0); k < len(m.runs) && m.runs[k].row == i; k++ {
		r := m.runs[k]
		runs = append(runs, Run{Lo: byte(r.lo), Hi: byte(r.hi), Value: r.value})
	}
	return runs
}

// Set a value in the matrix at position (i,j).
func (m *RunMatrix) Set(i int, j byte, value int32) *RunMatrix {
	if i < 0 || i >= m.rowcnt {
		panic(fmt.Sprintf("row index %d out of range 0…%d", i, m.rowcnt-1))
	}
	col := int(j)
	at := m.search(i, col)
	if at < len(m.runs) && m.runs[at].storedAt(i, col) {
		r := m.runs[at]
		if r.value == value {
			return m
		}
		var parts []run
		if r.lo < col {
			parts = append(parts, run{row: i, lo: r.lo, hi: col - 1, value: r.value})
		}
		parts = append(parts, run{row: i, lo: col, hi: col, value: value})
		if col < r.hi {
			parts = append(parts, run{row: i, lo: col + 1, hi: r.hi, value: r.value})
		}
		m.runs = slices.Replace(m.runs, at, at+1, parts...)
		if r.lo < col {
			at++
		}
	} else {
		m.runs = slices.Insert(m.runs, at, run{row: i, lo: col, hi: col, value: value})
	}
	m.merge(at)
	return m
}

// merge joins run k with its neighbours if they are adjacent and hold the
// same value.
func (m *RunMatrix) merge(k int) {
	if k+1 < len(m.runs) && m.runs[k].joins(m.runs[k+1]) {
		m.runs[k].hi = m.runs[k+1].hi
		m.runs = slices.Delete(m.runs, k+1, k+2)
	}
	if k > 0 && m.runs[k-1].joins(m.runs[k]) {
		m.runs[k-1].hi = m.runs[k].hi
		m.runs = slices.Delete(m.runs, k, k+1)
	}
}

func (r run) storedLeftOf(i, j int) bool {
	return r.row < i || r.row == i && r.hi < j
}

func (r run) storedAt(i, j int) bool {
	return r.row == i && r.lo <= j && j <= r.hi
}

func (r run) joins(right run) bool {
	return r.row == right.row && r.hi+1 == right.lo && r.value == right.value
}
