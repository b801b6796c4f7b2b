// SPDX-License-Identifier: MIT

// Package vecfamily provides Family, a growable column store of equal-length
// vectors with a copy-on-write growth path.
//
// Column i lives at data[i*dim : (i+1)*dim]. Growing the family never touches
// the receiver when the CopyAndAdd* variants are used, so a parent family can be
// shared read-only while children extend their own copies.
package vecfamily

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/ptope/calc"
	"github.com/katalvlaran/ptope/matrix"
)

var (
	// ErrDimensionMismatch indicates a vector whose length does not fit the family.
	ErrDimensionMismatch = errors.New("vecfamily: dimension mismatch")

	// ErrOutOfRange indicates a vector index outside [0, Size).
	ErrOutOfRange = errors.New("vecfamily: index out of range")
)

// Family is a column store of dim-length vectors.
type Family[T calc.Float] struct {
	dim  int
	size int
	data []T
}

// New creates an empty family of dim-length vectors.
func New[T calc.Float](dim int) *Family[T] {
	return &Family[T]{dim: dim}
}

// FromColumns copies cols into a new family. Every column must have length dim.
func FromColumns[T calc.Float](dim int, cols ...[]T) (*Family[T], error) {
	f := &Family[T]{dim: dim, data: make([]T, 0, dim*len(cols))}
	for i, c := range cols {
		if len(c) != dim {
			return nil, fmt.Errorf("FromColumns: column %d has length %d, want %d: %w", i, len(c), dim, ErrDimensionMismatch)
		}
		f.data = append(f.data, c...)
		f.size++
	}

	return f, nil
}

// FromDense copies the columns of m into a new float64 family.
func FromDense(m *matrix.Dense) (*Family[float64], error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("FromDense: %w", err)
	}
	r, c := m.Shape()
	f := &Family[float64]{dim: r, size: c, data: make([]float64, r*c)}
	var i, j int
	for i = 0; i < r; i++ {
		row := m.RawRowView(i)
		for j = 0; j < c; j++ {
			f.data[j*r+i] = row[j]
		}
	}

	return f, nil
}

// Dimension returns the length of every vector.
func (f *Family[T]) Dimension() int { return f.dim }

// Size returns the number of vectors.
func (f *Family[T]) Size() int { return f.size }

func (f *Family[T]) check(i int) error {
	if i < 0 || i >= f.size {
		return fmt.Errorf("vector %d of %d: %w", i, f.size, ErrOutOfRange)
	}

	return nil
}

// Get returns a copy of vector i.
func (f *Family[T]) Get(i int) ([]T, error) {
	if err := f.check(i); err != nil {
		return nil, err
	}
	out := make([]T, f.dim)
	copy(out, f.data[i*f.dim:(i+1)*f.dim])

	return out, nil
}

// View returns vector i without copying. Callers must not modify it.
// View panics on an out-of-range index.
func (f *Family[T]) View(i int) []T {
	return f.data[i*f.dim : (i+1)*f.dim : (i+1)*f.dim]
}

// Last returns the last coordinate of vector i.
func (f *Family[T]) Last(i int) (T, error) {
	if err := f.check(i); err != nil {
		return 0, err
	}

	return f.data[(i+1)*f.dim-1], nil
}

// AddVector appends a copy of v.
func (f *Family[T]) AddVector(v []T) error {
	if len(v) != f.dim {
		return fmt.Errorf("AddVector: length %d, want %d: %w", len(v), f.dim, ErrDimensionMismatch)
	}
	f.data = append(f.data, v...)
	f.size++

	return nil
}

// AddFirstHyperbolicVector appends v, which carries one extra coordinate.
// Every existing vector is zero-extended to dim+1 first.
func (f *Family[T]) AddFirstHyperbolicVector(v []T) error {
	if len(v) != f.dim+1 {
		return fmt.Errorf("AddFirstHyperbolicVector: length %d, want %d: %w", len(v), f.dim+1, ErrDimensionMismatch)
	}
	nd := f.dim + 1
	grown := make([]T, nd*(f.size+1))
	for i := 0; i < f.size; i++ {
		copy(grown[i*nd:i*nd+f.dim], f.data[i*f.dim:(i+1)*f.dim])
	}
	copy(grown[f.size*nd:], v)
	f.data, f.dim = grown, nd
	f.size++

	return nil
}

// CopyAndAddVector returns a new family holding the receiver's vectors plus v.
func (f *Family[T]) CopyAndAddVector(v []T) (*Family[T], error) {
	if len(v) != f.dim {
		return nil, fmt.Errorf("CopyAndAddVector: length %d, want %d: %w", len(v), f.dim, ErrDimensionMismatch)
	}
	out := &Family[T]{dim: f.dim, size: f.size + 1, data: make([]T, len(f.data), len(f.data)+f.dim)}
	copy(out.data, f.data)
	out.data = append(out.data, v...)

	return out, nil
}

// CopyAndAddFirstHyperbolicVector is the copy-on-write form of AddFirstHyperbolicVector.
func (f *Family[T]) CopyAndAddFirstHyperbolicVector(v []T) (*Family[T], error) {
	out := f.Clone()
	if err := out.AddFirstHyperbolicVector(v); err != nil {
		return nil, err
	}

	return out, nil
}

// Swap exchanges vectors a and b in place.
func (f *Family[T]) Swap(a, b int) error {
	if err := f.check(a); err != nil {
		return err
	}
	if err := f.check(b); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	va, vb := f.data[a*f.dim:(a+1)*f.dim], f.data[b*f.dim:(b+1)*f.dim]
	for k := range va {
		va[k], vb[k] = vb[k], va[k]
	}

	return nil
}

// FirstBasisCols returns the first n vectors as the columns of a dim×n matrix.
func (f *Family[T]) FirstBasisCols(n int) (*matrix.Dense, error) {
	if n <= 0 || n > f.size {
		return nil, fmt.Errorf("FirstBasisCols(%d): %w", n, ErrOutOfRange)
	}
	m, err := matrix.NewDense(f.dim, n)
	if err != nil {
		return nil, err
	}
	var i, j int
	for j = 0; j < n; j++ {
		for i = 0; i < f.dim; i++ {
			if err = m.Set(i, j, float64(f.data[j*f.dim+i])); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// BasisTransposed returns the first n vectors as the rows of an n×dim matrix.
func (f *Family[T]) BasisTransposed(n int) (*matrix.Dense, error) {
	if n <= 0 || n > f.size {
		return nil, fmt.Errorf("BasisTransposed(%d): %w", n, ErrOutOfRange)
	}
	rows := make([][]float64, n)
	for j := 0; j < n; j++ {
		rows[j] = make([]float64, f.dim)
		for i, v := range f.data[j*f.dim : (j+1)*f.dim] {
			rows[j][i] = float64(v)
		}
	}

	return matrix.NewFromRows(rows)
}

// Clone returns a deep copy.
func (f *Family[T]) Clone() *Family[T] {
	out := &Family[T]{dim: f.dim, size: f.size, data: make([]T, len(f.data))}
	copy(out.data, f.data)

	return out
}

// Compare orders vectors i and j lexicographically by exact coordinate
// value: -1, 0 or +1.
func (f *Family[T]) Compare(i, j int) (int, error) {
	if err := f.check(i); err != nil {
		return 0, err
	}
	if err := f.check(j); err != nil {
		return 0, err
	}
	a, b := f.View(i), f.View(j)
	for k := range a {
		switch {
		case a[k] < b[k]:
			return -1, nil
		case a[k] > b[k]:
			return 1, nil
		}
	}

	return 0, nil
}

// Raw returns the backing column-major buffer. Callers must not modify it.
func (f *Family[T]) Raw() []T { return f.data }
