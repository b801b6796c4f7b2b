// SPDX-License-Identifier: MIT

// Package elliptic builds Gram matrices of the connected elliptic Coxeter
// diagrams. These are the positive definite seeds every search starts from.
package elliptic

import (
	"errors"
	"fmt"
	"iter"

	"github.com/katalvlaran/ptope/calc"
	"github.com/katalvlaran/ptope/matrix"
)

// ErrUnsupportedSize is returned when a diagram type has no member of the requested size.
var ErrUnsupportedSize = errors.New("elliptic: unsupported size")

// GLabels are the dihedral labels yielded by Generate for size 2, besides A2 and B2.
var GLabels = []int{10, 8, 5}

var (
	simple = calc.MinCosAngle(3)
	square = calc.MinCosAngle(4)
	penta  = calc.MinCosAngle(5)
)

// edge joins nodes a and b with inner product w.
type edge struct {
	a, b int
	w    float64
}

func build(n int, edges []edge) *matrix.Dense {
	m, _ := matrix.Identity(n)
	for _, e := range edges {
		_ = m.Set(e.a, e.b, e.w)
		_ = m.Set(e.b, e.a, e.w)
	}

	return m
}

func path(n int, first float64) []edge {
	edges := make([]edge, 0, n)
	for i := 0; i+1 < n; i++ {
		w := simple
		if i == 0 {
			w = first
		}
		edges = append(edges, edge{i, i + 1, w})
	}

	return edges
}

func unsupported(kind string, n int) error {
	return fmt.Errorf("%s(%d): %w", kind, n, ErrUnsupportedSize)
}

// TypeA returns A_n, a simple path on n nodes.
func TypeA(n int) (*matrix.Dense, error) {
	if n < 1 {
		return nil, unsupported("TypeA", n)
	}

	return build(n, path(n, simple)), nil
}

// TypeB returns B_n: a path whose first edge is labelled 4.
func TypeB(n int) (*matrix.Dense, error) {
	if n < 2 {
		return nil, unsupported("TypeB", n)
	}

	return build(n, path(n, square)), nil
}

// TypeD returns D_n: nodes 0 and 1 attached to 2, then a path from 2 to n−1.
func TypeD(n int) (*matrix.Dense, error) {
	if n < 4 {
		return nil, unsupported("TypeD", n)
	}
	edges := []edge{{0, 2, simple}, {1, 2, simple}}
	for i := 2; i+1 < n; i++ {
		edges = append(edges, edge{i, i + 1, simple})
	}

	return build(n, edges), nil
}

// TypeE returns E6, E7 or E8.
func TypeE(n int) (*matrix.Dense, error) {
	if n < 6 || n > 8 {
		return nil, unsupported("TypeE", n)
	}
	all := []edge{{0, 1, simple}, {1, 2, simple}, {2, 3, simple}, {2, 4, simple}, {4, 5, simple}, {5, 6, simple}, {6, 7, simple}}

	return build(n, all[:n-1]), nil
}

// TypeF returns F4.
func TypeF(n int) (*matrix.Dense, error) {
	if n != 4 {
		return nil, unsupported("TypeF", n)
	}

	return build(4, []edge{{0, 1, simple}, {1, 2, square}, {2, 3, simple}}), nil
}

// TypeG returns the dihedral diagram I2(label).
func TypeG(label int) (*matrix.Dense, error) {
	if label < 2 {
		return nil, fmt.Errorf("TypeG(label %d): %w", label, ErrUnsupportedSize)
	}
	w := calc.MinCosAngle(label)

	return build(2, []edge{{0, 1, w}}), nil
}

// TypeH returns H3 or H4.
func TypeH(n int) (*matrix.Dense, error) {
	if n != 3 && n != 4 {
		return nil, unsupported("TypeH", n)
	}

	return build(n, path(n, penta)), nil
}

// Generate yields every connected elliptic Gram matrix of the given size in
// the order A, B, D, E, F, H and, for size 2, G over GLabels.
func Generate(size int) iter.Seq[*matrix.Dense] {
	return func(yield func(*matrix.Dense) bool) {
		for _, f := range []func(int) (*matrix.Dense, error){TypeA, TypeB, TypeD, TypeE, TypeF, TypeH} {
			m, err := f(size)
			if err != nil {
				continue
			}
			if !yield(m) {
				return
			}
		}
		if size != 2 {
			return
		}
		for _, label := range GLabels {
			m, _ := TypeG(label)
			if !yield(m) {
				return
			}
		}
	}
}
