// SPDX-License-Identifier: MIT

// Package angles describes the dihedral angles allowed between facets, each
// given as a submultiple π/m of π, together with the inner products
// −cos(π/m) they induce on unit normals.
package angles

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ptope/calc"
)

// Tolerance is the absolute tolerance used to match inner products.
const Tolerance = 1e-10

var (
	// ErrInvalidMultiple indicates a submultiple below calc.RightAngle.
	ErrInvalidMultiple = errors.New("angles: multiple must be at least 2")

	// ErrEmpty indicates a set without any angle.
	ErrEmpty = errors.New("angles: empty angle set")
)

// DefaultMultiples is the angle set used when none is configured.
var DefaultMultiples = []int{2, 3, 4, 5, 8}

// Set is an immutable set of allowed angles π/m.
// products is sorted ascending and multiples[i] induces products[i].
type Set struct {
	products  []float64
	multiples []int
}

// DoubleLess orders a before b only when they differ by more than Tolerance.
func DoubleLess(a, b float64) bool { return a+Tolerance < b }

// New builds a Set from submultiples of π. Duplicates are removed.
func New(multiples ...int) (*Set, error) {
	if len(multiples) == 0 {
		return nil, ErrEmpty
	}
	ms := slices.Clone(multiples)
	for _, m := range ms {
		if m < calc.RightAngle {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidMultiple, m)
		}
	}
	// larger m gives a smaller −cos(π/m); sort so products ascend
	slices.Sort(ms)
	ms = slices.Compact(ms)
	slices.Reverse(ms)

	s := &Set{products: make([]float64, len(ms)), multiples: ms}
	for i, m := range ms {
		s.products[i] = calc.MinCosAngle(m)
	}

	return s, nil
}

// MustNew is New for static angle sets; it panics on error.
func MustNew(multiples ...int) *Set {
	s, err := New(multiples...)
	if err != nil {
		panic(err)
	}

	return s
}

// Default returns the set {2, 3, 4, 5, 8}.
func Default() *Set { return MustNew(DefaultMultiples...) }

// Len returns the number of angles.
func (s *Set) Len() int { return len(s.products) }

// Products returns the inner products in ascending order.
func (s *Set) Products() []float64 { return slices.Clone(s.products) }

// Multiples returns the submultiples aligned with Products.
func (s *Set) Multiples() []int { return slices.Clone(s.multiples) }

// search returns the index of the product matching p within Tolerance, or -1.
func (s *Set) search(p float64) int {
	i := sort.Search(len(s.products), func(i int) bool { return !DoubleLess(s.products[i], p) })
	if i < len(s.products) && !DoubleLess(p, s.products[i]) {
		return i
	}

	return -1
}

// Contains reports whether p matches an allowed inner product.
func (s *Set) Contains(p float64) bool { return s.search(p) >= 0 }

// MultipleOf returns m with −cos(π/m) matching p.
func (s *Set) MultipleOf(p float64) (int, bool) {
	i := s.search(p)
	if i < 0 {
		return 0, false
	}

	return s.multiples[i], true
}

// config is the YAML shape read by Load.
type config struct {
	Angles []int `yaml:"angles"`
}

// Load reads a YAML document of the form `angles: [2, 3, 4, 5, 8]`.
// A document without the key yields the default set.
func Load(r io.Reader) (*Set, error) {
	var c config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("angles: decode: %w", err)
	}
	if len(c.Angles) == 0 {
		return Default(), nil
	}

	return New(c.Angles...)
}
