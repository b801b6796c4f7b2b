// SPDX-License-Identifier: MIT

package polytope

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/katalvlaran/ptope/matrix"
	"github.com/katalvlaran/ptope/solver"
	"github.com/katalvlaran/ptope/vecfamily"
)

// Tolerance is the absolute tolerance for every geometric decision made while
// extending a candidate.
const Tolerance = 1e-9

// symmetryTolerance bounds |G[i,j]-G[j,i]| for an accepted seed.
const symmetryTolerance = 1e-12

// lqCache computes the LQ factorization of a basis at most once.
// A cache is shared by every candidate that shares the basis it was built for.
type lqCache struct {
	once sync.Once
	info *solver.LQInfo
	err  error
}

func (c *lqCache) get(basisT *matrix.Dense) (*solver.LQInfo, error) {
	c.once.Do(func() {
		c.info, c.err = solver.ComputeLQInfo(basisT)
	})

	return c.info, c.err
}

// Candidate is a Gram matrix together with a realisation of its vectors.
type Candidate struct {
	gram       *matrix.Dense
	vectors    *vecfamily.Family[float64]
	basisT     *matrix.Dense // read-only once built; shared with hyperbolic children
	hyperbolic bool
	valid      bool
	lq         *lqCache
}

var _ fmt.Stringer = (*Candidate)(nil)

// invalid returns a fresh invalid candidate.
func invalid() *Candidate { return &Candidate{} }

// New builds a Euclidean candidate from a positive definite seed Gram matrix.
//
// Implementation:
//   - Stage 1: reject non-square or asymmetric seeds.
//   - Stage 2: Cholesky seed = RᵀR; the columns of R are the vectors.
//   - Stage 3: the basis is every vector, as rows.
//
// Errors:
//   - ErrNotElliptic (wrapping the matrix cause) for seeds that are not SPD.
func New(seed *matrix.Dense) (*Candidate, error) {
	if err := matrix.ValidateSymmetric(seed, symmetryTolerance); err != nil {
		return nil, polytopeErrorf(opNew, fmt.Errorf("%w: %w", ErrNotElliptic, err))
	}
	r, err := matrix.Cholesky(seed)
	if err != nil {
		return nil, polytopeErrorf(opNew, fmt.Errorf("%w: %w", ErrNotElliptic, err))
	}
	vecs, err := vecfamily.FromDense(r)
	if err != nil {
		return nil, polytopeErrorf(opNew, err)
	}
	basisT, err := matrix.Transpose(r)
	if err != nil {
		return nil, polytopeErrorf(opNew, err)
	}

	return &Candidate{
		gram:    seed.Clone(),
		vectors: vecs,
		basisT:  basisT,
		valid:   true,
		lq:      &lqCache{},
	}, nil
}

// FromRows is New on a literal Gram matrix.
func FromRows(rows [][]float64) (*Candidate, error) {
	m, err := matrix.NewFromRows(rows)
	if err != nil {
		return nil, polytopeErrorf(opNew, err)
	}

	return New(m)
}

// Valid reports whether the candidate holds a realisable configuration.
func (p *Candidate) Valid() bool { return p.valid }

// Hyperbolic reports whether the vectors live in Lorentzian space.
func (p *Candidate) Hyperbolic() bool { return p.hyperbolic }

// Size returns the number of vectors (and the order of the Gram matrix).
func (p *Candidate) Size() int {
	if p.vectors == nil {
		return 0
	}

	return p.vectors.Size()
}

// RealDimension returns the dimension of the space the polytope lives in:
// the vector length, minus one for the time coordinate once hyperbolic.
func (p *Candidate) RealDimension() int {
	if p.vectors == nil {
		return 0
	}
	if p.hyperbolic {
		return p.vectors.Dimension() - 1
	}

	return p.vectors.Dimension()
}

// Gram returns a copy of the Gram matrix.
func (p *Candidate) Gram() *matrix.Dense {
	if p.gram == nil {
		return nil
	}

	return p.gram.Clone()
}

// GramAt returns the inner product of vectors i and j.
func (p *Candidate) GramAt(i, j int) (float64, error) {
	if p.gram == nil {
		return 0, ErrInvalidCandidate
	}

	return p.gram.At(i, j)
}

// InducedGram returns the principal submatrix of the Gram matrix on idx.
func (p *Candidate) InducedGram(idx []int) (*matrix.Dense, error) {
	if p.gram == nil {
		return nil, ErrInvalidCandidate
	}

	return p.gram.Induced(idx, idx)
}

// PositiveDefiniteAt reports whether the principal Gram submatrix on idx is
// positive definite. scratch is reused when large enough.
func (p *Candidate) PositiveDefiniteAt(idx []int, scratch []float64) bool {
	if p.gram == nil {
		return false
	}

	return matrix.PositiveDefiniteAt(p.gram, idx, scratch)
}

// Vectors returns a copy of the vector family.
func (p *Candidate) Vectors() *vecfamily.Family[float64] {
	if p.vectors == nil {
		return nil
	}

	return p.vectors.Clone()
}

// Vector returns a copy of vector i.
func (p *Candidate) Vector(i int) ([]float64, error) {
	if p.vectors == nil {
		return nil, ErrInvalidCandidate
	}
	v, err := p.vectors.Get(i)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	return v, nil
}

// TimeCoordinate returns the last coordinate of vector i. Euclidean
// candidates report their last spatial coordinate.
func (p *Candidate) TimeCoordinate(i int) (float64, error) {
	if p.vectors == nil {
		return 0, ErrInvalidCandidate
	}
	v, err := p.vectors.Last(i)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	return v, nil
}

// Clone returns a deep copy. The LQ cache is shared because the basis is
// never mutated in place.
func (p *Candidate) Clone() *Candidate {
	out := &Candidate{
		hyperbolic: p.hyperbolic,
		valid:      p.valid,
		basisT:     p.basisT,
		lq:         p.lq,
	}
	if p.gram != nil {
		out.gram = p.gram.Clone()
	}
	if p.vectors != nil {
		out.vectors = p.vectors.Clone()
	}

	return out
}

// Signature returns the number of positive and negative eigenvalues of the
// Gram matrix; eigenvalues within Tolerance of zero are not counted.
func (p *Candidate) Signature() (pos, neg int, err error) {
	if p.gram == nil {
		return 0, 0, polytopeErrorf(opSignature, ErrInvalidCandidate)
	}
	eigs, err := matrix.EigenValues(p.gram)
	if err != nil {
		return 0, 0, polytopeErrorf(opSignature, err)
	}
	for _, e := range eigs {
		switch {
		case math.Abs(e) < Tolerance:
		case e < 0:
			neg++
		default:
			pos++
		}
	}

	return pos, neg, nil
}

// String prints the Gram matrix followed by the vectors, one vector per column.
func (p *Candidate) String() string {
	if !p.valid {
		return "Invalid\n"
	}
	var b strings.Builder
	b.WriteString("Gram:\n")
	b.WriteString(p.gram.String())
	b.WriteString("Vectors:\n")
	if m, err := p.vectors.FirstBasisCols(p.vectors.Size()); err == nil {
		b.WriteString(m.String())
	}

	return b.String()
}
