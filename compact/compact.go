// SPDX-License-Identifier: MIT

// Package compact decides whether a hyperbolic polytope candidate is compact
// by walking its vertex-edge graph.
//
// A vertex is a set of RealDimension() vectors whose Gram submatrix is
// positive definite (elliptic). An edge is a vertex minus one vector. A
// polytope of finite volume with no ideal vertices is compact exactly when
// every edge ends in two vertices, so the walk starts from the initial
// elliptic seed and fails on the first edge with a single end.
package compact

import (
	"maps"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"

	"github.com/katalvlaran/ptope/polytope"
)

// noVertex marks an edge without a second end.
const noVertex = -1

// edge is a vertex minus one vector. origin is the vector index dropped from
// the vertex that generated the edge; the walk looks for the other end.
type edge struct {
	members []int          // sorted
	set     *bitset.BitSet // membership of members
	origin  int
}

// Checker walks the vertex graph of a candidate. Its state survives a failed
// Check so that Resume can continue with an extended candidate.
// A Checker is not safe for concurrent use.
type Checker struct {
	opts     Options
	queue    []edge
	visited  map[string]struct{}
	last     edge
	failed   bool
	capped   bool
	vertices int
	idx      []int
	scratch  []float64
}

// NewChecker returns a Checker configured by opts.
// Returns ErrOptionViolation for invalid options.
func NewChecker(opts ...Option) (*Checker, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	return &Checker{opts: o, visited: make(map[string]struct{})}, nil
}

// IsCompact runs a fresh Checker on p.
func IsCompact(p *polytope.Candidate) (bool, error) {
	c, err := NewChecker()
	if err != nil {
		return false, err
	}

	return c.Check(p)
}

// Check reports whether p is compact. Any previous state is discarded.
//
// Implementation:
//   - Stage 1: the initial vertex is the first RealDimension() vectors with a
//     zero time coordinate.
//   - Stage 2: enqueue every edge of the initial vertex.
//   - Stage 3: FIFO over edges; each edge must end in a second vertex.
//
// Errors:
//   - ErrNilCandidate, ErrNotHyperbolic, ErrNoInitialVertex.
func (c *Checker) Check(p *polytope.Candidate) (bool, error) {
	if err := validate(p); err != nil {
		return false, err
	}
	c.reset()

	start, err := initialVertex(p)
	if err != nil {
		return false, err
	}
	if !c.visit(start) {
		return false, nil
	}
	for _, v := range start {
		c.queue = append(c.queue, edgeOf(start, v))
	}

	return c.loop(p), nil
}

// Resume continues a failed Check against p, which must extend the candidate
// previously checked (same leading vectors). The failing edge is processed
// again first; visited vertices are kept. Without a failed state Resume is Check.
func (c *Checker) Resume(p *polytope.Candidate) (bool, error) {
	if !c.failed {
		return c.Check(p)
	}
	if err := validate(p); err != nil {
		return false, err
	}
	if c.capped {
		c.opts.Logger.Warn("compact: resume after vertex cap", zap.Int("max_vertices", c.opts.MaxVertices))
		return false, nil
	}
	c.failed = false
	c.queue = append([]edge{c.last}, c.queue...)

	return c.loop(p), nil
}

// Clone returns an independent Checker carrying c's options and walk state,
// so one failed Check can be resumed against several extensions.
func (c *Checker) Clone() *Checker {
	out := *c
	out.queue = slices.Clone(c.queue)
	out.visited = maps.Clone(c.visited)
	out.idx, out.scratch = nil, nil

	return &out
}

// LastEdge returns the edge that made the last Check or Resume fail.
// ok is false when the last walk succeeded.
func (c *Checker) LastEdge() (members []int, origin int, ok bool) {
	if !c.failed {
		return nil, 0, false
	}

	return slices.Clone(c.last.members), c.last.origin, true
}

func validate(p *polytope.Candidate) error {
	if p == nil {
		return ErrNilCandidate
	}
	if !p.Valid() || !p.Hyperbolic() {
		return ErrNotHyperbolic
	}

	return nil
}

func (c *Checker) reset() {
	c.queue = c.queue[:0]
	clear(c.visited)
	c.failed, c.capped = false, false
	c.vertices = 0
	c.last = edge{}
}

// loop drains the queue; it stops at the first edge with a single vertex.
func (c *Checker) loop(p *polytope.Candidate) bool {
	for len(c.queue) > 0 {
		e := c.queue[0]
		c.queue = c.queue[1:]
		c.opts.OnEdge(e.members, e.origin)

		next := c.findEdgeEnd(e, p)
		if next == noVertex {
			c.fail(e)
			c.opts.Logger.Debug("compact: edge has a single vertex",
				zap.Ints("edge", e.members), zap.Int("origin", e.origin))
			return false
		}
		vertex := append(slices.Clone(e.members), next)
		slices.Sort(vertex)
		if c.seen(vertex) {
			continue
		}
		if !c.visit(vertex) {
			c.fail(e)
			return false
		}
		for _, v := range vertex {
			if v == next {
				continue
			}
			c.queue = append(c.queue, edgeOf(vertex, v))
		}
	}

	return true
}

func (c *Checker) fail(e edge) {
	c.last = e
	c.failed = true
}

// findEdgeEnd returns the smallest index, not in the edge and not its origin,
// that completes the edge to an elliptic vertex.
func (c *Checker) findEdgeEnd(e edge, p *polytope.Candidate) int {
	k := len(e.members)
	c.idx = append(c.idx[:0], e.members...)
	c.idx = append(c.idx, 0)
	if cap(c.scratch) < (k+1)*(k+1) {
		c.scratch = make([]float64, (k+1)*(k+1))
	}
	for i, n := 0, p.Size(); i < n; i++ {
		if i == e.origin || e.set.Test(uint(i)) {
			continue
		}
		c.idx[k] = i
		if p.PositiveDefiniteAt(c.idx, c.scratch) {
			return i
		}
	}

	return noVertex
}

// seen reports whether the sorted vertex was visited before.
func (c *Checker) seen(vertex []int) bool {
	_, ok := c.visited[key(vertex)]
	return ok
}

// visit marks vertex as visited. It returns false when the vertex cap is exceeded.
func (c *Checker) visit(vertex []int) bool {
	c.visited[key(vertex)] = struct{}{}
	c.vertices++
	if c.opts.MaxVertices > 0 && c.vertices > c.opts.MaxVertices {
		c.capped = true
		c.opts.Logger.Warn("compact: vertex cap exceeded", zap.Int("max_vertices", c.opts.MaxVertices))
		return false
	}
	c.opts.OnVertex(vertex)

	return true
}

// key encodes a vertex by content: the marshaled membership bitset. The set
// grows to exactly max(vertex)+1 bits, so equal sets give equal keys whatever
// the candidate size.
func key(vertex []int) string {
	b := bitset.New(0)
	for _, v := range vertex {
		b.Set(uint(v))
	}
	data, err := b.MarshalBinary()
	if err != nil {
		// MarshalBinary only fails on writer errors; fall back to the words.
		return b.String()
	}

	return string(data)
}

// edgeOf returns the edge of vertex obtained by dropping vector drop.
func edgeOf(vertex []int, drop int) edge {
	members := make([]int, 0, len(vertex)-1)
	set := bitset.New(uint(len(vertex)))
	for _, v := range vertex {
		if v == drop {
			continue
		}
		members = append(members, v)
		set.Set(uint(v))
	}

	return edge{members: members, set: set, origin: drop}
}

// initialVertex picks the seed vectors: the first RealDimension() vectors
// whose time coordinate is exactly zero.
func initialVertex(p *polytope.Candidate) ([]int, error) {
	d := p.RealDimension()
	out := make([]int, 0, d)
	for i, n := 0, p.Size(); i < n && len(out) < d; i++ {
		t, err := p.TimeCoordinate(i)
		if err != nil {
			return nil, err
		}
		if t == 0 {
			out = append(out, i)
		}
	}
	if len(out) < d {
		return nil, ErrNoInitialVertex
	}

	return out, nil
}
