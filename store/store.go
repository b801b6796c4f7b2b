// SPDX-License-Identifier: MIT

// Package store archives polytopes found by a search in a SQLite database.
//
// Each row keeps a few searchable columns (equivalence hash, dimension,
// number of vectors, number of dotted edges) next to the candidate itself,
// serialized with polytope.Save and zstd compression.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/katalvlaran/ptope/equiv"
	"github.com/katalvlaran/ptope/filter"
	"github.com/katalvlaran/ptope/polytope"
)

// DriverName is the database/sql driver used by Open.
const DriverName = "sqlite"

var (
	// ErrNotFound is returned by Get for an unknown id.
	ErrNotFound = errors.New("store: polytope not found")
	// ErrInvalidCandidate is returned by Put for nil or invalid candidates.
	ErrInvalidCandidate = errors.New("store: invalid candidate")
)

const schema = `
CREATE TABLE IF NOT EXISTS polytopes (
	id             TEXT    PRIMARY KEY,
	hash           INTEGER NOT NULL,
	real_dimension INTEGER NOT NULL,
	size           INTEGER NOT NULL,
	dotted         INTEGER NOT NULL,
	payload        BLOB    NOT NULL,
	created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS polytopes_dimension ON polytopes (real_dimension);
CREATE INDEX IF NOT EXISTS polytopes_hash ON polytopes (hash);
`

// Record is one archived polytope.
type Record struct {
	ID            uuid.UUID
	Hash          uint64
	RealDimension int
	Size          int
	Dotted        int
	CreatedAt     time.Time
	Polytope      *polytope.Candidate
}

type row struct {
	ID            string `db:"id"`
	Hash          int64  `db:"hash"`
	RealDimension int    `db:"real_dimension"`
	Size          int    `db:"size"`
	Dotted        int    `db:"dotted"`
	Payload       []byte `db:"payload"`
	CreatedAt     int64  `db:"created_at"`
}

func (r *row) record() (Record, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Record{}, fmt.Errorf("store: parse id %q: %w", r.ID, err)
	}
	p, err := polytope.Load(bytes.NewReader(r.Payload))
	if err != nil {
		return Record{}, fmt.Errorf("store: decode %s: %w", id, err)
	}

	return Record{
		ID:            id,
		Hash:          uint64(r.Hash),
		RealDimension: r.RealDimension,
		Size:          r.Size,
		Dotted:        r.Dotted,
		CreatedAt:     time.Unix(0, r.CreatedAt).UTC(),
		Polytope:      p,
	}, nil
}

// Store is a polytope archive. It is safe for concurrent use.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects to the SQLite database at dsn and creates the schema.
// Use ":memory:" for a private in-memory archive.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	// one connection: SQLite serializes writers, and ":memory:" is per connection
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Put archives p and returns its new id.
func (s *Store) Put(ctx context.Context, p *polytope.Candidate) (uuid.UUID, error) {
	if p == nil || !p.Valid() {
		return uuid.Nil, ErrInvalidCandidate
	}
	var buf bytes.Buffer
	if err := p.Save(&buf, polytope.WithCompression(polytope.CompressionZstd)); err != nil {
		return uuid.Nil, fmt.Errorf("store: encode: %w", err)
	}
	gram := p.Gram()
	id := uuid.New()
	r := row{
		ID:            id.String(),
		Hash:          int64(equiv.Hash(gram)),
		RealDimension: p.RealDimension(),
		Size:          p.Size(),
		Dotted:        filter.DottedCount(gram),
		Payload:       buf.Bytes(),
		CreatedAt:     s.now().UnixNano(),
	}
	const q = `INSERT INTO polytopes (id, hash, real_dimension, size, dotted, payload, created_at)
		VALUES (:id, :hash, :real_dimension, :size, :dotted, :payload, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, q, r); err != nil {
		return uuid.Nil, fmt.Errorf("store: insert: %w", err)
	}

	return id, nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT * FROM polytopes WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("store: get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("store: get %s: %w", id, err)
	}

	return r.record()
}

// ListByDimension returns every record of the given real dimension, oldest first.
func (s *Store) ListByDimension(ctx context.Context, dim int) ([]Record, error) {
	return s.list(ctx, `SELECT * FROM polytopes WHERE real_dimension = ? ORDER BY created_at, id`, dim)
}

// ListByHash returns every record whose Gram matrix hashes to h.
func (s *Store) ListByHash(ctx context.Context, h uint64) ([]Record, error) {
	return s.list(ctx, `SELECT * FROM polytopes WHERE hash = ? ORDER BY created_at, id`, int64(h))
}

func (s *Store) list(ctx context.Context, q string, arg any) ([]Record, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, q, arg); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}

// Hashes returns the equivalence hashes of every archived polytope.
func (s *Store) Hashes(ctx context.Context) (*equiv.HashSet, error) {
	var hashes []int64
	if err := s.db.SelectContext(ctx, &hashes, `SELECT DISTINCT hash FROM polytopes`); err != nil {
		return nil, fmt.Errorf("store: hashes: %w", err)
	}
	out := equiv.NewHashSet()
	for _, h := range hashes {
		out.Add(uint64(h))
	}

	return out, nil
}

// Count returns the number of archived polytopes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM polytopes`); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}

	return n, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
