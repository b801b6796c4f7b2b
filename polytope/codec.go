// SPDX-License-Identifier: MIT

package polytope

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/katalvlaran/ptope/matrix"
	"github.com/katalvlaran/ptope/vecfamily"
)

// Wire format (little endian):
//
//	magic   [4]byte "PTOP"
//	version u8
//	flags   u8      bit0 hyperbolic, bit1 valid
//	n       u32     Gram order, then n*n float64
//	dim     u32
//	size    u32     then dim*size float64, column by column
//
// Save frames the payload as [codec u8][raw u32][compressed u32][block].
// A compressed size of 0 means the block is stored raw.
const (
	magic          = "PTOP"
	version        = 1
	flagHyperbolic = 1 << 0
	flagValid      = 1 << 1

	fixedHeaderSize = len(magic) + 2
	blockHeaderSize = 9

	// compression must save at least this fraction to be kept
	minCompressionRatio = 0.9

	// upper bound on the Gram order and vector length accepted by UnmarshalBinary
	maxOrder = 1 << 12
	maxBlock = 64 << 20
)

// Compression selects the block codec used by Save.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4
	// CompressionZstd uses Zstandard at the default level.
	CompressionZstd
)

// SaveOption configures Save.
type SaveOption func(*saveOptions)

type saveOptions struct {
	compression Compression
}

// WithCompression selects the block codec. The default is CompressionNone.
func WithCompression(c Compression) SaveOption {
	return func(o *saveOptions) { o.compression = c }
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}

	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}

	return zstd.NewReader(nil)
}

// MarshalBinary encodes the Gram matrix, the vectors and the state flags.
// The basis and the LQ cache are derived data and are not stored.
func (p *Candidate) MarshalBinary() ([]byte, error) {
	var flags byte
	if p.hyperbolic {
		flags |= flagHyperbolic
	}
	if p.valid {
		flags |= flagValid
	}
	n, dim, size := 0, 0, 0
	if p.gram != nil {
		n = p.gram.Rows()
	}
	if p.vectors != nil {
		dim, size = p.vectors.Dimension(), p.vectors.Size()
	}

	buf := make([]byte, 0, fixedHeaderSize+12+8*(n*n+dim*size))
	buf = append(buf, magic...)
	buf = append(buf, version, flags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n))
	for i := 0; i < n; i++ {
		for _, v := range p.gram.RawRowView(i) {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dim))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(size))
	if p.vectors != nil {
		for _, v := range p.vectors.Raw() {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}

	return buf, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into p, replacing
// its contents and rebuilding the basis.
func (p *Candidate) UnmarshalBinary(data []byte) error {
	r := decoder{buf: data}
	if string(r.bytes(len(magic))) != magic {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("bad magic: %w", ErrCorrupt))
	}
	if v := r.u8(); v != version {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("unsupported version %d: %w", v, ErrCorrupt))
	}
	flags := r.u8()

	n := int(r.u32())
	if n > maxOrder {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("gram order %d: %w", n, ErrCorrupt))
	}
	gramRows := r.floats(n * n)
	dim := int(r.u32())
	size := int(r.u32())
	if dim > maxOrder || size > maxOrder {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("family %dx%d: %w", dim, size, ErrCorrupt))
	}
	cols := r.floats(dim * size)
	if r.err != nil {
		return polytopeErrorf(opUnmarshal, r.err)
	}
	if r.off != len(data) {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("%d trailing bytes: %w", len(data)-r.off, ErrCorrupt))
	}

	out := Candidate{
		hyperbolic: flags&flagHyperbolic != 0,
		valid:      flags&flagValid != 0,
	}
	if !out.valid {
		*p = out
		return nil
	}
	if n == 0 || n != size {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("gram order %d for %d vectors: %w", n, size, ErrCorrupt))
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = gramRows[i*n : (i+1)*n]
	}
	gram, err := matrix.NewFromRows(rows)
	if err != nil {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	vecCols := make([][]float64, size)
	for i := range vecCols {
		vecCols[i] = cols[i*dim : (i+1)*dim]
	}
	vecs, err := vecfamily.FromColumns(dim, vecCols...)
	if err != nil {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	out.gram, out.vectors = gram, vecs
	if out.RealDimension() <= 0 || out.RealDimension() > size {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("dimension %d: %w", dim, ErrCorrupt))
	}
	if err = out.rebuildBasis(); err != nil {
		return polytopeErrorf(opUnmarshal, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	*p = out

	return nil
}

// Save writes p to w as a single framed block.
func (p *Candidate) Save(w io.Writer, opts ...SaveOption) error {
	o := saveOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	payload, err := p.MarshalBinary()
	if err != nil {
		return polytopeErrorf(opSave, err)
	}
	block, err := compressBlock(payload, o.compression)
	if err != nil {
		return polytopeErrorf(opSave, err)
	}
	if _, err = w.Write(block); err != nil {
		return polytopeErrorf(opSave, err)
	}

	return nil
}

// Load reads one block written by Save.
func Load(r io.Reader) (*Candidate, error) {
	var hdr [blockHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, polytopeErrorf(opLoad, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	codec := Compression(hdr[0])
	if codec > CompressionZstd {
		return nil, polytopeErrorf(opLoad, fmt.Errorf("codec %d: %w", codec, ErrCorrupt))
	}
	raw := binary.LittleEndian.Uint32(hdr[1:])
	compressed := binary.LittleEndian.Uint32(hdr[5:])
	stored := raw
	if compressed != 0 {
		stored = compressed
	}
	if raw > maxBlock || stored > maxBlock {
		return nil, polytopeErrorf(opLoad, fmt.Errorf("block of %d bytes: %w", raw, ErrCorrupt))
	}
	block := make([]byte, stored)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, polytopeErrorf(opLoad, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	payload := block
	if compressed != 0 {
		var err error
		if payload, err = decompressBlock(block, codec, int(raw)); err != nil {
			return nil, polytopeErrorf(opLoad, fmt.Errorf("%w: %w", ErrCorrupt, err))
		}
	}
	p := &Candidate{}
	if err := p.UnmarshalBinary(payload); err != nil {
		return nil, err
	}

	return p, nil
}

// compressBlock frames data, storing it raw when compression does not pay off.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var (
		compressed []byte
		err        error
	)
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZstd:
		compressed, err = compressZstd(data)
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}
	if err != nil {
		return nil, err
	}
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*minCompressionRatio {
		compressed = nil
	}

	stored := data
	if compressed != nil {
		stored = compressed
	}
	out := make([]byte, blockHeaderSize, blockHeaderSize+len(stored))
	out[0] = byte(c)
	binary.LittleEndian.PutUint32(out[1:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[5:], uint32(len(compressed)))

	return append(out, stored...), nil
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

func compressZstd(data []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func decompressBlock(block []byte, c Compression, raw int) ([]byte, error) {
	switch c {
	case CompressionLZ4:
		out := make([]byte, raw)
		n, err := lz4.UncompressBlock(block, out)
		if err != nil {
			return nil, err
		}
		if n != raw {
			return nil, fmt.Errorf("lz4: got %d bytes, want %d", n, raw)
		}
		return out, nil
	case CompressionZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(block, make([]byte, 0, raw))
		if err != nil {
			return nil, err
		}
		if len(out) != raw {
			return nil, fmt.Errorf("zstd: got %d bytes, want %d", len(out), raw)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}
}

// decoder is a sticky-error little-endian reader over a byte slice.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.off+n > len(d.buf) {
		d.err = fmt.Errorf("short buffer at offset %d: %w", d.off, ErrCorrupt)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n

	return b
}

func (d *decoder) u8() byte {
	b := d.bytes(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (d *decoder) u32() uint32 {
	b := d.bytes(4)
	if b == nil {
		return 0
	}

	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) floats(n int) []float64 {
	if n < 0 || n > (len(d.buf)-d.off)/8 {
		if d.err == nil {
			d.err = fmt.Errorf("need %d floats at offset %d: %w", n, d.off, ErrCorrupt)
		}
		return nil
	}
	b := d.bytes(8 * n)
	if b == nil {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}

	return out
}
