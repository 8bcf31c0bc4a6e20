// Package blocktri implements dense block-tridiagonal matrix kernels for
// solving the coupled systems that arise when discretizing reacting-flow
// equations on a 1-D chain of nodes: each node carries blockSize unknowns,
// diffusion couples only adjacent nodes, so the Jacobian has dense diagonal
// blocks plus dense sub- and super-diagonal coupling blocks.
//
// All kernels are pure synchronous functions over caller-visible buffers.
// Vectors use block-major layout: block i occupies [i*blockSize, (i+1)*blockSize).
package blocktri

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape reports an invalid numBlocks or blockSize.
	ErrBadShape = errors.New("blocktri: numBlocks and blockSize must be >= 1")

	// ErrShapeMismatch reports a caller-supplied buffer whose length does not
	// match the size implied by numBlocks and blockSize.
	ErrShapeMismatch = errors.New("blocktri: shape mismatch")

	// ErrSingularBlock reports a diagonal block with no usable pivot.
	// Use errors.Is against this; the concrete error is a SingularBlockError
	// carrying the offending block row.
	ErrSingularBlock = errors.New("blocktri: singular diagonal block")
)

// SingularBlockError identifies the block row whose (possibly Schur-updated)
// diagonal block is exactly singular.
type SingularBlockError struct {
	Block int
}

func (e SingularBlockError) Error() string {
	return fmt.Sprintf("blocktri: diagonal block %d is singular", e.Block)
}

func (e SingularBlockError) Is(target error) bool {
	return target == ErrSingularBlock
}

// Matrix is a block-tridiagonal matrix with numBlocks block rows of square
// blockSize x blockSize blocks. The three bands are stored as separate
// contiguous slices of row-major blocks:
//
//	d[i]   — diagonal block of row i,            i = 0..N-1
//	l[i-1] — sub-diagonal block coupling row i to row i-1, i = 1..N-1
//	u[i]   — super-diagonal block coupling row i to row i+1, i = 0..N-2
//
// Only these bands exist; every other block is identically zero and never
// materialized. The same packing is used by every kernel in this package.
type Matrix struct {
	numBlocks int
	blockSize int
	d, l, u   []float64
}

// NewMatrix returns a zero matrix with numBlocks block rows of
// blockSize x blockSize blocks.
func NewMatrix(numBlocks, blockSize int) (*Matrix, error) {
	if numBlocks < 1 || blockSize < 1 {
		return nil, fmt.Errorf("blocktri: NewMatrix(%d, %d): %w", numBlocks, blockSize, ErrBadShape)
	}
	bs2 := blockSize * blockSize
	return &Matrix{
		numBlocks: numBlocks,
		blockSize: blockSize,
		d:         make([]float64, numBlocks*bs2),
		l:         make([]float64, (numBlocks-1)*bs2),
		u:         make([]float64, (numBlocks-1)*bs2),
	}, nil
}

// NewMatrixFromBands adopts the caller's band slices without copying. The
// matrix aliases d, l and u afterwards; mutating kernels (ScaleAdd*, Scale*)
// write through to the caller's storage. Lengths must be exactly
// numBlocks*blockSize^2 for d and (numBlocks-1)*blockSize^2 for l and u
// (l and u may both be nil when numBlocks == 1).
func NewMatrixFromBands(numBlocks, blockSize int, d, l, u []float64) (*Matrix, error) {
	if numBlocks < 1 || blockSize < 1 {
		return nil, fmt.Errorf("blocktri: NewMatrixFromBands(%d, %d): %w", numBlocks, blockSize, ErrBadShape)
	}
	bs2 := blockSize * blockSize
	if len(d) != numBlocks*bs2 {
		return nil, fmt.Errorf("blocktri: diagonal band length %d, want %d: %w", len(d), numBlocks*bs2, ErrShapeMismatch)
	}
	if len(l) != (numBlocks-1)*bs2 {
		return nil, fmt.Errorf("blocktri: sub-diagonal band length %d, want %d: %w", len(l), (numBlocks-1)*bs2, ErrShapeMismatch)
	}
	if len(u) != (numBlocks-1)*bs2 {
		return nil, fmt.Errorf("blocktri: super-diagonal band length %d, want %d: %w", len(u), (numBlocks-1)*bs2, ErrShapeMismatch)
	}
	return &Matrix{numBlocks: numBlocks, blockSize: blockSize, d: d, l: l, u: u}, nil
}

// NumBlocks returns the number of block rows.
func (m *Matrix) NumBlocks() int { return m.numBlocks }

// BlockSize returns the dimension of each square block.
func (m *Matrix) BlockSize() int { return m.blockSize }

// Dim returns the full matrix dimension, numBlocks*blockSize.
func (m *Matrix) Dim() int { return m.numBlocks * m.blockSize }

// VecLen returns the required length of compatible vectors (same as Dim).
func (m *Matrix) VecLen() int { return m.numBlocks * m.blockSize }

// Diag returns the row-major diagonal block of row i as a view into the
// matrix storage. Panics if i is out of [0, NumBlocks).
func (m *Matrix) Diag(i int) []float64 {
	if i < 0 || i >= m.numBlocks {
		panic(fmt.Sprintf("blocktri: Diag(%d) out of range [0,%d)", i, m.numBlocks))
	}
	bs2 := m.blockSize * m.blockSize
	return m.d[i*bs2 : (i+1)*bs2]
}

// Sub returns the sub-diagonal block coupling row i to row i-1 as a view.
// Valid for i in [1, NumBlocks).
func (m *Matrix) Sub(i int) []float64 {
	if i < 1 || i >= m.numBlocks {
		panic(fmt.Sprintf("blocktri: Sub(%d) out of range [1,%d)", i, m.numBlocks))
	}
	bs2 := m.blockSize * m.blockSize
	return m.l[(i-1)*bs2 : i*bs2]
}

// Super returns the super-diagonal block coupling row i to row i+1 as a view.
// Valid for i in [0, NumBlocks-1).
func (m *Matrix) Super(i int) []float64 {
	if i < 0 || i >= m.numBlocks-1 {
		panic(fmt.Sprintf("blocktri: Super(%d) out of range [0,%d)", i, m.numBlocks-1))
	}
	bs2 := m.blockSize * m.blockSize
	return m.u[i*bs2 : (i+1)*bs2]
}

// Clone returns a deep copy of m with freshly allocated bands.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{
		numBlocks: m.numBlocks,
		blockSize: m.blockSize,
		d:         make([]float64, len(m.d)),
		l:         make([]float64, len(m.l)),
		u:         make([]float64, len(m.u)),
	}
	copy(c.d, m.d)
	copy(c.l, m.l)
	copy(c.u, m.u)
	return c
}

func vecLenError(name string, got, want int) error {
	return fmt.Errorf("blocktri: %s length %d, want %d: %w", name, got, want, ErrShapeMismatch)
}

func (m *Matrix) checkVec(name string, v []float64) error {
	if len(v) != m.VecLen() {
		return vecLenError(name, len(v), m.VecLen())
	}
	return nil
}
