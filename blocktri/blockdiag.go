package blocktri

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// DiagFactorization holds independent pivoted LU factorizations of the
// diagonal blocks of a Matrix. It ignores all neighbor coupling, which makes
// it a cheap block-Jacobi preconditioner: each block is factorized and solved
// on its own, with no cross-row data dependency.
type DiagFactorization struct {
	numBlocks int
	blockSize int
	factors   []float64 // numBlocks row-major LU-factored blocks
	pivots    []int     // blockSize pivot indices per block
}

// FactorizeDiag computes a pivoted dense LU factorization of every diagonal
// block independently. The source matrix is not modified. If block i is
// exactly singular the result is nil and the error wraps ErrSingularBlock
// with Block == i.
func (m *Matrix) FactorizeDiag() (*DiagFactorization, error) {
	n := m.blockSize
	f := &DiagFactorization{
		numBlocks: m.numBlocks,
		blockSize: n,
		factors:   make([]float64, len(m.d)),
		pivots:    make([]int, m.numBlocks*n),
	}
	copy(f.factors, m.d)
	for i := 0; i < m.numBlocks; i++ {
		blk := general(n, f.factors[i*n*n:(i+1)*n*n])
		if ok := lapack64.Getrf(blk, f.pivots[i*n:(i+1)*n]); !ok {
			return nil, SingularBlockError{Block: i}
		}
	}
	return f, nil
}

// Solve solves D_i x_i = b_i for every block row independently, writing block
// i of dst from block i of rhs. dst and rhs may be the same slice.
func (f *DiagFactorization) Solve(dst, rhs []float64) error {
	want := f.numBlocks * f.blockSize
	if len(dst) != want {
		return vecLenError("dst", len(dst), want)
	}
	if len(rhs) != want {
		return vecLenError("rhs", len(rhs), want)
	}
	n := f.blockSize
	copy(dst, rhs)
	for i := 0; i < f.numBlocks; i++ {
		b := blas64.General{Rows: n, Cols: 1, Stride: 1, Data: dst[i*n : (i+1)*n]}
		lapack64.Getrs(blas.NoTrans, general(n, f.factors[i*n*n:(i+1)*n*n]), b, f.pivots[i*n:(i+1)*n])
	}
	return nil
}
