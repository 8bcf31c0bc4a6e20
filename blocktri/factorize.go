package blocktri

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// Factorization is the result of the block-Thomas factorization of a Matrix:
// the multiplier blocks of the forward elimination, the pivoted LU factors of
// each Schur-updated diagonal block, and a copy of the super-diagonal band
// consumed by the backward sweep. It never aliases the source matrix, so
// mutating the source afterwards cannot corrupt an existing factorization;
// it must simply be recomputed to reflect the change.
type Factorization struct {
	numBlocks int
	blockSize int
	mult      []float64 // L_i = L_i^orig * inv(W_{i-1}), stored like the sub band
	factors   []float64 // LU factors of the working diagonal blocks W_i
	pivots    []int     // blockSize pivot indices per block row
	super     []float64 // copy of the original super-diagonal band
}

// Factorize performs the block generalization of the Thomas algorithm:
// a left-to-right sweep that LU-factorizes each working diagonal block with
// partial pivoting, forms the multiplier L_i = L_i * inv(W_{i-1}) via
// triangular solves (never an explicit inverse), and applies the Schur
// complement update W_i = D_i - L_i * U_{i-1} using the original
// super-diagonal block. The sweep is inherently sequential: W_i depends on
// W_{i-1}. Cost is O(N*n^3).
//
// The receiver is not modified. If a working diagonal block turns out exactly
// singular, the error wraps ErrSingularBlock with the offending block row and
// no factorization is returned.
func (m *Matrix) Factorize() (*Factorization, error) {
	n := m.blockSize
	n2 := n * n
	f := &Factorization{
		numBlocks: m.numBlocks,
		blockSize: n,
		mult:      make([]float64, len(m.l)),
		factors:   make([]float64, len(m.d)),
		pivots:    make([]int, m.numBlocks*n),
		super:     make([]float64, len(m.u)),
	}
	copy(f.factors, m.d)
	copy(f.super, m.u)

	// Scratch for the transposed right-hand side of the multiplier solve.
	lt := make([]float64, n2)

	for i := 0; i < m.numBlocks; i++ {
		w := general(n, f.factors[i*n2:(i+1)*n2])
		if i > 0 {
			prev := general(n, f.factors[(i-1)*n2:i*n2])
			prevPiv := f.pivots[(i-1)*n : i*n]

			// Solve L_i * W_{i-1} = L_i^orig for the multiplier by
			// transposing: W_{i-1}^T * L_i^T = (L_i^orig)^T.
			transpose(n, lt, m.Sub(i))
			lapack64.Getrs(blas.Trans, prev, general(n, lt), prevPiv)
			mult := f.mult[(i-1)*n2 : i*n2]
			transpose(n, mult, lt)

			// Schur complement update with the original super-diagonal block.
			blas64.Gemm(blas.NoTrans, blas.NoTrans, -1, general(n, mult), general(n, m.Super(i-1)), 1, w)
		}
		if ok := lapack64.Getrf(w, f.pivots[i*n:(i+1)*n]); !ok {
			return nil, SingularBlockError{Block: i}
		}
	}
	return f, nil
}

// transpose writes the transpose of the row-major n x n block src into dst.
func transpose(n int, dst, src []float64) {
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			dst[c*n+r] = src[r*n+c]
		}
	}
}

func (f *Factorization) checkVec(name string, v []float64) error {
	want := f.numBlocks * f.blockSize
	if len(v) != want {
		return vecLenError(name, len(v), want)
	}
	return nil
}

// SolveLower applies the forward sweep of the factorization to rhs:
// y_0 = rhs_0, then y_i = rhs_i - L_i * y_{i-1} using the stored multiplier
// blocks. This solves the unit-diagonal lower factor of the block LU, so no
// per-block triangular solve is needed. dst and rhs may be the same slice.
func (f *Factorization) SolveLower(dst, rhs []float64) error {
	if err := f.checkVec("dst", dst); err != nil {
		return err
	}
	if err := f.checkVec("rhs", rhs); err != nil {
		return err
	}
	n := f.blockSize
	n2 := n * n
	copy(dst, rhs)
	for i := 1; i < f.numBlocks; i++ {
		blas64.Gemv(blas.NoTrans, -1, general(n, f.mult[(i-1)*n2:i*n2]),
			vector(dst[(i-1)*n:i*n]), 1, vector(dst[i*n:(i+1)*n]))
	}
	return nil
}

// SolveUpper applies the backward sweep of the factorization to rhs:
// W_{N-1} x_{N-1} = rhs_{N-1}, then W_i x_i = rhs_i - U_i * x_{i+1} using the
// stored pivoted LU factors and the original super-diagonal blocks. dst and
// rhs may be the same slice.
func (f *Factorization) SolveUpper(dst, rhs []float64) error {
	if err := f.checkVec("dst", dst); err != nil {
		return err
	}
	if err := f.checkVec("rhs", rhs); err != nil {
		return err
	}
	n := f.blockSize
	n2 := n * n
	copy(dst, rhs)
	for i := f.numBlocks - 1; i >= 0; i-- {
		if i < f.numBlocks-1 {
			blas64.Gemv(blas.NoTrans, -1, general(n, f.super[i*n2:(i+1)*n2]),
				vector(dst[(i+1)*n:(i+2)*n]), 1, vector(dst[i*n:(i+1)*n]))
		}
		b := blas64.General{Rows: n, Cols: 1, Stride: 1, Data: dst[i*n : (i+1)*n]}
		lapack64.Getrs(blas.NoTrans, general(n, f.factors[i*n2:(i+1)*n2]), b, f.pivots[i*n:(i+1)*n])
	}
	return nil
}

// Solve solves the full block-tridiagonal system for rhs. It is exactly the
// forward sweep followed by the backward sweep, so composing SolveLower and
// SolveUpper by hand reproduces Solve bit for bit. dst and rhs may be the
// same slice. Exact to machine precision modulo pivoting round-off for a
// non-singular system; cost is O(N*n^2).
func (f *Factorization) Solve(dst, rhs []float64) error {
	if err := f.SolveLower(dst, rhs); err != nil {
		return err
	}
	return f.SolveUpper(dst, dst)
}
