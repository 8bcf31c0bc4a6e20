package blocktri

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Part selects a structural subset of the matrix for MulVec. The "-Off"
// parts are coupling bands only; the "-Full" parts include the diagonal
// block so that the matching triangular solves are well posed.
type Part int

const (
	// Full applies all three bands.
	Full Part = iota
	// BlockDiag applies the diagonal blocks only.
	BlockDiag
	// OffDiag applies the sub- and super-diagonal bands only.
	OffDiag
	// LowerOff applies the sub-diagonal band only.
	LowerOff
	// UpperOff applies the super-diagonal band only.
	UpperOff
	// LowerFull applies the diagonal and sub-diagonal bands.
	LowerFull
	// UpperFull applies the diagonal and super-diagonal bands.
	UpperFull
)

func (p Part) String() string {
	switch p {
	case Full:
		return "Full"
	case BlockDiag:
		return "BlockDiag"
	case OffDiag:
		return "OffDiag"
	case LowerOff:
		return "LowerOff"
	case UpperOff:
		return "UpperOff"
	case LowerFull:
		return "LowerFull"
	case UpperFull:
		return "UpperFull"
	}
	return fmt.Sprintf("Part(%d)", int(p))
}

func (p Part) includes() (diag, lower, upper bool) {
	switch p {
	case Full:
		return true, true, true
	case BlockDiag:
		return true, false, false
	case OffDiag:
		return false, true, true
	case LowerOff:
		return false, true, false
	case UpperOff:
		return false, false, true
	case LowerFull:
		return true, true, false
	case UpperFull:
		return true, false, true
	}
	return false, false, false
}

// general wraps a row-major n x n block as a blas64.General header.
func general(n int, block []float64) blas64.General {
	return blas64.General{Rows: n, Cols: n, Stride: n, Data: block}
}

func vector(seg []float64) blas64.Vector {
	return blas64.Vector{N: len(seg), Data: seg, Inc: 1}
}

// MulVec computes dst = P(m) * x, where P(m) is the structural subset of m
// selected by part. dst is overwritten and must not alias x. Each block row
// accumulates one dense Gemv per included block; cost is O(N*n^2).
func (m *Matrix) MulVec(dst, x []float64, part Part) error {
	if err := m.checkVec("dst", dst); err != nil {
		return err
	}
	if err := m.checkVec("x", x); err != nil {
		return err
	}
	diag, lower, upper := part.includes()
	if !diag && !lower && !upper {
		return fmt.Errorf("blocktri: MulVec: unknown part %v", part)
	}
	n := m.blockSize
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < m.numBlocks; i++ {
		yi := vector(dst[i*n : (i+1)*n])
		if diag {
			blas64.Gemv(blas.NoTrans, 1, general(n, m.Diag(i)), vector(x[i*n:(i+1)*n]), 1, yi)
		}
		if lower && i > 0 {
			blas64.Gemv(blas.NoTrans, 1, general(n, m.Sub(i)), vector(x[(i-1)*n:i*n]), 1, yi)
		}
		if upper && i < m.numBlocks-1 {
			blas64.Gemv(blas.NoTrans, 1, general(n, m.Super(i)), vector(x[(i+1)*n:(i+2)*n]), 1, yi)
		}
	}
	return nil
}
