package blocktri

import (
	"gonum.org/v1/gonum/floats"
)

// ScaleAddBlockDiag performs A <- matrixScale*A + diagScale*B in place, where
// B is a block-diagonal matrix supplied as numBlocks contiguous row-major
// n x n blocks. Off-diagonal bands are scaled by matrixScale but otherwise
// untouched. Used to build operators like (1/dt)*M - J from a base Jacobian.
func (m *Matrix) ScaleAddBlockDiag(matrixScale float64, blockDiag []float64, diagScale float64) error {
	if len(blockDiag) != len(m.d) {
		return vecLenError("blockDiag", len(blockDiag), len(m.d))
	}
	floats.Scale(matrixScale, m.d)
	floats.Scale(matrixScale, m.l)
	floats.Scale(matrixScale, m.u)
	floats.AddScaled(m.d, diagScale, blockDiag)
	return nil
}

// ScaleAddDiag performs A <- matrixScale*A + diagScale*diag(diagonal) in
// place, where diagonal has one entry per unknown (length numBlocks*blockSize)
// added onto the diagonal of the corresponding D_i. Off-diagonal bands are
// scaled by matrixScale but otherwise untouched.
func (m *Matrix) ScaleAddDiag(matrixScale float64, diagonal []float64, diagScale float64) error {
	if err := m.checkVec("diagonal", diagonal); err != nil {
		return err
	}
	floats.Scale(matrixScale, m.d)
	floats.Scale(matrixScale, m.l)
	floats.Scale(matrixScale, m.u)
	n := m.blockSize
	for i := 0; i < m.numBlocks; i++ {
		blk := m.Diag(i)
		for r := 0; r < n; r++ {
			blk[r*n+r] += diagScale * diagonal[i*n+r]
		}
	}
	return nil
}

// ScaleRows scales every matrix row by the corresponding entry of s
// (length numBlocks*blockSize), i.e. A <- diag(s)*A, applied consistently
// across all three bands. Row r of block row i is scaled by s[i*n+r].
// Typical use is Jacobian row equilibration.
func (m *Matrix) ScaleRows(s []float64) error {
	if err := m.checkVec("s", s); err != nil {
		return err
	}
	n := m.blockSize
	for i := 0; i < m.numBlocks; i++ {
		for r := 0; r < n; r++ {
			f := s[i*n+r]
			floats.Scale(f, m.Diag(i)[r*n:(r+1)*n])
			if i > 0 {
				floats.Scale(f, m.Sub(i)[r*n:(r+1)*n])
			}
			if i < m.numBlocks-1 {
				floats.Scale(f, m.Super(i)[r*n:(r+1)*n])
			}
		}
	}
	return nil
}

// ScaleCols scales every matrix column by the corresponding entry of s
// (length numBlocks*blockSize), i.e. A <- A*diag(s). Column c of block
// column j scales column c of D_j and of the two coupling blocks that live
// in block column j.
func (m *Matrix) ScaleCols(s []float64) error {
	if err := m.checkVec("s", s); err != nil {
		return err
	}
	n := m.blockSize
	for j := 0; j < m.numBlocks; j++ {
		for c := 0; c < n; c++ {
			f := s[j*n+c]
			scaleBlockCol(n, m.Diag(j), c, f)
			if j > 0 {
				// Super-diagonal block of row j-1 sits in block column j.
				scaleBlockCol(n, m.Super(j-1), c, f)
			}
			if j < m.numBlocks-1 {
				// Sub-diagonal block of row j+1 sits in block column j.
				scaleBlockCol(n, m.Sub(j+1), c, f)
			}
		}
	}
	return nil
}

func scaleBlockCol(n int, blk []float64, c int, f float64) {
	for r := 0; r < n; r++ {
		blk[r*n+c] *= f
	}
}
