package blocktri

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// testMatrix builds a random block-tridiagonal matrix with diagonally
// dominant diagonal blocks so that factorization is well conditioned.
func testMatrix(numBlocks, blockSize int, rng *rand.Rand) *Matrix {
	m, err := NewMatrix(numBlocks, blockSize)
	if err != nil {
		panic(err)
	}
	fill := func(blk []float64) {
		for i := range blk {
			blk[i] = 2*rng.Float64() - 1
		}
	}
	n := blockSize
	for i := 0; i < numBlocks; i++ {
		blk := m.Diag(i)
		fill(blk)
		for r := 0; r < n; r++ {
			blk[r*n+r] += 4 + float64(n)
		}
		if i > 0 {
			fill(m.Sub(i))
		}
		if i < numBlocks-1 {
			fill(m.Super(i))
		}
	}
	return m
}

func testVec(dim int, rng *rand.Rand) []float64 {
	v := make([]float64, dim)
	for i := range v {
		v[i] = 2*rng.Float64() - 1
	}
	return v
}

// toDense materializes the full matrix, zeros included, for oracle checks
// against gonum's dense LU.
func toDense(m *Matrix) *mat.Dense {
	n := m.BlockSize()
	dim := m.Dim()
	dense := mat.NewDense(dim, dim, nil)
	setBlock := func(bi, bj int, blk []float64) {
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				dense.Set(bi*n+r, bj*n+c, blk[r*n+c])
			}
		}
	}
	for i := 0; i < m.NumBlocks(); i++ {
		setBlock(i, i, m.Diag(i))
		if i > 0 {
			setBlock(i, i-1, m.Sub(i))
		}
		if i < m.NumBlocks()-1 {
			setBlock(i, i+1, m.Super(i))
		}
	}
	return dense
}
