package blocktri

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBlockDiagSolvePerBlock(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	for _, numBlocks := range []int{1, 4, 9} {
		n := 3
		m := testMatrix(numBlocks, n, rng)
		b := testVec(m.Dim(), rng)

		f, err := m.FactorizeDiag()
		require.NoError(t, err)
		x := make([]float64, m.Dim())
		require.NoError(t, f.Solve(x, b))

		// Each block solve must match the independent dense solve; no
		// cross-block coupling leaks in regardless of N.
		for i := 0; i < numBlocks; i++ {
			d := mat.NewDense(n, n, append([]float64(nil), m.Diag(i)...))
			var lu mat.LU
			lu.Factorize(d)
			var want mat.VecDense
			require.NoError(t, lu.SolveVecTo(&want, false, mat.NewVecDense(n, b[i*n:(i+1)*n])))
			assert.InDeltaSlice(t, want.RawVector().Data, x[i*n:(i+1)*n], 1e-12,
				"block %d of %d", i, numBlocks)
		}
	}
}

func TestBlockDiagSolveInPlace(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := testMatrix(4, 2, rng)
	b := testVec(m.Dim(), rng)

	f, err := m.FactorizeDiag()
	require.NoError(t, err)

	x := make([]float64, m.Dim())
	require.NoError(t, f.Solve(x, b))

	inPlace := append([]float64(nil), b...)
	require.NoError(t, f.Solve(inPlace, inPlace))
	assert.Equal(t, x, inPlace)
}

func TestBlockDiagFactorizeDoesNotMutateSource(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	m := testMatrix(3, 3, rng)
	before := toDense(m)

	_, err := m.FactorizeDiag()
	require.NoError(t, err)
	assert.Equal(t, before.RawMatrix().Data, toDense(m).RawMatrix().Data)
}

func TestBlockDiagFactorizeSingularBlock(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	m := testMatrix(4, 2, rng)
	blk := m.Diag(2)
	for i := range blk {
		blk[i] = 0
	}

	f, err := m.FactorizeDiag()
	if f != nil {
		t.Fatal("singular block: factorization must not be returned")
	}
	if !errors.Is(err, ErrSingularBlock) {
		t.Fatalf("got %v, want ErrSingularBlock", err)
	}
	var sb SingularBlockError
	require.ErrorAs(t, err, &sb)
	assert.Equal(t, 2, sb.Block)
}

func TestBlockDiagSolveShapeErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	m := testMatrix(3, 2, rng)
	f, err := m.FactorizeDiag()
	require.NoError(t, err)

	good := make([]float64, m.Dim())
	bad := make([]float64, m.Dim()+1)
	if err := f.Solve(bad, good); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("long dst: got %v, want ErrShapeMismatch", err)
	}
	if err := f.Solve(good, bad); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("long rhs: got %v, want ErrShapeMismatch", err)
	}
}
