package arith

import (
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulus_Exp(t *testing.T) {
	r := mrand.New(mrand.NewSource(0))

	assert.True(t, mFast.Nat().Eq(mSlow.Nat()) == 1, "n moduli should be the same")

	for i := 0; i < 10; i++ {
		x, err := sample.ModN(r, n)
		require.NoError(t, err)
		e, err := sample.ModN(r, n)
		require.NoError(t, err)
		eNeg := new(saferith.Int).SetNat(e).Neg(1)

		yExpected := new(saferith.Nat).Exp(x, e, n)
		assert.True(t, yExpected.Eq(mFast.Exp(x, e)) == 1, "exponentiation with acceleration should give the same result")
		assert.True(t, yExpected.Eq(mSlow.Exp(x, e)) == 1, "exponentiation without acceleration should give the same result")

		if x.IsUnit(n) != 1 {
			continue
		}
		yExpected.ExpI(x, eNeg, n)
		assert.True(t, yExpected.Eq(mFast.ExpI(x, eNeg)) == 1, "negative exponentiation with acceleration should give the same result")
		assert.True(t, yExpected.Eq(mSlow.ExpI(x, eNeg)) == 1, "negative exponentiation without acceleration should give the same result")
	}
}

func TestModulus_ExpUnreduced(t *testing.T) {
	// x ≥ n is reduced before exponentiation
	m := ModulusFromFactors(new(saferith.Nat).SetUint64(11), new(saferith.Nat).SetUint64(23))
	x := new(saferith.Nat).SetUint64(253 + 7)
	e := new(saferith.Nat).SetUint64(5)
	// 7⁵ = 16807 = 66⋅253 + 109
	assert.Equal(t, uint64(109), m.Exp(x, e).Big().Uint64())
}

func benchmarkExp(b *testing.B, m *Modulus) {
	r := mrand.New(mrand.NewSource(0))
	for i := 0; i < b.N; i++ {
		x, _ := sample.ModN(r, n)
		e, _ := sample.ModN(r, n)
		m.Exp(x, e)
	}
}

func BenchmarkExp(b *testing.B) {
	b.Run("fast", func(b *testing.B) { benchmarkExp(b, mFast) })
	b.Run("slow", func(b *testing.B) { benchmarkExp(b, mSlow) })
}

var (
	p, q         *saferith.Nat
	n            *saferith.Modulus
	mFast, mSlow *Modulus
)

func init() {
	p, _ = new(saferith.Nat).SetHex("D08769E92F80F7FDFB85EC02AFFDAED0FDE2782070757F191DCDC4D108110AC1E31C07FC253B5F7B91C5D9F203AA0572D3F2062A3D2904C535C6ACCA7D5674E1C2640720E762C72B66931F483C2D910908CF02EA6723A0CBBB1016CA696C38FEAC59B31E40584C8141889A11F7A38F5B17811D11F42CD15B8470F11C6183802B")
	q, _ = new(saferith.Nat).SetHex("C21239C3484FC3C8409F40A9A22FABFFE26CA10C27506E3E017C2EC8C4B98D7A6D30DED0686869884BE9BAD27F5241B7313F73D19E9E4B384FABF9554B5BB4D517CBAC0268420C63D545612C9ADABEEDF20F94244E7F8F2080B0C675AC98D97C580D43375F999B1AC127EC580B89B2D302EF33DD5FD8474A241B0398F6088CA7")
	nNat := new(saferith.Nat).Mul(p, q, -1)
	n = saferith.ModulusFromNat(nNat)
	mFast = ModulusFromFactors(p, q)
	mSlow = ModulusFromN(n)
}
