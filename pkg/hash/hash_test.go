package hash

import (
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_WriteAny(t *testing.T) {
	testFunc := func(vs ...interface{}) error {
		h := New()
		for _, v := range vs {
			if err := h.WriteAny(v); err != nil {
				return err
			}
		}
		return nil
	}
	b := big.NewInt(35)
	i := new(saferith.Int).SetBig(b, b.BitLen())
	n := new(saferith.Nat).SetBig(b, b.BitLen())
	m := saferith.ModulusFromBytes(b.Bytes())

	assert.NoError(t, testFunc(i, n, m))
	assert.NoError(t, testFunc([]byte{1, 4, 6}, "substation", 7))
	assert.Error(t, testFunc(3.5))
	assert.Error(t, testFunc((*saferith.Nat)(nil)))
}

func TestHash_WriteAny_Collision(t *testing.T) {
	testFunc := func(vs ...interface{}) []byte {
		h := New()
		require.NoError(t, h.WriteAny(vs...))
		return h.Sum()
	}
	assert.NotEqual(t, testFunc([]byte("ab"), []byte("c")), testFunc([]byte("a"), []byte("bc")))
	assert.NotEqual(t, testFunc("ab"), testFunc([]byte("ab")))

	x := big.NewInt(35)
	pos := new(saferith.Int).SetBig(x, x.BitLen())
	neg := new(saferith.Int).SetBig(new(big.Int).Neg(x), x.BitLen())
	assert.NotEqual(t, testFunc(pos), testFunc(neg))
}

func TestHash_NatAnnouncedLength(t *testing.T) {
	// the announced length of a Nat does not change its fingerprint
	x := big.NewInt(35)
	short := new(saferith.Nat).SetBig(x, x.BitLen())
	long := new(saferith.Nat).SetBig(x, 512)
	f1, err := FingerprintOf(short)
	require.NoError(t, err)
	f2, err := FingerprintOf(long)
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
	assert.Len(t, f1.String(), 16)
}

func TestHash_Clone(t *testing.T) {
	h := New()
	require.NoError(t, h.WriteAny("prefix"))
	h2 := h.Clone()
	require.NoError(t, h2.WriteAny("suffix"))
	assert.NotEqual(t, h.Sum(), h2.Sum())
}
