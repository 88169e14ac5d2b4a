package homomorphic_test

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/internal/test"
	"github.com/gridshare/sharing/pkg/homomorphic"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/math/sample"
	"github.com/gridshare/sharing/pkg/params"
	"github.com/gridshare/sharing/pkg/pool"
	"github.com/gridshare/sharing/pkg/server"
	"github.com/gridshare/sharing/pkg/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// 2⁶¹ - 1
const mersenne61 = 2305843009213693951

func newScheme(label string, sub *params.Substation) *homomorphic.Scheme {
	return homomorphic.New(test.Provider(sub), sharing.WithRand(sample.NewSeededReader([]byte(label))))
}

func sum(t *testing.T, shares map[string]*saferith.Int) int64 {
	t.Helper()
	total := new(saferith.Int)
	for _, share := range shares {
		total.Add(total, share, -1)
	}
	return total.Big().Int64()
}

func TestShareSecret_Scenario(t *testing.T) {
	sub := test.Substation(1, 23, 5, 1, 3)
	data, err := newScheme("scenario", sub).ShareSecret(arith.IntFromInt64(7))
	require.NoError(t, err)

	require.Len(t, data.Shares, 3)
	for _, srv := range sub.Servers {
		assert.Contains(t, data.Shares, srv.Destination(server.Hash))
	}
	assert.Equal(t, int64(7), sum(t, data.Shares))

	nonce := data.Nonce.Big().Int64()
	assert.True(t, nonce >= 0 && nonce < 23)
	expected, err := homomorphic.Hash(sub.FieldBase, arith.IntFromInt64(7+nonce), sub.Generator)
	require.NoError(t, err)
	assert.True(t, expected.Eq(data.ProofComponent) == 1)
}

func TestHash(t *testing.T) {
	p := saferith.ModulusFromUint64(23)
	g := new(saferith.Nat).SetUint64(5)

	c, err := homomorphic.Hash(p, arith.IntFromInt64(2), g)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), c.Big().Uint64())

	// 5 generates ℤ₂₃ˣ, so distinct exponents below 22 commit differently
	seen := make(map[uint64]bool)
	for x := int64(0); x < 22; x++ {
		c, err := homomorphic.Hash(p, arith.IntFromInt64(x), g)
		require.NoError(t, err)
		seen[c.Big().Uint64()] = true
	}
	assert.Len(t, seen, 22)

	// g^a⋅g^b = g^(a+b)
	a, err := homomorphic.Hash(p, arith.IntFromInt64(13), g)
	require.NoError(t, err)
	b, err := homomorphic.Hash(p, arith.IntFromInt64(-4), g)
	require.NoError(t, err)
	ab, err := homomorphic.Hash(p, arith.IntFromInt64(9), g)
	require.NoError(t, err)
	assert.True(t, new(saferith.Nat).ModMul(a, b, p).Eq(ab) == 1)

	_, err = homomorphic.Hash(p, arith.IntFromInt64(-1), new(saferith.Nat).SetUint64(46))
	assert.ErrorIs(t, err, arith.ErrNoInverse)
}

func TestShareSecret_Binding(t *testing.T) {
	sub := test.Substation(1, mersenne61, 3, 2, 4)
	s := newScheme("binding", sub)
	data, err := s.ShareSecret(arith.IntFromInt64(100))
	require.NoError(t, err)

	nonce := new(saferith.Int).SetNat(data.Nonce)
	for _, m := range []int64{99, 101, 0, -100} {
		x := new(saferith.Int).Add(nonce, arith.IntFromInt64(m), -1)
		other, err := homomorphic.Hash(sub.FieldBase, x, sub.Generator)
		require.NoError(t, err)
		assert.False(t, other.Eq(data.ProofComponent) == 1, "secret %d opens the commitment", m)
	}
}

func TestShareSecret_Fresh(t *testing.T) {
	sub := test.Substation(1, mersenne61, 3, 2, 4)
	s := newScheme("fresh", sub)
	nonces := make(map[string]bool)
	commitments := make(map[string]bool)
	first := make(map[string]bool)
	const trials = 64
	for i := 0; i < trials; i++ {
		data, err := s.ShareSecret(arith.IntFromInt64(42))
		require.NoError(t, err)
		nonces[data.Nonce.Big().String()] = true
		commitments[data.ProofComponent.Big().String()] = true
		first[data.Shares[sub.Servers[0].Destination(server.Hash)].Big().String()] = true
	}
	assert.Len(t, nonces, trials)
	assert.Len(t, commitments, trials)
	assert.Len(t, first, trials)
}

func TestShareSecret_Concurrent(t *testing.T) {
	sub := test.Substation(1, mersenne61, 3, 3, 7)
	rand := pool.NewLockedReader(sample.NewSeededReader([]byte("concurrent")))
	s := homomorphic.New(test.Provider(sub), sharing.WithRand(rand))

	results := make([]*homomorphic.Data, 32)
	var eg errgroup.Group
	for i := range results {
		i := i
		eg.Go(func() error {
			data, err := s.ShareSecret(arith.IntFromInt64(int64(i)))
			results[i] = data
			return err
		})
	}
	require.NoError(t, eg.Wait())
	for i, data := range results {
		assert.Equal(t, int64(i), sum(t, data.Shares))
	}
}

func TestShareSecret_Errors(t *testing.T) {
	sub := test.Substation(1, 23, 5, 1, 3)
	_, err := newScheme("errors", sub).ShareSecret(nil)
	assert.ErrorIs(t, err, sharing.ErrNilSecret)

	_, err = homomorphic.New(params.NewStatic(2, sub)).ShareSecret(arith.IntFromInt64(1))
	assert.ErrorIs(t, err, params.ErrUnknownSubstation)

	_, err = newScheme("errors", test.Substation(1, 23, 5, 5, 3)).ShareSecret(arith.IntFromInt64(1))
	assert.ErrorIs(t, err, params.ErrThresholdTooLarge)

	_, err = homomorphic.New(emptyProvider{}).ShareSecret(arith.IntFromInt64(1))
	assert.ErrorIs(t, err, sharing.ErrNilSubstation)

	bad := test.Substation(1, 23, 5, 1, 3)
	bad.Generator = nil
	_, err = newScheme("errors", bad).ShareSecret(arith.IntFromInt64(1))
	assert.ErrorIs(t, err, params.ErrNilGenerator)
}

func TestData_MarshalBinary(t *testing.T) {
	sub := test.Substation(1, 23, 5, 1, 3)
	data, err := newScheme("marshal", sub).ShareSecret(arith.IntFromInt64(-3))
	require.NoError(t, err)

	raw, err := data.MarshalBinary()
	require.NoError(t, err)
	var decoded homomorphic.Data
	require.NoError(t, decoded.UnmarshalBinary(raw))

	assert.True(t, decoded.Nonce.Eq(data.Nonce) == 1)
	assert.True(t, decoded.ProofComponent.Eq(data.ProofComponent) == 1)
	require.Len(t, decoded.Shares, len(data.Shares))
	for destination, share := range data.Shares {
		require.Contains(t, decoded.Shares, destination)
		assert.Equal(t, 0, share.Big().Cmp(decoded.Shares[destination].Big()))
	}
	assert.Equal(t, int64(-3), sum(t, decoded.Shares))
}

// emptyProvider knows every substation, without parameters.
type emptyProvider struct{}

func (emptyProvider) SubstationID() int { return 1 }

func (emptyProvider) Substation(int) (*params.Substation, error) { return nil, nil }

func (emptyProvider) LinearPublicData(int, int) (*params.LinearPublicData, error) { return nil, nil }
