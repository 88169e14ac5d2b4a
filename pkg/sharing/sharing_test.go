package sharing_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/internal/test"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/math/sample"
	"github.com/gridshare/sharing/pkg/params"
	"github.com/gridshare/sharing/pkg/server"
	"github.com/gridshare/sharing/pkg/sharing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(label string) sharing.Option {
	return sharing.WithRand(sample.NewSeededReader([]byte(label)))
}

func TestShare_Sum(t *testing.T) {
	s := sharing.New(seeded("sum"))
	for _, tc := range []struct {
		p    uint64
		t, n int
	}{
		{23, 1, 2}, {23, 1, 3}, {23, 2, 5}, {65537, 4, 9}, {65537, 10, 11},
	} {
		sub := test.Substation(1, tc.p, 3, tc.t, tc.n)
		for _, m := range []int64{0, 1, 7, 22, 23, 1_000_000, -5} {
			secret := arith.IntFromInt64(m)
			shares, err := s.Share(sub, secret, server.Hash)
			require.NoError(t, err)
			require.Len(t, shares, tc.n)
			sum, err := sharing.Sum(shares)
			require.NoError(t, err)
			assert.Equal(t, 0, sum.Big().Cmp(secret.Big()), "p=%d t=%d n=%d m=%d", tc.p, tc.t, tc.n, m)
		}
	}
}

func TestShare_Interpolate(t *testing.T) {
	s := sharing.New(seeded("interpolate"))
	sub := test.Substation(1, 65537, 3, 2, 5)
	p := sub.FieldBase
	secret := arith.IntFromInt64(4242)
	shares, err := s.Share(sub, secret, server.Linear)
	require.NoError(t, err)

	all := make([]*sharing.Share, 0, len(shares))
	for _, share := range shares {
		all = append(all, share)
	}
	expected := secret.Mod(p)
	// every subset of size t+1 or more
	for mask := 1; mask < 1<<len(all); mask++ {
		var subset []*sharing.Share
		for k, share := range all {
			if mask&(1<<k) != 0 {
				subset = append(subset, share)
			}
		}
		if len(subset) <= sub.Threshold {
			continue
		}
		got, err := sharing.Interpolate(subset, p)
		require.NoError(t, err)
		assert.True(t, got.Eq(expected) == 1, "subset %b", mask)
	}

	_, err = sharing.Interpolate(nil, p)
	assert.ErrorIs(t, err, sharing.ErrNoShares)
	_, err = sharing.Interpolate([]*sharing.Share{all[0], all[0]}, p)
	assert.ErrorIs(t, err, arith.ErrNoInverse)
}

func TestShare_Scenario(t *testing.T) {
	// p = 23, g = 5, t = 1, three servers, m = 7
	sub := test.Substation(1, 23, 5, 1, 3)
	secret := arith.IntFromInt64(7)
	shares, err := sharing.New(seeded("scenario")).Share(sub, secret, server.Hash)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	byIndex := make(map[int]*sharing.Share, 3)
	for i, srv := range sub.Servers {
		share, ok := shares[srv.Destination(server.Hash)]
		require.True(t, ok, "server %d has no share", i)
		assert.Equal(t, i+1, share.Index)
		byIndex[share.Index] = share
	}
	assert.Equal(t, int64(3), byIndex[1].Weight.Big().Int64())
	assert.Equal(t, int64(-3), byIndex[2].Weight.Big().Int64())
	assert.Equal(t, int64(1), byIndex[3].Weight.Big().Int64())

	// f(X) = 7 + a⋅X with a ∈ [1, 22]
	a := new(saferith.Int).Add(byIndex[1].Evaluation(), arith.IntFromInt64(-7), -1).Big().Int64()
	assert.True(t, a >= 1 && a <= 22)
	for i, share := range byIndex {
		assert.Equal(t, 7+a*int64(i), share.Evaluation().Big().Int64())
	}

	for _, pair := range [][2]int{{1, 2}, {1, 3}, {2, 3}} {
		got, err := sharing.Interpolate([]*sharing.Share{byIndex[pair[0]], byIndex[pair[1]]}, sub.FieldBase)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), got.Big().Uint64(), "pair %v", pair)
	}
}

func TestShare_Fresh(t *testing.T) {
	s := sharing.New(seeded("fresh"))
	sub := test.Substation(1, 65537, 3, 2, 4)
	secret := arith.IntFromInt64(9)
	seen := make(map[string]bool)
	for trial := 0; trial < 50; trial++ {
		shares, err := s.Share(sub, secret, server.Hash)
		require.NoError(t, err)
		key := shares[sub.Servers[0].Destination(server.Hash)].Value.Big().String()
		seen[key] = true
	}
	// collisions happen with probability about 50²/65536²
	assert.Greater(t, len(seen), 45)
}

func TestShare_Errors(t *testing.T) {
	s := sharing.New(seeded("errors"))
	sub := test.Substation(1, 23, 5, 1, 3)
	_, err := s.Share(sub, nil, server.Hash)
	assert.ErrorIs(t, err, sharing.ErrNilSecret)
	_, err = s.Share(nil, arith.IntFromInt64(1), server.Hash)
	assert.ErrorIs(t, err, sharing.ErrNilSubstation)

	_, err = s.Share(test.Substation(1, 23, 5, 3, 3), arith.IntFromInt64(1), server.Hash)
	assert.ErrorIs(t, err, params.ErrThresholdTooLarge)
	_, err = s.Share(test.Substation(1, 23, 5, 0, 3), arith.IntFromInt64(1), server.Hash)
	assert.ErrorIs(t, err, params.ErrThresholdNotPositive)
	_, err = s.Share(test.Substation(1, 23, 5, 1, 0), arith.IntFromInt64(1), server.Hash)
	assert.ErrorIs(t, err, params.ErrNoServers)

	errRead := errors.New("entropy exhausted")
	broken := sharing.New(sharing.WithRand(failingReader{errRead}))
	_, err = broken.Share(sub, arith.IntFromInt64(1), server.Hash)
	assert.ErrorIs(t, err, errRead)

	_, err = sharing.Sum(nil)
	assert.ErrorIs(t, err, sharing.ErrNoShares)
}

func TestShare_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := sharing.New(seeded("logging"), sharing.WithLogger(logger))
	sub := test.Substation(3, 23, 5, 1, 3)
	_, err := s.Share(sub, arith.IntFromInt64(7), server.Linear)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "substation=3"), out)
	assert.True(t, strings.Contains(out, "construction=linear"), out)
	assert.True(t, strings.Contains(out, "threshold=1"), out)
	assert.True(t, strings.Contains(out, "params="), out)
	assert.False(t, strings.Contains(out, "secret="), out)

	assert.NotNil(t, sharing.New().Logger())
	assert.NotNil(t, sharing.New(sharing.WithRand(nil)).Rand())
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }
