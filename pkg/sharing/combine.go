package sharing

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/math/polynomial"
)

// Sum adds up the values of all shares, which is the secret when every share
// of it is present.
func Sum(shares map[string]*Share) (*saferith.Int, error) {
	if len(shares) == 0 {
		return nil, ErrNoShares
	}
	sum := new(saferith.Int)
	for _, share := range shares {
		sum.Add(sum, share.Value, -1)
	}
	return sum, nil
}

// Evaluation returns the unweighted evaluation f(Index) = Value / Weight.
func (share *Share) Evaluation() *saferith.Int {
	y := new(big.Int).Quo(share.Value.Big(), share.Weight.Big())
	return new(saferith.Int).SetBig(y, y.BitLen())
}

// Interpolate recovers f(0) mod p from a subset of the shares of f,
// re-deriving the Lagrange weights of the subset in ℤₚ.
//
// At least t+1 shares are needed for the result to be the secret.
func Interpolate(shares []*Share, p *saferith.Modulus) (*saferith.Nat, error) {
	if len(shares) == 0 {
		return nil, ErrNoShares
	}
	domain := make([]int, len(shares))
	for k, share := range shares {
		domain[k] = share.Index
	}
	result := new(saferith.Nat)
	for _, share := range shares {
		lambda, err := polynomial.WeightMod(share.Index, domain, p)
		if err != nil {
			return nil, fmt.Errorf("sharing: %w", err)
		}
		y := share.Evaluation().Mod(p)
		result.ModAdd(result, y.ModMul(y, lambda, p), p)
	}
	return result, nil
}
