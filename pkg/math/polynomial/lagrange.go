package polynomial

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/math/arith"
)

// Domain returns the evaluation points {1, …, n} assigned to n servers.
func Domain(n int) []int {
	domain := make([]int, n)
	for i := range domain {
		domain[i] = i + 1
	}
	return domain
}

// Weight returns the Lagrange coefficient of i at 0, over the integers:
//
//	          ∏ⱼ≠ᵢ j
//	βᵢ = --------------
//	      ∏ⱼ≠ᵢ (j - i)
//
// The quotient is truncated toward zero, the remainder is not checked.
// It is exact when domain = {1, …, n}, where βᵢ = (-1)ⁱ⁻¹⋅C(n, i).
// For other domains the truncated value is returned as is; use WeightMod
// to interpolate over an arbitrary subset.
func Weight(i int, domain []int) *saferith.Int {
	numerator, denominator := fraction(i, domain)
	beta := numerator.Quo(numerator, denominator)
	return new(saferith.Int).SetBig(beta, beta.BitLen())
}

// Weights returns Weight(i, domain) for every i in domain.
func Weights(domain []int) map[int]*saferith.Int {
	weights := make(map[int]*saferith.Int, len(domain))
	for _, i := range domain {
		weights[i] = Weight(i, domain)
	}
	return weights
}

// WeightMod returns the Lagrange coefficient of i at 0 in ℤₚ.
//
// Contrary to Weight, this is meaningful for any set of points distinct mod p.
// A repeated point makes the denominator vanish, and ErrNoInverse is returned.
func WeightMod(i int, domain []int, p *saferith.Modulus) (*saferith.Nat, error) {
	seen := make(map[int]bool, len(domain))
	for _, j := range domain {
		if seen[j] {
			return nil, fmt.Errorf("polynomial: point %d is repeated: %w", j, arith.ErrNoInverse)
		}
		seen[j] = true
	}
	numerator, denominator := fraction(i, domain)
	pBig := p.Big()
	numerator.Mod(numerator, pBig)
	denominator.Mod(denominator, pBig)
	denNat := new(saferith.Nat).SetBig(denominator, pBig.BitLen())
	denInv, err := arith.ModInverse(denNat, p.Nat())
	if err != nil {
		return nil, fmt.Errorf("polynomial: lagrange coefficient of %d: %w", i, err)
	}
	numNat := new(saferith.Nat).SetBig(numerator, pBig.BitLen())
	return new(saferith.Nat).ModMul(numNat, denInv, p), nil
}

// fraction returns ∏ⱼ≠ᵢ j and ∏ⱼ≠ᵢ (j - i).
func fraction(i int, domain []int) (numerator, denominator *big.Int) {
	numerator = big.NewInt(1)
	denominator = big.NewInt(1)
	xI := big.NewInt(int64(i))
	tmp := new(big.Int)
	for _, j := range domain {
		if j == i {
			continue
		}
		xJ := big.NewInt(int64(j))
		numerator.Mul(numerator, xJ)
		tmp.Sub(xJ, xI)
		denominator.Mul(denominator, tmp)
	}
	return numerator, denominator
}
