package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

// readBits fills buf from rand, and clears the bits of the first byte above bitLen.
func readBits(rand io.Reader, buf []byte, bitLen int) error {
	if _, err := io.ReadFull(rand, buf); err != nil {
		return fmt.Errorf("sample: read randomness: %w", err)
	}
	if excess := uint(8*len(buf) - bitLen); excess > 0 && excess < 8 {
		buf[0] &= 0xFF >> excess
	}
	return nil
}

// ModN samples an element of ℤₙ, uniformly in [0, n-1].
func ModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	bitLen := n.BitLen()
	out := new(saferith.Nat)
	buf := make([]byte, (bitLen+7)/8)
	for i := 0; i < maxIterations; i++ {
		if err := readBits(rand, buf, bitLen); err != nil {
			return nil, err
		}
		out.SetBytes(buf)
		if _, _, lt := out.CmpMod(n); lt == 1 {
			return out, nil
		}
	}
	return nil, ErrMaxIterations
}

// NonZeroModN samples an element of ℤₙ, uniformly in [1, n-1].
func NonZeroModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	for i := 0; i < maxIterations; i++ {
		x, err := ModN(rand, n)
		if err != nil {
			return nil, err
		}
		if x.EqZero() != 1 {
			return x, nil
		}
	}
	return nil, ErrMaxIterations
}

// UnitModN returns a u ∈ ℤₙˣ.
func UnitModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	for i := 0; i < maxIterations; i++ {
		u, err := ModN(rand, n)
		if err != nil {
			return nil, err
		}
		if u.IsUnit(n) == 1 {
			return u, nil
		}
	}
	return nil, ErrMaxIterations
}

// Below samples uniformly in [0, bound-1]. bound must be positive.
func Below(rand io.Reader, bound *saferith.Nat) (*saferith.Nat, error) {
	return ModN(rand, saferith.ModulusFromNat(bound))
}
