package arith

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
)

type Error string

const (
	ErrNoInverse          Error = "no inverse exists"
	ErrModulusNotPositive Error = "modulus must be positive"
	ErrNilOperand         Error = "operand is nil"
)

func (e Error) Error() string {
	return fmt.Sprintf("arith: %s", string(e))
}

var oneNat = new(saferith.Nat).SetUint64(1)

// IsCoprime returns true if gcd(a,b) = 1.
func IsCoprime(a, b *saferith.Nat) bool {
	return a.Coprime(b) == 1
}

// Exp returns gˣ (mod p).
//
// x may be negative, in which case g must be a unit mod p.
func Exp(g *saferith.Nat, x *saferith.Int, p *saferith.Modulus) (*saferith.Nat, error) {
	if g == nil || x == nil {
		return nil, ErrNilOperand
	}
	if err := checkModulus(p); err != nil {
		return nil, err
	}
	gRed := new(saferith.Nat).Mod(g, p)
	if x.IsNegative() == 1 && gRed.IsUnit(p) != 1 {
		return nil, fmt.Errorf("negative exponent of a non-unit base: %w", ErrNoInverse)
	}
	return new(saferith.Nat).ExpI(gRed, x, p), nil
}

// ModMul returns a⋅b (mod p).
func ModMul(a, b *saferith.Nat, p *saferith.Modulus) (*saferith.Nat, error) {
	if a == nil || b == nil {
		return nil, ErrNilOperand
	}
	if err := checkModulus(p); err != nil {
		return nil, err
	}
	aRed := new(saferith.Nat).Mod(a, p)
	bRed := new(saferith.Nat).Mod(b, p)
	return aRed.ModMul(aRed, bRed, p), nil
}

// ModInverse returns a⁻¹ (mod m), computed with the extended Euclidean algorithm.
//
// Contrary to saferith, m may be even, which is always the case for a totient.
// It returns ErrNoInverse if gcd(a, m) ≠ 1.
func ModInverse(a, m *saferith.Nat) (*saferith.Nat, error) {
	if a == nil || m == nil {
		return nil, ErrNilOperand
	}
	mBig := m.Big()
	if mBig.Sign() <= 0 {
		return nil, ErrModulusNotPositive
	}
	inv := new(big.Int).ModInverse(a.Big(), mBig)
	if inv == nil {
		return nil, fmt.Errorf("operand shares a factor with the modulus: %w", ErrNoInverse)
	}
	return NatFromBig(inv), nil
}

// Totient returns ϕ(p⋅q) = (p-1)(q-1) for distinct primes p, q.
func Totient(p, q *saferith.Nat) *saferith.Nat {
	pMinus1 := new(saferith.Nat).Sub(p, oneNat, -1)
	qMinus1 := new(saferith.Nat).Sub(q, oneNat, -1)
	return pMinus1.Mul(pMinus1, qMinus1, -1)
}

// IntFromInt64 returns x as a saferith.Int.
func IntFromInt64(x int64) *saferith.Int {
	return IntFromBig(big.NewInt(x))
}

func checkModulus(p *saferith.Modulus) error {
	if p == nil || p.Nat().EqZero() == 1 {
		return ErrModulusNotPositive
	}
	return nil
}

// NatFromBig returns x as a saferith.Nat announced with its true length.
// x must not be negative; nil maps to nil.
func NatFromBig(x *big.Int) *saferith.Nat {
	if x == nil {
		return nil
	}
	return new(saferith.Nat).SetBig(x, x.BitLen())
}

// IntFromBig returns x as a saferith.Int announced with its true length; nil maps to nil.
func IntFromBig(x *big.Int) *saferith.Int {
	if x == nil {
		return nil
	}
	return new(saferith.Int).SetBig(x, x.BitLen())
}

// BigOrNil returns x.Big(), or nil for a nil x.
func BigOrNil(x *saferith.Nat) *big.Int {
	if x == nil {
		return nil
	}
	return x.Big()
}
