package polynomial

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/math/sample"
)

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ over the integers.
//
// The coefficients a₁, …, aₜ are drawn from [1, p-1] for a field modulus p,
// but evaluations are never reduced.
type Polynomial struct {
	coefficients []*saferith.Int
}

// New generates a Polynomial f(X) = constant + a₁⋅X + … + aₜ⋅Xᵗ,
// with aᵢ uniform in [1, p-1] and degree t.
//
// A Polynomial must be used for a single secret only.
func New(rand io.Reader, degree int, constant *saferith.Int, field *saferith.Modulus) (*Polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("polynomial: negative degree %d", degree)
	}
	if constant == nil {
		constant = new(saferith.Int)
	}
	coefficients := make([]*saferith.Int, degree+1)
	coefficients[0] = new(saferith.Int).SetInt(constant)
	for i := 1; i <= degree; i++ {
		a, err := sample.NonZeroModN(rand, field)
		if err != nil {
			return nil, fmt.Errorf("polynomial: coefficient %d: %w", i, err)
		}
		coefficients[i] = new(saferith.Int).SetNat(a)
	}
	return &Polynomial{coefficients: coefficients}, nil
}

// Evaluate returns f(index) over the integers.
// We use Horner's method: https://en.wikipedia.org/wiki/Horner%27s_method
func (p *Polynomial) Evaluate(index int) *saferith.Int {
	if index == 0 {
		panic("attempt to leak secret")
	}

	x := arith.IntFromInt64(int64(index))
	result := new(saferith.Int)
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ * x + aₙ₋₁
		result.Mul(result, x, -1)
		result.Add(result, p.coefficients[i], -1)
	}
	return result
}

// Constant returns a reference to the constant coefficient of the polynomial.
func (p *Polynomial) Constant() *saferith.Int {
	return p.coefficients[0]
}

// Degree is the highest power of the Polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}
