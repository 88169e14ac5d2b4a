// Package params holds the public parameters a client shares secrets under.
//
// Parameters are produced by an external parameter service and are trusted:
// only their presence and basic shape are checked, never primality.
package params

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/hash"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/server"
)

type Error string

const (
	ErrModulusNotPositive   Error = "field modulus must be at least 2"
	ErrNilGenerator         Error = "generator is missing"
	ErrThresholdNotPositive Error = "security threshold must be positive"
	ErrNoServers            Error = "server list is empty"
	ErrThresholdTooLarge    Error = "security threshold must be smaller than the number of servers"
	ErrDuplicateServer      Error = "servers must have distinct locations"
	ErrUnknownSubstation    Error = "unknown substation"
	ErrUnknownFid           Error = "unknown aggregation id"
	ErrIncompleteLinearData Error = "linear public data is incomplete"
)

func (e Error) Error() string {
	return fmt.Sprintf("params: %s", string(e))
}

// Substation is the sharing context of one substation.
type Substation struct {
	ID int
	// FieldBase is the prime p.
	FieldBase *saferith.Modulus
	// Generator g of the homomorphic hash.
	Generator *saferith.Nat
	// Threshold t is the degree of the sharing polynomial; t+1 shares reconstruct.
	Threshold int
	// Servers in order; the i-th server receives the evaluation at i+1.
	Servers []*server.Server
}

// Validate returns the first parameter error of s, if any.
func (s *Substation) Validate() error {
	if s.FieldBase == nil || s.FieldBase.BitLen() < 2 {
		return ErrModulusNotPositive
	}
	if s.Generator == nil {
		return ErrNilGenerator
	}
	if s.Threshold <= 0 {
		return ErrThresholdNotPositive
	}
	if len(s.Servers) == 0 {
		return ErrNoServers
	}
	if s.Threshold >= len(s.Servers) {
		return fmt.Errorf("threshold %d with %d servers: %w", s.Threshold, len(s.Servers), ErrThresholdTooLarge)
	}
	seen := make(map[string]bool, len(s.Servers))
	for _, srv := range s.Servers {
		if srv == nil || srv.URI == nil {
			return ErrNoServers
		}
		// both constructions resolve to distinct destinations iff base locations are distinct
		d := srv.Destination(server.Hash)
		if seen[d] {
			return fmt.Errorf("%s: %w", srv, ErrDuplicateServer)
		}
		seen[d] = true
	}
	return nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (s *Substation) WriteTo(w io.Writer) (int64, error) {
	h := hash.New()
	if err := h.WriteAny(s.ID, s.FieldBase, s.Generator, s.Threshold); err != nil {
		return 0, err
	}
	for _, srv := range s.Servers {
		if err := h.WriteAny(srv.String()); err != nil {
			return 0, err
		}
	}
	n, err := w.Write(h.Sum())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Substation) Domain() string {
	return "Substation Parameters"
}

// LinearPublicData is the public data of one aggregation round (fid) of the linear scheme.
type LinearPublicData struct {
	// N and FidPrime form the public exponent eN = N⋅FidPrime.
	N, FidPrime *saferith.Nat
	// NRoof is the RSA modulus the proofs live in.
	NRoof *saferith.Nat
	// G1 and G2 are generators of ℤ_NRoof.
	G1, G2 *saferith.Nat
	// H maps a client index to its published value.
	H map[int]*saferith.Nat
	// Sk is the factorization of NRoof.
	Sk [2]*saferith.Nat
}

// Validate checks that every field is present, that the moduli and factors
// are non zero, and that Sk factors NRoof.
func (d *LinearPublicData) Validate() error {
	fields := []struct {
		name    string
		x       *saferith.Nat
		nonZero bool
	}{
		{"N", d.N, true},
		{"fidPrime", d.FidPrime, true},
		{"NRoof", d.NRoof, true},
		{"G1", d.G1, false},
		{"G2", d.G2, false},
		{"Sk[0]", d.Sk[0], true},
		{"Sk[1]", d.Sk[1], true},
	}
	for _, f := range fields {
		if f.x == nil {
			return fmt.Errorf("%s missing: %w", f.name, ErrIncompleteLinearData)
		}
		if f.nonZero && f.x.EqZero() == 1 {
			return fmt.Errorf("%s is zero: %w", f.name, ErrIncompleteLinearData)
		}
	}
	if new(saferith.Nat).Mul(d.Sk[0], d.Sk[1], -1).Eq(d.NRoof) != 1 {
		return fmt.Errorf("Sk does not factor NRoof: %w", ErrIncompleteLinearData)
	}
	return nil
}

// Exponent returns eN = N⋅fidPrime.
func (d *LinearPublicData) Exponent() *saferith.Nat {
	return new(saferith.Nat).Mul(d.N, d.FidPrime, -1)
}

// Totient returns ϕ(NRoof), computed from the factorization Sk.
func (d *LinearPublicData) Totient() *saferith.Nat {
	return arith.Totient(d.Sk[0], d.Sk[1])
}

// Modulus returns NRoof, accelerated with its factorization.
func (d *LinearPublicData) Modulus() *arith.Modulus {
	return arith.ModulusFromFactors(d.Sk[0], d.Sk[1])
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
// The factorization is not part of the fingerprint.
func (d *LinearPublicData) WriteTo(w io.Writer) (int64, error) {
	h := hash.New()
	if err := h.WriteAny(d.N, d.FidPrime, d.NRoof, d.G1, d.G2); err != nil {
		return 0, err
	}
	for _, id := range sortedKeys(d.H) {
		if err := h.WriteAny(id, d.H[id]); err != nil {
			return 0, err
		}
	}
	n, err := w.Write(h.Sum())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*LinearPublicData) Domain() string {
	return "Linear Public Data"
}
