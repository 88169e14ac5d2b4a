// Package homomorphic implements the homomorphic hash construction.
//
// Next to its shares, a secret m is committed to as c = g^(m+nonce) mod p.
// Commitments multiply as the secrets add, so the servers can check the sum
// they reconstruct against the product of the commitments.
package homomorphic

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/math/sample"
	"github.com/gridshare/sharing/pkg/params"
	"github.com/gridshare/sharing/pkg/server"
	"github.com/gridshare/sharing/pkg/sharing"
)

// Data is the output of one sharing.
type Data struct {
	// Shares maps a server destination to its weighted share.
	Shares map[string]*saferith.Int
	// ProofComponent is the commitment g^(m+nonce) mod p.
	ProofComponent *saferith.Nat
	Nonce          *saferith.Nat
}

// Scheme shares secrets under the parameters of a Provider.
// It is safe for concurrent use if its source of randomness is.
type Scheme struct {
	provider params.Provider
	sharer   *sharing.Sharer
}

// New returns a Scheme for the substation of provider.
func New(provider params.Provider, opts ...sharing.Option) *Scheme {
	return &Scheme{
		provider: provider,
		sharer:   sharing.New(opts...),
	}
}

// ShareSecret shares secret among the servers of the client's substation,
// and commits to it with a fresh nonce.
func (s *Scheme) ShareSecret(secret *saferith.Int) (*Data, error) {
	if secret == nil {
		return nil, sharing.ErrNilSecret
	}
	sub, err := s.provider.Substation(s.provider.SubstationID())
	if err != nil {
		return nil, fmt.Errorf("homomorphic: %w", err)
	}
	shares, err := s.sharer.Share(sub, secret, server.Hash)
	if err != nil {
		return nil, fmt.Errorf("homomorphic: %w", err)
	}

	nonce, err := sample.ModN(s.sharer.Rand(), sub.FieldBase)
	if err != nil {
		return nil, fmt.Errorf("homomorphic: nonce: %w", err)
	}
	exponent := new(saferith.Int).SetNat(nonce)
	exponent.Add(exponent, secret, -1)
	commitment, err := Hash(sub.FieldBase, exponent, sub.Generator)
	if err != nil {
		return nil, fmt.Errorf("homomorphic: commitment: %w", err)
	}

	values := make(map[string]*saferith.Int, len(shares))
	for destination, share := range shares {
		values[destination] = share.Value
	}

	s.sharer.Logger().Info("secret shared",
		"construction", server.Hash.String(),
		"substation", sub.ID,
		"servers", len(values))
	return &Data{
		Shares:         values,
		ProofComponent: commitment,
		Nonce:          nonce,
	}, nil
}

// Hash returns g^input mod field.
//
// A negative input is only accepted if g is invertible mod field.
func Hash(field *saferith.Modulus, input *saferith.Int, g *saferith.Nat) (*saferith.Nat, error) {
	return arith.Exp(g, input, field)
}
