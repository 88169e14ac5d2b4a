// Package linear implements the linear authenticator construction.
//
// Sharing happens in two phases. ShareSecret splits the secret and draws a
// nonce, giving a pending Data. Once the servers have assigned the client a
// substation, an aggregation id (fid) and a client index, PartialProof attaches
// a proof x with
//
//	x^eN = G1^s ⋅ H[clientID] ⋅ G2^(nonce+m) mod NRoof,
//
// where eN = N⋅fidPrime and s is fresh.
package linear

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/hash"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/math/sample"
	"github.com/gridshare/sharing/pkg/params"
	"github.com/gridshare/sharing/pkg/server"
	"github.com/gridshare/sharing/pkg/sharing"
)

type Error string

const (
	ErrMissingAssignment  Error = "data has not been assigned a substation, fid and client"
	ErrMissingNonce       Error = "data has no nonce"
	ErrUnknownClient      Error = "public data has no value for the client"
	ErrInvalidPublicData  Error = "public data admits no proof"
	ErrVerificationFailed Error = "proof does not verify"
)

func (e Error) Error() string {
	return fmt.Sprintf("linear: %s", string(e))
}

// ServerData is what one server receives.
type ServerData struct {
	Share *saferith.Int
}

// Assignment identifies the round a proof is produced for.
type Assignment struct {
	SubstationID int
	Fid          int
	ClientID     int
}

// VerifierData lets a server check a share against the client's commitment.
type VerifierData struct {
	FidPrime *saferith.Nat
	// S is the blinding exponent, in [0, eN).
	S *saferith.Nat
	X *saferith.Nat
}

// Data is the output of one sharing.
type Data struct {
	// Shares maps a server destination to its data.
	Shares map[string]*ServerData
	Nonce  *saferith.Nat
	// Assignment is nil until Assign is called.
	Assignment *Assignment
	// Verifier is nil until PartialProof is called.
	Verifier *VerifierData
}

// Assign records the round chosen by the servers.
func (d *Data) Assign(substationID, fid, clientID int) {
	d.Assignment = &Assignment{
		SubstationID: substationID,
		Fid:          fid,
		ClientID:     clientID,
	}
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

// ShareSecret shares secret among the servers of the client's substation.
// The returned Data is pending: it has no assignment and no proof.
func (s *Scheme) ShareSecret(secret *saferith.Int) (*Data, error) {
	if secret == nil {
		return nil, sharing.ErrNilSecret
	}
	sub, err := s.provider.Substation(s.provider.SubstationID())
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	shares, err := s.sharer.Share(sub, secret, server.Linear)
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	nonce, err := sample.ModN(s.sharer.Rand(), sub.FieldBase)
	if err != nil {
		return nil, fmt.Errorf("linear: nonce: %w", err)
	}

	data := make(map[string]*ServerData, len(shares))
	for destination, share := range shares {
		data[destination] = &ServerData{Share: share.Value}
	}
	s.sharer.Logger().Info("secret shared",
		"construction", server.Linear.String(),
		"substation", sub.ID,
		"servers", len(data))
	return &Data{
		Shares: data,
		Nonce:  nonce,
	}, nil
}

// PartialProof computes the proof of data, which must have been assigned,
// and stores it in data.Verifier. secret must be the value data was shared for.
//
// The returned Data is data itself.
func (s *Scheme) PartialProof(data *Data, secret *saferith.Int) (*Data, error) {
	if secret == nil {
		return nil, sharing.ErrNilSecret
	}
	if data == nil || data.Assignment == nil {
		return nil, ErrMissingAssignment
	}
	if data.Nonce == nil {
		return nil, ErrMissingNonce
	}
	a := data.Assignment
	public, err := s.provider.LinearPublicData(a.SubstationID, a.Fid)
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	if err = public.Validate(); err != nil {
		return nil, fmt.Errorf("linear: substation %d, fid %d: %w", a.SubstationID, a.Fid, err)
	}
	h, ok := public.H[a.ClientID]
	if !ok || h == nil {
		return nil, fmt.Errorf("linear: client %d: %w", a.ClientID, ErrUnknownClient)
	}
	s.logProof(a, public)

	eN := public.Exponent()
	// z = eN⁻¹ mod ϕ(NRoof), so that (x^eN)^z = x
	z, err := arith.ModInverse(eN, public.Totient())
	if err != nil {
		return nil, fmt.Errorf("linear: substation %d, fid %d: %w: %w", a.SubstationID, a.Fid, ErrInvalidPublicData, err)
	}

	blind, err := sample.Below(s.sharer.Rand(), eN)
	if err != nil {
		return nil, fmt.Errorf("linear: blinding exponent: %w", err)
	}
	xR := new(saferith.Int).SetNat(data.Nonce)
	xR.Add(xR, secret, -1)

	nRoof := public.Modulus()
	xeN, err := commitment(nRoof, public.G1, h, public.G2, blind, xR)
	if err != nil {
		return nil, fmt.Errorf("linear: substation %d, fid %d: %w: %w", a.SubstationID, a.Fid, ErrInvalidPublicData, err)
	}
	data.Verifier = &VerifierData{
		FidPrime: public.FidPrime,
		S:        blind,
		X:        nRoof.Exp(xeN, z),
	}
	return data, nil
}

// commitment returns G1^s ⋅ h ⋅ G2^xR mod NRoof.
func commitment(nRoof *arith.Modulus, g1, h, g2, s *saferith.Nat, xR *saferith.Int) (*saferith.Nat, error) {
	if xR.IsNegative() == 1 && new(saferith.Nat).Mod(g2, nRoof.Modulus).IsUnit(nRoof.Modulus) != 1 {
		return nil, fmt.Errorf("G2 is not a unit: %w", arith.ErrNoInverse)
	}
	result := nRoof.Exp(g1, s)
	result.ModMul(result, new(saferith.Nat).Mod(h, nRoof.Modulus), nRoof.Modulus)
	return result.ModMul(result, nRoof.ExpI(g2, xR), nRoof.Modulus), nil
}

// Verify checks the proof v of client, for the exponent xR = nonce + m,
// using only the public part of public.
func Verify(public *params.LinearPublicData, clientID int, xR *saferith.Int, v *VerifierData) error {
	if v == nil || v.FidPrime == nil || v.S == nil || v.X == nil {
		return ErrVerificationFailed
	}
	h, ok := public.H[clientID]
	if !ok || h == nil {
		return fmt.Errorf("linear: client %d: %w", clientID, ErrUnknownClient)
	}
	nRoof := arith.ModulusFromN(saferith.ModulusFromNat(public.NRoof))
	expected, err := commitment(nRoof, public.G1, h, public.G2, v.S, xR)
	if err != nil {
		return fmt.Errorf("linear: %w", err)
	}
	eN := new(saferith.Nat).Mul(public.N, v.FidPrime, -1)
	if nRoof.Exp(v.X, eN).Eq(expected) != 1 {
		return ErrVerificationFailed
	}
	return nil
}

func (s *Scheme) logProof(a *Assignment, public *params.LinearPublicData) {
	ctx := context.Background()
	logger := s.sharer.Logger()
	attrs := []any{
		slog.Int("substation", a.SubstationID),
		slog.Int("fid", a.Fid),
		slog.Int("client", a.ClientID),
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		if fp, err := hash.FingerprintOf(public); err == nil {
			attrs = append(attrs, slog.String("public", fp.String()))
		}
	}
	logger.InfoContext(ctx, "computing partial proof", attrs...)
}
