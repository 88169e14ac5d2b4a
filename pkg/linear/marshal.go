package linear

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/gridshare/sharing/pkg/math/arith"
)

type verifierMarshal struct {
	FidPrime, S, X *big.Int
}

type dataMarshal struct {
	Shares     map[string]*big.Int
	Nonce      *big.Int
	Assignment *Assignment       `cbor:",omitempty"`
	Verifier   *verifierMarshal `cbor:",omitempty"`
}

// MarshalBinary implements encoding.BinaryMarshaler with cbor.
// A pending Data has no assignment and no verifier fields.
func (d *Data) MarshalBinary() ([]byte, error) {
	shares := make(map[string]*big.Int, len(d.Shares))
	for destination, sd := range d.Shares {
		shares[destination] = sd.Share.Big()
	}
	m := &dataMarshal{
		Shares:     shares,
		Nonce:      arith.BigOrNil(d.Nonce),
		Assignment: d.Assignment,
	}
	if v := d.Verifier; v != nil {
		m.Verifier = &verifierMarshal{
			FidPrime: arith.BigOrNil(v.FidPrime),
			S:        arith.BigOrNil(v.S),
			X:        arith.BigOrNil(v.X),
		}
	}
	return cbor.Marshal(m)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Data) UnmarshalBinary(data []byte) error {
	var m dataMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	d.Shares = make(map[string]*ServerData, len(m.Shares))
	for destination, share := range m.Shares {
		d.Shares[destination] = &ServerData{Share: arith.IntFromBig(share)}
	}
	d.Nonce = arith.NatFromBig(m.Nonce)
	d.Assignment = m.Assignment
	d.Verifier = nil
	if v := m.Verifier; v != nil {
		d.Verifier = &VerifierData{
			FidPrime: arith.NatFromBig(v.FidPrime),
			S:        arith.NatFromBig(v.S),
			X:        arith.NatFromBig(v.X),
		}
	}
	return nil
}

