package homomorphic

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/gridshare/sharing/pkg/math/arith"
)

type dataMarshal struct {
	Shares         map[string]*big.Int
	ProofComponent *big.Int
	Nonce          *big.Int
}

// MarshalBinary implements encoding.BinaryMarshaler with cbor.
func (d *Data) MarshalBinary() ([]byte, error) {
	shares := make(map[string]*big.Int, len(d.Shares))
	for destination, share := range d.Shares {
		shares[destination] = share.Big()
	}
	return cbor.Marshal(&dataMarshal{
		Shares:         shares,
		ProofComponent: arith.BigOrNil(d.ProofComponent),
		Nonce:          arith.BigOrNil(d.Nonce),
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Data) UnmarshalBinary(data []byte) error {
	var m dataMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	d.Shares = make(map[string]*saferith.Int, len(m.Shares))
	for destination, share := range m.Shares {
		d.Shares[destination] = arith.IntFromBig(share)
	}
	d.ProofComponent = arith.NatFromBig(m.ProofComponent)
	d.Nonce = arith.NatFromBig(m.Nonce)
	return nil
}
