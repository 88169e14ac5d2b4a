package params

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/gridshare/sharing/pkg/math/arith"
)

type linearMarshal struct {
	N, FidPrime, NRoof *big.Int
	G1, G2             *big.Int
	H                  map[int]*big.Int
	Sk                 [2]*big.Int
}

// MarshalBinary implements encoding.BinaryMarshaler with cbor.
func (d *LinearPublicData) MarshalBinary() ([]byte, error) {
	h := make(map[int]*big.Int, len(d.H))
	for id, x := range d.H {
		h[id] = arith.BigOrNil(x)
	}
	return cbor.Marshal(&linearMarshal{
		N:        arith.BigOrNil(d.N),
		FidPrime: arith.BigOrNil(d.FidPrime),
		NRoof:    arith.BigOrNil(d.NRoof),
		G1:       arith.BigOrNil(d.G1),
		G2:       arith.BigOrNil(d.G2),
		H:        h,
		Sk:       [2]*big.Int{arith.BigOrNil(d.Sk[0]), arith.BigOrNil(d.Sk[1])},
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, and validates the result.
func (d *LinearPublicData) UnmarshalBinary(data []byte) error {
	var m linearMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return err
	}
	d.N = arith.NatFromBig(m.N)
	d.FidPrime = arith.NatFromBig(m.FidPrime)
	d.NRoof = arith.NatFromBig(m.NRoof)
	d.G1 = arith.NatFromBig(m.G1)
	d.G2 = arith.NatFromBig(m.G2)
	d.H = make(map[int]*saferith.Nat, len(m.H))
	for id, x := range m.H {
		d.H[id] = arith.NatFromBig(x)
	}
	d.Sk = [2]*saferith.Nat{arith.NatFromBig(m.Sk[0]), arith.NatFromBig(m.Sk[1])}
	return d.Validate()
}
