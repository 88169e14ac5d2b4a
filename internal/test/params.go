// Package test provides toy public parameters for tests.
package test

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	iparams "github.com/gridshare/sharing/internal/params"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/math/sample"
	"github.com/gridshare/sharing/pkg/params"
	"github.com/gridshare/sharing/pkg/pool"
	"github.com/gridshare/sharing/pkg/server"
)

// Servers returns n servers listening on consecutive localhost ports.
func Servers(n int) []*server.Server {
	servers := make([]*server.Server, n)
	for i := range servers {
		srv, err := server.Parse(fmt.Sprintf("http://localhost:%d/", 2000+i))
		if err != nil {
			panic(err)
		}
		servers[i] = srv
	}
	return servers
}

// Substation returns the parameters of a substation with field ℤₚ, generator g,
// threshold t and n servers.
func Substation(id int, p, g uint64, t, n int) *params.Substation {
	return &params.Substation{
		ID:        id,
		FieldBase: saferith.ModulusFromUint64(p),
		Generator: new(saferith.Nat).SetUint64(g),
		Threshold: t,
		Servers:   Servers(n),
	}
}

// Provider returns a Provider for a client at sub.
func Provider(sub *params.Substation) *params.Static {
	return params.NewStatic(sub.ID, sub)
}

// LinearPublicData generates the public data of one fid, for clients 0, …, clients-1.
//
// NRoof is the product of two safe primes of iparams.BitsToyPrime bits, and
// eN = N⋅fidPrime is coprime to ϕ(NRoof).
func LinearPublicData(rand io.Reader, pl *pool.Pool, clients int) (*params.LinearPublicData, error) {
	primes, err := sample.SafePrimes(rand, pl, iparams.BitsToyPrime, 2)
	if err != nil {
		return nil, err
	}
	p, q := primes[0], primes[1]
	nRoof := new(saferith.Nat).Mul(p, q, -1)
	nRoofMod := saferith.ModulusFromNat(nRoof)
	phi := arith.Totient(p, q)

	var n, fidPrime *saferith.Nat
	for {
		if n, err = sample.Prime(rand, iparams.BitsToyExponentPrime); err != nil {
			return nil, err
		}
		if fidPrime, err = sample.Prime(rand, iparams.BitsToyExponentPrime); err != nil {
			return nil, err
		}
		eN := new(saferith.Nat).Mul(n, fidPrime, -1)
		if n.Eq(fidPrime) != 1 && arith.IsCoprime(eN, phi) {
			break
		}
	}

	units := make([]*saferith.Nat, clients+2)
	for i := range units {
		if units[i], err = sample.UnitModN(rand, nRoofMod); err != nil {
			return nil, err
		}
	}
	h := make(map[int]*saferith.Nat, clients)
	for id := 0; id < clients; id++ {
		h[id] = units[id+2]
	}
	return &params.LinearPublicData{
		N:        n,
		FidPrime: fidPrime,
		NRoof:    nRoof,
		G1:       units[0],
		G2:       units[1],
		H:        h,
		Sk:       [2]*saferith.Nat{p, q},
	}, nil
}
