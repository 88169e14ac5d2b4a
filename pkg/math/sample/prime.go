package sample

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/pool"
)

// primes generates an array containing all the odd prime numbers < below
func primes(below uint32) []uint32 {
	sieve := make([]bool, below)
	for i := 2; i < len(sieve); i++ {
		sieve[i] = true
	}
	for p := 2; p*p < len(sieve); p++ {
		if !sieve[p] {
			continue
		}
		for i := p << 1; i < len(sieve); i += p {
			sieve[i] = false
		}
	}
	nF := float64(below)
	out := make([]uint32, 0, int(nF/math.Log(nF)))
	for p := uint32(3); p < below; p++ {
		if sieve[p] {
			out = append(out, p)
		}
	}

	return out
}

// The number of numbers to check after our initial prime guess
const sieveSize = 1 << 18

// The upper bound on the prime numbers used for sieving
const primeBound = 1 << 20

// MinSafePrimeBits is the smallest size accepted by SafePrimes.
// Below it, the sieving primes could exceed the candidates themselves.
const MinSafePrimeBits = 32

// the number of iterations to use when checking primality
const primalityIterations = 20

var thePrimes []uint32
var initPrimes sync.Once

var sievePool = sync.Pool{
	New: func() interface{} {
		sieve := make([]bool, sieveSize)
		return &sieve
	},
}

// trySafePrime looks for a safe prime p of the given size in a window after a random base.
// p = 3 (mod 4) and (p-1)/2 is prime.
//
// It returns nil if the window contains no such prime.
func trySafePrime(rand io.Reader, bits int) *saferith.Nat {
	initPrimes.Do(func() {
		thePrimes = primes(primeBound)
	})

	bytes := make([]byte, (bits+7)/8)
	if err := readBits(rand, bytes, bits); err != nil {
		return nil
	}
	bytes[len(bytes)-1] |= 3
	// Ensure that the top two bits are set, so that p⋅q has 2⋅bits bits.
	top := uint((bits-1)%8)
	bytes[0] |= 1 << top
	if top > 0 {
		bytes[0] |= 1 << (top - 1)
	} else if len(bytes) > 1 {
		bytes[1] |= 0x80
	}
	base := new(big.Int).SetBytes(bytes)

	sievePtr := sievePool.Get().(*[]bool)
	sieve := *sievePtr
	defer sievePool.Put(sievePtr)
	for i := 0; i < len(sieve); i++ {
		sieve[i] = true
	}
	// base = 3 mod 4, only keep base + 4k
	for i := 1; i+2 < len(sieve); i += 4 {
		sieve[i] = false
		sieve[i+1] = false
		sieve[i+2] = false
	}
	remainder := new(big.Int)
	for _, prime := range thePrimes {
		// x = 0 mod r means x is composite, x = 1 mod r means (x-1)/2 is.
		remainder.SetUint64(uint64(prime))
		remainder.Mod(base, remainder)
		r := int(remainder.Uint64())
		primeInt := int(prime)
		firstMultiple := primeInt - r
		if r == 0 {
			firstMultiple = 0
		}
		for i := firstMultiple; i+1 < len(sieve); i += primeInt {
			sieve[i] = false
			sieve[i+1] = false
		}
	}
	p := new(big.Int)
	q := new(big.Int)
	for delta := 0; delta < len(sieve); delta++ {
		if !sieve[delta] {
			continue
		}

		p.SetUint64(uint64(delta))
		p.Add(p, base)
		if p.BitLen() > bits {
			return nil
		}
		q.Rsh(p, 1)
		if !q.ProbablyPrime(primalityIterations) {
			continue
		}
		// a single round of Miller-Rabin suffices once q is prime
		if !p.ProbablyPrime(0) {
			continue
		}
		return new(saferith.Nat).SetBig(p, bits)
	}

	return nil
}

// SafePrimes returns count distinct safe primes of the given size, searched in parallel on pl.
//
// rand is wrapped in a pool.LockedReader, and pl may be nil.
func SafePrimes(rand io.Reader, pl *pool.Pool, bits, count int) ([]*saferith.Nat, error) {
	if bits < MinSafePrimeBits {
		return nil, fmt.Errorf("sample: safe primes need at least %d bits, got %d", MinSafePrimeBits, bits)
	}
	reader := pool.NewLockedReader(rand)
	out := make([]*saferith.Nat, 0, count)
	for len(out) < count {
		results := pl.Search(count-len(out), func() interface{} {
			p := trySafePrime(reader, bits)
			// You have to do this, because of how Go handles nil.
			if p == nil {
				return nil
			}
			return p
		})
	next:
		for _, r := range results {
			p := r.(*saferith.Nat)
			for _, seen := range out {
				if seen.Eq(p) == 1 {
					continue next
				}
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// Prime returns a random prime of exactly the given size.
func Prime(rand io.Reader, bits int) (*saferith.Nat, error) {
	if bits < 2 {
		return nil, fmt.Errorf("sample: prime size must be at least 2 bits, got %d", bits)
	}
	bytes := make([]byte, (bits+7)/8)
	p := new(big.Int)
	for i := 0; i < maxPrimeIterations; i++ {
		if err := readBits(rand, bytes, bits); err != nil {
			return nil, err
		}
		bytes[0] |= 1 << uint((bits-1)%8)
		bytes[len(bytes)-1] |= 1
		p.SetBytes(bytes)
		if p.ProbablyPrime(primalityIterations) {
			return new(saferith.Nat).SetBig(p, bits), nil
		}
	}
	return nil, ErrMaxPrimeIterations
}

// maxPrimeIterations is the number of candidates tried by Prime.
const maxPrimeIterations = 100_000

// ErrMaxPrimeIterations is the error we return when we fail to generate a prime.
var ErrMaxPrimeIterations = fmt.Errorf("sample: failed to generate prime after %d iterations", maxPrimeIterations)
