package params

const (
	SecParam = 256
	SecBytes = SecParam / 8

	// SeedBytes is the size of the key driving a seeded sampling stream.
	SeedBytes = 32

	// BitsToyPrime is the size of the safe primes p, q with NRoof = p⋅q
	// generated for tests.
	BitsToyPrime = 128

	// BitsToyExponentPrime is the size of N and fidPrime in generated test parameters.
	// Both are odd primes below (p-1)/2 and (q-1)/2, so eN is coprime to ϕ(NRoof).
	BitsToyExponentPrime = 24
)
