package sample

import (
	"io"

	"github.com/gridshare/sharing/internal/params"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"
)

const seedContext = "gridshare 2024-05 seeded sampling stream"

// SeededReader is a deterministic ChaCha20 keystream, keyed by a seed.
//
// Two readers built from the same seed produce the same bytes. It is meant
// for reproducible tests and simulations; it is not safe for concurrent use,
// wrap it in a pool.LockedReader if needed.
type SeededReader struct {
	cipher *chacha20.Cipher
}

// NewSeededReader derives a ChaCha20 key from seed with blake3 and returns the keystream reader.
func NewSeededReader(seed []byte) *SeededReader {
	key := make([]byte, params.SeedBytes)
	blake3.DeriveKey(seedContext, seed, key)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// key and nonce sizes are fixed
		panic(err)
	}
	return &SeededReader{cipher: c}
}

// Read implements io.Reader, and never fails.
func (r *SeededReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

var _ io.Reader = (*SeededReader)(nil)
