package hash

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/internal/params"
	"github.com/zeebo/blake3"
)

const DigestLengthBytes = params.SecBytes

// Hash is the hash function we use for fingerprinting public parameters.
//
// Internally, this is a wrapper around blake3. Every value is written with its
// domain and length, so that different sequences of values never collide.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct.
func New() *Hash {
	return &Hash{h: blake3.New()}
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - string
//   - int
//   - *saferith.Nat
//   - *saferith.Int
//   - *saferith.Modulus
//   - hash.WriterToWithDomain
//
// This function will apply its own domain separation for the built in types.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var toBeWritten WriterToWithDomain
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			toBeWritten = &BytesWithDomain{"[]byte", t}
		case string:
			toBeWritten = &BytesWithDomain{"string", []byte(t)}
		case int:
			b := make([]byte, 8)
			binary.BigEndian.PutUint64(b, uint64(t))
			toBeWritten = &BytesWithDomain{"int", b}
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			toBeWritten = &BytesWithDomain{"saferith.Nat", t.Big().Bytes()}
		case *saferith.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Int: nil")
			}
			b := t.Big()
			sign := byte(0)
			if b.Sign() < 0 {
				sign = 1
			}
			toBeWritten = &BytesWithDomain{"saferith.Int", append([]byte{sign}, b.Bytes()...)}
		case *saferith.Modulus:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Modulus: nil")
			}
			toBeWritten = &BytesWithDomain{"saferith.Modulus", t.Big().Bytes()}
		case WriterToWithDomain:
			toBeWritten = t
		default:
			return fmt.Errorf("hash.Hash: unsupported type %T", t)
		}
		if err := writeWithDomain(hash.h, toBeWritten); err != nil {
			return fmt.Errorf("hash.Hash: write %s: %w", toBeWritten.Domain(), err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}

// writeWithDomain writes len(domain)‖domain‖len(data)‖data.
func writeWithDomain(w io.Writer, data WriterToWithDomain) error {
	var buf bytes.Buffer
	if _, err := data.WriteTo(&buf); err != nil {
		return err
	}
	domain := data.Domain()
	header := make([]byte, 0, 8+len(domain))
	header = binary.BigEndian.AppendUint32(header, uint32(len(domain)))
	header = append(header, domain...)
	header = binary.BigEndian.AppendUint32(header, uint32(buf.Len()))
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Fingerprint identifies a set of public values, for logs and caches.
type Fingerprint []byte

// FingerprintOf hashes data with WriteAny.
func FingerprintOf(data ...interface{}) (Fingerprint, error) {
	h := New()
	if err := h.WriteAny(data...); err != nil {
		return nil, err
	}
	return h.Sum(), nil
}

// String returns the first 8 bytes in hex.
func (f Fingerprint) String() string {
	if len(f) > 8 {
		return hex.EncodeToString(f[:8])
	}
	return hex.EncodeToString(f)
}
