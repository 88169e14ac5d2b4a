// Package sharing splits a secret into pre-weighted polynomial shares.
//
// The shares of a secret m are βᵢ⋅f(i) for i = 1, …, n, where f is a random
// polynomial of degree t with f(0) = m and βᵢ is the integer Lagrange weight
// of i in {1, …, n}. Summing all shares gives back m over the integers, so the
// servers never interpolate themselves.
package sharing

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/hash"
	"github.com/gridshare/sharing/pkg/math/polynomial"
	"github.com/gridshare/sharing/pkg/params"
	"github.com/gridshare/sharing/pkg/server"
)

type Error string

const (
	ErrNilSecret     Error = "secret is missing"
	ErrNilSubstation Error = "substation parameters are missing"
	ErrNoShares      Error = "no shares to combine"
)

func (e Error) Error() string {
	return fmt.Sprintf("sharing: %s", string(e))
}

// Option configures a Sharer.
type Option func(*Sharer)

// WithRand sets the source of randomness. It defaults to crypto/rand.Reader.
//
// The reader must be safe for concurrent use if the Sharer is.
func WithRand(r io.Reader) Option {
	return func(s *Sharer) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sharer) {
		if l != nil {
			s.logger = l
		}
	}
}

// Sharer produces the shares of secrets.
type Sharer struct {
	rand   io.Reader
	logger *slog.Logger
}

// New returns a Sharer configured by opts.
func New(opts ...Option) *Sharer {
	s := &Sharer{
		rand:   rand.Reader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rand returns the source of randomness of s.
func (s *Sharer) Rand() io.Reader {
	return s.rand
}

// Logger returns the logger of s.
func (s *Sharer) Logger() *slog.Logger {
	return s.logger
}

// Share is the share of one server.
type Share struct {
	// Index is the evaluation point of the server.
	Index int
	// Weight is βᵢ
	Weight *saferith.Int
	// Value is βᵢ⋅f(i)
	Value *saferith.Int
}

// Share splits secret among the servers of sub, for construction c.
//
// The result maps the destination of each server to its share.
// A fresh polynomial is drawn on every call.
func (s *Sharer) Share(sub *params.Substation, secret *saferith.Int, c server.Construction) (map[string]*Share, error) {
	if secret == nil {
		return nil, ErrNilSecret
	}
	if sub == nil {
		return nil, ErrNilSubstation
	}
	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("sharing: substation %d: %w", sub.ID, err)
	}

	f, err := polynomial.New(s.rand, sub.Threshold, secret, sub.FieldBase)
	if err != nil {
		return nil, fmt.Errorf("sharing: %w", err)
	}

	domain := polynomial.Domain(len(sub.Servers))
	weights := polynomial.Weights(domain)
	s.logShare(sub, c, weights)

	shares := make(map[string]*Share, len(domain))
	for _, i := range domain {
		value := new(saferith.Int).Mul(weights[i], f.Evaluate(i), -1)
		shares[sub.Servers[i-1].Destination(c)] = &Share{
			Index:  i,
			Weight: weights[i],
			Value:  value,
		}
	}
	return shares, nil
}

func (s *Sharer) logShare(sub *params.Substation, c server.Construction, weights map[int]*saferith.Int) {
	ctx := context.Background()
	if !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []any{
		slog.Int("substation", sub.ID),
		slog.String("construction", c.String()),
		slog.Int("servers", len(sub.Servers)),
		slog.Int("threshold", sub.Threshold),
	}
	if fp, err := hash.FingerprintOf(sub); err == nil {
		attrs = append(attrs, slog.String("params", fp.String()))
	}
	betas := make([]string, 0, len(weights))
	for _, i := range polynomial.Domain(len(weights)) {
		betas = append(betas, weights[i].Big().String())
	}
	attrs = append(attrs, slog.Any("betas", betas))
	s.logger.DebugContext(ctx, "sharing secret", attrs...)
}
