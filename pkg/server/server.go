// Package server describes the aggregation servers a client shares its secrets with.
package server

import (
	"fmt"
	"net/url"
)

// Construction selects the commitment scheme a share is produced for.
// Each scheme is served on its own endpoint.
type Construction int

const (
	// Hash is the discrete-log homomorphic hash construction.
	Hash Construction = iota
	// Linear is the linear authenticator construction.
	Linear
)

var endpoints = map[Construction]string{
	Hash:   "api/hash/client",
	Linear: "api/linear/client",
}

// Endpoint returns the path of the construction, relative to a server's base URI.
func (c Construction) Endpoint() string {
	return endpoints[c]
}

func (c Construction) String() string {
	switch c {
	case Hash:
		return "hash"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("construction(%d)", int(c))
	}
}

// Server is the base network location of one aggregation server.
type Server struct {
	URI *url.URL
}

// Parse returns the Server at rawURI, which must be absolute.
func Parse(rawURI string) (*Server, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("server: %q is not an absolute URI", rawURI)
	}
	return &Server{URI: u}, nil
}

// Destination resolves the endpoint of c against the server's URI.
// The result is the key of this server's share in a payload.
func (s *Server) Destination(c Construction) string {
	ref := &url.URL{Path: c.Endpoint()}
	return s.URI.ResolveReference(ref).String()
}

func (s *Server) String() string {
	return s.URI.String()
}
