package params

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/math/arith"
	"github.com/gridshare/sharing/pkg/server"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a parameter file.
// Integers are strings, in decimal or with a 0x prefix.
type File struct {
	Substation  int              `yaml:"substation"`
	Substations []FileSubstation `yaml:"substations"`
	Linear      []FileLinear     `yaml:"linear"`
}

type FileSubstation struct {
	ID        int      `yaml:"id"`
	FieldBase string   `yaml:"fieldBase"`
	Generator string   `yaml:"generator"`
	Threshold int      `yaml:"threshold"`
	Servers   []string `yaml:"servers"`
}

type FileLinear struct {
	Substation int            `yaml:"substation"`
	Fid        int            `yaml:"fid"`
	N          string         `yaml:"n"`
	FidPrime   string         `yaml:"fidPrime"`
	NRoof      string         `yaml:"nRoof"`
	G1         string         `yaml:"g1"`
	G2         string         `yaml:"g2"`
	H          map[int]string `yaml:"h"`
	Sk         []string       `yaml:"sk"`
}

// LoadFile reads a YAML parameter file.
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML parameters from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Static, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("params: decode: %w", err)
	}
	return file.Static()
}

// Static converts a decoded file into a Provider.
func (file *File) Static() (*Static, error) {
	s := NewStatic(file.Substation)
	for _, fs := range file.Substations {
		sub, err := fs.substation()
		if err != nil {
			return nil, fmt.Errorf("params: substation %d: %w", fs.ID, err)
		}
		s.SetSubstation(sub)
	}
	for _, fl := range file.Linear {
		d, err := fl.linearPublicData()
		if err != nil {
			return nil, fmt.Errorf("params: substation %d, fid %d: %w", fl.Substation, fl.Fid, err)
		}
		s.SetLinearPublicData(fl.Substation, fl.Fid, d)
	}
	return s, nil
}

func (fs *FileSubstation) substation() (*Substation, error) {
	p, err := parseNat("fieldBase", fs.FieldBase)
	if err != nil {
		return nil, err
	}
	if p.EqZero() == 1 {
		return nil, ErrModulusNotPositive
	}
	g, err := parseNat("generator", fs.Generator)
	if err != nil {
		return nil, err
	}
	servers := make([]*server.Server, 0, len(fs.Servers))
	for _, raw := range fs.Servers {
		srv, err := server.Parse(raw)
		if err != nil {
			return nil, err
		}
		servers = append(servers, srv)
	}
	return &Substation{
		ID:        fs.ID,
		FieldBase: saferith.ModulusFromNat(p),
		Generator: g,
		Threshold: fs.Threshold,
		Servers:   servers,
	}, nil
}

func (fl *FileLinear) linearPublicData() (*LinearPublicData, error) {
	if len(fl.Sk) != 2 {
		return nil, fmt.Errorf("sk has %d factors: %w", len(fl.Sk), ErrIncompleteLinearData)
	}
	d := &LinearPublicData{H: make(map[int]*saferith.Nat, len(fl.H))}
	for _, field := range []struct {
		name string
		raw  string
		dst  **saferith.Nat
	}{
		{"n", fl.N, &d.N},
		{"fidPrime", fl.FidPrime, &d.FidPrime},
		{"nRoof", fl.NRoof, &d.NRoof},
		{"g1", fl.G1, &d.G1},
		{"g2", fl.G2, &d.G2},
		{"sk[0]", fl.Sk[0], &d.Sk[0]},
		{"sk[1]", fl.Sk[1], &d.Sk[1]},
	} {
		x, err := parseNat(field.name, field.raw)
		if err != nil {
			return nil, err
		}
		*field.dst = x
	}
	for id, raw := range fl.H {
		x, err := parseNat(fmt.Sprintf("h[%d]", id), raw)
		if err != nil {
			return nil, err
		}
		d.H[id] = x
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func parseNat(name, raw string) (*saferith.Nat, error) {
	x, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("%s: invalid integer %q", name, raw)
	}
	if x.Sign() < 0 {
		return nil, fmt.Errorf("%s: negative integer %q", name, raw)
	}
	return arith.NatFromBig(x), nil
}
