package cli

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/gridshare/sharing/pkg/linear"
	"github.com/spf13/cobra"
)

type linearView struct {
	Construction string             `json:"construction"`
	Shares       map[string]string  `json:"shares"`
	Nonce        string             `json:"nonce"`
	Assignment   *linear.Assignment `json:"assignment,omitempty"`
	Verifier     *verifierView      `json:"verifier,omitempty"`
}

type verifierView struct {
	FidPrime string `json:"fidPrime"`
	S        string `json:"s"`
	X        string `json:"x"`
}

func newLinearView(data *linear.Data) linearView {
	view := linearView{
		Construction: "linear",
		Shares:       make(map[string]string, len(data.Shares)),
		Nonce:        decimal(data.Nonce),
		Assignment:   data.Assignment,
	}
	for destination, sd := range data.Shares {
		view.Shares[destination] = decimal(sd.Share)
	}
	if v := data.Verifier; v != nil {
		view.Verifier = &verifierView{
			FidPrime: decimal(v.FidPrime),
			S:        decimal(v.S),
			X:        decimal(v.X),
		}
	}
	return view
}

func newLinearCmd(cfg *Config, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linear",
		Short: "Share a secret with the linear authenticator construction",
	}

	scheme := func() (*linear.Scheme, int, error) {
		provider, err := cfg.Provider()
		if err != nil {
			return nil, 0, err
		}
		opts, err := cfg.options(stderr)
		if err != nil {
			return nil, 0, err
		}
		return linear.New(provider, opts...), provider.SubstationID(), nil
	}

	share := &cobra.Command{
		Use:   "share SECRET",
		Short: "Produce the pending shares of a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			secret, err := parseSecret(args[0])
			if err != nil {
				return err
			}
			s, _, err := scheme()
			if err != nil {
				return err
			}
			data, err := s.ShareSecret(secret)
			if err != nil {
				return err
			}
			return NewPrinter(cfg.OutputFormat, stdout).PrintPayload(newLinearView(data), data)
		},
	}

	var fid, client int
	prove := &cobra.Command{
		Use:   "prove SECRET",
		Short: "Share a secret and prove it for an assigned fid and client index",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			secret, err := parseSecret(args[0])
			if err != nil {
				return err
			}
			s, substationID, err := scheme()
			if err != nil {
				return err
			}
			data, err := s.ShareSecret(secret)
			if err != nil {
				return err
			}
			data.Assign(substationID, fid, client)
			if _, err = s.PartialProof(data, secret); err != nil {
				return err
			}
			if err = selfCheck(cfg, data, secret); err != nil {
				return err
			}
			return NewPrinter(cfg.OutputFormat, stdout).PrintPayload(newLinearView(data), data)
		},
	}
	prove.Flags().IntVar(&fid, "fid", 0, "aggregation id")
	prove.Flags().IntVar(&client, "client", 0, "client index assigned by the servers")
	_ = prove.MarkFlagRequired("fid")

	cmd.AddCommand(share, prove)
	return cmd
}

// selfCheck verifies a fresh proof as a server would.
func selfCheck(cfg *Config, data *linear.Data, secret *saferith.Int) error {
	provider, err := cfg.Provider()
	if err != nil {
		return err
	}
	a := data.Assignment
	public, err := provider.LinearPublicData(a.SubstationID, a.Fid)
	if err != nil {
		return err
	}
	xR := new(saferith.Int).SetNat(data.Nonce)
	xR.Add(xR, secret, -1)
	if err := linear.Verify(public, a.ClientID, xR, data.Verifier); err != nil {
		return fmt.Errorf("self check: %w", err)
	}
	return nil
}
