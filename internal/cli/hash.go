package cli

import (
	"io"

	"github.com/gridshare/sharing/pkg/homomorphic"
	"github.com/spf13/cobra"
)

type hashView struct {
	Construction   string            `json:"construction"`
	Shares         map[string]string `json:"shares"`
	ProofComponent string            `json:"proofComponent"`
	Nonce          string            `json:"nonce"`
}

func newHashCmd(cfg *Config, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "hash SECRET",
		Short: "Share a secret with the homomorphic hash construction",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			secret, err := parseSecret(args[0])
			if err != nil {
				return err
			}
			provider, err := cfg.Provider()
			if err != nil {
				return err
			}
			opts, err := cfg.options(stderr)
			if err != nil {
				return err
			}
			data, err := homomorphic.New(provider, opts...).ShareSecret(secret)
			if err != nil {
				return err
			}

			view := hashView{
				Construction:   "hash",
				Shares:         make(map[string]string, len(data.Shares)),
				ProofComponent: decimal(data.ProofComponent),
				Nonce:          decimal(data.Nonce),
			}
			for destination, share := range data.Shares {
				view.Shares[destination] = decimal(share)
			}
			return NewPrinter(cfg.OutputFormat, stdout).PrintPayload(view, data)
		},
	}
}
