package cli

import (
	"fmt"
	"io"

	"github.com/gridshare/sharing/pkg/hash"
	"github.com/spf13/cobra"
)

func newFingerprintCmd(cfg *Config, stdout io.Writer) *cobra.Command {
	var fids []int
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print fingerprints of the loaded public parameters",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			provider, err := cfg.Provider()
			if err != nil {
				return err
			}
			id := provider.SubstationID()
			sub, err := provider.Substation(id)
			if err != nil {
				return err
			}
			if err = sub.Validate(); err != nil {
				return err
			}
			fp, err := hash.FingerprintOf(sub)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "substation %d: %s\n", id, fp)
			for _, fid := range fids {
				public, err := provider.LinearPublicData(id, fid)
				if err != nil {
					return err
				}
				fp, err := hash.FingerprintOf(public)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "fid %d: %s\n", fid, fp)
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&fids, "fid", nil, "aggregation ids to fingerprint")
	return cmd
}
