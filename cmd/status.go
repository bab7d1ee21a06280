package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/r3e-network/neo-price-feed/deploy"
)

var statusCmd = &cobra.Command{
	Use:   "status [contract-hash]",
	Short: "Check contract state and deployment history",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		d, err := deploy.New(cfg, log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RPCTimeout)
		defer cancel()

		height, err := d.Client().BlockCount(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("🔗 Node %s at block %d\n", cfg.RPCEndpoint, height)

		if len(args) == 1 {
			state, err := d.Client().GetContractState(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✅ Contract %s\n", state.Hash)
			fmt.Printf("   • Name: %s\n", state.Manifest.Name)
			fmt.Printf("   • ID:   %d\n", state.ID)
		}

		if s := openStore(log); s != nil {
			defer s.Close()
			records, err := s.List()
			if err != nil {
				return err
			}
			if len(records) > 0 {
				fmt.Printf("\n📜 Deployment history (%d):\n", len(records))
				for _, r := range records {
					fmt.Printf("   • %s  %s  %s\n", r.SubmittedAt.Format("2006-01-02 15:04"), r.TxID, r.Contract)
				}
			}
		}
		return nil
	},
}
