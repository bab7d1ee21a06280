package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/r3e-network/neo-price-feed/deploy"
)

var deployCmd = &cobra.Command{
	Use:   "deploy <contract.nef> <manifest.json>",
	Short: "Deploy a compiled contract",
	Long:  `Validates the NEF and manifest, dry-runs the deployment script, then signs and submits the transaction.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		wif, err := signerWIF()
		if err != nil {
			return err
		}

		nef, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read NEF: %w", err)
		}
		manifest, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		fmt.Printf("📁 NEF: %d bytes, manifest: %d bytes\n", len(nef), len(manifest))

		d, err := deploy.New(cfg, log)
		if err != nil {
			return err
		}
		if s := openStore(log); s != nil {
			defer s.Close()
			d.SetStore(s)
		}

		res, err := d.Deploy(cmd.Context(), wif, nef, manifest)
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

func printResult(res *deploy.Result) {
	if res.State != deploy.StateSubmitted {
		fmt.Printf("🔍 Dry run for %s\n", res.Contract)
		fmt.Printf("   • System fee:  %d datoshi\n", res.SystemFee)
		fmt.Printf("   • Network fee: %d datoshi\n", res.NetworkFee)
		return
	}
	fmt.Printf("✅ Submitted %s\n", res.Contract)
	fmt.Printf("   • TxID:        %s\n", res.TxID)
	fmt.Printf("   • Sender:      %s\n", res.Sender)
	fmt.Printf("   • System fee:  %d datoshi\n", res.SystemFee)
	fmt.Printf("   • Network fee: %d datoshi\n", res.NetworkFee)
	fmt.Printf("   • Valid until: block %d\n", res.ValidUntilBlock)
	fmt.Printf("   • Size:        %d bytes\n", res.TxSize)
}
