package cmd

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r3e-network/neo-price-feed/deploy"
	"github.com/r3e-network/neo-price-feed/neo"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <contract-hash> <method> [args...]",
	Short: "Invoke a method on a deployed contract",
	Long: `Builds an invocation of the given method, estimates fees, signs and
submits it. Arguments are parsed as integers, booleans or 0x-hex byte
strings where they look like one, and as strings otherwise.`,
	Args: cobra.MinimumNArgs(2),
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
		contract, err := neo.Uint160FromHex(args[0])
		if err != nil {
			return err
		}

		d, err := deploy.New(cfg, log)
		if err != nil {
			return err
		}
		if s := openStore(log); s != nil {
			defer s.Close()
			d.SetStore(s)
		}

		res, err := d.Invoke(cmd.Context(), wif, contract, args[1], parseArgs(args[2:])...)
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

func parseArgs(raw []string) []interface{} {
	out := make([]interface{}, 0, len(raw))
	for _, a := range raw {
		out = append(out, parseArg(a))
	}
	return out
}

func parseArg(a string) interface{} {
	if n, err := strconv.ParseInt(a, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(a); err == nil {
		return b
	}
	if strings.HasPrefix(a, "0x") {
		if b, err := hex.DecodeString(strings.TrimPrefix(a, "0x")); err == nil {
			return b
		}
	}
	return a
}
