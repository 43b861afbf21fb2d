package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkoenig/sopnet/pkg/fastx"
	"github.com/tkoenig/sopnet/pkg/network"
)

// checkCommand creates the check command. It validates a network file's
// structural integrity and reports whether the optimizer would accept it.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a network file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			nt, err := network.UnmarshalNetwork(data)
			if err != nil {
				printError("Does not parse: %v", err)
				return err
			}

			if err := nt.Check(); err != nil {
				printError("Integrity check failed: %v", err)
				return err
			}
			printSuccess("Network is structurally valid")
			printStats(nt.NodeCount(), nt.Literals(), false)

			if fastx.Check(nt) {
				printSuccess("Eligible for divisor extraction")
			} else {
				printWarning("Not eligible for divisor extraction")
				printDetail("nodes have duplicated or complemented fanins in leading slots")
			}
			return nil
		},
	}
}
