package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkoenig/sopnet/pkg/network"
)

// infoCommand creates the info command, printing statistics for a network
// file without modifying it.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Print statistics about a network file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			nt, err := network.UnmarshalNetwork(data)
			if err != nil {
				return err
			}

			var inputs, outputs, logic, cubes int
			for _, n := range nt.Nodes() {
				switch n.Kind {
				case network.KindInput:
					inputs++
				case network.KindOutput:
					outputs++
				case network.KindLogic:
					logic++
					if n.Cover() != nil {
						cubes += n.Cover().CubeNum()
					}
				}
			}

			if nt.Name != "" {
				printKeyValue("name", nt.Name)
			}
			printKeyValue("inputs", fmt.Sprint(inputs))
			printKeyValue("outputs", fmt.Sprint(outputs))
			printKeyValue("logic", fmt.Sprint(logic))
			printKeyValue("cubes", fmt.Sprint(cubes))
			printKeyValue("literals", fmt.Sprint(nt.Literals()))
			if holes := nt.MaxID() - nt.NodeCount(); holes > 0 {
				printKeyValue("holes", fmt.Sprint(holes))
			}
			return nil
		},
	}
}
