package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/epicsdata/aapb/pkg/pbevent"
)

// typesCmd represents the types command
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported payload types",
	Long: `List the payload types the codec supports, with their numeric
identifiers and packed element widths.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tVECTOR\tELEM BYTES")
		for _, pt := range pbevent.Types() {
			fmt.Fprintf(w, "%d\t%s\t%t\t%d\n",
				int32(pt), pt, pt.Vector(), pt.Elem().Size())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
