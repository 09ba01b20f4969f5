package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-radius/raddecode/internal/dictionary"
	"github.com/go-radius/raddecode/internal/radius"
)

func dictionaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Load and inspect the attribute dictionary",
	}
	cmd.AddCommand(dictionaryListCmd())
	cmd.AddCommand(dictionaryCheckCmd())
	return cmd
}

func dictionaryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every top-level attribute and vendor in the dictionary",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			dict, err := dictionary.Load(dictionaryPath)
			if err != nil {
				return fmt.Errorf("load dictionary: %w", err)
			}

			var buf strings.Builder
			w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NUM\tNAME\tKIND")
			for _, a := range dict.Root().Children() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", a.Num, a.Name, a.Kind)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("flush table: %w", err)
			}
			fmt.Print(buf.String())

			vendors := dict.Vendors()
			if len(vendors) == 0 {
				return nil
			}
			fmt.Println("\nVendors:")
			vbuf := &strings.Builder{}
			tw := tabwriter.NewWriter(vbuf, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PEN\tNAME\tATTRS")
			for _, v := range vendors {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", v.PEN, v.Name, len(v.Root.Children()))
			}
			if err := tw.Flush(); err != nil {
				return fmt.Errorf("flush vendor table: %w", err)
			}
			fmt.Print(vbuf.String())
			return nil
		},
	}
}

func dictionaryCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate that the dictionary file loads cleanly",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			dict, err := dictionary.Load(dictionaryPath)
			if err != nil {
				return fmt.Errorf("dictionary %s is invalid: %w", dictionaryPath, err)
			}
			attrCount := countAttrs(dict.Root())
			fmt.Printf("%s: OK (%d attributes, %d vendors)\n", dictionaryPath, attrCount, len(dict.Vendors()))
			return nil
		},
	}
}

func countAttrs(a *radius.Attr) int {
	total := 0
	for _, child := range a.Children() {
		total += 1 + countAttrs(child)
	}
	return total
}
