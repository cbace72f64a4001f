package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyli-org/explorer/internal/contracts"
)

func runSchemas(cmd *cobra.Command, _ []string) error {
	domain, _ := cmd.Flags().GetString("domain")
	return writeSchemas(cmd.OutOrStdout(), contracts.NewRegistry(), contracts.Domain(domain))
}

func writeSchemas(out io.Writer, registry *contracts.Registry, only contracts.Domain) error {
	if only != "" {
		if _, err := registry.Latest(only); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tVERSION\tENVELOPE\tLABEL\tSCHEMA")
	for _, entry := range registry.Entries() {
		if only != "" && entry.Domain != only {
			continue
		}
		if len(entry.Candidates) > 0 {
			for _, c := range entry.Candidates {
				fmt.Fprintf(w, "%s\tv%d\t%s\t%s\t%s\n", entry.Domain, entry.Version, c.Envelope, c.Label, c.Schema)
			}
			continue
		}
		fmt.Fprintf(w, "%s\tv%d\t%s\t%s\t%s\n", entry.Domain, entry.Version, entry.Envelope, entry.Label, entry.Action)
	}
	return w.Flush()
}
