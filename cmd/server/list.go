package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iiviie/bbsfront/internal/models"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch the board once and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			table := a.board.Refresh(cmd.Context())
			printTable(cmd.OutOrStdout(), table)
			if table.State == models.StateFailed {
				return fmt.Errorf("could not load posts from %s", a.client.BaseURL())
			}
			return nil
		},
	}
}

// printTable writes the snapshot as aligned columns.
func printTable(w io.Writer, table models.Table) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NO\tNAME\tID\tCONTENT\tTIME")
	if table.Placeholder() {
		fmt.Fprintln(tw, table.Message)
	}
	for _, r := range table.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.No, r.Name, r.ID, r.Content, r.Time)
	}
	_ = tw.Flush()
}
