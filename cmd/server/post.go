package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iiviie/bbsfront/internal/models"
	"github.com/iiviie/bbsfront/internal/submit"
)

// cliClientKey identifies CLI submissions to the throttle.
const cliClientKey = "cli"

func postCmd() *cobra.Command {
	var form models.Form

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Submit a post and print the refreshed board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			out := a.submitter.Submit(cmd.Context(), cliClientKey, form)
			fmt.Fprintln(cmd.OutOrStdout(), out.Notice.Message)
			if out.Kind != submit.KindPosted {
				return out.Err
			}
			if out.Table != nil {
				printTable(cmd.OutOrStdout(), *out.Table)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "display name")
	cmd.Flags().StringVar(&form.Pass, "pass", "", "password")
	cmd.Flags().StringVar(&form.Content, "content", "", "post content")
	return cmd
}
