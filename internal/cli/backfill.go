package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "backfill",
		Short: "Compute training load for activities that lack it",
		RunE:  runBackfill,
	})
}

func runBackfill(cmd *cobra.Command, args []string) error {
	userId, err := athleteID()
	if err != nil {
		return err
	}
	svc, err := services()
	if err != nil {
		return err
	}

	res, err := svc.Activity.BackfillComputed(cmd.Context(), userId)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "scanned %d, updated %d, skipped %d\n", res.Scanned, res.Updated, res.Skipped)
	return nil
}
