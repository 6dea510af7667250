package cli

import (
	"time"

	"ai-coach-be/pkg/plandoc"

	"github.com/spf13/cobra"
)

var asOfFlag string

func init() {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Show the readiness score and load ratio",
		RunE:  runReadiness,
	}
	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Evaluation day YYYY-MM-DD (default: today)")
	RootCmd.AddCommand(cmd)
}

func runReadiness(cmd *cobra.Command, args []string) error {
	userId, err := athleteID()
	if err != nil {
		return err
	}

	asOf := time.Now().UTC()
	if asOfFlag != "" {
		if asOf, err = plandoc.ParseDate(asOfFlag); err != nil {
			return err
		}
	}

	svc, err := services()
	if err != nil {
		return err
	}
	res, err := svc.Readiness.Evaluate(cmd.Context(), userId, asOf)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
