package cli

import (
	"encoding/json"
	"time"

	"ai-coach-be/pkg/plandoc"

	"github.com/spf13/cobra"
)

var weekFlag string

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "digest",
		Short: "Rebuild and print the 90-day training digest",
		RunE:  runDigest,
	})

	packet := &cobra.Command{
		Use:   "packet",
		Short: "Print the compacted coach packet for a week",
		RunE:  runPacket,
	}
	packet.Flags().StringVarP(&weekFlag, "week", "w", "", "Week start YYYY-MM-DD (default: current Monday)")
	RootCmd.AddCommand(packet)
}

func runDigest(cmd *cobra.Command, args []string) error {
	userId, err := athleteID()
	if err != nil {
		return err
	}
	svc, err := services()
	if err != nil {
		return err
	}

	digest, err := svc.Memory.BuildDigest(cmd.Context(), userId)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), json.RawMessage(digest))
}

func runPacket(cmd *cobra.Command, args []string) error {
	userId, err := athleteID()
	if err != nil {
		return err
	}
	svc, err := services()
	if err != nil {
		return err
	}

	week := weekFlag
	if week == "" {
		week = plandoc.FormatDate(plandoc.WeekStartOf(time.Now().UTC()))
	}
	packet, err := svc.Memory.BuildCoachPacket(cmd.Context(), userId, week)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), json.RawMessage(packet))
}
