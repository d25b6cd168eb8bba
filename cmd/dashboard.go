package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepterm/internal/api"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the latest session's progress summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		dash, err := env.client.Dashboard(cmd.Context())
		if errors.Is(err, api.ErrNoSession) {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet. Start a practice session first.")
			return nil
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session #%d · %s · %s/%s\n", dash.SessionID, dash.Mode, dash.Track, dash.Level)
		avg := "—"
		if dash.Totals.AvgOverall != nil {
			avg = fmt.Sprintf("%.1f", *dash.Totals.AvgOverall)
		}
		fmt.Fprintf(out, "Answered %d of %d, average %s\n", dash.Totals.Answered, dash.Totals.QuestionsTotal, avg)

		if len(dash.BySkill) > 0 {
			fmt.Fprintln(out, "\nBy skill:")
			for _, row := range dash.BySkill {
				fmt.Fprintf(out, "  %-16s %.1f/5 over %d attempts\n", row.Skill, row.AvgOverall, row.Attempts)
			}
		}
		if len(dash.WeakTopics) > 0 {
			fmt.Fprintln(out, "\nWeak topics:")
			for _, wt := range dash.WeakTopics {
				fmt.Fprintf(out, "  %-24s %.1f/5 over %d attempts\n", wt.Topic, wt.AvgOverall, wt.Attempts)
			}
		}
		if len(dash.Recent) > 0 {
			fmt.Fprintln(out, "\nRecent:")
			for _, item := range dash.Recent {
				score := "unanswered"
				if item.Overall != nil {
					score = fmt.Sprintf("%.1f", *item.Overall)
				}
				fmt.Fprintf(out, "  [%s/%s d%d %s] %s\n", item.Skill, item.Topic, item.Difficulty, score, item.Question)
			}
		}
		return nil
	},
}

var weakTopicsCmd = &cobra.Command{
	Use:   "weak-topics",
	Short: "List the topics the current session scores lowest on",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		id, err := env.sessionID(ctx)
		if errors.Is(err, api.ErrNoSession) {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet. Start a practice session first.")
			return nil
		}
		if err != nil {
			return err
		}

		topics, err := env.client.WeakTopics(ctx, id)
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing flagged yet.")
			return nil
		}
		for _, wt := range topics {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %.1f/5 over %d attempts\n", wt.Topic, wt.AvgOverall, wt.Attempts)
		}
		return nil
	},
}
