package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepterm/internal/api"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Generate a learning roadmap from your session history",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		req := api.RoadmapGenerateRequest{DurationDays: days}
		if id, err := env.sessionID(ctx); err == nil && id != 0 {
			req.SessionID = &id
		}

		roadmap, err := env.client.GenerateRoadmap(ctx, req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%d days)\n\n", roadmap.Title, roadmap.DurationDays)
		fmt.Fprintln(out, roadmap.Plan.TwoWeekPlan)

		if len(roadmap.Plan.MicroTasks) > 0 {
			fmt.Fprintln(out, "\nMicro tasks:")
			for i, task := range roadmap.Plan.MicroTasks {
				fmt.Fprintf(out, "%2d. %s\n", i+1, task.Topic)
				fmt.Fprintln(out, "    ", task.DrillPrompt)
				for _, res := range task.Resources {
					fmt.Fprintln(out, "     •", res)
				}
				if task.ExpectedOutput != "" {
					fmt.Fprintln(out, "     expect:", task.ExpectedOutput)
				}
			}
		}
		return nil
	},
}

func init() {
	roadmapCmd.Flags().Int("days", 14, "Plan duration in days")
}
