package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [id]",
	Short: "List practice sessions, or show one with its items",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			sess, err := env.client.GetSession(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Session #%d · %s · %s/%s\n", sess.ID, sess.Mode, sess.Track, sess.Level)
			for _, item := range sess.Items {
				score := "unanswered"
				if item.Overall != nil {
					score = fmt.Sprintf("%.1f", *item.Overall)
				}
				fmt.Fprintf(out, "  #%d [%s/%s d%d %s] %s\n", item.ID, item.Skill, item.Topic, item.Difficulty, score, item.Question)
			}
			return nil
		}

		sessions, err := env.client.ListSessions(ctx)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions yet.")
			return nil
		}
		for _, s := range sessions {
			when := ""
			if s.CreatedAt != nil {
				when = s.CreatedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(out, "#%-4d %-10s %s/%s  %s\n", s.ID, s.Mode, s.Track, s.Level, when)
		}
		return nil
	},
}
