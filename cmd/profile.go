package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepterm/internal/api"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your practice profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()

		req := api.ProfileSetupRequest{}
		changed := false
		stringFlag := func(name string, dst **string) {
			if cmd.Flags().Changed(name) {
				v, _ := cmd.Flags().GetString(name)
				*dst = &v
				changed = true
			}
		}
		stringFlag("domain", &req.Domain)
		stringFlag("role", &req.Role)
		stringFlag("track", &req.Track)
		stringFlag("level", &req.Level)

		var profile *api.Profile
		if changed {
			profile, err = env.client.ProfileSetup(ctx, req)
		} else {
			profile, err = env.client.ProfileMe(ctx)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Email:", profile.Email)
		field := func(name string, v *string) {
			if v != nil && *v != "" {
				fmt.Fprintf(out, "%s: %s\n", name, *v)
			}
		}
		field("Domain", profile.Domain)
		field("Role", profile.Role)
		field("Track", profile.Track)
		field("Level", profile.Level)
		return nil
	},
}

func init() {
	profileCmd.Flags().String("domain", "", "Target domain, e.g. fintech")
	profileCmd.Flags().String("role", "", "Target role, e.g. backend engineer")
	profileCmd.Flags().String("track", "", "Practice track: backend, frontend, or fullstack")
	profileCmd.Flags().String("level", "", "Experience level: beginner, intermediate, or advanced")
}
