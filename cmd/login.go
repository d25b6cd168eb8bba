package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepterm/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth(cmd, false)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and store the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuth(cmd, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().String("email", "", "Account email")
		c.MarkFlagRequired("email")
	}
}

// runAuth reads the password from stdin, authenticates, and persists the
// returned token. Works for both login and signup.
func runAuth(cmd *cobra.Command, signup bool) error {
	email, _ := cmd.Flags().GetString("email")

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("empty password")
	}

	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	creds := api.Credentials{Email: email, Password: password}

	var tok *api.AuthToken
	if signup {
		tok, err = env.client.Signup(ctx, creds)
	} else {
		tok, err = env.client.Login(ctx, creds)
	}
	if err != nil {
		return err
	}

	if err := env.tokens.SetToken(ctx, tok.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Signed in as", email)
	return nil
}

// readPassword takes the first line of stdin, so both piping and typing at
// the prompt work.
func readPassword(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(f) {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	}
	r := bufio.NewReader(cmd.InOrStdin())
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
