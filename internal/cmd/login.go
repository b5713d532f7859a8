package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/bunkplan/internal/config"
	"github.com/Iron-Ham/bunkplan/internal/portal"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	isTerminalFunc   = term.IsTerminal   // mockable
)

type loginFlags struct {
	username string
	save     bool
}

func newLoginCmd(a *app) *cobra.Command {
	var flags loginFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the attendance portal and print a session token",
		Long: `Log in to the attendance portal with your username and password.

The password is read without echo. The session token is printed as
an export line for BUNKPLAN_PORTAL_TOKEN, or written to the config file
with --save.

Examples:
  bunkplan login -u 2100290100001
  eval "$(bunkplan login -u 2100290100001)"
  bunkplan login -u 2100290100001 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, a, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.username, "username", "u", "", "portal username (prompted when empty)")
	cmd.Flags().BoolVar(&flags.save, "save", false, "store the token in the config file")
	return cmd
}

func runLogin(cmd *cobra.Command, a *app, flags loginFlags) error {
	in := bufio.NewReader(cmd.InOrStdin())
	prompt := cmd.ErrOrStderr()

	username := strings.TrimSpace(flags.username)
	if username == "" {
		fmt.Fprint(prompt, "Username: ")
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	fmt.Fprint(prompt, "Password: ")
	password, err := readPassword(in)
	fmt.Fprintln(prompt)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	client, err := a.newPortalClient("")
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	token, err := client.Login(cmd.Context(), portal.Credentials{Username: username, Password: password})
	if err != nil {
		return a.portalFailure(err)
	}
	a.logger.Info("logged in", "username", username)

	out := cmd.OutOrStdout()
	if flags.save {
		path := config.ActivePath()
		if err := config.SaveToken(path, token); err != nil {
			return err
		}
		fmt.Fprintf(out, "Token saved to %s\n", path)
		return nil
	}
	fmt.Fprintf(out, "export %s_PORTAL_TOKEN=%s\n", config.EnvPrefix, token)
	return nil
}

// readPassword reads without echo from a terminal stdin, else one line from in.
func readPassword(in *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if isTerminalFunc(fd) {
		pwd, err := readPasswordFunc(fd)
		return string(pwd), err
	}
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
