package cmd

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/credentials"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
)

var authDelete bool

var authCmd = &cobra.Command{
	Use:   "auth <service>",
	Short: "Store an access token for a service",
	Long: `Stores an access token for a host in your encrypted keychain. The token
is sent with requests forage-dev makes to that host, such as registry fetches.

The token is read from stdin; on a terminal it is not echoed.

Examples:
  forage-dev auth raw.githubusercontent.com
  echo "$TOKEN" | forage-dev auth gitlab.com
  forage-dev auth gitlab.com --delete`,
	Args: cobra.ExactArgs(1),
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&authDelete, "delete", false, "Remove the stored token")
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	service := args[0]
	keys := current().KeyChain

	if authDelete {
		if err := keys.Delete(service); err != nil {
			if stderrors.Is(err, credentials.ErrNoCredential) {
				return errors.NotFound("token", service)
			}
			return errors.Credential(fmt.Sprintf("failed to remove the token for %s", service), err)
		}
		logSuccess("Removed the token for %s", service)
		return nil
	}

	token, err := readToken(cmd, service)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.User("The token must not be empty.", "")
	}

	if err := keys.Set(service, token); err != nil {
		return errors.Credential(fmt.Sprintf("failed to store the token for %s", service), err)
	}
	logSuccess("Stored the token for %s", service)
	return nil
}

func readToken(cmd *cobra.Command, service string) (string, error) {
	if stdinIsTerminal() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Token for %s: ", service)
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", errors.IO("failed to read token", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !stderrors.Is(err, io.EOF) {
		return "", errors.IO("failed to read token", err)
	}
	return strings.TrimSpace(line), nil
}
