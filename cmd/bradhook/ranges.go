package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"bradhook/internal/access"

	"github.com/spf13/cobra"
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Show the trusted provider ranges",
	Long: `Print the provider to CIDR table that triggers are authorized against.

The table is the built-in list merged with the 'trusted' section of the
configuration file, refreshed from the GitHub meta API with --github-meta.`,
	Args: cobra.NoArgs,
	RunE: runRanges,
}

var checkCmd = &cobra.Command{
	Use:   "check <address>",
	Short: "Check whether an address may trigger deployments",
	Long: `Report whether a client address would be authorized, and by which provider.

Exits non-zero when the address is not trusted.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runCheck,
}

// cliAuthorizer builds the same authorizer serve would, logging to stderr.
func cliAuthorizer(cmd *cobra.Command) (*access.Authorizer, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := loadSettings(cmd.Context(), logger, false)
	if err != nil {
		return nil, err
	}
	return access.NewAuthorizer(s.providers)
}

func runRanges(cmd *cobra.Command, args []string) error {
	authorizer, err := cliAuthorizer(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "PROVIDER\tRANGES\n")
	fmt.Fprintf(w, "%s\t%s\n", access.LoopbackProvider, strings.Join(access.LoopbackAddresses, ", "))
	for _, p := range authorizer.Providers() {
		fmt.Fprintf(w, "%s\t%s\n", p.Name, strings.Join(p.Ranges, ", "))
	}
	return w.Flush()
}

func runCheck(cmd *cobra.Command, args []string) error {
	authorizer, err := cliAuthorizer(cmd)
	if err != nil {
		return err
	}

	address := args[0]
	provider, ok := authorizer.Match(address)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: forbidden\n", address)
		return fmt.Errorf("address %s is not trusted", address)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: allowed (%s)\n", address, provider)
	return nil
}
