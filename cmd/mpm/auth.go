package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mpm/internal/domain"
	"mpm/internal/storage/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the CurseForge API key",
	Long: `Manage the CurseForge API key used to query the catalog.

A key in config.yaml or the ` + config.EnvCurseForgeAPIKey + ` environment variable takes
precedence over one saved with 'mpm auth login'.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a CurseForge API key",
	Long: `Validate and save a CurseForge API key.

To get a key:
  1. Visit https://console.curseforge.com/
  2. Create a project and generate an API key
  3. Copy your API key`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved CurseForge API key",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a CurseForge API key is available",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	out := cmd.OutOrStdout()
	if key, origin := configuredAPIKey(service.Config().CurseForgeAPIKey); origin != "" {
		fmt.Fprintln(out, colorYellow(fmt.Sprintf("note: %s (%s) takes precedence over a saved key", origin, maskAPIKey(key))))
	}

	apiKey, err := promptSecret(os.Stdin, cmd.ErrOrStderr(), "CurseForge API key: ")
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	ctx := context.Background()
	fmt.Fprint(out, "Checking key with CurseForge... ")
	if err := service.ValidateAPIKey(ctx, apiKey); err != nil {
		fmt.Fprintln(out, colorRed("rejected"))
		return fmt.Errorf("invalid API key: %w", err)
	}
	fmt.Fprintln(out, colorGreen("ok"))

	if err := service.SaveAPIKey(ctx, apiKey); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	fmt.Fprintf(out, "Saved CurseForge API key %s\n", maskAPIKey(apiKey))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	if err := service.DeleteAPIKey(context.Background()); err != nil {
		return fmt.Errorf("removing API key: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Removed saved CurseForge credentials.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	out := cmd.OutOrStdout()
	for _, catalog := range service.Catalogs() {
		if catalog.ID() != domain.SourceCurseForge {
			fmt.Fprintf(out, "%s: no API key needed\n", catalog.Name())
			continue
		}
		switch key, origin := configuredAPIKey(service.Config().CurseForgeAPIKey); {
		case origin != "":
			fmt.Fprintf(out, "%s: authenticated via %s (key: %s)\n", catalog.Name(), origin, maskAPIKey(key))
		case service.IsCatalogAuthenticated():
			fmt.Fprintf(out, "%s: authenticated (saved key)\n", catalog.Name())
		default:
			fmt.Fprintf(out, "%s: not authenticated\n", catalog.Name())
		}
	}
	return nil
}

// configuredAPIKey reports a key set outside the database and where it came from.
// The loaded config already carries the env override, so env is checked first.
func configuredAPIKey(configKey string) (key, origin string) {
	if env := os.Getenv(config.EnvCurseForgeAPIKey); env != "" {
		return env, config.EnvCurseForgeAPIKey
	}
	if configKey != "" {
		return configKey, "config.yaml"
	}
	return "", ""
}

// promptSecret reads one line from in, hiding the input when in is a terminal
func promptSecret(in *os.File, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)

	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// maskAPIKey keeps the first and last three characters of a key
func maskAPIKey(key string) string {
	if len(key) <= 6 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
