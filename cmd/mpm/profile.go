package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"mpm/internal/storage/config"

	"github.com/spf13/cobra"
)

var profileImportModpack string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage mod profiles",
	Long: `Manage profiles: named sets of enabled mods for a modpack.

Saving a profile records which mods are enabled right now. Applying it later
enables exactly those mods and disables the rest.`,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save <modpack> <name>",
	Short: "Save the enabled mods of a modpack as a profile",
	Long: `Save the currently enabled mods of a modpack under a profile name.
An existing profile with the same name is replaced.

Examples:
  mpm profile save survival lightweight`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileSave,
}

var profileApplyCmd = &cobra.Command{
	Use:   "apply <modpack> <name>",
	Short: "Enable the mods of a profile and disable the rest",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileApply,
}

var profileListCmd = &cobra.Command{
	Use:   "list <modpack>",
	Short: "List the profiles of a modpack",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileList,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <modpack> <name>",
	Short: "Delete a profile",
	Long: `Delete a profile.

Note: This does not change which mods are enabled, only removes the saved profile.`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileDelete,
}

var profileExportCmd = &cobra.Command{
	Use:   "export <modpack> <name>",
	Short: "Export a profile",
	Long: `Export a profile to portable YAML on stdout.

Examples:
  mpm profile export survival lightweight > lightweight.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runProfileExport,
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a profile",
	Long: `Import a profile from a YAML file. Use --modpack to attach it to a different
modpack than the one it was exported from.

Examples:
  mpm profile import lightweight.yaml
  mpm profile import lightweight.yaml --modpack survival-fabric`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileImport,
}

func init() {
	profileImportCmd.Flags().StringVarP(&profileImportModpack, "modpack", "m", "", "modpack to import the profile into")

	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileApplyCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)

	rootCmd.AddCommand(profileCmd)
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	ctx := context.Background()
	mp, err := service.GetModpack(ctx, args[0])
	if err != nil {
		return fmt.Errorf("modpack %s: %w", args[0], err)
	}

	profile, err := service.Profiles().Save(ctx, mp.ID, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s with %d enabled mod(s)\n", profile.Name, len(profile.Enabled))
	return nil
}

func runProfileApply(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	ctx := context.Background()
	mp, err := service.GetModpack(ctx, args[0])
	if err != nil {
		return fmt.Errorf("modpack %s: %w", args[0], err)
	}

	missing, err := service.Profiles().Apply(ctx, mp.ID, args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Applied profile %s to %s\n", args[1], mp.Name)
	if len(missing) > 0 {
		fmt.Fprintln(out, colorYellow(fmt.Sprintf("%d mod(s) in the profile are no longer in the modpack:", len(missing))))
		for _, k := range missing {
			fmt.Fprintf(out, "  %s\n", k.Name)
		}
	}
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	mp, err := service.GetModpack(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("modpack %s: %w", args[0], err)
	}

	profiles, err := service.Profiles().List(mp.ID)
	if err != nil {
		return fmt.Errorf("listing profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No profiles found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENABLED MODS")
	fmt.Fprintln(w, "----\t------------")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%d\n", p.Name, len(p.Enabled))
	}
	return w.Flush()
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	mp, err := service.GetModpack(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("modpack %s: %w", args[0], err)
	}

	if err := service.Profiles().Delete(mp.ID, args[1]); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[1])
	return nil
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	mp, err := service.GetModpack(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("modpack %s: %w", args[0], err)
	}

	data, err := service.Profiles().Export(mp.ID, args[1])
	if err != nil {
		return fmt.Errorf("exporting profile: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	filePath, err := config.ParseYAMLPath(args[0])
	if err != nil {
		return fmt.Errorf("profile file: %w", err)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	profile, err := service.ImportProfile(context.Background(), data, profileImportModpack)
	if err != nil {
		return fmt.Errorf("importing profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported profile %s (%d mod(s))\n", profile.Name, len(profile.Enabled))
	return nil
}
