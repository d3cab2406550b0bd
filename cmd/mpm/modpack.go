package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"mpm/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	modpackMCVersion   string
	modpackLoader      string
	modpackVersion     string
	modpackDescription string
	modContentType     string
)

var modpackCmd = &cobra.Command{
	Use:     "modpack",
	Aliases: []string{"mp"},
	Short:   "Manage modpacks",
	Long: `Create, inspect and edit modpacks.

Modpacks can be referred to by ID or by name.`,
}

var modpackCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty modpack",
	Long: `Create an empty modpack for a Minecraft version and mod loader.

Examples:
  mpm modpack create survival --mc 1.20.1 --loader fabric
  mpm modpack create "Forge Tech" --mc 1.19.2 --loader forge --version 2.0.0`,
	Args: cobra.ExactArgs(1),
	RunE: runModpackCreate,
}

var modpackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List modpacks",
	RunE:  runModpackList,
}

var modpackShowCmd = &cobra.Command{
	Use:   "show <modpack>",
	Short: "Show a modpack and its mods",
	Args:  cobra.ExactArgs(1),
	RunE:  runModpackShow,
}

var modpackDeleteCmd = &cobra.Command{
	Use:   "delete <modpack>",
	Short: "Delete a modpack and its mods",
	Args:  cobra.ExactArgs(1),
	RunE:  runModpackDelete,
}

var modpackAddCmd = &cobra.Command{
	Use:   "add <modpack> <project-id>",
	Short: "Add a CurseForge project to a modpack",
	Long: `Add a CurseForge project to a modpack. The file is chosen for the modpack's
Minecraft version and, for mods, its loader.

Examples:
  mpm modpack add survival 394468
  mpm modpack add survival 290296 --type shader`,
	Args: cobra.ExactArgs(2),
	RunE: runModpackAdd,
}

var modpackAddLocalCmd = &cobra.Command{
	Use:   "add-local <modpack> <name>",
	Short: "Record a mod that does not come from CurseForge",
	Args:  cobra.ExactArgs(2),
	RunE:  runModpackAddLocal,
}

var modpackRemoveCmd = &cobra.Command{
	Use:   "remove <modpack> <mod-id>",
	Short: "Remove a mod from a modpack",
	Args:  cobra.ExactArgs(2),
	RunE:  runModpackRemove,
}

func init() {
	modpackCreateCmd.Flags().StringVar(&modpackMCVersion, "mc", "", "Minecraft version (required)")
	modpackCreateCmd.Flags().StringVarP(&modpackLoader, "loader", "l", "", "mod loader (default: config default_loader)")
	modpackCreateCmd.Flags().StringVar(&modpackVersion, "version", "", "modpack version (default: "+domain.DefaultModpackVersion+")")
	modpackCreateCmd.Flags().StringVarP(&modpackDescription, "description", "d", "", "description")
	_ = modpackCreateCmd.MarkFlagRequired("mc")

	modpackAddCmd.Flags().StringVarP(&modContentType, "type", "t", "mod", "content type: mod, resourcepack or shader")
	modpackAddLocalCmd.Flags().StringVarP(&modContentType, "type", "t", "mod", "content type: mod, resourcepack or shader")

	modpackCmd.AddCommand(modpackCreateCmd)
	modpackCmd.AddCommand(modpackListCmd)
	modpackCmd.AddCommand(modpackShowCmd)
	modpackCmd.AddCommand(modpackDeleteCmd)
	modpackCmd.AddCommand(modpackAddCmd)
	modpackCmd.AddCommand(modpackAddLocalCmd)
	modpackCmd.AddCommand(modpackRemoveCmd)

	rootCmd.AddCommand(modpackCmd)
}

// parseContentTypeFlag validates the --type flag
func parseContentTypeFlag(s string) (domain.ContentType, error) {
	switch ct := domain.ContentType(s); ct {
	case domain.ContentMod, domain.ContentResourcePack, domain.ContentShader:
		return ct, nil
	default:
		return "", fmt.Errorf("unknown content type %q (want mod, resourcepack or shader)", s)
	}
}

func runModpackCreate(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	mp, err := service.CreateModpack(context.Background(), domain.ModpackSpec{
		Name:             args[0],
		Version:          modpackVersion,
		MinecraftVersion: modpackMCVersion,
		Loader:           modpackLoader,
		Description:      modpackDescription,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created modpack %s (%s %s) [%s]\n", mp.Name, mp.MinecraftVersion, mp.Loader, mp.ID)
	return nil
}

func runModpackList(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	modpacks, err := service.ListModpacks(context.Background())
	if err != nil {
		return fmt.Errorf("listing modpacks: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		list := make([]modpackJSON, len(modpacks))
		for i, mp := range modpacks {
			list[i] = toModpackJSON(mp)
		}
		return writeJSON(out, list)
	}

	if len(modpacks) == 0 {
		fmt.Fprintln(out, "No modpacks yet. Create one with 'mpm modpack create'.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tMINECRAFT\tLOADER")
	fmt.Fprintln(w, "--\t----\t-------\t---------\t------")
	for _, mp := range modpacks {
		name := truncate(mp.Name, 40)
		if mp.IsReadOnly() {
			name += " (managed)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mp.ID, name, mp.Version, mp.MinecraftVersion, mp.Loader)
	}
	return w.Flush()
}

func runModpackShow(cmd *cobra.Command, args []string) error {
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
	mods, err := service.ListMods(ctx, mp.ID)
	if err != nil {
		return fmt.Errorf("listing mods: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, modpackShowJSON{Modpack: toModpackJSON(*mp), Mods: toModsJSON(mods)})
	}

	fmt.Fprintf(out, "%s %s\n", heading(mp.Name), dim(mp.ID))
	fmt.Fprintf(out, "Version: %s  Minecraft: %s  Loader: %s  Created: %s\n",
		mp.Version, mp.MinecraftVersion, mp.Loader, humanize.Time(mp.CreatedAt))
	if mp.Description != "" {
		fmt.Fprintln(out, mp.Description)
	}
	if mp.RemoteSourceURL != "" {
		fmt.Fprintf(out, "Managed by %s (read-only)\n", mp.RemoteSourceURL)
	}
	fmt.Fprintln(out)

	if len(mods) == 0 {
		fmt.Fprintln(out, "No mods.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSOURCE\tPROJECT\tENABLED")
	fmt.Fprintln(w, "--\t----\t----\t------\t-------\t-------")
	for _, mod := range mods {
		enabled := "yes"
		if !mod.Enabled {
			enabled = "no"
		}
		project := "-"
		if mod.ProjectID > 0 {
			project = strconv.Itoa(mod.ProjectID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mod.ID, truncate(mod.Name, 40), mod.ContentType, mod.Source, project, enabled)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(out, "\nTotal: %d mod(s)\n", len(mods))
	}
	return nil
}

func runModpackDelete(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	if err := service.DeleteModpack(context.Background(), args[0]); err != nil {
		return fmt.Errorf("deleting modpack %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted modpack %s\n", args[0])
	return nil
}

func runModpackAdd(cmd *cobra.Command, args []string) error {
	projectID, err := strconv.Atoi(args[1])
	if err != nil || projectID <= 0 {
		return fmt.Errorf("invalid project ID %q", args[1])
	}
	ct, err := parseContentTypeFlag(modContentType)
	if err != nil {
		return err
	}

	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	item, err := service.AddCatalogMod(context.Background(), args[0], projectID, ct)
	if err != nil {
		return fmt.Errorf("adding project %d: %w", projectID, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (file %d) [%s]\n", item.Name, item.FileID, item.ID)
	return nil
}

func runModpackAddLocal(cmd *cobra.Command, args []string) error {
	ct, err := parseContentTypeFlag(modContentType)
	if err != nil {
		return err
	}

	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	mod, err := service.AddLocalMod(context.Background(), args[0], args[1], ct)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s [%s]\n", mod.Name, mod.ID)
	return nil
}

func runModpackRemove(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	if err := service.RemoveMod(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("removing mod %s: %w", args[1], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
	return nil
}
