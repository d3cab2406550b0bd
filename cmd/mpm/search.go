package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mpm/internal/domain"
	"mpm/internal/source"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	searchMCVersion string
	searchLoader    string
	searchType      string
	searchLimit     int
	recommendLimit  int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search CurseForge for Minecraft content",
	Long: `Search CurseForge for mods, resource packs or shaders, most popular first.

Examples:
  mpm search sodium --mc 1.20.1 --loader fabric
  mpm search faithful --type resourcepack`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <modpack>",
	Short: "Suggest popular mods a modpack does not have yet",
	Long: `Suggest popular CurseForge mods for a modpack's Minecraft version and loader,
leaning towards the category most of its mods share.

Examples:
  mpm recommend survival --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	searchCmd.Flags().StringVar(&searchMCVersion, "mc", "", "filter by Minecraft version")
	searchCmd.Flags().StringVarP(&searchLoader, "loader", "l", "", "filter by mod loader")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "mod", "content type: mod, resourcepack or shader")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")

	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 10, "maximum number of suggestions")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(recommendCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ct, err := parseContentTypeFlag(searchType)
	if err != nil {
		return err
	}

	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	result, err := service.Search(context.Background(), source.SearchQuery{
		Query:       strings.Join(args, " "),
		GameVersion: searchMCVersion,
		Loader:      searchLoader,
		ContentType: ct,
		PageSize:    searchLimit,
	})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, toProjectsJSON(result.Projects))
	}
	if len(result.Projects) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	return printProjects(out, result.Projects)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	projects, err := service.Recommend(context.Background(), args[0], recommendLimit)
	if err != nil {
		return fmt.Errorf("recommending for %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, toProjectsJSON(projects))
	}
	if len(projects) == 0 {
		fmt.Fprintln(out, "Nothing new to recommend.")
		return nil
	}
	if err := printProjects(out, projects); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nAdd one with 'mpm modpack add %s <project-id>'.\n", args[0])
	return nil
}

// printProjects writes catalog projects as a table
func printProjects(out io.Writer, projects []domain.CatalogProject) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAUTHOR\tDOWNLOADS\tSUMMARY")
	fmt.Fprintln(w, "--\t----\t------\t---------\t-------")
	for _, p := range projects {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, truncate(p.Name, 32), truncate(p.Author, 20), humanize.Comma(p.Downloads), truncate(p.Summary, 50))
	}
	return w.Flush()
}
