package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"mpm/internal/core"
	"mpm/internal/domain"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	convertName       string
	convertMCVersion  string
	convertLoader     string
	convertNoProgress bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <modpack>",
	Short: "Convert a modpack to another Minecraft version or loader",
	Long: `Create a new modpack from an existing one, retargeted at another Minecraft
version and/or mod loader. Every CurseForge mod is looked up again for the
target; mods without a compatible file are reported, grouped by cause.

The source modpack is never modified.

Examples:
  mpm convert "All The Forge" --name "All The Fabric" --loader fabric
  mpm convert survival --name survival-1.21 --mc 1.21 --loader neoforge
  mpm convert survival --name survival-quilt --loader quilt --json`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertName, "name", "n", "", "name of the new modpack (required)")
	convertCmd.Flags().StringVar(&convertMCVersion, "mc", "", "target Minecraft version (default: source version)")
	convertCmd.Flags().StringVarP(&convertLoader, "loader", "l", "", "target mod loader (default: source loader)")
	convertCmd.Flags().BoolVar(&convertNoProgress, "no-progress", false, "do not show a progress bar")
	_ = convertCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := service.GetModpack(ctx, args[0])
	if err != nil {
		return fmt.Errorf("modpack %s: %w", args[0], err)
	}

	targetVersion := convertMCVersion
	if targetVersion == "" {
		targetVersion = src.MinecraftVersion
	}
	targetLoader := convertLoader
	if targetLoader == "" {
		targetLoader = src.Loader
	}

	if !service.IsCatalogAuthenticated() {
		fmt.Fprintln(os.Stderr, colorYellow("warning: no CurseForge API key configured; run 'mpm auth login'"))
	}

	var bar *progressbar.ProgressBar
	if !jsonOutput && !convertNoProgress {
		ctx = context.WithValue(ctx, domain.ConvertProgressContextKey, domain.ConvertProgressFunc(func(done, total int, rec domain.OutcomeRecord) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("Converting"),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(30),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Describe(truncate(rec.ModName, 28))
			_ = bar.Set(done)
		}))
	}

	result, err := service.Convert(ctx, src.ID, convertName, targetVersion, targetLoader)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("converting %s: %w", src.Name, err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, result)
	}

	if ctx.Err() != nil {
		fmt.Fprintln(out, colorYellow("Conversion interrupted; remaining mods were skipped."))
	}
	printConversionReport(out, convertName, targetVersion, targetLoader, result)
	return nil
}

// printConversionReport writes the per-status summary and the failures grouped by cause
func printConversionReport(w io.Writer, name, mcVersion, loader string, result *domain.ConversionResult) {
	fmt.Fprintf(w, "%s %s (%s %s)\n", heading("Created"), name, mcVersion, loader)
	fmt.Fprintf(w, "  %s  %s  %s  %s\n",
		colorGreen(fmt.Sprintf("%d converted", result.Success)),
		colorRed(fmt.Sprintf("%d failed", result.Failed)),
		colorYellow(fmt.Sprintf("%d skipped", result.Skipped)),
		dim(fmt.Sprintf("of %d", result.Total())))

	groups := core.GroupFailures(result.Details)
	if len(groups) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Failed"))
		for _, g := range groups {
			fmt.Fprintf(w, "  %s (%d)\n", colorRed(string(g.Bucket)), len(g.Outcomes))
			for _, rec := range g.Outcomes {
				fmt.Fprintf(w, "    %s: %s\n", rec.ModName, dim(rec.Reason))
			}
		}
	}

	var skipped []domain.OutcomeRecord
	for _, rec := range result.Details {
		if rec.Status == domain.OutcomeSkipped {
			skipped = append(skipped, rec)
		}
	}
	if len(skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Skipped"))
		for _, rec := range skipped {
			fmt.Fprintf(w, "    %s: %s\n", rec.ModName, dim(rec.Reason))
		}
	}
}
