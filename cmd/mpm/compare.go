package main

import (
	"context"
	"fmt"

	"mpm/internal/domain"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <modpack> <modpack>",
	Short: "Compare the mods of two modpacks",
	Long: `Show which mods are only in the first modpack, only in the second, or in both.

CurseForge mods are matched by project, other mods by name.

Examples:
  mpm compare survival survival-fabric`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(service)

	cmp, err := service.Compare(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		both := make([]string, len(cmp.Both))
		for i, p := range cmp.Both {
			both[i] = p.Left.Name
		}
		return writeJSON(out, comparisonJSON{
			Left:      args[0],
			Right:     args[1],
			OnlyLeft:  modNames(cmp.OnlyLeft),
			OnlyRight: modNames(cmp.OnlyRight),
			Both:      both,
		})
	}

	printModSection := func(title string, mods []domain.Mod, mark func(string) string) {
		fmt.Fprintf(out, "%s (%d)\n", heading(title), len(mods))
		for _, m := range mods {
			fmt.Fprintf(out, "  %s %s\n", mark("•"), m.Name)
		}
		fmt.Fprintln(out)
	}

	printModSection("Only in "+args[0], cmp.OnlyLeft, colorRed)
	printModSection("Only in "+args[1], cmp.OnlyRight, colorGreen)

	fmt.Fprintf(out, "%s (%d)\n", heading("In both"), len(cmp.Both))
	for _, p := range cmp.Both {
		if p.Left.Name != p.Right.Name {
			fmt.Fprintf(out, "  %s %s %s\n", dim("="), p.Left.Name, dim("("+p.Right.Name+")"))
			continue
		}
		fmt.Fprintf(out, "  %s %s\n", dim("="), p.Left.Name)
	}
	return nil
}
