package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bilbywilby/IASIP-gifs/internal/reconcile"
	"github.com/bilbywilby/IASIP-gifs/pkg/manifest"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Create placeholder assets for manifest entries missing on disk",
	Long: `Compares the manifest against the gifs directory and creates a placeholder
for every entry whose asset file is missing. Placeholders default to a minimal
valid 1x1 transparent GIF; --touch creates empty files instead. The manifest
itself is never modified, and repeated runs create nothing new.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		store := manifest.NewStore(cfg.Paths.Manifest)
		m, err := store.Load()
		if err != nil {
			return err
		}

		var fill reconcile.FillStrategy = reconcile.MinimalFill{}
		if touch, _ := cmd.Flags().GetBool("touch"); touch {
			fill = reconcile.TouchFill{}
		}

		report, err := reconcile.New(cfg.Paths.GifsDir, fill).Reconcile(m)
		if err != nil {
			return err
		}

		for _, name := range report.Created {
			cmd.Printf("Created placeholder: %s\n", name)
		}
		cmd.Printf("Finished: %d created, %d skipped, %d malformed entr%s.\n",
			len(report.Created), len(report.Skipped), len(report.Malformed),
			plural(len(report.Malformed)))
		return nil
	},
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	reconcileCmd.Flags().Bool("touch", false, "Create empty files instead of minimal GIF placeholders")
}
