package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bilbywilby/IASIP-gifs/pkg/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the manifest against the schema",
	Long: `Loads the manifest and checks every record against the GIF manifest
schema. On failure the offending record is identified by its structural path
(e.g. 2 -> description).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		validator, err := newValidator(cfg)
		if err != nil {
			return err
		}

		store := manifest.NewStore(cfg.Paths.Manifest)
		m, err := store.Load()
		if err != nil {
			return err
		}

		res, err := validator.ValidateManifest(m)
		if err != nil {
			return err
		}
		if !res.Valid {
			cmd.PrintErrln("--- VALIDATION FAILED ---")
			for _, verr := range res.Errors {
				cmd.PrintErrf("Error: %s\n", verr.Message)
				if len(verr.Path) > 0 {
					cmd.PrintErrf("Path: %s\n", strings.Join(verr.Path, " -> "))
				}
			}
			first := res.First()
			return fmt.Errorf("manifest %s failed schema validation: %w", cfg.Paths.Manifest, first)
		}

		cmd.Printf("Success: %s is valid (%d records).\n", cfg.Paths.Manifest, len(m))
		return nil
	},
}
