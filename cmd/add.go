package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bilbywilby/IASIP-gifs/internal/gitstage"
	"github.com/bilbywilby/IASIP-gifs/internal/ingest"
	"github.com/bilbywilby/IASIP-gifs/pkg/fetch"
	"github.com/bilbywilby/IASIP-gifs/pkg/logger"
	"github.com/bilbywilby/IASIP-gifs/pkg/manifest"
)

// stagingError marks a failure in the git collaborator after the manifest was
// already committed. It is reported, never rolled back.
type stagingError struct {
	err error
}

func (e *stagingError) Error() string {
	return "staging changes failed (manifest and asset were still written): " + e.err.Error()
}

func (e *stagingError) Unwrap() error { return e.err }

var addCmd = &cobra.Command{
	Use:   "add <url> <filename>",
	Short: "Download a GIF and add it to the manifest",
	Long: `Downloads the GIF at <url>, collects description and tags, validates the
new entry against the schema, appends it to the manifest, and stages both
files for commit. The filename is lower-cased with spaces replaced by
underscores and must end in .gif.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, rawName := args[0], args[1]

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		validator, err := newValidator(cfg)
		if err != nil {
			return err
		}

		pipeline := ingest.New(
			fetch.New(cfg.Fetch),
			validator,
			manifest.NewStore(cfg.Paths.Manifest),
			cfg.Paths.GifsDir,
		)

		source, err := metadataSource(cmd)
		if err != nil {
			return err
		}

		res, err := pipeline.Run(cmd.Context(), url, rawName, source)
		if err != nil {
			return err
		}
		cmd.Printf("Added %s (%d bytes), manifest updated: %s\n",
			res.Record.Filename, res.Size, res.ManifestPath)

		noCommit, _ := cmd.Flags().GetBool("no-commit")
		if noCommit || !cfg.Git.Commit {
			cmd.Println("Skipping git staging (--no-commit).")
			return nil
		}

		stager := gitstage.New(".", cfg.Git.MessagePrefix)
		if err := stager.StageAndCommit(res.AssetPath, res.ManifestPath); err != nil {
			logger.Error("staging failed", logger.Err(err))
			return &stagingError{err: err}
		}
		cmd.Println("Committed. Next step: `git push` to publish.")
		return nil
	},
}

func init() {
	addCmd.Flags().String("description", "", "Record description (10-200 characters); prompts when omitted")
	addCmd.Flags().String("tags", "", "Comma-separated tags; prompts when omitted")
	addCmd.Flags().Bool("no-commit", false, "Skip git staging and commit")
}

// metadataSource picks the collaborator that produces the record metadata:
// flags when given, the interactive form otherwise.
func metadataSource(cmd *cobra.Command) (ingest.MetadataSource, error) {
	desc, _ := cmd.Flags().GetString("description")
	tags, _ := cmd.Flags().GetString("tags")
	if desc != "" || tags != "" {
		if desc == "" || tags == "" {
			return nil, fmt.Errorf("--description and --tags must be provided together")
		}
		return ingest.StaticSource{Description: desc, Tags: ingest.ParseTags(tags)}, nil
	}
	return promptSource{}, nil
}

// promptSource collects metadata interactively. Constraint checks run inside
// the form, so the operator retries in place instead of restarting the ingest.
type promptSource struct{}

func (promptSource) Collect(filename string) (ingest.Metadata, error) {
	var desc, tags string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Description for %s", filename)).
				Placeholder("Mac's ocular pat-down").
				Validate(func(s string) error {
					return ingest.CheckDescription(strings.TrimSpace(s))
				}).
				Value(&desc),
			huh.NewInput().
				Title("Tags (comma separated)").
				Placeholder("mac,patdown,ocular").
				Validate(func(s string) error {
					if len(ingest.ParseTags(s)) == 0 {
						return fmt.Errorf("enter at least one tag")
					}
					return nil
				}).
				Value(&tags),
		),
	)
	if err := form.Run(); err != nil {
		return ingest.Metadata{}, err
	}
	return ingest.Metadata{
		Description: strings.TrimSpace(desc),
		Tags:        ingest.ParseTags(tags),
	}, nil
}
