// Package reindexcmder provides the reindex command for rebuilding the
// knowledge index from disk.
package reindexcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/LouisB739/thehook/pkg/app"
	"github.com/LouisB739/thehook/pkg/cliui"
	"github.com/LouisB739/thehook/pkg/config"
	"github.com/LouisB739/thehook/pkg/logger"
)

type reindexCommander struct {
	projectDir string

	debug  bool
	logger *slog.Logger
}

const reindexLongDesc string = `Rebuild the knowledge index from the durable records.

Drops the vector index and re-embeds every valid markdown record under
.thehook/sessions/ and .thehook/knowledge/. The markdown files are the
source of truth; run this after restoring a project from version control,
switching embedding models, or recovering from indexing failures.`

const reindexShortDesc string = "Rebuild the knowledge index from disk"

func NewReindexCmd() *cobra.Command {
	cmder := &reindexCommander{}

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: reindexShortDesc,
		Long:  reindexLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.projectDir, err = cmd.Flags().GetString("project-dir")
			if err != nil {
				return fmt.Errorf("could not get project-dir flag: %w", err)
			}

			return cmder.run()
		},
	}

	return cmd
}

func (c *reindexCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
	)

	cfg, err := config.LoadProject(c.projectDir)
	if err != nil {
		return err
	}

	components, err := app.Build(c.projectDir, cfg, c.logger)
	if err != nil {
		return err
	}
	defer components.Close()

	var count int
	err = cliui.Step(os.Stdout, "Rebuilding knowledge index", func() error {
		var stepErr error
		count, stepErr = components.Store.Rebuild(context.Background())
		return stepErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d documents.\n", count)
	return nil
}
