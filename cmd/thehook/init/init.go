// Package initcmder provides the init command for setting up a project.
package initcmder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LouisB739/thehook/pkg/cliui"
	"github.com/LouisB739/thehook/pkg/dotdir"
	"github.com/LouisB739/thehook/pkg/logger"
	"github.com/LouisB739/thehook/pkg/scaffold"
)

type initCommander struct {
	projectDir string

	debug  bool
	logger *slog.Logger
}

const initLongDesc string = `Initialize thehook in a project.

Creates the .thehook/ directory tree (sessions, knowledge, vector) and
registers the capture and retrieve lifecycle hooks with Claude Code
(.claude/settings.local.json) and Cursor (.cursor/hooks.json). Existing
settings are preserved; only the hooks entries are managed.

Safe to run again after upgrading to refresh the hook registration.`

const initShortDesc string = "Initialize thehook in a project"

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
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

func (c *initCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
	)

	projectDir := c.projectDir
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		projectDir = cwd
	}

	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	err = cliui.Step(os.Stdout, "Setting up "+filepath.Join(absDir, dotdir.DirName), func() error {
		return scaffold.Init(absDir, c.logger)
	})
	if err != nil {
		return err
	}

	fmt.Println("Hooks registered in .claude/settings.local.json and .cursor/hooks.json")
	return nil
}
