// Package statuscmder provides the status command for inspecting a
// project's knowledge base.
package statuscmder

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/LouisB739/thehook/pkg/app"
	"github.com/LouisB739/thehook/pkg/config"
	"github.com/LouisB739/thehook/pkg/logger"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type statusCommander struct {
	projectDir string

	debug  bool
	logger *slog.Logger
}

const statusLongDesc string = `Show the state of the project's knowledge base.

Reports where .thehook/ resolved to, how many session records exist on
disk, how many documents the search index holds, and whether the most
recent capture completed or wrote a degraded stub. A lower index count
means some records are not searchable; run 'thehook reindex' to recover.`

const statusShortDesc string = "Show knowledge base status"

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
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

func (c *statusCommander) run() error {
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

	sessionFiles := components.Store.SessionFileCount()
	indexed, err := components.Index.Count(context.Background())
	if err != nil {
		return fmt.Errorf("counting indexed documents: %w", err)
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Directory:"), valueStyle.Render(components.Target))
	fmt.Printf("%s %s\n", labelStyle.Render("Session records:"), valueStyle.Render(fmt.Sprintf("%d", sessionFiles)))
	fmt.Printf("%s %s\n", labelStyle.Render("Indexed documents:"), valueStyle.Render(fmt.Sprintf("%d", indexed)))

	if last, ok := components.Store.LastCapture(); ok {
		state := "ok"
		if last.Record.Degraded() {
			state = "degraded"
		}
		fmt.Printf("%s %s (%s)\n",
			labelStyle.Render("Last capture:"),
			valueStyle.Render(filepath.Base(last.Path)),
			state,
		)
	}

	if indexed < sessionFiles {
		fmt.Printf("\n%s\n", warnStyle.Render("Index is behind the records on disk. Run 'thehook reindex'."))
	}

	return nil
}
