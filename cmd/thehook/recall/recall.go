// Package recallcmder provides the recall command for searching stored
// knowledge from the terminal.
package recallcmder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/LouisB739/thehook/pkg/app"
	"github.com/LouisB739/thehook/pkg/cliui"
	"github.com/LouisB739/thehook/pkg/config"
	"github.com/LouisB739/thehook/pkg/index"
	"github.com/LouisB739/thehook/pkg/logger"
	"github.com/LouisB739/thehook/pkg/utils"
)

var (
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type recallCommander struct {
	query string
	topK  int
	plain bool

	projectDir string

	debug  bool
	logger *slog.Logger
}

const recallLongDesc string = `Search stored session knowledge.

Queries the knowledge index for the documents most relevant to the query
text and renders them in the terminal. This is the manual counterpart of
the retrieval hook: same index, same ranking, human-readable output.

Use --plain to print raw markdown instead of rendered output, for piping
into other tools.

Example:
  thehook recall "error handling conventions"
  thehook recall "why did we pick sqlite" --top 3
  thehook recall "migration gotchas" --plain | less`

const recallShortDesc string = "Search stored knowledge"

func NewRecallCmd() *cobra.Command {
	cmder := &recallCommander{}

	cmd := &cobra.Command{
		Use:   "recall <query>",
		Short: recallShortDesc,
		Long:  recallLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

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

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", defaults.Retrieval.NResults, "Number of results to return")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print raw markdown (for piping)")

	return cmd
}

func (c *recallCommander) run() error {
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

	results, err := components.Index.Query(context.Background(), c.query, c.topK)
	if err != nil {
		return fmt.Errorf("querying knowledge index: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No relevant knowledge found.")
		return nil
	}

	if c.plain {
		for _, result := range results {
			fmt.Println(result.Content)
			fmt.Println("\n---")
		}
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Recall results for:"),
		idStyle.Render(fmt.Sprintf("%q", c.query)),
	)

	for i, result := range results {
		c.printResult(i+1, result)
	}

	return nil
}

func (c *recallCommander) printResult(rank int, result index.Result) {
	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", result.Score)),
		idStyle.Render(utils.Truncate(result.ID, 48)),
	)
	if ts := result.Metadata["timestamp"]; ts != "" {
		fmt.Printf("  %s\n", dimStyle.Render(ts))
	}

	rendered, err := cliui.RenderMarkdown(result.Content, 100)
	if err != nil {
		// Fall back to plain text if glamour fails
		rendered = result.Content + "\n"
	}
	fmt.Println(rendered)
}
