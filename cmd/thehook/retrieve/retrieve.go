// Package retrievecmder provides the session-start hook command: query
// stored knowledge and print it as hook context JSON.
package retrievecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/LouisB739/thehook/pkg/app"
	"github.com/LouisB739/thehook/pkg/config"
	"github.com/LouisB739/thehook/pkg/hook"
	"github.com/LouisB739/thehook/pkg/logger"
	"github.com/LouisB739/thehook/pkg/retrieve"
)

type retrieveCommander struct {
	projectDir string

	debug  bool
	logger *slog.Logger
}

const retrieveLongDesc string = `Run the session-start retrieval pipeline.

Reads the hook JSON payload from stdin, queries the knowledge index for
documents relevant to the session, and prints a single hook response JSON
object with the assembled context. On UserPromptSubmit events the prompt
text drives the query; otherwise a broad project-memory query is used.

Prints nothing when no context is found, and exits zero on every failure:
retrieval must never delay or break a starting session.

This command is registered by 'thehook init' and normally runs as the
SessionStart and UserPromptSubmit hook rather than by hand.`

const retrieveShortDesc string = "Retrieve knowledge as session context"

func NewRetrieveCmd() *cobra.Command {
	cmder := &retrieveCommander{}

	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: retrieveShortDesc,
		Long:  retrieveLongDesc,
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

func (c *retrieveCommander) run() error {
	// Hook path: stdout carries the response JSON, logs go to stderr.
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithWriter(os.Stderr),
	)

	if err := c.retrieve(); err != nil {
		c.logger.Debug("retrieval degraded to empty", "err", err)
	}
	return nil
}

func (c *retrieveCommander) retrieve() error {
	input, err := hook.ReadInput(os.Stdin)
	if err != nil {
		return err
	}

	projectDir := c.projectDir
	if projectDir == "" {
		projectDir = input.ProjectDir()
	}

	cfg, err := config.LoadProject(projectDir)
	if err != nil {
		return err
	}

	components, err := app.Build(projectDir, cfg, c.logger)
	if err != nil {
		return err
	}
	defer components.Close()

	retriever := retrieve.New(components.Index, retrieve.Options{
		NResults:              cfg.Retrieval.NResults,
		RecencyDays:           cfg.Retrieval.RecencyDays,
		RecencyFallbackGlobal: cfg.Retrieval.RecencyFallbackGlobal,
		Query:                 cfg.Retrieval.Query,
		TokenBudget:           cfg.TokenBudget,
	}, c.logger)

	return retriever.HookResponse(context.Background(), input, os.Stdout)
}
