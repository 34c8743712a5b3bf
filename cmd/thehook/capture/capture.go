// Package capturecmder provides the session-end hook command: parse the
// transcript, extract knowledge, store it durably.
package capturecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/LouisB739/thehook/pkg/app"
	"github.com/LouisB739/thehook/pkg/config"
	"github.com/LouisB739/thehook/pkg/extract"
	"github.com/LouisB739/thehook/pkg/hook"
	"github.com/LouisB739/thehook/pkg/knowledge"
	"github.com/LouisB739/thehook/pkg/logger"
	"github.com/LouisB739/thehook/pkg/runner"
	"github.com/LouisB739/thehook/pkg/transcript"
)

type captureCommander struct {
	projectDir string

	debug  bool
	logger *slog.Logger
}

const captureLongDesc string = `Run the session-end capture pipeline.

Reads the hook JSON payload from stdin, parses the session transcript,
extracts durable knowledge through the configured extraction command, and
writes a markdown record under .thehook/sessions/.

When extraction fails or times out, a stub record is written instead so
the session still leaves a durable trace. The command exits zero in every
case: a capture failure must never surface as a hook failure.

This command is registered by 'thehook init' and normally runs as the
SessionEnd hook rather than by hand.`

const captureShortDesc string = "Capture knowledge from a finished session"

func NewCaptureCmd() *cobra.Command {
	cmder := &captureCommander{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: captureShortDesc,
		Long:  captureLongDesc,
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

func (c *captureCommander) run() error {
	// Hook path: stdout belongs to the hook protocol, logs go to stderr.
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithWriter(os.Stderr),
	)

	// Swallow every failure. The agent treats a non-zero hook exit as an
	// error worth surfacing to the user; a missed capture is not.
	if err := c.capture(); err != nil {
		c.logger.Error("capture failed", "err", err)
	}
	return nil
}

func (c *captureCommander) capture() error {
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

	messages := transcript.Parse(input.TranscriptPath)
	c.logger.Debug("parsed transcript",
		"path", input.TranscriptPath,
		"messages", len(messages),
	)

	extractor := extract.New(extract.Config{
		Command:        cfg.Extraction.Command,
		Args:           cfg.Extraction.Args,
		Timeout:        time.Duration(cfg.Extraction.TimeoutSeconds) * time.Second,
		MaxPromptChars: cfg.Transcript.MaxChars,
	}, runner.NewExecRunner(c.logger), c.logger)

	outcome := extractor.Extract(context.Background(), messages)

	body := outcome.Body
	if outcome.Degraded {
		body = knowledge.StubBody(outcome.Reason, outcome.MessageCount)
		c.logger.Warn("extraction degraded, writing stub",
			"reason", outcome.Reason,
			"messages", outcome.MessageCount,
		)
	}

	store, cleanup, err := c.buildStore(projectDir, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	path, err := store.Capture(context.Background(), knowledge.Record{
		SessionID:      input.SessionID,
		Type:           knowledge.TypeSession,
		TranscriptPath: input.TranscriptPath,
		Body:           body,
	})
	if err != nil {
		return err
	}

	c.logger.Info("captured session", "session_id", input.SessionID, "path", path)
	return nil
}

// buildStore wires the full store when the vector stack is reachable and
// falls back to a durable-only store when it is not. The write always
// lands; reindex recovers the index later.
func (c *captureCommander) buildStore(projectDir string, cfg *config.Config) (*knowledge.Store, func(), error) {
	components, err := app.Build(projectDir, cfg, c.logger)
	if err == nil {
		return components.Store, func() { _ = components.Close() }, nil
	}

	c.logger.Warn("vector stack unavailable, writing without index", "err", err)

	store, err := app.BuildStoreOnly(projectDir, c.logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
