// Package servecmder provides the serve command: an MCP server over the
// project's knowledge base with a filesystem watcher keeping the index
// current.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LouisB739/thehook/pkg/app"
	"github.com/LouisB739/thehook/pkg/config"
	"github.com/LouisB739/thehook/pkg/dotdir"
	"github.com/LouisB739/thehook/pkg/logger"
	thehookmcp "github.com/LouisB739/thehook/pkg/mcp"
)

type ServeCommander struct {
	listen    string
	listenSet bool

	projectDir string

	debug  bool
	logger *slog.Logger
}

const serveLongDesc string = `Run the MCP server over the project's knowledge base.

Exposes two tools over streamable HTTP:
  recall    Semantic search over stored session knowledge
  status    Session file and index document counts

While serving, the sessions directory is watched and new or changed
records are indexed automatically, so captures from concurrent sessions
become searchable without a manual reindex.

Example:
  thehook serve
  thehook serve --listen :9000`

const serveShortDesc string = "Run the MCP knowledge server"

// logFileName is the JSON log mirror under .thehook/.
const logFileName = "serve.log"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
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

			cmder.listenSet = cmd.Flags().Changed("listen")

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.Serve.Listen, "Address to listen on")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithWriter(os.Stderr),
	)

	cfg, err := config.LoadProject(c.projectDir)
	if err != nil {
		return err
	}

	// The flag wins over the config file; its default is only a fallback.
	if !c.listenSet {
		c.listen = cfg.Serve.Listen
	}

	components, err := app.Build(c.projectDir, cfg, c.logger)
	if err != nil {
		return err
	}
	defer components.Close()

	// Mirror logs into .thehook/serve.log as JSON for later inspection.
	logPath := filepath.Join(components.Target, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		c.logger.Warn("could not open log file", "path", logPath, "err", err)
	} else {
		defer logFile.Close()
		c.logger = logger.Multi(
			c.logger,
			logger.New(
				logger.WithDebug(c.debug),
				logger.WithJSON(true),
				logger.WithWriter(logFile),
			),
		)
	}

	server, err := thehookmcp.NewServer(thehookmcp.Config{
		Index:  components.Index,
		Store:  components.Store,
		Logger: c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	httpServer := &http.Server{
		Addr:    c.listen,
		Handler: server.Handler(),
	}

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()

	watcher, err := newSessionWatcher(dotdir.SessionsDir(components.Target), components.Store, c.logger)
	if err != nil {
		c.logger.Warn("session watcher unavailable, new captures need a manual reindex", "err", err)
	} else {
		go watcher.watch(watchCtx)
		defer watcher.close()
	}

	errChan := make(chan error, 1)
	go func() {
		c.logger.Info("starting MCP server", "addr", c.listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
