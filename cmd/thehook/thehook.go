// Package thehookcmder
package thehookcmder

import (
	capturecmder "github.com/LouisB739/thehook/cmd/thehook/capture"
	initcmder "github.com/LouisB739/thehook/cmd/thehook/init"
	recallcmder "github.com/LouisB739/thehook/cmd/thehook/recall"
	reindexcmder "github.com/LouisB739/thehook/cmd/thehook/reindex"
	retrievecmder "github.com/LouisB739/thehook/cmd/thehook/retrieve"
	servecmder "github.com/LouisB739/thehook/cmd/thehook/serve"
	statuscmder "github.com/LouisB739/thehook/cmd/thehook/status"
	versioncmder "github.com/LouisB739/thehook/cmd/version"
	"github.com/spf13/cobra"
)

const thehookLongDesc string = `TheHook is long-term memory for AI coding agents.

It captures knowledge when a session ends and injects it when the next
one starts:
  thehook init       Set up .thehook/ and register the lifecycle hooks
  thehook capture    Session-end hook: extract and store session knowledge
  thehook retrieve   Session-start hook: print relevant knowledge as context
  thehook recall     Search stored knowledge from the terminal
  thehook serve      Expose the knowledge base over MCP`

const thehookShortDesc string = "TheHook - Memory for AI Coding Agents"

func NewTheHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thehook",
		Short: thehookShortDesc,
		Long:  thehookLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("project-dir", "", "Project root directory (defaults to hook payload cwd, then the working directory)")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(capturecmder.NewCaptureCmd())
	cmd.AddCommand(retrievecmder.NewRetrieveCmd())
	cmd.AddCommand(recallcmder.NewRecallCmd())
	cmd.AddCommand(reindexcmder.NewReindexCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
