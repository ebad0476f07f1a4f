package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/folio/internal/cli"
	"github.com/cloo-solutions/folio/internal/cli/admin"
	"github.com/cloo-solutions/folio/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "foliod",
		Short: "Portfolio highlights server and CLI",
		Long: `foliod answers questions about a portfolio with ranked highlight cards.

Running foliod without a command starts the server. Configuration is read
from FOLIO_* environment variables and an optional .env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.AddHelpJSONFlag(rootCmd)

	resume := admin.ResumeCmd()
	resume.AddCommand(client.ResumeDownloadCmd())

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.QueriesCmd())
	rootCmd.AddCommand(resume)
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.CorpusCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if target, ok := cli.HelpJSONTarget(rootCmd, os.Args[1:]); ok {
		if err := cli.WriteSchema(os.Stdout, target); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
