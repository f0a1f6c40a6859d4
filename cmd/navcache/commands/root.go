// Package commands implements the CLI commands for navcache.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/navcache/internal/app"
	"go.trai.ch/navcache/internal/build"
	"go.trai.ch/navcache/internal/core/domain"
)

// SettingsFlag is the persistent flag naming an explicit settings file.
const SettingsFlag = "settings"

// CLI represents the command line interface for navcache.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Resolve(ctx context.Context) (*domain.ActiveContentSet, error)
	Update(ctx context.Context, opts app.UpdateOptions) (*app.UpdateResult, error)
	EvictUnused(ctx context.Context) (domain.EvictionReport, error)
	MaxSize(ctx context.Context) (int64, error)
	SetMaxSize(ctx context.Context, limit int64) (domain.EvictionReport, error)
	Verify(ctx context.Context) (domain.VerifyReport, error)
	Stats(ctx context.Context) (domain.StoreStats, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "navcache",
		Short:         "Resolve content load order and maintain the navigation mesh cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	// Read by main before the application is built; declared here so cobra accepts it.
	rootCmd.PersistentFlags().String(SettingsFlag, "", "Path to the settings file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newEvictCmd())
	rootCmd.AddCommand(c.newMaxSizeCmd())
	rootCmd.AddCommand(c.newVerifyCmd())
	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
