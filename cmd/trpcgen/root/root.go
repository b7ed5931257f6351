package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootCmd is the base command of trpcgen. Subcommands are attached in wire.go.
var rootCmd = &cobra.Command{
	Use:           "trpcgen",
	Short:         "Generate tRPC routers from a Prisma schema",
	Long:          "trpcgen reads the introspection document of a Prisma schema and writes one tRPC router per model plus the aggregate app router.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI. The command context is cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
