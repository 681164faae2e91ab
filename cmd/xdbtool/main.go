// Command xdbtool unpacks, packs and lists X-Ray engine DB archives.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/meigma/xdb"
)

var (
	verbose bool
	debug   bool
	logger  *slog.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already ran
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "xdbtool",
		Short:         "Unpack, pack and list X-Ray engine .db/.xdb archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger = newLogger()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log progress messages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log every entry")

	rootCmd.AddCommand(newUnpackCmd(), newPackCmd(), newListCmd())
	return rootCmd
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// versionFlags binds one boolean flag per archive format.
type versionFlags struct {
	v1114, v2215, v2945, ru, ww, xdb bool
}

func (f *versionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.v1114, "11xx", false, "Format 1114 (.xrp)")
	cmd.Flags().BoolVar(&f.v2215, "2215", false, "Format 2215 (.xp)")
	cmd.Flags().BoolVar(&f.v2945, "2945", false, "Format 2945")
	cmd.Flags().BoolVar(&f.ru, "2947ru", false, "Format 2947, Russian release key")
	cmd.Flags().BoolVar(&f.ww, "2947ww", false, "Format 2947, world-wide release key")
	cmd.Flags().BoolVar(&f.xdb, "xdb", false, "Format XDB (.xdb, .db)")
}

func (f *versionFlags) version() xdb.Version {
	var v xdb.Version
	for _, b := range []struct {
		set bool
		v   xdb.Version
	}{
		{f.v1114, xdb.Version1114},
		{f.v2215, xdb.Version2215},
		{f.v2945, xdb.Version2945},
		{f.ru, xdb.Version2947RU},
		{f.ww, xdb.Version2947WW},
		{f.xdb, xdb.VersionXDB},
	} {
		if b.set {
			v |= b.v
		}
	}
	return v
}
