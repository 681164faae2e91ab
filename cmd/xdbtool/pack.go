package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/xdb"
)

type packFlags struct {
	versions   versionFlags
	out        string
	userData   string
	noProgress bool
}

func newPackCmd() *cobra.Command {
	f := &packFlags{}
	cmd := &cobra.Command{
		Use:   "pack <DIR> --out <ARCHIVE>",
		Short: "Build an archive from a directory",
		Long: "Build a 2947 archive from DIR. Use --2947ru, --2947ww or --xdb;\n" +
			"an .xdbN output name implies --xdb. Legacy formats cannot be written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, f, args[0])
		},
	}
	f.versions.register(cmd)
	cmd.Flags().StringVar(&f.out, "out", "", "Output archive (required)")
	cmd.Flags().StringVar(&f.userData, "xdb-ud", "", "File stored as the USERDATA chunk (XDB only)")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

func runPack(cmd *cobra.Command, f *packFlags, src string) error {
	if f.out == "" {
		return errors.New("--out is required")
	}
	opts := []xdb.PackOption{
		xdb.PackWithVersion(f.versions.version()),
		xdb.PackWithLogger(logger),
	}
	if f.userData != "" {
		opts = append(opts, xdb.PackWithUserDataFile(f.userData))
	}
	var bar *progressBar
	if !f.noProgress {
		bar = newProgressBar("Packing " + src)
		opts = append(opts, xdb.PackWithProgress(bar.progressFunc()))
	}

	stats, err := xdb.Pack(cmd.Context(), src, f.out, opts...)
	bar.finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: packed %d files and %d folders (%d data bytes, %d header bytes)\n",
		f.out, stats.Files, stats.Folders, stats.DataBytes, stats.HeaderBytes)
	return nil
}
