package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/xdb"
)

type unpackFlags struct {
	versions    versionFlags
	out         string
	mask        string
	userDataOut string
	noVerify    bool
	noProgress  bool
	direct      bool
	jobs        int
}

func newUnpackCmd() *cobra.Command {
	f := &unpackFlags{}
	cmd := &cobra.Command{
		Use:   "unpack <ARCHIVE>...",
		Short: "Extract one or more archives",
		Long: "Extract archives into --out (default: the archive's directory).\n" +
			"The format is taken from the flags or else from the extension:\n" +
			".xrp is 1114, .xpN is 2215, .xdbN and .dbN are XDB.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(cmd, f, args)
		},
	}
	f.versions.register(cmd)
	cmd.Flags().StringVar(&f.out, "out", "", "Output directory")
	cmd.Flags().StringVar(&f.mask, "flt", "", "Only extract files whose path contains this substring")
	cmd.Flags().StringVar(&f.userDataOut, "userdata-out", "", "Write the USERDATA chunk to this file")
	cmd.Flags().BoolVar(&f.noVerify, "no-verify", false, "Skip CRC verification")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().BoolVar(&f.direct, "direct", false, "Write files in place instead of via temp files")
	cmd.Flags().IntVar(&f.jobs, "jobs", 1, "Archives to extract concurrently; 1 extracts them one at a time")
	return cmd
}

func runUnpack(cmd *cobra.Command, f *unpackFlags, archives []string) error {
	if f.userDataOut != "" && len(archives) > 1 {
		return fmt.Errorf("--userdata-out needs a single archive, got %d", len(archives))
	}
	// One bar cannot follow several archives at once.
	showProgress := !f.noProgress && (len(archives) == 1 || f.jobs <= 1)

	// Summary lines are written whole so concurrent jobs do not interleave.
	var outMu sync.Mutex
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(f.jobs, 1))
	for _, archive := range archives {
		g.Go(func() error {
			opts := []xdb.UnpackOption{
				xdb.UnpackWithVersion(f.versions.version()),
				xdb.UnpackWithOutputDir(f.out),
				xdb.UnpackWithMask(f.mask),
				xdb.UnpackWithVerify(!f.noVerify),
				xdb.UnpackWithDirectWrites(f.direct),
				xdb.UnpackWithLogger(logger.With("archive", archive)),
			}
			if f.userDataOut != "" {
				opts = append(opts, xdb.UnpackWithUserDataFile(f.userDataOut))
			}
			var bar *progressBar
			if showProgress {
				bar = newProgressBar("Extracting " + filepath.Base(archive))
				opts = append(opts, xdb.UnpackWithProgress(bar.progressFunc()))
			}

			stats, err := xdb.Unpack(ctx, archive, opts...)
			bar.finish()
			if err != nil {
				return fmt.Errorf("%s: %w", archive, err)
			}

			line := fmt.Sprintf("%s: extracted %d files and %d folders (%d bytes)",
				archive, stats.Files, stats.Folders, stats.Bytes)
			if stats.Filtered > 0 {
				line += fmt.Sprintf(" (%d filtered)", stats.Filtered)
			}
			if stats.Failed > 0 {
				line += fmt.Sprintf(" (%d failed)", stats.Failed)
			}
			outMu.Lock()
			fmt.Fprintln(cmd.OutOrStdout(), line)
			outMu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
