package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meigma/xdb"
)

func newListCmd() *cobra.Command {
	var versions versionFlags
	cmd := &cobra.Command{
		Use:   "list <ARCHIVE>",
		Short: "Print every entry of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			af, err := xdb.OpenArchive(args[0], versions.version(), xdb.WithLogger(logger))
			if err != nil {
				return err
			}
			defer af.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "OFFSET\tREAL\tSTORED\tCRC\tPATH")
			for e := range af.Entries() {
				if e.Folder {
					fmt.Fprintf(w, "-\t-\t-\t-\t%s/\n", e.Path)
					continue
				}
				crc := "-"
				if e.HasCRC {
					crc = fmt.Sprintf("%08x", e.CRC)
				}
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", e.Offset, e.SizeReal, e.SizeCompressed, crc, e.Path)
			}
			if ud, ok := af.UserData(); ok {
				fmt.Fprintf(w, "\t\t%d\t\t(userdata)\n", len(ud))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries, version %s\n", af.Path(), af.Len(), af.Version())
			return nil
		},
	}
	versions.register(cmd)
	return cmd
}
