package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	ioutils "github.com/handiism/social-transcriber/internal/io"
)

// NewCombineCmd creates the combine command.
func NewCombineCmd() *cobra.Command {
	var dir, channel string

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Merge the transcripts of each folder into one file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			combined, err := ioutils.Combine(dir, channel)
			if err != nil {
				return fail(ExitFailure, "%v", err)
			}

			w := cmd.OutOrStdout()
			if len(combined) == 0 {
				fmt.Fprintln(w, warningStyle.Render("No transcripts found to combine in "+dir))
				return nil
			}

			folders := make([]string, 0, len(combined))
			for folder := range combined {
				folders = append(folders, folder)
			}
			sort.Strings(folders)

			for _, folder := range folders {
				fmt.Fprintf(w, "%s %s -> %s\n", successStyle.Render("✓"), folder, combined[folder])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "output", "Directory holding the transcript folders")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "Only combine this folder")
	return cmd
}
