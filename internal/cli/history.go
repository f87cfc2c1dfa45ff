package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/handiism/social-transcriber/internal/store"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd(st *state) *cobra.Command {
	var limit int
	var outputDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent job outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output-dir") {
				outputDir = st.settings.OutputDir
			}

			path := store.DefaultPath(outputDir)
			w := cmd.OutOrStdout()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(w, dimStyle.Render("No history yet in "+outputDir))
				return nil
			}

			ledger, err := store.Open(path)
			if err != nil {
				return fail(ExitFailure, "%v", err)
			}
			defer ledger.Close()

			entries, err := ledger.Recent(cmd.Context(), limit)
			if err != nil {
				return fail(ExitFailure, "%v", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(w, dimStyle.Render("No history yet in "+outputDir))
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tSTATUS\tDURATION\tVIDEO\tRESULT")
			for _, e := range entries {
				result := e.Path
				if e.Status == store.StatusFailed {
					result = e.Error
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.At.Local().Format("2006-01-02 15:04:05"),
					e.Status,
					e.Duration.Round(time.Second),
					e.VideoURL,
					result,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "output", "Output directory holding the ledger")
	return cmd
}
