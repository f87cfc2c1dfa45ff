package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	ioutils "github.com/handiism/social-transcriber/internal/io"
	"github.com/handiism/social-transcriber/internal/thread"
)

// NewThreadCmd creates the thread command.
func NewThreadCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "thread <transcript file or folder>",
		Short: "Turn transcripts into short-post thread files",
		Example: `  social-transcriber thread "output/Creator/My Talk.txt"
  social-transcriber thread output/Creator -o output/threads`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := threadInputs(args[0])
			if err != nil {
				return fail(ExitFailure, "%v", err)
			}

			w := cmd.OutOrStdout()
			if len(inputs) == 0 {
				fmt.Fprintln(w, warningStyle.Render("No transcripts found in "+args[0]))
				return nil
			}

			used := make(map[string]bool)
			for _, in := range inputs {
				th, err := thread.FromFile(in)
				if err != nil {
					return fail(ExitFailure, "%v", err)
				}

				name := thread.FileName(th.Topic)
				stem := strings.TrimSuffix(name, ioutils.ThreadSuffix+".txt")
				stem = ioutils.UniqueName(stem, func(candidate string) bool { return used[candidate] })
				used[stem] = true

				out := filepath.Join(outputDir, stem+ioutils.ThreadSuffix+".txt")
				if err := thread.Write(out, th); err != nil {
					return fail(ExitFailure, "%v", err)
				}
				fmt.Fprintf(w, "%s %s -> %s\n", successStyle.Render("✓"), in, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", filepath.Join("output", "threads"), "Directory for thread files")
	return cmd
}

// threadInputs resolves a transcript file or every transcript below a
// folder.
func threadInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return ioutils.TranscriptFiles(path)
}
