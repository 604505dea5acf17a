package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTranscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe [URL]",
		Short: "Download, transcribe and format a YouTube video",
		Example: `  onescriber transcribe "https://www.youtube.com/watch?v=abc123"
  TRANSCRIBER=api onescriber transcribe https://youtu.be/abc123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			session := newPipeline(cfg, logger, out).localSession(out)

			result, err := session.Start(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nTranscript saved to %s (formatted: %s)\n\n", cfg.TranscriptPath, cfg.FormattedPath)
			fmt.Fprintln(out, result.Text())
			return nil
		},
	}
}
