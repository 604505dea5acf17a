package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitorpq/onescriber/utils"
)

const chatHelp = `Commands:
  /url <url>   transcribe a new video (clears the conversation)
  /retry       resend the last question that failed
  /history     show the conversation
  /quit        exit
Anything else is sent as a question about the transcript.`

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [URL]",
		Short: "Transcribe a video and ask questions about it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			session := newPipeline(cfg, logger, out).localSession(out)

			repl := &chatLoop{session: session, out: out}
			if len(args) == 1 {
				repl.transcribe(cmd.Context(), args[0])
			}
			return repl.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// chatLoop drives one Orchestrator from line-oriented input.
type chatLoop struct {
	session *utils.Orchestrator
	out     io.Writer

	// pending is the last question that failed and can be retried.
	pending string
}

func (l *chatLoop) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(l.out, chatHelp)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(l.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(l.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/help":
			fmt.Fprintln(l.out, chatHelp)
		case line == "/history":
			l.printHistory()
		case line == "/retry":
			if l.pending == "" {
				fmt.Fprintln(l.out, "Nothing to retry.")
				continue
			}
			l.ask(ctx, l.pending)
		case line == "/url" || strings.HasPrefix(line, "/url "):
			l.transcribe(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/url")))
		default:
			l.ask(ctx, line)
		}
	}
}

func (l *chatLoop) transcribe(ctx context.Context, url string) {
	result, err := l.session.Start(ctx, url)
	if errors.Is(err, utils.ErrEmptyURL) {
		fmt.Fprintln(l.out, "Please provide a YouTube URL: /url <url>")
		return
	}
	// Any other outcome started a new run, which cleared the transcript the
	// pending question was about.
	l.pending = ""
	if err != nil {
		fmt.Fprintf(l.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(l.out, "\n%s\n\n", result.Text())
}

func (l *chatLoop) ask(ctx context.Context, question string) {
	answer, err := l.session.Ask(ctx, question)
	if err != nil {
		var chatErr *utils.ChatError
		switch {
		case errors.Is(err, utils.ErrNoTranscript):
			fmt.Fprintln(l.out, "No transcript yet. Start with /url <url>.")
		case errors.As(err, &chatErr):
			l.pending = chatErr.Question
			fmt.Fprintf(l.out, "Error: %v\nType /retry to send the question again.\n", err)
		default:
			fmt.Fprintf(l.out, "Error: %v\n", err)
		}
		return
	}
	l.pending = ""
	fmt.Fprintf(l.out, "%s\n", answer)
}

func (l *chatLoop) printHistory() {
	history := l.session.History()
	if len(history) == 0 {
		fmt.Fprintln(l.out, "No messages yet.")
		return
	}
	for _, msg := range history {
		fmt.Fprintf(l.out, "%s: %s\n", msg.Role, msg.Content)
	}
}
