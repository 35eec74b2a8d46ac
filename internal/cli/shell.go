package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

func (a *app) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively",
		Long: "Read commands line by line and run them as if passed to hwtrack.\n" +
			"Type \"exit\" or \"quit\" (or send EOF) to leave.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.inShell {
				return errors.New("already in a shell")
			}
			a.inShell = true
			defer func() { a.inShell = false }()
			return a.runShell()
		},
	}
}

func (a *app) runShell() error {
	if a.interactive {
		title := getVersion()
		fmt.Fprintf(a.out, "%s\n%s\n\n", title, strings.Repeat("~", len(title)))
	}
	outer := a.flags
	for {
		if a.interactive {
			fmt.Fprint(a.out, "> ")
		}
		line, err := a.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		words, perr := shellquote.Split(line)
		switch {
		case perr != nil:
			fmt.Fprintf(a.errOut, "Error: %s\n", perr)
		case len(words) == 0:
		case words[0] == "exit" || words[0] == "quit":
			return nil
		default:
			a.log.Debug("shell command", slog.Any("args", words))
			sub := a.rootCmd(outer)
			sub.SetArgs(words)
			if err := sub.Execute(); err != nil {
				fmt.Fprintf(a.errOut, "Error: %s\n", err)
			}
		}

		if eof {
			if a.interactive {
				fmt.Fprintln(a.out)
			}
			return nil
		}
	}
}
