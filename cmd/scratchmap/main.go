// Command scratchmap maps a 4 KiB scratch file into memory, writes a message
// through the mapping, reads it back and tears everything down.
//
// It takes no arguments and no flags. Failed steps and failed cleanups are
// logged to stderr as text. The exit status is 0 on success and 1 if any
// step fails.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"

	"github.com/hupe1980/scratchmap"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...scratchmap.Option) int {
	cmd := newRootCmd(opts...)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(opts ...scratchmap.Option) *cobra.Command {
	return &cobra.Command{
		Use:           "scratchmap",
		Short:         "Demonstrate a shared memory mapping of a scratch file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := scratchmap.NewTextLogger(cmd.ErrOrStderr(), slog.LevelWarn)
			runOpts := append([]scratchmap.Option{scratchmap.WithLogger(logger)}, opts...)

			res, err := scratchmap.Run(cmd.Context(), runOpts...)
			report(cmd.OutOrStdout(), res)
			return err
		},
	}
}

// report prints as much of the run as completed.
func report(w io.Writer, res *scratchmap.Result) {
	if res.Addr != 0 {
		fmt.Fprintf(w, "Memory mapped at address: %#x\n", res.Addr)
	}
	if slices.Contains(res.Steps, scratchmap.StepWritten) {
		fmt.Fprintf(w, "Written to memory: %s\n", res.Written)
	}
	if slices.Contains(res.Steps, scratchmap.StepRead) {
		fmt.Fprintf(w, "Read from memory: %s\n", res.Read)
	}
	if res.Step() == scratchmap.StepDone {
		fmt.Fprintln(w, "Test completed successfully.")
	}
}
