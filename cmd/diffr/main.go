// Command diffr reads a unified diff on standard input, refines it with intra-line highlighting,
// and writes the annotated diff to standard output.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xerus2000/diffr/internal/byteview"
	"github.com/xerus2000/diffr/internal/color"
	"github.com/xerus2000/diffr/internal/config"
	"github.com/xerus2000/diffr/internal/emit"
	"github.com/xerus2000/diffr/internal/refine"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// ioError marks an error as originating from the stdin/stdout copy loop rather than from CLI
// parsing, so run can map it to the right exit code (spec.md §7).
type ioError struct{ err error }

func (e *ioError) Error() string { return e.err.Error() }
func (e *ioError) Unwrap() error { return e.err }

// run builds and executes the CLI. stdin/stdout/stderr are injected so tests can exercise the
// full flag-parsing and I/O-error paths without touching real OS files.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var colorsFlag []string
	var lineNumbers, versionFlag bool

	root := &cobra.Command{
		Use:           "diffr",
		Short:         "diffr adds intra-line highlighting to a unified diff",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if versionFlag {
				fmt.Fprintln(stdout, "diffr "+version)
				return nil
			}

			cfg := config.Default
			for _, spec := range colorsFlag {
				c, err := color.ParseColorsFlag(cfg.Colors, spec)
				if err != nil {
					return err
				}
				cfg.Colors = c
			}
			cfg.LineNumbers = lineNumbers

			if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				fmt.Fprintln(stderr, "diffr: reading from a terminal; pipe a unified diff on stdin (e.g. git diff | diffr)")
			}

			if err := refineStream(stdin, stdout, cfg); err != nil {
				return &ioError{err}
			}
			return nil
		},
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.Flags().StringArrayVar(&colorsFlag, "colors", nil, "override one color class: class:face(:face)*, repeatable")
	root.Flags().BoolVar(&lineNumbers, "line-numbers", false, "prefix context/removed/added lines with reconstructed line numbers")
	root.Flags().BoolVarP(&versionFlag, "version", "V", false, "print version and exit")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "diffr: %v\n", err)
		var ioErr *ioError
		if errors.As(err, &ioErr) {
			return 1
		}
		return 2
	}
	return 0
}

// refineStream drives one pass of the refinement pipeline over r, writing annotated output to w.
// It reads all of r up front so the input can be split on '\n' with byteview.SplitLines rather
// than a hand-rolled bufio.ReadBytes loop: diffr refines whole hunks at a time anyway, so nothing
// downstream benefits from bounding the read to less than one process's worth of input.
func refineStream(r io.Reader, w io.Writer, cfg config.Config) error {
	out := emit.NewWriter(w, cfg)
	ref := refine.NewRefiner(out, cfg.Optimal)

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	lines, _ := byteview.SplitLines(byteview.From(data))
	for _, line := range lines {
		if err := ref.Write(line.RawBytes()); err != nil {
			return err
		}
	}
	if err := ref.Close(); err != nil {
		return err
	}
	return out.Flush()
}
