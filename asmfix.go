// asmfix rewrites dot-product instructions that older assemblers cannot
// encode into equivalent .word directives, keeping the original mnemonic
// in a trailing comment:
//
//	udot v16.4s, v4.16b, v0.16b
//
// becomes
//
//	.word 0x6e809490  // udot v16.4s, v4.16b, v0.16b
//
// Lines that already carry a .word directive next to a recognizable
// mnemonic are verified against the freshly computed word instead of being
// rewritten; any disagreement is reported and fails the run.
package main

import (
	"bufio"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"github.com/xyproto/env/v2"
)

var (
	writeInPlace bool
	debugRules   bool
)

var rootCmd = &cobra.Command{
	Use:   "asmfix [files...]",
	Short: "Encode dot-product instructions into .word directives",
	Long: `asmfix scans assembly source for dot-product instructions (udot, sdot)
that some toolchains cannot assemble, and rewrites each one into a .word
directive carrying its machine-code word, with the original instruction
preserved in a comment. With no arguments it filters stdin to stdout.

Already-annotated lines are checked rather than rewritten: if an existing
.word value disagrees with the computed encoding, the line is left alone,
a diagnostic naming both words is printed to stderr, and the run exits
with status 1 once all input has been processed.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if debugRules {
			spew.Fdump(os.Stderr, encodeRules)
		}

		out := bufio.NewWriter(os.Stdout)
		atexit.Register(func() { out.Flush() })

		var res outcome
		if len(args) == 0 {
			if err := processLines(os.Stdin, out, os.Stderr, "", &res); err != nil {
				return err
			}
		} else {
			for _, name := range args {
				if err := processFile(name, out, os.Stderr, writeInPlace, &res); err != nil {
					return err
				}
			}
		}

		out.Flush()
		atexit.Exit(res.finish(os.Stderr))
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "write results back to the source files instead of stdout")
	rootCmd.Flags().BoolVar(&debugRules, "debug", env.Bool("ASMFIX_DEBUG"), "dump the compiled rule table before processing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(2)
	}
}
