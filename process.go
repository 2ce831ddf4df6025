package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// outcome accumulates the flags that decide the run's final exit status.
// One value is shared across every input of a run.
type outcome struct {
	foundExisting bool
	foundConflict bool
}

// finish emits the end-of-run note when appropriate and returns the
// process exit code. It must be called only after all output has been
// produced.
func (res *outcome) finish(errw io.Writer) int {
	if res.foundConflict {
		return 1
	}
	if res.foundExisting {
		fmt.Fprint(errw, "Note: some instructions that this program is able to encode, were already encoded. These encodings have been checked.\n")
	}
	return 0
}

// rewriteLine handles a single input line, terminator included, and
// returns the line to emit in its place. name prefixes diagnostics when
// processing a named file; it is empty for stdin.
func rewriteLine(line string, lineno int, name string, errw io.Writer, res *outcome) string {
	mcode, match := encode(line)
	if mcode == 0 {
		return line
	}

	existing := readExistingEncoding(line)
	if existing != 0 {
		res.foundExisting = true
		if mcode != existing {
			res.foundConflict = true
			where := fmt.Sprintf("line %d", lineno)
			if name != "" {
				where = fmt.Sprintf("%s line %d", name, lineno)
			}
			fmt.Fprintf(errw, "Error at %s: existing encoding 0x%x differs from encoding 0x%x for instruction '%s':\n\n%s\n\n",
				where, uint32(existing), uint32(mcode), match, line)
		}
		// Already annotated: report any disagreement but never rewrite.
		return line
	}

	repl := fmt.Sprintf(".word 0x%x  // %s", uint32(mcode), match)
	return strings.Replace(line, match, repl, 1)
}

// processLines streams r to w, rewriting recognized instructions into
// .word directives one line at a time. Lines are passed through with their
// original terminators (or lack of one on the final line) so that
// unrecognized input survives byte-for-byte.
func processLines(r io.Reader, w io.Writer, errw io.Writer, name string, res *outcome) error {
	br := bufio.NewReader(r)
	lineno := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineno++
			if _, werr := io.WriteString(w, rewriteLine(line, lineno, name, errw, res)); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// processFile runs the line pipeline over one named file. With write set
// the result replaces the file (only after the whole file has been
// processed); otherwise it is streamed to w.
func processFile(name string, w, errw io.Writer, write bool, res *outcome) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if !write {
		return processLines(f, w, errw, name, res)
	}

	info, err := f.Stat()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := processLines(f, &buf, errw, name, res); err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), info.Mode().Perm())
}
