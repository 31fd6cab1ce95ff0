// Command pbcat streams stdin through a pagebuf.Buffer and a LineReader,
// echoing each complete line to stdout, in the spirit of cat but exercising
// the page-chain write/line-scan path instead of a raw io.Copy.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/SimonWaldherr/pagebuf"
)

var (
	flagPreset  = flag.String("preset", "default", "buffer strategy preset (default, zero-copy-streaming, fixed-page-copy, append-only)")
	flagMaxLine = flag.Int("max-line", pagebuf.LineMax, "maximum line length before a boundary is forced")
)

func main() {
	flag.Parse()
	if err := run(os.Stdin, os.Stdout, *flagPreset, *flagMaxLine); err != nil {
		log.Fatalf("pbcat: %v", err)
	}
}

func run(in io.Reader, out io.Writer, presetName string, maxLine int) error {
	strategy, ok := pagebuf.StrategyPreset(presetName)
	if !ok {
		return fmt.Errorf("unknown preset %q", presetName)
	}
	buf := pagebuf.New(strategy)
	fmt.Fprintf(out, "pbcat session %s (preset %q)\n", buf.ID(), presetName)

	r := bufio.NewReaderSize(in, 64*1024)
	chunk := make([]byte, 64*1024)
	lines := buf.NewLineReaderWithMax(maxLine)

	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			buf.WriteData(chunk[:n])
			if err := drainLines(lines, out); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	lines.TerminateLine()
	if err := drainLines(lines, out); err != nil {
		return err
	}

	fmt.Fprintln(out, buf.Stats().String())
	return nil
}

func drainLines(lines *pagebuf.LineReader, out io.Writer) error {
	for lines.HasLine() {
		line := make([]byte, lines.LineLen())
		lines.LineData(line)
		if _, err := fmt.Fprintf(out, "%s\n", line); err != nil {
			return err
		}
		lines.SeekLine()
	}
	return nil
}
