package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/utf8arena"
	"github.com/wippyai/utf8arena/abi"
	"github.com/wippyai/utf8arena/arena"
	"github.com/wippyai/utf8arena/senders"
	"github.com/wippyai/utf8arena/transcoder"
	"github.com/wippyai/utf8arena/wasmhost"
)

func main() {
	var (
		width       = flag.Uint("width", 1, "Code unit width: 1, 2 or 4")
		inFile      = flag.String("in", "", "File of raw native-endian code units (- for stdin)")
		text        = flag.String("text", "", `Text to encode; \xHH, \uHHHH and \UHHHHHHHH give raw units`)
		hexOut      = flag.Bool("hex", false, "Print a hex dump instead of raw UTF-8")
		alias       = flag.Bool("alias", false, "Return all-ASCII width 1 input without copying")
		describe    = flag.Bool("describe", false, "Print the WebAssembly host interface and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	senders.SetLogger(log)
	wasmhost.SetLogger(log)

	if *describe {
		host := wasmhost.New(abi.New(abi.DefaultOptions()))
		if err := host.Describe(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := transcoder.Options{AliasASCII: *alias}

	if *interactive {
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *inFile == "" && *text == "" {
		fmt.Fprintln(os.Stderr, "Usage: pystr -width 1|2|4 -text STRING [-hex]")
		fmt.Fprintln(os.Stderr, "       pystr -width 1|2|4 -in FILE [-hex]")
		fmt.Fprintln(os.Stderr, "       pystr -describe")
		fmt.Fprintln(os.Stderr, "       pystr -i  (interactive mode)")
		os.Exit(1)
	}

	if *width > 4 {
		fmt.Fprintf(os.Stderr, "Error: unsupported width %d\n", *width)
		os.Exit(1)
	}

	dump := *hexOut || term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(log, opts, utf8arena.Width(*width), *inFile, *text, dump); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(log *zap.Logger, opts transcoder.Options, w utf8arena.Width, inFile, text string, dump bool) error {
	raw, err := readInput(w, inFile, text)
	if err != nil {
		return err
	}

	a := arena.New()
	defer a.Release()

	out, err := transcoder.NewEncoder(opts).Encode(a, w, raw)
	if err != nil {
		return err
	}
	log.Debug("encoded",
		zap.Stringer("width", w),
		zap.Int("in_bytes", len(raw)),
		zap.Int("out_bytes", len(out)),
		zap.Any("stats", a.Stats()))

	if !dump {
		_, err = os.Stdout.Write(out)
		return err
	}
	pos := a.Tell()
	fmt.Printf("%s, %d code units -> %d bytes (chain %d, offset %d)\n",
		w, len(raw)/int(w), len(out), pos.Chain, pos.Offset)
	fmt.Print(hex.Dump(out))
	return nil
}

func readInput(w utf8arena.Width, inFile, text string) ([]byte, error) {
	switch {
	case inFile == "-":
		return io.ReadAll(os.Stdin)
	case inFile != "":
		return os.ReadFile(inFile)
	}
	units, err := parseUnits(text)
	if err != nil {
		return nil, err
	}
	return packUnits(units, w)
}
