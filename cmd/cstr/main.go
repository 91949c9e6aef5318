package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/asakhar/cutils/cstr"
	"github.com/asakhar/cutils/errors"
)

type options struct {
	text     string
	width    string
	decode   string
	wasmFile string
	format   string
	capacity int
	maxUnits int
	ptr      uint
}

func main() {
	var (
		opts        options
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log debug output to stderr")
	)
	flag.StringVar(&opts.text, "text", "", "Text to encode")
	flag.StringVar(&opts.width, "width", "8", "Code unit width: 8, 16, 32 or wide")
	flag.IntVar(&opts.capacity, "cap", 0, "Encode into a fixed buffer of this many units (0 = growable)")
	flag.StringVar(&opts.decode, "decode", "", "Decode hex code units (e.g. \"68 69\")")
	flag.StringVar(&opts.wasmFile, "wasm", "", "Path to a core wasm module to read from")
	flag.UintVar(&opts.ptr, "ptr", 0, "Guest pointer to read with -wasm")
	flag.IntVar(&opts.maxUnits, "max", 4096, "Maximum units to scan in guest memory")
	flag.StringVar(&opts.format, "o", "text", "Output format: text or yaml")
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			cstr.SetLogger(logger)
			defer logger.Sync()
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts.text); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if opts.text == "" && opts.decode == "" && opts.wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: cstr -text <text> [-width 8|16|32|wide] [-cap n] [-o text|yaml]")
		fmt.Fprintln(os.Stderr, "       cstr -decode \"68 69\" [-width ...]")
		fmt.Fprintln(os.Stderr, "       cstr -wasm <module.wasm> -ptr <addr> [-text <text>] [-max n]")
		fmt.Fprintln(os.Stderr, "       cstr -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(context.Background(), os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, opts options) error {
	var (
		r   *report
		err error
	)
	switch resolveWidth(opts.width) {
	case 8:
		r, err = inspect[uint8](ctx, opts)
	case 16:
		r, err = inspect[uint16](ctx, opts)
	case 32:
		r, err = inspect[uint32](ctx, opts)
	default:
		return errors.InvalidInput(errors.PhaseParse, "width must be 8, 16, 32 or wide")
	}
	if err != nil {
		return err
	}
	return writeReport(w, r, opts.format)
}

// resolveWidth maps a -width value to a bit count, or 0 when it is invalid.
func resolveWidth(s string) int {
	switch s {
	case "8":
		return 8
	case "16":
		return 16
	case "32":
		return 32
	case "wide":
		return cstr.Width[cstr.WideUnit]()
	default:
		return 0
	}
}

func inspect[T cstr.Unit](ctx context.Context, opts options) (*report, error) {
	switch {
	case opts.wasmFile != "":
		if opts.ptr > 0xFFFFFFFF {
			return nil, errors.InvalidInput(errors.PhaseParse, "pointer exceeds 32 bits")
		}
		return wasmReport[T](ctx, opts.wasmFile, opts.text, uint32(opts.ptr), opts.maxUnits)
	case opts.decode != "":
		raw, err := parseUnits(opts.decode)
		if err != nil {
			return nil, err
		}
		return decodeReport[T](raw)
	default:
		return encodeReport[T](opts.text, opts.capacity)
	}
}
