package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero"
	"gopkg.in/yaml.v3"

	"github.com/asakhar/cutils"
	"github.com/asakhar/cutils/cstr"
	"github.com/asakhar/cutils/errors"
	"github.com/asakhar/cutils/guestmem"
)

// report describes one string as the command prints it.
type report struct {
	Pointer   *uint32  `yaml:"pointer,omitempty"`
	Text      string   `yaml:"text"`
	Error     string   `yaml:"error,omitempty"`
	Units     []string `yaml:"units"`
	Width     int      `yaml:"width"`
	Length    int      `yaml:"length"`
	Capacity  int      `yaml:"capacity"`
	Consumed  int      `yaml:"consumed_bytes"`
	Truncated bool     `yaml:"truncated,omitempty"`
}

func formatUnits[T cstr.Unit](units []T) []string {
	digits := cstr.Width[T]() / 4
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = fmt.Sprintf("0x%0*X", digits, uint32(u))
	}
	return out
}

func viewReport[T cstr.Unit](v cstr.Viewer[T]) *report {
	view := v.View()
	r := &report{
		Width:    cstr.Width[T](),
		Units:    formatUnits(view.Units()),
		Length:   view.Len(),
		Capacity: view.Cap(),
	}
	var b strings.Builder
	if _, err := view.Display().WriteTo(&b); err != nil {
		r.Error = err.Error()
		r.Text = view.String()
	} else {
		r.Text = b.String()
	}
	return r
}

// encodeReport encodes text into an owned string, or into a fixed buffer
// of capacity units when capacity is positive. Overflowing the fixed
// buffer is reported as truncation, not as an error.
func encodeReport[T cstr.Unit](text string, capacity int) (*report, error) {
	if capacity <= 0 {
		s := cstr.New[T]()
		n, err := s.WriteString(text)
		if err != nil {
			return nil, err
		}
		r := viewReport[T](s)
		r.Consumed = n
		return r, nil
	}

	buf := make([]T, capacity+1)
	v := cstr.FromUnchecked(buf)
	n, err := cstr.NewCursor(v).WriteString(text)
	truncated := errors.Is(err, io.ErrShortWrite) || errors.Is(err, cstr.ErrWriteZero)
	if err != nil && !truncated {
		return nil, err
	}
	r := viewReport[T](v)
	r.Consumed = n
	r.Truncated = truncated
	return r, nil
}

// parseUnits parses hex code units separated by spaces or commas. A 0x
// prefix is optional.
func parseUnits(s string) ([]uint32, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]uint32, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimPrefix(strings.ToLower(f), "0x")
		v, err := strconv.ParseUint(f, 16, 32)
		if err != nil {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path(fmt.Sprintf("[%d]", i)).
				Value(f).
				Cause(err).
				Detail("bad unit %q", f).
				Build()
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// decodeReport builds a string of T from raw unit values. Values that do
// not fit T are rejected; a zero value ends the string.
func decodeReport[T cstr.Unit](raw []uint32) (*report, error) {
	units := make([]T, 0, len(raw)+1)
	var limit uint64 = 1<<cstr.Width[T]() - 1
	for i, u := range raw {
		if uint64(u) > limit {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path(fmt.Sprintf("[%d]", i)).
				Width(cstr.Width[T]()).
				Value(u).
				Detail("unit %#x does not fit", u).
				Build()
		}
		units = append(units, T(u))
	}
	v, err := cstr.From(append(units, 0))
	if err != nil {
		return nil, err
	}
	return viewReport[T](v), nil
}

// wasmReport instantiates the module at path and reads the string at ptr
// from its memory. When text is set it is first lowered into guest memory,
// through the module's allocator if it exports one, and ptr is ignored.
func wasmReport[T cstr.Unit](ctx context.Context, path, text string, ptr uint32, maxUnits int) (*report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("instantiate: %w", err)
	}
	mem := guestmem.NewWazeroMemory(mod.Memory())
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseMemory, "module has no memory")
	}

	if text != "" {
		var alloc cutils.Allocator
		if ga, err := guestmem.NewGuestAllocator(ctx, mod); err == nil {
			alloc = ga
		} else {
			base := max(ptr, 1024)
			alloc = guestmem.NewBump(base, mem.Size())
		}
		if ptr, _, err = guestmem.Lower[T](mem, alloc, text, nil); err != nil {
			return nil, err
		}
	}

	s, err := guestmem.ReadCString[T](mem, ptr, maxUnits)
	if err != nil {
		return nil, err
	}
	r := viewReport[T](s)
	r.Pointer = &ptr
	return r, nil
}

func writeReport(w io.Writer, r *report, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		if r.Pointer != nil {
			fmt.Fprintf(w, "Pointer:  %#x\n", *r.Pointer)
		}
		fmt.Fprintf(w, "Width:    %d-bit\n", r.Width)
		fmt.Fprintf(w, "Text:     %q\n", r.Text)
		fmt.Fprintf(w, "Units:    %s\n", strings.Join(r.Units, " "))
		fmt.Fprintf(w, "Length:   %d\n", r.Length)
		fmt.Fprintf(w, "Capacity: %d\n", r.Capacity)
		if r.Consumed > 0 {
			fmt.Fprintf(w, "Consumed: %d bytes\n", r.Consumed)
		}
		if r.Truncated {
			fmt.Fprintln(w, "Truncated: yes")
		}
		if r.Error != "" {
			fmt.Fprintf(w, "Error:    %s\n", r.Error)
		}
		return nil
	default:
		return errors.InvalidInput(errors.PhaseParse, "unknown output format "+strconv.Quote(format))
	}
}
