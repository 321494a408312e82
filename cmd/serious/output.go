package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"

	"github.com/zephyrtronium/serious"
)

// printer writes results to the output in the selected format.
type printer struct {
	w      io.Writer
	format string
	json   bool
	echo   bool
	tty    bool
	caret  *color.Color
}

func newPrinter(w io.Writer, opt Option) *printer {
	p := &printer{
		w:      w,
		format: opt.Format + "\n",
		json:   opt.JSON,
		echo:   opt.Echo,
		tty:    isTerminal(w),
		caret:  color.New(color.FgRed, color.Bold),
	}
	if p.tty {
		p.caret.EnableColor()
	} else {
		p.caret.DisableColor()
	}
	return p
}

func (p *printer) print(r *result) error {
	if p.json {
		return p.printJSON(r)
	}
	if r.err != nil {
		return p.printErr(r)
	}
	if p.echo {
		if _, err := fmt.Fprintf(p.w, "%v : ", r.expr); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.w, p.format, r.val)
	return err
}

// printErr writes the error of r followed by the source with the error's
// span underlined.
func (p *printer) printErr(r *result) error {
	e, ok := r.err.(*serious.Error)
	if !ok {
		_, err := fmt.Fprintf(p.w, "error: %v\n", r.err)
		return err
	}
	u := e.Underline(r.src)
	k := strings.LastIndexByte(u, '\n')
	_, err := fmt.Fprintf(p.w, "error: %v: %s\n%s\n%s\n", e.Kind, e.Message, u[:k], p.caret.Sprint(u[k+1:]))
	return err
}

// record is the JSON form of a result.
type record struct {
	Expr  string         `json:"expr"`
	Tree  string         `json:"tree,omitempty"`
	Value *float64       `json:"value,omitempty"`
	Error *serious.Error `json:"error,omitempty"`
}

func (p *printer) printJSON(r *result) error {
	rec := record{Expr: r.src}
	if r.expr != nil && p.echo {
		rec.Tree = r.expr.String()
	}
	if r.err == nil {
		rec.Value = &r.val
	} else if e, ok := r.err.(*serious.Error); ok {
		rec.Error = e
	} else {
		return r.err
	}
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if p.tty {
		opts = append(opts, json.Colorize(json.DefaultColorScheme))
	}
	b, err := json.MarshalWithOption(rec, opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalWithOption: %w", err)
	}
	b = append(b, '\n')
	_, err = p.w.Write(b)
	return err
}

// dump pretty-prints the tokens and tree of each result.
func dump(w io.Writer, results []*result) {
	old := pp.ColoringEnabled
	pp.ColoringEnabled = isTerminal(w)
	defer func() { pp.ColoringEnabled = old }()
	for _, r := range results {
		fmt.Fprintf(w, "%q\n", r.src)
		if r.toks != nil {
			pp.Fprintln(w, r.toks)
		}
		if r.expr != nil {
			pp.Fprintln(w, r.expr.Root())
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
