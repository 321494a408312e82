// Command serious evaluates concise mathematical expressions.
//
// Usage:
//
//	serious [options] [--] [expr...]
//
// Each argument is evaluated as a separate expression. With no arguments,
// each non-empty line of standard input is an expression. Use -- before
// expressions that begin with a minus sign.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/serious"
)

type Option struct {
	Bind     []string `short:"b" long:"bind" value-name:"NAME=VALUE" description:"Bind a letter to the value of an expression (any number of times)"`
	Bindings string   `long:"bindings" value-name:"FILE" description:"YAML file mapping letters to values, applied before --bind"`
	Format   string   `long:"fmt" default:"%g" description:"Result formatting verb"`
	JSON     bool     `long:"json" description:"Print one JSON record per expression"`
	Echo     bool     `long:"echo" description:"Print the parse tree before each result"`
	Dump     bool     `long:"dump" description:"Pretty-print tokens and trees to stderr"`
	Jobs     int      `short:"j" long:"jobs" description:"Maximum expressions to evaluate at once (default GOMAXPROCS)"`
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("serious: ")
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole command. It returns 0 if every expression evaluated, 1 if
// any failed, and 2 for bad usage or configuration.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, log.Prefix(), log.Flags())
	var opt Option
	parser := flags.NewParser(&opt, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[options] [--] [expr...]"
	srcs, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}
		logger.Print(err)
		parser.WriteHelp(stderr)
		return 2
	}

	b := serious.Bindings{}
	if opt.Bindings != "" {
		b, err = loadBindings(opt.Bindings)
		if err != nil {
			logger.Print(err)
			return 2
		}
	}
	for _, s := range opt.Bind {
		if err := bind(b, s); err != nil {
			logger.Print(err)
			return 2
		}
	}

	if len(srcs) == 0 {
		srcs, err = readLines(stdin)
		if err != nil {
			logger.Printf("reading input: %v", err)
			return 1
		}
	}

	jobs := opt.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := evalAll(srcs, b, jobs)

	if opt.Dump {
		dump(stderr, results)
	}
	out := newPrinter(stdout, opt)
	for _, r := range results {
		if err := out.print(r); err != nil {
			logger.Printf("writing result: %v", err)
			return 1
		}
	}
	if lo.ContainsBy(results, func(r *result) bool { return r.err != nil }) {
		return 1
	}
	return 0
}

// readLines collects the non-empty lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lo.Filter(lines, func(s string, _ int) bool { return strings.TrimSpace(s) != "" }), nil
}

// result is the outcome of one expression.
type result struct {
	src  string
	toks []serious.Token
	expr *serious.Expr
	val  float64
	err  error
}

// evalAll parses and evaluates each of srcs with at most jobs at once.
// Results are in the same order as srcs.
func evalAll(srcs []string, b serious.Bindings, jobs int) []*result {
	results := make([]*result, len(srcs))
	var eg errgroup.Group
	eg.SetLimit(jobs)
	for i, src := range srcs {
		i, src := i, src
		eg.Go(func() error {
			results[i] = eval(src, b)
			return nil
		})
	}
	eg.Wait()
	return results
}

func eval(src string, b serious.Bindings) *result {
	r := &result{src: src}
	r.toks, r.err = serious.Tokenize(src)
	if r.err != nil {
		return r
	}
	r.expr, r.err = serious.Build(r.toks)
	if r.err != nil {
		return r
	}
	r.val, r.err = r.expr.Eval(b)
	return r
}
