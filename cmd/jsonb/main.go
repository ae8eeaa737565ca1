// Command jsonb formats, checks and inspects JSONB text.
//
// Usage:
//
//	jsonb fmt [flags] [file...]        parse and re-render as JSONB
//	jsonb inspect [flags] [file...]    render within a length/depth budget
//	jsonb check [flags] [file...]      parse only; report failures
//	jsonb from-json [flags] [file...]  read strict JSON with the go-json driver, print JSONB
//
// With no files, or with "-", input is read from stdin.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/reoring/jsonb"
	"github.com/reoring/jsonb/codec"
	_ "github.com/reoring/jsonb/source"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `jsonb - JSON-superset codec

Usage:
  jsonb fmt [flags] [file...]
  jsonb inspect [flags] [file...]
  jsonb check [flags] [file...]
  jsonb from-json [flags] [file...]

Run "jsonb <command> --help" for flags.
`)
}

// flags shared by every subcommand.
type commonFlags struct {
	config    string
	indent    string
	compact   bool
	strict    bool
	jsonc     bool
	color     bool
	workers   int
	dup       string
	maxLength int
	maxDepth  int
	verbose   bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "fmt", "inspect", "check", "from-json":
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		printUsage(stderr)
		return errUsage
	}

	var cf commonFlags
	fs := pflag.NewFlagSet("jsonb "+cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cf.config, "config", "", "YAML configuration file")
	fs.StringVar(&cf.indent, "indent", "2", "indent: a number of spaces or a literal string")
	fs.BoolVar(&cf.compact, "compact", false, "compact output (no indentation)")
	fs.BoolVar(&cf.strict, "strict", false, "plain JSON only: disable undefined, NaN, Infinity and bigint")
	fs.BoolVar(&cf.jsonc, "jsonc", false, "strip comments and trailing commas before parsing")
	fs.BoolVar(&cf.color, "color", false, "highlight output for a 256-color terminal")
	fs.IntVar(&cf.workers, "workers", 4, "files processed concurrently")
	fs.StringVar(&cf.dup, "dup", "", "duplicate keys: ignore, warn or error")
	fs.IntVar(&cf.maxLength, "max-length", jsonb.Unbounded, "inspect: output length budget (-1 unbounded)")
	fs.IntVar(&cf.maxDepth, "max-depth", jsonb.Unbounded, "inspect: nesting depth budget (-1 unbounded)")
	fs.BoolVarP(&cf.verbose, "verbose", "v", false, "debug logging")
	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	logLevel := slog.LevelInfo
	if cf.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := loadConfig(fs, &cf, logger)
	if err != nil {
		return err
	}

	files := fs.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	proc := processor{cmd: cmd, cf: cf, cfg: cfg, logger: logger}
	proc.roundTrip, proc.inspection = codec.FromConfig(cfg)

	results := proc.runAll(files, stdin)
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			logger.Error("failed", "file", r.name, "error", r.err)
			continue
		}
		if _, err := io.WriteString(stdout, r.out); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

// loadConfig reads --config (if any) and applies flag overrides.
func loadConfig(fs *pflag.FlagSet, cf *commonFlags, logger *slog.Logger) (jsonb.Config, error) {
	cfg := jsonb.DefaultConfig()
	cfg.Indent = 2
	if cf.config != "" {
		c, err := jsonb.LoadConfig(cf.config)
		if err != nil {
			return jsonb.Config{}, err
		}
		cfg = c
		logger.Debug("loaded config", "path", cf.config)
	}
	if fs.Changed("indent") || cf.config == "" {
		cfg.Indent = indentArg(cf.indent)
	}
	if cf.compact {
		cfg.Indent = nil
	}
	if cf.strict {
		limits := cfg.RoundTrip.Limits
		cfg.RoundTrip = jsonb.StrictJSON()
		cfg.RoundTrip.Limits = limits
		cfg.Inspect.BigInt, cfg.Inspect.Undefined, cfg.Inspect.NaN = false, false, false
		cfg.Inspect.Infinity, cfg.Inspect.NegativeInfinity = false, false
	}
	if cf.dup != "" {
		sev, ok := map[string]jsonb.Severity{"ignore": jsonb.Ignore, "warn": jsonb.Warn, "error": jsonb.Error}[strings.ToLower(cf.dup)]
		if !ok {
			return jsonb.Config{}, fmt.Errorf("--dup: unknown value %q", cf.dup)
		}
		cfg.RoundTrip.Limits.OnDuplicateKey = sev
	}
	if fs.Changed("max-length") {
		cfg.Budget.MaxLength = cf.maxLength
	}
	if fs.Changed("max-depth") {
		cfg.Budget.MaxDepth = cf.maxDepth
	}
	if cf.workers < 1 {
		cf.workers = 1
	}
	return cfg, nil
}

// indentArg turns the --indent value into a Stringify indent argument.
func indentArg(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

type processor struct {
	cmd        string
	cf         commonFlags
	cfg        jsonb.Config
	logger     *slog.Logger
	roundTrip  codec.Codec
	inspection codec.Codec
}

type result struct {
	name string
	out  string
	err  error
}

// runAll processes files on a worker pool and returns results in input
// order. stdin is consumed at most once.
func (p *processor) runAll(files []string, stdin io.Reader) []result {
	results := make([]result, len(files))
	pool, err := ants.NewPool(p.cf.workers)
	if err != nil {
		for i, f := range files {
			results[i] = result{name: f, err: err}
		}
		return results
	}
	defer pool.Release()

	var stdinOnce sync.Once
	var stdinData []byte
	var stdinErr error
	read := func(name string) ([]byte, error) {
		if name != "-" {
			return os.ReadFile(name)
		}
		stdinOnce.Do(func() { stdinData, stdinErr = io.ReadAll(stdin) })
		return stdinData, stdinErr
	}

	var wg sync.WaitGroup
	for i, name := range files {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			data, err := read(name)
			if err != nil {
				results[i] = result{name: name, err: err}
				return
			}
			out, err := p.process(name, data)
			results[i] = result{name: name, out: out, err: err}
		})
		if err != nil {
			wg.Done()
			results[i] = result{name: name, err: err}
		}
	}
	wg.Wait()
	return results
}

func (p *processor) process(name string, data []byte) (string, error) {
	if p.cf.jsonc {
		data = jsonc.ToJSON(data)
	}
	opts := p.cfg.RoundTrip
	opts.Limits.IssueSink = func(is jsonb.Issue) {
		p.logger.Warn(is.Message, "file", name, "code", is.Code, "path", is.Path, "offset", is.Offset)
	}

	var v any
	var err error
	if p.cmd == "from-json" {
		v, err = jsonb.ParseSource(jsonb.JSONBytes(data), nil, opts)
	} else {
		v, err = jsonb.Parse(string(data), nil, opts)
	}
	if err != nil {
		return "", err
	}
	p.logger.Debug("parsed", "file", name, "kind", jsonb.Classify(v).String(), "bytes", len(data))

	var text string
	switch p.cmd {
	case "check":
		return name + ": ok\n", nil
	case "inspect":
		text, err = p.inspection.Encode(v)
	default:
		text, err = p.roundTrip.Encode(v)
	}
	if err != nil {
		return "", err
	}
	if p.cf.color {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, text, "javascript", "terminal256", "monokai"); err == nil {
			text = buf.String()
		}
	}
	return text + "\n", nil
}
