package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/metaphox/minic/ast"
	"github.com/metaphox/minic/config"
	"github.com/metaphox/minic/lexer"
	"github.com/metaphox/minic/parser"
	"github.com/metaphox/minic/printer"
	"github.com/metaphox/minic/watch"
)

const (
	exitOK = iota
	exitDiagnostic
	exitFailure
)

var version = "dev"

type options struct {
	configPath  string
	format      string
	maxLexeme   int
	maxSet      bool
	watch       bool
	verbose     bool
	silent      bool
	showHelp    bool
	showVersion bool
	file        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("minic", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.StringVarP(&o.configPath, "config", "c", "", "Path to a TOML configuration file (default $"+config.EnvPath+")")
	fs.StringVarP(&o.format, "format", "f", "", "Output format: source, tree, yaml or json")
	fs.IntVar(&o.maxLexeme, "max-lexeme", 0, "Maximum length of an identifier or number")
	fs.BoolVarP(&o.watch, "watch", "w", false, "Re-parse FILE on every write until interrupted")
	fs.BoolVar(&o.verbose, "verbose", false, "Logs additional information; incompatible with \"silent\"")
	fs.BoolVar(&o.silent, "silent", false, "Logs only fatal errors; incompatible with \"verbose\"")
	fs.BoolVarP(&o.showHelp, "help", "h", false, "Print usage information (this message) and quit")
	fs.BoolVarP(&o.showVersion, "version", "v", false, "Print version information and quit")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "\nUsage of minic %s\n    minic [flags] FILE\n", version)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}
	if o.showHelp {
		fs.Usage()
		return exitOK
	}
	if o.showVersion {
		_, _ = fmt.Fprintf(stdout, "minic %s\n", version)
		return exitOK
	}
	if fs.NArg() != 1 || (o.verbose && o.silent) {
		fs.Usage()
		return exitFailure
	}
	o.file = fs.Arg(0)
	o.maxSet = fs.Changed("max-lexeme")

	cfg, err := settings(o)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "minic: %v\n", err)
		return exitFailure
	}

	al := zap.NewAtomicLevelAt(cfg.Level())
	if o.verbose {
		al.SetLevel(zap.DebugLevel)
	}
	if o.silent {
		al.SetLevel(zap.FatalLevel)
	}
	out, errOut := lockedOutputs(stdout, stderr)
	ec := zap.NewDevelopmentEncoderConfig()
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), errOut, al))
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	popts := []parser.Option{
		parser.WithLogger(logger),
		parser.WithLexerOptions(lexer.WithMaxLexemeLen(cfg.MaxLexemeLen)),
	}
	format := cfg.OutputFormat()
	log.Debugf("Parsing %s (format %s, max lexeme %d)", o.file, format, cfg.MaxLexemeLen)

	if o.watch {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		return watchFile(o.file, format, logger, popts, out, errOut, sigCh)
	}

	f, err := os.Open(o.file) // #nosec: the path is supplied by the user on purpose
	if err != nil {
		log.Errorf("Failed to open source: %v", err)
		return exitFailure
	}
	defer f.Close()

	prog, err := parser.ParseReader(f, popts...)
	return report(o.file, prog, err, format, out, errOut, log)
}

// lockedOutputs serializes writes to stdout and stderr. Diagnostics and log
// lines share stderr and may come from the watcher goroutine.
func lockedOutputs(stdout, stderr io.Writer) (out, errOut zapcore.WriteSyncer) {
	return zapcore.Lock(zapcore.AddSync(stdout)), zapcore.Lock(zapcore.AddSync(stderr))
}

// settings merges the config file with the command-line overrides.
func settings(o options) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.format != "" {
		cfg.Format = o.format
	}
	if o.maxSet {
		cfg.MaxLexemeLen = o.maxLexeme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// report prints the program or the diagnostic and returns the exit code.
func report(path string, prog *ast.Program, err error, format printer.Format, stdout, stderr io.Writer, log *zap.SugaredLogger) int {
	if err != nil {
		if line, col, ok := position(err); ok {
			_, _ = fmt.Fprintf(stderr, "%s:%d:%d: %v\n", path, line, col, err)
			return exitDiagnostic
		}
		log.Errorf("Failed to parse %s: %v", path, err)
		return exitFailure
	}
	if err := printer.Fprint(stdout, prog, format); err != nil {
		log.Errorf("Failed to print program: %v", err)
		return exitFailure
	}
	log.Debugf("Parsed %d statements", len(prog.Statements))
	return exitOK
}

// position extracts the source location of lexical and syntax errors.
func position(err error) (line, col int, ok bool) {
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return se.Line, se.Col, true
	}
	var le *lexer.LexicalError
	if errors.As(err, &le) {
		return le.Line, le.Col, true
	}
	return 0, 0, false
}

// watchFile reports every parse of path until stop delivers a signal.
func watchFile(path string, format printer.Format, logger *zap.Logger, popts []parser.Option, stdout, stderr io.Writer, stop <-chan os.Signal) int {
	log := logger.Sugar()
	w, err := watch.New(path, func(p string, prog *ast.Program, err error) {
		report(p, prog, err, format, stdout, stderr, log)
	}, logger, popts...)
	if err != nil {
		log.Errorf("Failed to watch %s: %v", path, err)
		return exitFailure
	}
	log.Infof("Watching %s", path)
	<-stop
	log.Infof("Shutting down")
	if err := w.Close(); err != nil {
		log.Errorf("Failed to stop watcher: %v", err)
		return exitFailure
	}
	return exitOK
}
