package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/e4s-project/e4s-cl-completion/internal/bash"
	"github.com/e4s-project/e4s-cl-completion/internal/completion"
	"github.com/e4s-project/e4s-cl-completion/internal/config"
	"github.com/e4s-project/e4s-cl-completion/internal/grammar"
	"github.com/e4s-project/e4s-cl-completion/internal/profile"
	"go.uber.org/zap"
)

var BUILD_VERSION = "dev"

// executable locates the handler registered in the completion directive.
var executable = os.Executable

const helpText = `e4s-cl-complete - bash completion for e4s-cl

USAGE:
  eval "$(e4s-cl-complete)"    Register the completion in the current shell

When run by bash's "complete -C", the line being completed is read from
COMP_LINE and the candidates are printed one per line.

ENVIRONMENT:
  E4S_CL_COMPLETION_COMMAND    command to register (default: e4s-cl)
  E4S_CL_COMPLETION_GRAMMAR    grammar file replacing the built-in one
  E4S_CL_COMPLETION_PROFILES   e4s-cl user database (default: ~/.local/e4s_cl/user.json)
  E4S_CL_COMPLETION_LOG        log file (logging is off when unset)
  E4S_CL_COMPLETION_LOG_LEVEL  log level (default: debug)
  E4S_CL_COMPLETION_DEBUG      log to the temporary directory when set to 1

OPTIONS:
`

func main() {
	os.Exit(run(os.Args, os.LookupEnv, os.Stdout, os.Stderr))
}

func run(args []string, lookup func(string) (string, bool), stdout, stderr io.Writer) int {
	name := "e4s-cl-complete"
	if len(args) > 0 {
		name = filepath.Base(args[0])
	}

	// bash passes the command name first, so flags are only seen when the
	// program is run by hand.
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	helpFlag := flags.Bool("h", false, "display help information")
	versionFlag := flags.Bool("ver", false, "display build version")
	if len(args) > 1 {
		if err := flags.Parse(args[1:]); err != nil {
			return 2
		}
	}

	if *versionFlag {
		fmt.Fprintln(stdout, BUILD_VERSION)
		return 0
	}
	if *helpFlag {
		fmt.Fprint(stdout, helpText)
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		return 0
	}

	cfg, cfgErrs := config.FromEnv(lookup)

	logger, err := initializeLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: failed to initialize logger: %v\n", name, err)
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	for _, cfgErr := range cfgErrs {
		logger.Warn("ignoring invalid setting", zap.Error(cfgErr))
	}

	if !cfg.HasLine {
		err = printDirective(cfg, args, stdout)
	} else {
		err = complete(cfg, logger, stdout)
	}

	if err == nil {
		return 0
	}

	var tokenizeErr *bash.TokenizeError
	if errors.As(err, &tokenizeErr) {
		// Nothing useful can be shown to the user in the middle of a
		// completion; the log keeps the details.
		logger.Error("failed to tokenize completion line", zap.Error(err))
		return 1
	}

	var schemaErr *grammar.SchemaError
	if errors.As(err, &schemaErr) {
		logger.Error("failed to load grammar", zap.Error(err))
	}
	fmt.Fprintf(stderr, "%s: %v\n", name, err)
	return 1
}

func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = cfg.LogLevel
	// stdout is read by bash and stderr lands on the user's prompt.
	loggerConfig.OutputPaths = []string{cfg.LogFile}
	loggerConfig.ErrorOutputPaths = []string{cfg.LogFile}

	return loggerConfig.Build()
}

func printDirective(cfg *config.Config, args []string, stdout io.Writer) error {
	handler, err := executable()
	if err != nil && len(args) > 0 {
		handler, err = filepath.Abs(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to locate completion handler: %w", err)
	}

	directive, err := completion.Directive(handler, cfg.CommandName)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, directive)
	return err
}

func complete(cfg *config.Config, logger *zap.Logger, stdout io.Writer) error {
	line := bash.TruncateAtPoint(cfg.Line, cfg.Point)
	logger.Debug("completing", zap.String("line", line), zap.Int("point", cfg.Point))

	words, err := bash.SplitCompletionLine(line)
	if err != nil {
		return err
	}

	root, err := loadGrammar(cfg)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		logger.Warn("failed to get working directory", zap.Error(err))
		workDir = "."
	}

	store := profile.NewStore(cfg.ProfileStoreFile, logger)
	provider := completion.NewProvider(root, store, workDir, logger)

	for _, candidate := range provider.Complete(words) {
		if _, err := fmt.Fprintln(stdout, candidate); err != nil {
			return err
		}
	}
	return nil
}

func loadGrammar(cfg *config.Config) (*grammar.Command, error) {
	if cfg.GrammarFile != "" {
		return grammar.LoadFile(cfg.GrammarFile)
	}
	return grammar.Default()
}
