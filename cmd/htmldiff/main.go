// Command htmldiff compares two HTML documents word by word and prints the
// new document with changes marked up.
//
// Usage:
//
//	htmldiff old.html new.html
//	htmldiff -b '\[\[[^\]]*\]\]' old.html new.html
//	git show HEAD:page.html | htmldiff --stdin page.html
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ibastawisi/htmldiff"
	flag "github.com/spf13/pflag"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Exit codes
const (
	exitIdentical = 0 // inputs are identical
	exitDiffer    = 1 // inputs differ
	exitError     = 2 // error occurred
)

// cliFlags holds all parsed command-line flags
type cliFlags struct {
	accuracy         *float64
	ignoreWhitespace *bool
	orphanThreshold  *float64
	blocks           *[]string
	ignoreAttributes *bool
	markdown         *bool
	page             *bool
	output           *string
	statistics       *bool
	stdinMode        *bool
	debug            *bool
	help             *bool
	version          *bool
}

// prescanProfile extracts --profile value before flag parsing
func prescanProfile(args []string) string {
	for i, arg := range args {
		if arg == "--profile" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--profile=") {
			return strings.TrimPrefix(arg, "--profile=")
		}
	}
	return ""
}

// defineFlags sets up all command-line flags with config defaults
func defineFlags(fs *flag.FlagSet, cfg config, stderr io.Writer) cliFlags {
	_ = fs.String("profile", "", "use settings from ~/.htmldiff.<profile>.yaml")

	f := cliFlags{
		accuracy:         fs.Float64P("accuracy", "a", cfg.Accuracy, "repeating words accuracy in (0,1]; below 1 skips matches anchored on common words"),
		ignoreWhitespace: fs.BoolP("ignore-whitespace", "w", cfg.IgnoreWhitespace, "treat all whitespace runs as equal"),
		orphanThreshold:  fs.Float64P("orphan-threshold", "o", cfg.OrphanThreshold, "drop isolated matches shorter than this fraction of the surrounding changes"),
		blocks:           fs.StringArrayP("block", "b", cfg.Blocks, "regular expression whose matches are compared as one token (repeatable)"),
		ignoreAttributes: fs.Bool("ignore-attributes", cfg.IgnoreAttributes, "ignore tag attributes when matching"),
		markdown:         fs.BoolP("markdown", "m", cfg.Markdown, "inputs are Markdown; render them to HTML before comparing"),
		page:             fs.Bool("page", cfg.Page, "wrap the output in a standalone HTML page"),
		output:           fs.StringP("output", "O", "", "write output to `file` instead of stdout"),
		statistics:       fs.BoolP("statistics", "s", cfg.Statistics, "print statistics"),
		stdinMode:        fs.Bool("stdin", false, "read first input from stdin, second from argument"),
		debug:            fs.Bool("debug", false, "log debug information to stderr"),
		help:             fs.BoolP("help", "h", false, "show help"),
		version:          fs.BoolP("version", "v", false, "show version"),
	}

	name := fs.Name()
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] old.html new.html\n", name)
		fmt.Fprintf(stderr, "       %s [options] --stdin new.html\n", name)
		fmt.Fprintf(stderr, "\nWord-level diff of HTML documents.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.SetOutput(stderr)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s old.html new.html\n", name)
		fmt.Fprintf(stderr, "  %s --page -O diff.html old.html new.html\n", name)
		fmt.Fprintf(stderr, "  %s -m README.old.md README.md\n", name)
		fmt.Fprintf(stderr, "\nExit codes:\n")
		fmt.Fprintf(stderr, "  0  inputs are identical\n")
		fmt.Fprintf(stderr, "  1  inputs differ\n")
		fmt.Fprintf(stderr, "  2  error occurred\n")
	}

	return f
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns its exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Pre-scan for --profile flag before defining other flags
	profile := prescanProfile(args)

	configPath, err := findConfigFile(profile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config %s: %v\n", configPath, err)
		return exitError
	}

	fs := flag.NewFlagSet("htmldiff", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := defineFlags(fs, cfg, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return exitIdentical
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return exitError
	}

	if *f.version {
		fmt.Fprintf(stdout, "htmldiff version %s\n", Version)
		return exitIdentical
	}

	if *f.help {
		fs.Usage()
		return exitIdentical
	}

	logger := newLogger(stderr, *f.debug)
	if configPath != "" {
		logger.Debug("loaded profile", "path", configPath)
	}

	if err := validateOptions(*f.accuracy, *f.orphanThreshold); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	blocks, err := compileBlocks(*f.blocks)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	text1, text2, err := readInputTexts(fs, *f.stdinMode, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errMissingArgs) {
			fs.Usage()
		}
		return exitError
	}

	if *f.markdown {
		if text1, err = renderMarkdown(text1); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		if text2, err = renderMarkdown(text2); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
	}

	opts := htmldiff.Options{
		RepeatingWordsAccuracy:      *f.accuracy,
		IgnoreWhitespaceDifferences: *f.ignoreWhitespace,
		OrphanMatchThreshold:        *f.orphanThreshold,
		BlockExpressions:            blocks,
		IgnoreTagAttributes:         *f.ignoreAttributes,
	}

	start := time.Now()
	result := htmldiff.Compare(text1, text2, opts)
	logger.Debug("compared documents",
		"old_tokens", len(result.OldTokens),
		"new_tokens", len(result.NewTokens),
		"operations", len(result.Operations),
		"elapsed", time.Since(start))

	out := result.HTML
	if *f.page {
		out = wrapPage(pageTitle(fs, *f.stdinMode), out)
	}

	if err := writeOutput(*f.output, stdout, out); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if *f.statistics {
		printStatistics(stderr, htmldiff.ComputeStatistics(result))
	}

	// Exit with appropriate code based on whether differences were found
	if htmldiff.HasChanges(result) {
		return exitDiffer
	}
	return exitIdentical
}

// newLogger returns a text logger on w, at debug level when debug is set.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// compileBlocks compiles block expressions, naming the pattern on failure.
func compileBlocks(patterns []string) ([]*regexp.Regexp, error) {
	var blocks []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid block expression %q: %w", p, err)
		}
		blocks = append(blocks, re)
	}
	return blocks, nil
}

var errMissingArgs = errors.New("missing file arguments")

// readInputTexts reads input from stdin or files
func readInputTexts(fs *flag.FlagSet, stdinMode bool, stdin io.Reader) (text1, text2 string, err error) {
	if stdinMode {
		if fs.NArg() < 1 {
			return "", "", fmt.Errorf("--stdin mode requires one file argument: %w", errMissingArgs)
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		text2, err = readFile(fs.Arg(0))
		if err != nil {
			return "", "", err
		}
		return string(data), text2, nil
	}

	if fs.NArg() < 2 {
		return "", "", fmt.Errorf("requires two file arguments: %w", errMissingArgs)
	}
	if text1, err = readFile(fs.Arg(0)); err != nil {
		return "", "", err
	}
	if text2, err = readFile(fs.Arg(1)); err != nil {
		return "", "", err
	}
	return text1, text2, nil
}

// readFile reads an entire file into a string
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes out to path, or to stdout when path is empty.
func writeOutput(path string, stdout io.Writer, out string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, out)
		return err
	}
	if err := os.WriteFile(path, []byte(out+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// printStatistics prints diff statistics
func printStatistics(w io.Writer, st htmldiff.Statistics) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "old: %d words  %d %d%% common  %d %d%% deleted\n",
		st.OldWords,
		st.CommonWords, percent(st.CommonWords, st.OldWords),
		st.DeletedWords, percent(st.DeletedWords, st.OldWords))
	fmt.Fprintf(w, "new: %d words  %d %d%% common  %d %d%% inserted\n",
		st.NewWords,
		st.CommonWords, percent(st.CommonWords, st.NewWords),
		st.InsertedWords, percent(st.InsertedWords, st.NewWords))
	fmt.Fprintf(w, "operations: %d equal  %d inserted  %d deleted  %d replaced\n",
		st.Equal, st.Inserts, st.Deletes, st.Replaces)
}

// percent calculates percentage, handling division by zero
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part * 100) / total
}
