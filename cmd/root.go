package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clems4ever/dialog-ngram/config"
	"github.com/clems4ever/dialog-ngram/dialog"
	"github.com/clems4ever/dialog-ngram/ngram"
	"github.com/clems4ever/dialog-ngram/report"
	"github.com/clems4ever/dialog-ngram/subword"
)

const (
	msgNotFound  = "Input file not found!"
	msgMalformed = "An error occurred while parsing the input."
)

var errNoInput = errors.New("no input given")

// reportedError marks an error whose message already reached stderr.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

type options struct {
	input       string
	template    bool
	counter     bool
	insensitive bool
	lenient     bool
	format      string
	subwords    bool
	encoding    string
	configPath  string
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "ngram",
		Short: "Count unigrams and bigrams in an XML dialog corpus",
		Long: `ngram reads a dialog corpus of the form

    <dialog><s><utt uid="1">Hey, how are you?</utt></s></dialog>

strips punctuation from every utterance, splits it on spaces after a <s>
start marker and counts word and word-pair occurrences.
Run "ngram --template" for a sample corpus.`,
		Example: `  ngram -i corpus.xml -c
  cat corpus.xml | ngram -i -- -c -I
  ngram -i corpus.xml -c --format yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.template {
				return dialog.Template().PrettyPrint(cmd.OutOrStdout())
			}

			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())

			d, source, err := loadDialog(cmd, opts.input, cfg.Counter.Lenient)
			if err != nil {
				return err
			}
			logger.Debug("dialog loaded", slog.String("source", source),
				slog.Int("conversations", len(d.Conversations)), slog.Int("utterances", d.Len()))

			counter := ngram.NewCounter(ngram.Options{CaseInsensitive: cfg.Counter.CaseInsensitive})
			counter.Build(d.Texts())
			logger.Debug("tables built", slog.Int("tokens", counter.Tokens()),
				slog.Int("unigrams", len(counter.Unigrams())), slog.Int("bigrams", len(counter.Bigrams())))

			if !opts.counter {
				return nil
			}

			meta := report.NewMeta(source)
			if cfg.Counter.Subwords {
				sc, err := subword.NewCounter(cfg.Counter.Encoding)
				if err != nil {
					return err
				}
				summary := sc.Summarize(d.Texts())
				meta.Subwords = &summary
				logger.Debug("subwords counted", slog.String("encoding", summary.Encoding),
					slog.Int("subwords", summary.Subwords))
			}

			return report.Write(cmd.OutOrStdout(), cfg.Report.Format, counter, meta)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.input, "input", "i", "", "Input file. Use -- (or -) for stdin")
	pf.BoolVarP(&opts.insensitive, "insensitive", "I", false, "Case insensitive")
	pf.BoolVar(&opts.lenient, "lenient", false, "Repair malformed markup instead of rejecting it")
	pf.StringVar(&opts.configPath, "config", "", "YAML configuration file (default $"+config.EnvConfigPath+")")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log format: text, json")

	f := rootCmd.Flags()
	f.BoolVarP(&opts.template, "template", "t", false, "Display XML template")
	f.BoolVarP(&opts.counter, "counter", "c", false, "Display Ngram results")
	f.StringVarP(&opts.format, "format", "f", report.FormatText, "Output format for -c: text, json, yaml")
	f.BoolVar(&opts.subwords, "subwords", false, "Also count BPE subword tokens")
	f.StringVar(&opts.encoding, "encoding", subword.DefaultEncoding, "BPE encoding used by --subwords")

	rootCmd.AddCommand(newTokenizeCmd(opts))

	return rootCmd
}

// load reads the configuration and lets explicitly set flags override it.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("insensitive") {
		cfg.Counter.CaseInsensitive = o.insensitive
	}
	if flags.Changed("lenient") {
		cfg.Counter.Lenient = o.lenient
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if flags.Changed("format") {
		cfg.Report.Format = o.format
	}
	if flags.Changed("subwords") {
		cfg.Counter.Subwords = o.subwords
	}
	if flags.Changed("encoding") {
		cfg.Counter.Encoding = o.encoding
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDialog reads the document named by --input. Failures are reported on
// stderr in the tool's historical wording.
func loadDialog(cmd *cobra.Command, input string, lenient bool) (*dialog.Dialog, string, error) {
	stderr := cmd.ErrOrStderr()

	if input == "" {
		fmt.Fprint(stderr, cmd.UsageString())
		return nil, "", &reportedError{errNoInput}
	}

	var r io.Reader
	source := input
	if dialog.IsStdin(input) {
		r = cmd.InOrStdin()
		source = "stdin"
	} else {
		f, err := dialog.Open(input)
		if err != nil {
			fmt.Fprintln(stderr, msgNotFound)
			return nil, "", &reportedError{err}
		}
		defer f.Close()
		r = f
	}

	load := dialog.Load
	if lenient {
		load = dialog.LoadLenient
	}
	d, err := load(r)
	if err != nil {
		fmt.Fprintln(stderr, msgMalformed)
		fmt.Fprint(stderr, cmd.UsageString())
		return nil, "", &reportedError{err}
	}
	return d, source, nil
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
