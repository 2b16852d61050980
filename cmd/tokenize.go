package cmd

import (
	"bufio"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/clems4ever/dialog-ngram/config"
	"github.com/clems4ever/dialog-ngram/ngram"
)

// newTokenizeCmd prints the token sequence counted for every utterance.
func newTokenizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize",
		Short: "Print the tokens of every utterance",
		Long: `Print the tokens of every utterance, one line per utterance, prefixed
with its conversation and utterance numbers and its speaker.
Tokens are quoted so that empty tokens stay visible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())

			d, source, err := loadDialog(cmd, opts.input, cfg.Counter.Lenient)
			if err != nil {
				return err
			}
			logger.Debug("dialog loaded", slog.String("source", source), slog.Int("utterances", d.Len()))

			counter := ngram.NewCounter(ngram.Options{CaseInsensitive: cfg.Counter.CaseInsensitive})
			w := bufio.NewWriter(cmd.OutOrStdout())
			for ci, conv := range d.Conversations {
				for ui, utt := range conv.Utterances {
					tokens := counter.AddUtterance(utt.Text)
					fmt.Fprintf(w, "%d.%d uid=%s %q\n", ci+1, ui+1, utt.UID, tokens)
				}
			}
			return w.Flush()
		},
	}
}
