package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/diwanapp/diwan-server/internal/corpus"
	"github.com/diwanapp/diwan-server/internal/logger"
	"github.com/diwanapp/diwan-server/internal/search"
	"github.com/diwanapp/diwan-server/internal/service"
)

// options are the flags shared by every command.
type options struct {
	corpus   string
	timezone string
	timeout  time.Duration
	json     bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "diwan",
		Short:         "Inspect and query a Diwan poem corpus",
		Long:          "Reads a corpus file or URL (poems separated by === lines) and answers the same questions as the server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.corpus, "corpus", "c", os.Getenv("CORPUS_SOURCE"), "corpus file path or http(s) URL")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", "Local", "IANA timezone used for the verse of the day")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "remote fetch timeout")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of text")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log loading details to stderr")

	root.AddCommand(
		newInspectCmd(opts),
		newTodayCmd(opts),
		newSearchCmd(opts),
		newRandomCmd(opts),
		newShowCmd(opts),
		newCategoriesCmd(opts),
	)

	return root
}

// session is a loaded corpus plus the resources backing it.
type session struct {
	*service.PoemService
	ranked *search.Index
}

// Close releases the search index.
func (s *session) Close() {
	_ = s.ranked.Close()
}

// load reads the corpus into a poem service. Load failures are returned:
// an offline tool has nothing useful to show without a corpus.
func (o *options) load(cmd *cobra.Command) (*session, error) {
	if o.corpus == "" {
		return nil, fmt.Errorf("no corpus given: pass --corpus or set CORPUS_SOURCE")
	}

	log := logger.Discard()
	if o.verbose {
		log = logger.New(logger.Config{
			Writer: cmd.ErrOrStderr(),
			Format: logger.FormatText,
			Level:  logger.ParseLevel("debug"),
		})
	}

	loc := time.Local
	if o.timezone != "" && o.timezone != "Local" {
		var err error
		if loc, err = time.LoadLocation(o.timezone); err != nil {
			return nil, fmt.Errorf("invalid --tz: %w", err)
		}
	}

	ranked, err := search.NewIndex(search.Options{Logger: log.Logger})
	if err != nil {
		return nil, err
	}

	loader := corpus.NewLoader(corpus.LoaderOptions{
		Source:  o.corpus,
		Timeout: o.timeout,
		Logger:  log.Logger,
	})

	svc := service.NewPoemService(loader, ranked, nil, log.Logger, loc)
	if err := svc.Reload(cmd.Context()); err != nil {
		_ = ranked.Close()
		return nil, err
	}
	return &session{PoemService: svc, ranked: ranked}, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
