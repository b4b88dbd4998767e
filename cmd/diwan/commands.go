package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diwanapp/diwan-server/internal/domain"
	"github.com/diwanapp/diwan-server/internal/search"
	"github.com/diwanapp/diwan-server/internal/service"
)

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the corpus: poems, verses, categories, skipped blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			summary := sess.Summary()
			categories := sess.Categories()
			out := cmd.OutOrStdout()

			if opts.json {
				return printJSON(out, struct {
					Summary    service.CorpusSummary    `json:"summary"`
					Categories []domain.CategorySummary `json:"categories"`
				}{summary, categories})
			}

			fmt.Fprintf(out, "source:      %s\n", summary.Source)
			fmt.Fprintf(out, "poems:       %d\n", summary.Poems)
			fmt.Fprintf(out, "verses:      %d\n", summary.Verses)
			fmt.Fprintf(out, "categories:  %d\n", summary.Categories)
			fmt.Fprintf(out, "skipped:     %d\n", summary.SkippedBlocks)
			return nil
		},
	}
}

func newTodayCmd(opts *options) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print the verse of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			var day time.Time
			if date != "" {
				if day, err = time.ParseInLocation("2006-01-02", date, sess.Location()); err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
			}

			vod, err := sess.VerseOfDay(day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, vod)
			}

			printVerse(out, vod.Verse)
			fmt.Fprintf(out, "\n  %s (%s) · verse %d of %d\n", vod.Poem.Title, vod.Poem.Category, vod.Index+1, vod.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "calendar day as YYYY-MM-DD (default today)")
	return cmd
}

func newSearchCmd(opts *options) *cobra.Command {
	var (
		ranked   bool
		limit    int
		category string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find poems by title, category or verse text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			query := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if ranked {
				params := search.DefaultParams()
				params.Query = query
				params.Category = category
				if limit > 0 {
					params.Limit = limit
				}
				result, err := sess.RankedSearch(cmd.Context(), params)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(out, result)
				}
				for _, hit := range result.Hits {
					fmt.Fprintf(out, "%4d  %-30s  %-15s  %.3f\n", hit.PoemID, hit.Title, hit.Category, hit.Score)
				}
				fmt.Fprintf(out, "%d match(es)\n", result.Total)
				return nil
			}

			poems := sess.Search(query)
			total := len(poems)
			if limit > 0 && len(poems) > limit {
				poems = poems[:limit]
			}
			if opts.json {
				return printJSON(out, poems)
			}
			printPoemList(out, poems)
			fmt.Fprintf(out, "%d match(es)\n", total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ranked, "ranked", false, "rank by relevance instead of corpus order")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (0 = all)")
	cmd.Flags().StringVar(&category, "category", "", "with --ranked, restrict to one category")
	return cmd
}

func newRandomCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Print a random poem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			poem, err := sess.Random()
			if err != nil {
				return err
			}
			return printPoem(cmd.OutOrStdout(), poem, opts.json)
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print one poem by id or --title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (title == "") {
				return fmt.Errorf("give either an id or --title")
			}

			sess, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			var poem domain.Poem
			if title != "" {
				poem, err = sess.FindByTitle(title)
			} else {
				id, convErr := strconv.Atoi(args[0])
				if convErr != nil {
					return fmt.Errorf("invalid id %q", args[0])
				}
				poem, err = sess.Get(id)
			}
			if err != nil {
				return err
			}
			return printPoem(cmd.OutOrStdout(), poem, opts.json)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "exact poem title (first match wins)")
	return cmd
}

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with poem counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			categories := sess.Categories()
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, categories)
			}
			for _, c := range categories {
				fmt.Fprintf(out, "%5d  %s\n", c.PoemCount, c.Name)
			}
			return nil
		},
	}
}

func printPoem(w io.Writer, poem domain.Poem, asJSON bool) error {
	if asJSON {
		return printJSON(w, poem)
	}

	fmt.Fprintf(w, "#%d %s\n[%s]\n\n", poem.ID, poem.Title, poem.Category)
	for i, v := range poem.Verses {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printVerse(w, v)
	}
	return nil
}

func printVerse(w io.Writer, v domain.Verse) {
	for _, line := range v {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func printPoemList(w io.Writer, poems []domain.Poem) {
	for _, p := range poems {
		fmt.Fprintf(w, "%4d  %-30s  %s\n", p.ID, p.Title, p.Category)
	}
}
