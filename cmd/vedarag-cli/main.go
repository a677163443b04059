// Command vedarag-cli queries a running vedarag server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/vedarag/internal/version"
	vedarag "github.com/kailas-cloud/vedarag/pkg/sdk"
)

const maxSnippet = 160

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "vedarag",
		Usage:     "Search philosophy answers and Vedabase scripture",
		Version:   version.String(),
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "vedarag server base URL",
				Value:   "http://localhost:8787",
				EnvVars: []string{"VEDARAG_URL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key sent as a Bearer token",
				EnvVars: []string{"VEDARAG_API_KEY"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 30 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print raw JSON instead of a table",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log requests to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "query",
				Usage:     "Run a hybrid retrieval",
				ArgsUsage: "<text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results (1-20)",
						Value:   5,
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Corpus to search: all, philosophy, vedabase",
						Value: string(vedarag.SourceAll),
					},
					&cli.StringFlag{
						Name:  "question",
						Usage: "Philosophy question number filter",
					},
					&cli.StringFlag{
						Name:  "tradition",
						Usage: "Philosophy tradition filter",
					},
					&cli.StringFlag{
						Name:  "book",
						Usage: "Vedabase book code filter (e.g. bg, sb)",
					},
				},
			},
			{
				Name:   "traditions",
				Usage:  "List philosophy traditions",
				Action: traditionsCommand,
			},
			{
				Name:   "questions",
				Usage:  "List answered questions",
				Action: questionsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tradition",
						Usage: "Only questions answered by this tradition",
					},
				},
			},
			{
				Name:   "books",
				Usage:  "List Vedabase books",
				Action: booksCommand,
			},
			{
				Name:   "health",
				Usage:  "Show server health",
				Action: healthCommand,
			},
		},
	}
}

func newClient(c *cli.Context) (*vedarag.Client, error) {
	opts := []vedarag.Option{
		vedarag.WithTimeout(c.Duration("timeout")),
		vedarag.WithUserAgent("vedarag-cli"),
	}
	if key := c.String("api-key"); key != "" {
		opts = append(opts, vedarag.WithAPIKey(key))
	}
	if c.Bool("verbose") {
		opts = append(opts, vedarag.WithLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	client, err := vedarag.New(c.String("server"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func queryCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("query text is required")
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}

	resp, err := client.Query(context.Background(), vedarag.QueryRequest{
		Query:           text,
		TopK:            c.Int("top-k"),
		Source:          vedarag.Source(c.String("source")),
		QuestionFilter:  c.String("question"),
		TraditionFilter: c.String("tradition"),
		BookFilter:      c.String("book"),
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if c.Bool("json") {
		return printJSON(c.App.Writer, resp)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tSOURCE\tREFERENCE\tTEXT")
	for _, r := range resp.Results {
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n", r.Score, r.Source, reference(r), snippet(r.ChunkText))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "%d results, %d embedding tokens\n", resp.Count, resp.EmbeddingTokens)
	return nil
}

func traditionsCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	names, err := client.Traditions(context.Background())
	if err != nil {
		return fmt.Errorf("list traditions: %w", err)
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, names)
	}
	for _, n := range names {
		fmt.Fprintln(c.App.Writer, n)
	}
	return nil
}

func questionsCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	qs, err := client.Questions(context.Background(), c.String("tradition"))
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, qs)
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	for _, q := range qs {
		fmt.Fprintf(w, "%s\t%s\n", q.Number, q.Title)
	}
	return w.Flush()
}

func booksCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	books, err := client.Books(context.Background())
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, books)
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\n", b.Code, b.Name)
	}
	return w.Flush()
}

func healthCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	hs, err := client.Health(context.Background())
	if hs.Status != "" {
		if perr := printJSON(c.App.Writer, hs); perr != nil {
			return perr
		}
	}
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

func reference(r vedarag.Result) string {
	switch {
	case r.Verse != nil:
		return fmt.Sprintf("%s %s.%s", strings.ToUpper(r.Verse.BookCode), r.Verse.Chapter, r.Verse.VerseNumber)
	case r.Response != nil:
		return fmt.Sprintf("%s Q%s", r.Response.TraditionName, r.Response.QuestionNumber)
	default:
		return "-"
	}
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxSnippet {
		return string(r[:maxSnippet-1]) + "…"
	}
	return s
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
