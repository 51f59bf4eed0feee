package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cognicore/chorus/internal/comments"
	"github.com/cognicore/chorus/internal/llm"
	"github.com/cognicore/chorus/internal/logger"
	"github.com/cognicore/chorus/pkg/chorus"
	"github.com/cognicore/chorus/pkg/chorus/comment"
	"github.com/cognicore/chorus/pkg/chorus/config"
	"github.com/cognicore/chorus/pkg/chorus/export"
	"github.com/cognicore/chorus/pkg/chorus/insight"
	"github.com/cognicore/chorus/pkg/chorus/store"
	"github.com/cognicore/chorus/pkg/chorus/store/sqlite"
	"github.com/cognicore/chorus/pkg/chorus/worker"
)

type options struct {
	input      string
	format     string // jsonl | reddit
	configPath string
	lexicon    string
	dbPath     string
	timeout    time.Duration
	retries    int
	out        string // json | csv | none
	csvDir     string
	lang       string // zh | en
	relations  bool
	progress   bool

	llmBase   string
	llmModel  string
	llmAPIKey string
	report    string // path, "-" for stdout
}

func main() {
	// Missing .env is fine.
	_ = godotenv.Load()

	var (
		opts      options
		logFormat string
		logLevel  string
	)
	flag.StringVar(&opts.input, "input", "", "Comment file (required)")
	flag.StringVar(&opts.format, "format", "jsonl", "Input format: jsonl or reddit")
	flag.StringVar(&opts.configPath, "config", "", "Analysis config YAML (optional)")
	flag.StringVar(&opts.lexicon, "lexicon", "", "Lexicon extension YAML (optional)")
	flag.StringVar(&opts.dbPath, "db", os.Getenv("CHORUS_DB"), "SQLite run history (optional)")
	flag.DurationVar(&opts.timeout, "timeout", worker.DefaultTimeout, "Per-attempt analysis timeout")
	flag.IntVar(&opts.retries, "retries", worker.DefaultMaxRetries, "Retries after a failed attempt")
	flag.StringVar(&opts.out, "out", "json", "Output: json, csv or none")
	flag.StringVar(&opts.csvDir, "csv-dir", ".", "Directory for CSV output")
	flag.StringVar(&opts.lang, "lang", "zh", "Insight label language: zh or en")
	flag.BoolVar(&opts.relations, "relations", true, "Include insight relations in JSON output")
	flag.BoolVar(&opts.progress, "progress", false, "Log pipeline phases")
	flag.StringVar(&opts.llmBase, "llm-base", os.Getenv("CHORUS_LLM_BASE_URL"), "Optional: OpenAI-compatible chat completions URL")
	flag.StringVar(&opts.llmModel, "llm-model", os.Getenv("CHORUS_LLM_MODEL"), "Optional: LLM model name")
	flag.StringVar(&opts.llmAPIKey, "llm-api-key", os.Getenv("CHORUS_LLM_API_KEY"), "Optional: API key for the LLM endpoint")
	flag.StringVar(&opts.report, "report", "", "Write an AI report to this path (\"-\" for stdout)")
	flag.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	flag.StringVar(&logLevel, "log-level", "info", "Log level")
	flag.Parse()

	if err := logger.Setup(logger.Options{Format: logFormat, Level: logLevel}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.input == "" {
		slog.Error("--input required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		slog.Error("analysis failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	loader := config.Loader{ConfigPath: opts.configPath, LexiconPath: opts.lexicon}
	components, err := loader.Load()
	if err != nil {
		return err
	}

	batch, topic, err := loadBatch(opts.input, opts.format)
	if err != nil {
		return err
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{Source: filepath.Base(opts.input)})
	slog.InfoContext(ctx, "loaded comments", "comments", len(batch), "format", opts.format)

	labels, err := labelsFor(opts.lang)
	if err != nil {
		return err
	}
	engine := chorus.New(chorus.Options{Lexicon: components.Lexicon, Labels: &labels})

	runner := worker.NewRunner(engine)
	runner.Timeout = opts.timeout
	runner.MaxRetries = opts.retries

	if opts.progress {
		events := make(chan chorus.Phase, 8)
		runner.Events = events
		logged := make(chan struct{})
		go logPhases(ctx, events, logged)
		// Run sends nothing after it returns.
		defer func() {
			close(events)
			<-logged
		}()
	}

	res, err := runner.Run(ctx, batch, components.Analysis)
	if err != nil {
		return err
	}

	if opts.dbPath != "" {
		if err := saveRun(ctx, opts.dbPath, opts.input, components.Analysis, res); err != nil {
			return err
		}
	}

	if err := writeOutput(opts, stdout, res); err != nil {
		return err
	}

	if opts.report != "" {
		return writeReport(ctx, opts, topic, res, stdout)
	}
	return nil
}

func logPhases(ctx context.Context, events <-chan chorus.Phase, done chan<- struct{}) {
	defer close(done)
	for p := range events {
		slog.InfoContext(ctx, "phase complete", "phase", p.String())
	}
}

func loadBatch(path, format string) ([]comment.Comment, string, error) {
	switch format {
	case "jsonl":
		batch, err := comments.LoadFromJSONL(path, slog.Default())
		return batch, "", err
	case "reddit":
		th, err := comments.LoadRedditThread(path)
		if err != nil {
			return nil, "", err
		}
		return th.Comments, th.Title, nil
	default:
		return nil, "", fmt.Errorf("unknown input format %q", format)
	}
}

func labelsFor(lang string) (insight.Labels, error) {
	switch lang {
	case "", "zh":
		return insight.DefaultLabels(), nil
	case "en":
		return insight.EnglishLabels(), nil
	default:
		return insight.Labels{}, fmt.Errorf("unknown label language %q", lang)
	}
}

func saveRun(ctx context.Context, dbPath, source string, cfg config.Analysis, res chorus.Result) error {
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	run := store.NewIDSource().NewRun(source, cfg, res)
	if err := st.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{RunID: run.ID})
	slog.InfoContext(ctx, "run saved", "db", dbPath)
	return nil
}

func writeOutput(opts options, stdout io.Writer, res chorus.Result) error {
	switch opts.out {
	case "json":
		doc := export.Document{Result: res}
		if opts.relations {
			doc.Relations = insight.Relate(res.Insights)
		}
		return export.JSON(stdout, doc)
	case "csv":
		return writeCSVs(opts.csvDir, res)
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown output %q", opts.out)
	}
}

func writeCSVs(dir string, res chorus.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"keywords.csv", func(w io.Writer) error { return export.KeywordsCSV(w, res.Keywords) }},
		{"insights.csv", func(w io.Writer) error { return export.InsightsCSV(w, res.Insights) }},
		{"comments.csv", func(w io.Writer) error { return export.CommentsCSV(w, res.Comments) }},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return write(f)
}

func writeReport(ctx context.Context, opts options, topic string, res chorus.Result, stdout io.Writer) error {
	client := &llm.Client{
		BaseURL: opts.llmBase,
		Model:   opts.llmModel,
		APIKey:  opts.llmAPIKey,
	}
	text, err := client.Report(ctx, topic, res)
	if err != nil {
		return fmt.Errorf("ai report: %w", err)
	}
	if opts.report == "-" {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}
	return writeFile(opts.report, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, text)
		return err
	})
}
