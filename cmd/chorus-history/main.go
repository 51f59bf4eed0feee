package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/cognicore/chorus/internal/logger"
	"github.com/cognicore/chorus/pkg/chorus/export"
	"github.com/cognicore/chorus/pkg/chorus/insight"
	"github.com/cognicore/chorus/pkg/chorus/store"
	"github.com/cognicore/chorus/pkg/chorus/store/sqlite"
)

const usage = `usage: chorus-history [flags] <command> [arg]

commands:
  runs               list stored runs, newest first
  show <run-id>      print a stored run as JSON
  keyword <word>     count of a keyword across runs
  insights <type>    insights of one type (pain_point, feature_request, praise, question)
`

func main() {
	_ = godotenv.Load()

	var (
		dbPath = flag.String("db", os.Getenv("CHORUS_DB"), "SQLite run history (required)")
		limit  = flag.Int("limit", 20, "Maximum rows (0 for all)")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := logger.Setup(logger.Options{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *dbPath == "" {
		slog.Error("--db required")
		os.Exit(2)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		slog.Error("open store", "db", *dbPath, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := execute(ctx, st, flag.Args(), *limit, os.Stdout); err != nil {
		slog.Error("command failed", "err", err)
		st.Close()
		os.Exit(1)
	}
}

func execute(ctx context.Context, st store.Store, args []string, limit int, w io.Writer) error {
	cmd := args[0]
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}

	switch cmd {
	case "runs":
		return listRuns(ctx, st, limit, w)
	case "show":
		if arg == "" {
			return fmt.Errorf("show: run id required")
		}
		run, err := st.GetRun(ctx, arg)
		if err != nil {
			return err
		}
		return export.JSON(w, export.Document{Result: run.Result, Relations: insight.Relate(run.Result.Insights)})
	case "keyword":
		if arg == "" {
			return fmt.Errorf("keyword: word required")
		}
		return keywordHistory(ctx, st, arg, limit, w)
	case "insights":
		t, err := insight.ParseType(arg)
		if err != nil {
			return err
		}
		return insightsByType(ctx, st, t, limit, w)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func listRuns(ctx context.Context, st store.Store, limit int, w io.Writer) error {
	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tCOMMENTS\tINSIGHTS\tPOS%\tNEG%\tNEU%")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Source, r.Comments, r.Insights,
			r.Sentiment.PositivePercent, r.Sentiment.NegativePercent, r.Sentiment.NeutralPercent)
	}
	return tw.Flush()
}

func keywordHistory(ctx context.Context, st store.Store, word string, limit int, w io.Writer) error {
	points, err := st.KeywordHistory(ctx, word, limit)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintf(w, "keyword %q not ranked in any stored run\n", word)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tCOUNT\tSENTIMENT")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.RunID, p.CreatedAt.Format(time.RFC3339), p.Count, p.Sentiment)
	}
	return tw.Flush()
}

func insightsByType(ctx context.Context, st store.Store, t insight.Type, limit int, w io.Writer) error {
	found, err := st.InsightsByType(ctx, t, limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tTITLE\tCOUNT\tCONFIDENCE")
	for _, si := range found {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\n",
			si.RunID, si.CreatedAt.Format(time.RFC3339), si.Insight.Title, si.Insight.Count, si.Insight.Confidence)
	}
	return tw.Flush()
}
