// Command report analyzes Tanita exports and prints the report.
//
// Usage:
//
//	report [flags] [FILE...]
//
// With no files, DATA*.CSV in -data-dir and PROF*.CSV in -system-dir are
// analyzed. Files named on the command line are typed by name (DATA or
// PROF). Logs go to stderr; the report goes to stdout or -o.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/JonMunkholm/BodyComp/internal/config"
	"github.com/JonMunkholm/BodyComp/internal/core"
	"github.com/JonMunkholm/BodyComp/internal/core/metrics"
	"github.com/JonMunkholm/BodyComp/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, for tests.
func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataDir := fs.String("data-dir", cfg.Ingest.DataDir, "directory holding measurement exports")
	systemDir := fs.String("system-dir", cfg.Ingest.SystemDir, "directory holding profile exports")
	format := fs.String("format", "json", "output format: json or text")
	output := fs.String("o", "", "write the report to this file instead of stdout")
	logLevel := fs.String("log-level", cfg.Logging.Level, "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *format != "json" && *format != "text" {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return 2
	}

	logging.SetupWriter(stderr, *logLevel, cfg.Logging.Format)

	if err := metrics.ApplyGenericEdges(
		cfg.Ranges.GenericBodyFat,
		cfg.Ranges.GenericMuscle,
		cfg.Ranges.GenericWater,
	); err != nil {
		fmt.Fprintf(stderr, "%s\n", core.FormatUserError(err))
		return 1
	}

	service := core.NewService(core.WithMaxFileSize(cfg.Ingest.MaxFileSize))
	ctx := context.Background()

	var report *core.Report
	if files := fs.Args(); len(files) > 0 {
		inputs := make([]core.Input, 0, len(files))
		for _, path := range files {
			// An unrecognized name leaves the type empty; the report lists it.
			typ, _ := core.ClassifyInput(path)
			inputs = append(inputs, core.Input{Path: path, Type: typ})
		}
		report = service.Analyze(ctx, inputs)
	} else {
		report = service.AnalyzeDirectories(ctx, []core.Directory{
			{Path: *dataDir, Pattern: cfg.Ingest.DataPattern, Type: core.RecordMeasurement},
			{Path: *systemDir, Pattern: cfg.Ingest.ProfilePattern, Type: core.RecordProfile},
		})
	}

	out := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(stderr, "output: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if *format == "text" {
		err = writeText(out, report)
	} else {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	}
	if err != nil {
		fmt.Fprintf(stderr, "write report: %v\n", err)
		return 1
	}

	if len(report.Measurements) == 0 {
		fmt.Fprintln(stderr, "no measurements found")
		return 1
	}
	return 0
}

// writeText renders a plain summary of the report.
func writeText(w io.Writer, r *core.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Run %s  %s\n\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(tw, "MEASURED\tSOURCE\tSEX\tCLASSIFICATION")
	for _, am := range r.Measurements {
		when := "unknown"
		if am.MeasuredAt != nil {
			when = am.MeasuredAt.Format("2006-01-02 15:04")
		}
		labels := make([]string, 0, len(am.Classifications))
		for _, c := range am.Classifications {
			labels = append(labels, fmt.Sprintf("%s=%s", c.Metric, c.Label))
		}
		fmt.Fprintf(tw, "%s\t%s:%d\t%s\t%s\n",
			when, am.Measurement.Source.File, am.Measurement.Source.Row,
			am.SexLabel, strings.Join(labels, " "))
	}

	if r.HasComparison() {
		fmt.Fprintf(tw, "\nCHANGE\t%s:%d -> %s:%d\n",
			r.Comparison.Previous.File, r.Comparison.Previous.Row,
			r.Comparison.Current.File, r.Comparison.Current.Row)
		for _, c := range r.Comparison.Results {
			mark := ""
			if c.Significant {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s\t%s%s\n", c.Field, c.Formatted, mark)
		}
	}

	if len(r.Profiles) > 0 {
		fmt.Fprintf(tw, "\nPROFILES\t%d\n", len(r.Profiles))
	}

	if len(r.FileErrors) > 0 {
		fmt.Fprintln(tw, "\nFILE\tCODE\tERROR")
		for _, fe := range r.FileErrors {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", fe.File, fe.Code, fe.Message)
		}
	}

	return tw.Flush()
}
