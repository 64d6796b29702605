// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scalestat summarizes the thread scaling of a parallel benchmark.
//
// Usage:
//
//	scalestat [flags] [file.dat ...]
//	scalestat [flags] -db driver:dsn -run id
//
// Each input file holds one sample per line with nine
// whitespace-separated fields:
//
//	threads schedule chunk time_mean time_std speedup efficiency sigma_Sp sigma_Ep
//
// A "#" starts a comment. If no files are given, scalestat reads
// standard input. Lines that cannot be parsed are reported on
// standard error and skipped.
//
// For each loop schedule in the input, scalestat reports the best
// speedup and efficiency reached at each thread count, the mean run
// time at each chunk size, and the serial fraction f of Amdahl's Law
// that best fits the observed speedups. It also reports the fastest
// configuration at each thread count across all schedules, measured
// against the fastest single-thread run, or against the separately
// measured single-thread time given as baseline in the configuration
// file.
//
// The -format flag selects the report format: text (the default),
// csv, or html.
//
// The -png flag renders the speedup, efficiency and chunk size
// charts to a PNG file. The -scaling flag writes the scaling summary
// as a data file. Either destination may be a local path or a Cloud
// Storage object, gs://bucket/object. Cloud Storage uses application
// default credentials unless -credentials or -token is given.
//
// The -db flag reads a run stored by scalesave instead of input
// files. Its argument is a driver name, sqlite3 or mysql, and a data
// source name separated by a colon, for example
//
//	scalestat -db sqlite3:samples.db -run 3
//
// The -config flag names a YAML file that renames schedules and sets
// analysis and chart options:
//
//	schedules:
//	  3: auto
//	parallelism: 4
//	curve_points: 200
//	baseline:
//	  mean: 2.01
//	  std: 0.02
//	plot:
//	  width: 18
//	  height: 5
//	  dpi: 150
//
// Flags given on the command line override the configuration file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"gonum.org/v1/plot/vg"

	"github.com/wavebench/scalestat/internal/sink"
	"github.com/wavebench/scalestat/scaledb"
	_ "github.com/wavebench/scalestat/scaledb/sqlite3"
	"github.com/wavebench/scalestat/scalefmt"
	"github.com/wavebench/scalestat/scaleplot"
	"github.com/wavebench/scalestat/scalestat"
)

func main() {
	log.SetPrefix("scalestat: ")
	log.SetFlags(0)

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("scalestat", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: scalestat [flags] [file.dat ...]
       scalestat [flags] -db driver:dsn -run id

scalestat summarizes the thread scaling of a parallel benchmark and
fits Amdahl's Law to the best speedup at each thread count.

`)
		flags.PrintDefaults()
	}
	flagFormat := flags.String("format", "text", "print report in `format`: text, csv, or html")
	flagPNG := flags.String("png", "", "render charts as a PNG to `dest`")
	flagScaling := flags.String("scaling", "", "write the scaling summary to `dest`")
	flagConfig := flags.String("config", "", "read analysis options from YAML `file`")
	flagParallel := flags.Int("parallel", 0, "search for the serial fraction using `n` goroutines")
	flagDB := flags.String("db", "", "read samples from database `driver:dsn`")
	flagRun := flags.Int64("run", 0, "read run `id` from the -db database")
	flagCredentials := flags.String("credentials", "", "Cloud Storage credentials JSON `file`")
	flagToken := flags.String("token", "", "Cloud Storage OAuth2 access `token`")
	if err := flags.Parse(args); err != nil {
		return err
	}

	switch *flagFormat {
	case "text", "csv", "html":
	default:
		return fmt.Errorf("unknown output format %q; want text, csv, or html", *flagFormat)
	}
	if *flagDB != "" && flags.NArg() > 0 {
		return fmt.Errorf("input files and -db are mutually exclusive")
	}
	if *flagDB == "" && *flagRun != 0 {
		return fmt.Errorf("-run requires -db")
	}

	cfg := new(scalestat.Config)
	if *flagConfig != "" {
		var err error
		if cfg, err = scalestat.LoadConfig(*flagConfig); err != nil {
			return err
		}
	}
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "parallel" {
			cfg.Parallelism = *flagParallel
		}
	})
	if cfg.Parallelism < 0 {
		return fmt.Errorf("-parallel must not be negative, got %d", cfg.Parallelism)
	}

	ctx := context.Background()

	// Read the samples.
	var samples []scalefmt.Sample
	if *flagDB != "" {
		var err error
		samples, err = readRun(ctx, *flagDB, *flagRun)
		if err != nil {
			return err
		}
	} else {
		files := scalefmt.Files{Paths: flags.Args(), AllowStdin: true}
		var syntaxErrs []*scalefmt.SyntaxError
		var err error
		samples, syntaxErrs, err = scalefmt.ReadAll(&files)
		for _, serr := range syntaxErrs {
			// Non-fatal result parse error. Warn but keep
			// going.
			fmt.Fprintln(wErr, serr)
		}
		if err != nil {
			return err
		}
	}

	a, err := scalestat.Analyze(samples, cfg.Options())
	if err != nil {
		return err
	}
	for _, warn := range a.Warnings {
		fmt.Fprintln(wErr, warn)
	}

	switch *flagFormat {
	case "text":
		err = scalestat.FormatText(w, a)
	case "csv":
		err = scalestat.FormatCSV(w, a)
	case "html":
		io.WriteString(w, htmlHeader)
		err = scalestat.FormatHTML(w, a)
		io.WriteString(w, htmlFooter)
	}
	if err != nil {
		return err
	}

	sinkOpts := &sink.Options{CredentialsFile: *flagCredentials, AccessToken: *flagToken}
	if *flagPNG != "" {
		plotOpts := &scaleplot.Options{
			Width:  vg.Length(cfg.Plot.Width) * vg.Inch,
			Height: vg.Length(cfg.Plot.Height) * vg.Inch,
			DPI:    cfg.Plot.DPI,
		}
		opts := *sinkOpts
		opts.ContentType = "image/png"
		err := writeTo(ctx, *flagPNG, &opts, func(w io.Writer) error {
			return scaleplot.Render(w, a, plotOpts)
		})
		if err != nil {
			return err
		}
	}
	if *flagScaling != "" {
		if a.Scaling == nil {
			// Analyze already warned about this.
			return nil
		}
		opts := *sinkOpts
		opts.ContentType = "text/plain"
		err := writeTo(ctx, *flagScaling, &opts, func(w io.Writer) error {
			return scalestat.WriteScaling(w, a)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// readRun reads the samples of run id from the database named by
// source, which has the form driver:dsn.
func readRun(ctx context.Context, source string, id int64) ([]scalefmt.Sample, error) {
	driver, dsn, ok := strings.Cut(source, ":")
	if !ok || driver == "" {
		return nil, fmt.Errorf("malformed -db %q; want driver:dsn", source)
	}
	if id <= 0 {
		return nil, fmt.Errorf("-db requires a positive -run, got %d", id)
	}
	db, err := scaledb.OpenSQL(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	return db.Samples(ctx, id)
}

// writeTo creates dest and writes it using write.
func writeTo(ctx context.Context, dest string, opts *sink.Options, write func(io.Writer) error) error {
	f, err := sink.Create(ctx, dest, opts)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return f.Close()
}

var htmlHeader = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Thread Scaling</title>
<style>
.scalestat { border-collapse: collapse; margin-bottom: 1em; }
.scalestat caption { text-align: left; font-weight: bold; }
.scalestat td { text-align: right; padding: 0em 1em; }
.scalestat th { border-top: 1px solid #666; border-bottom: 1px solid #ccc; }
.scalestat .chunks th { border-top: none; }
</style>
</head>
<body>
`

var htmlFooter = `</body>
</html>
`
