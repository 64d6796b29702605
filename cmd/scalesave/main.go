// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scalesave stores scaling samples in a database.
//
// Usage:
//
//	scalesave -db driver:dsn [-label name] [-v] file.dat...
//
// The samples of all input files are stored together as one run.
// The run is committed only if every file is read successfully;
// lines that cannot be parsed are reported and skipped. Scalesave
// prints the ID of the new run, which can be passed to scalestat's
// -run flag.
//
// The driver is sqlite3 or mysql. For example,
//
//	scalesave -db sqlite3:samples.db -label "wave 4096" wave.dat
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
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/wavebench/scalestat/scaledb"
	_ "github.com/wavebench/scalestat/scaledb/sqlite3"
	"github.com/wavebench/scalestat/scalefmt"
)

func main() {
	log.SetPrefix("scalesave: ")
	log.SetFlags(0)

	if err := scalesave(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func scalesave(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("scalesave", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage of scalesave:
	scalesave -db driver:dsn [flags] file...
`)
		flags.PrintDefaults()
	}
	flagDB := flags.String("db", "", "store samples in database `driver:dsn`")
	flagLabel := flags.String("label", "", "describe the run as `name`")
	flagVerbose := flags.Bool("v", false, "print verbose log messages")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() == 0 {
		return fmt.Errorf("no files to save")
	}
	driver, dsn, ok := strings.Cut(*flagDB, ":")
	if !ok || driver == "" {
		return fmt.Errorf("-db must be driver:dsn, got %q", *flagDB)
	}
	label := *flagLabel
	if label == "" {
		label = strings.Join(flags.Args(), " ")
	}

	db, err := scaledb.OpenSQL(driver, dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	start := time.Now()
	ctx := context.Background()
	run, err := db.NewRun(ctx, label)
	if err != nil {
		return err
	}
	defer run.Abort()

	n := 0
	files := scalefmt.Files{Paths: flags.Args()}
	for files.Scan() {
		switch rec := files.Result().(type) {
		case *scalefmt.SyntaxError:
			fmt.Fprintln(wErr, rec)
		case *scalefmt.Result:
			if err := run.InsertSample(&rec.Sample); err != nil {
				return err
			}
			n++
		}
	}
	if err := files.Err(); err != nil {
		return err
	}
	if err := run.Commit(); err != nil {
		return err
	}

	if *flagVerbose {
		s := ""
		if n != 1 {
			s = "s"
		}
		fmt.Fprintf(wErr, "%d sample%s saved in %.2f seconds.\n", n, s, time.Since(start).Seconds())
	}
	fmt.Fprintf(w, "%d\n", run.ID)
	return nil
}
