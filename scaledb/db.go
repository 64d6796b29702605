// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scaledb stores raw scaling samples in a SQL database.
//
// Samples are grouped into runs. A run is written in a single
// transaction and becomes visible when it is committed.
package scaledb

import (
	"bytes"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"golang.org/x/net/context"

	"github.com/wavebench/scalestat/scalefmt"
)

// DB is a high-level interface to a sample database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun    *sql.Stmt
	insertSample *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Label VARCHAR(255),
	Created BIGINT
);
CREATE TABLE IF NOT EXISTS Samples (
	RunID BIGINT UNSIGNED,
	SampleID BIGINT UNSIGNED,
	Threads INT,
	Schedule INT,
	Chunk INT,
	TimeMean DOUBLE,
	TimeStd DOUBLE,
	Speedup DOUBLE,
	Efficiency DOUBLE,
	SpeedupErr DOUBLE,
	EfficiencyErr DOUBLE,
	PRIMARY KEY (RunID, SampleID),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(Label, Created) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertSample, err = db.sql.Prepare(`INSERT INTO Samples(RunID, SampleID, Threads, Schedule, Chunk,
	TimeMean, TimeStd, Speedup, Efficiency, SpeedupErr, EfficiencyErr)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	return nil
}

// now is overridden by tests.
var now = time.Now

// A Run is a set of samples written together.
type Run struct {
	// ID is the database identifier of the run.
	ID int64
	// Label is a free-form description of the run.
	Label string
	// Created is when the run was started, with second precision.
	Created time.Time

	// sampleID is the index of the next sample to insert.
	sampleID int64
	// tx is the transaction holding the run until it is
	// committed.
	tx *sql.Tx
	db *DB
}

// NewRun starts a run for storing new samples. The run and its
// samples are not visible to other readers until Commit is called.
func (db *DB) NewRun(ctx context.Context, label string) (*Run, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	created := now().UTC().Truncate(time.Second)
	res, err := tx.StmtContext(ctx, db.insertRun).ExecContext(ctx, label, created.Unix())
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Run{ID: id, Label: label, Created: created, tx: tx, db: db}, nil
}

// InsertSample adds s to the run. Non-finite values are stored as
// NULL and read back as NaN.
func (r *Run) InsertSample(s *scalefmt.Sample) error {
	if r.tx == nil {
		return fmt.Errorf("run %d is closed", r.ID)
	}
	_, err := r.tx.Stmt(r.db.insertSample).Exec(
		r.ID, r.sampleID, s.Threads, int(s.Schedule), s.Chunk,
		nullFloat(s.TimeMean), nullFloat(s.TimeStd),
		nullFloat(s.Speedup), nullFloat(s.Efficiency),
		nullFloat(s.SpeedupErr), nullFloat(s.EfficiencyErr))
	if err != nil {
		return err
	}
	r.sampleID++
	return nil
}

// Commit makes the run visible to readers.
func (r *Run) Commit() error {
	if r.tx == nil {
		return fmt.Errorf("run %d is closed", r.ID)
	}
	err := r.tx.Commit()
	r.tx = nil
	return err
}

// Abort discards the run and its samples. It is a no-op on a run
// that was already committed or aborted.
func (r *Run) Abort() error {
	if r.tx == nil {
		return nil
	}
	err := r.tx.Rollback()
	r.tx = nil
	return err
}

// A RunInfo describes a stored run.
type RunInfo struct {
	ID      int64
	Label   string
	Created time.Time
	Samples int
}

// Runs returns every committed run, oldest first.
func (db *DB) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := db.sql.QueryContext(ctx, `SELECT r.RunID, r.Label, r.Created, COUNT(s.SampleID)
	FROM Runs r LEFT JOIN Samples s ON r.RunID = s.RunID
	GROUP BY r.RunID, r.Label, r.Created ORDER BY r.RunID`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []RunInfo
	for rows.Next() {
		var ri RunInfo
		var created int64
		if err := rows.Scan(&ri.ID, &ri.Label, &created, &ri.Samples); err != nil {
			return nil, err
		}
		ri.Created = time.Unix(created, 0).UTC()
		runs = append(runs, ri)
	}
	return runs, rows.Err()
}

// Samples returns the samples of run id in insertion order.
func (db *DB) Samples(ctx context.Context, id int64) ([]scalefmt.Sample, error) {
	var exists int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs WHERE RunID = ?", id).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %d not found", id)
	}

	rows, err := db.sql.QueryContext(ctx, `SELECT Threads, Schedule, Chunk,
	TimeMean, TimeStd, Speedup, Efficiency, SpeedupErr, EfficiencyErr
	FROM Samples WHERE RunID = ? ORDER BY SampleID`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var samples []scalefmt.Sample
	for rows.Next() {
		var s scalefmt.Sample
		var sched int
		var vals [6]sql.NullFloat64
		if err := rows.Scan(&s.Threads, &sched, &s.Chunk, &vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &vals[5]); err != nil {
			return nil, err
		}
		s.Schedule = scalefmt.Schedule(sched)
		for i, p := range []*float64{&s.TimeMean, &s.TimeStd, &s.Speedup, &s.Efficiency, &s.SpeedupErr, &s.EfficiencyErr} {
			*p = math.NaN()
			if vals[i].Valid {
				*p = vals[i].Float64
			}
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// CountRuns returns the number of runs in the database.
func (db *DB) CountRuns() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRun, db.insertSample} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}

func nullFloat(x float64) sql.NullFloat64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: x, Valid: true}
}
