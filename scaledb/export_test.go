// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaledb

import (
	"database/sql"
	"time"
)

// SetNow sets the time used for new runs. A zero t restores the
// clock.
func SetNow(t time.Time) {
	if t.IsZero() {
		now = time.Now
		return
	}
	now = func() time.Time { return t }
}

func DBSQL(db *DB) *sql.DB {
	return db.sql
}
