// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-id/internal/platform/migration"
)

func TestPgx5DSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"postgres", "postgres://u:p@db:5432/id", "pgx5://u:p@db:5432/id"},
		{"postgresql", "postgresql://u:p@db/id?sslmode=disable", "pgx5://u:p@db/id?sslmode=disable"},
		{"already_pgx5", "pgx5://db/id", "pgx5://db/id"},
		{"keyword_dsn", "host=db dbname=id", "host=db dbname=id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.Pgx5DSN(tt.dsn))
		})
	}
}
