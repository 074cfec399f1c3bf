package sqlstore

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

var columns = []string{
	"apply_link", "title", "subtitle", "location", "posted",
	"posted_on", "content", "checksum", "sequence_num", "fetched_at",
}

type dialect struct {
	name        string
	driver      string
	createTable string
	placeholder func(n int) string
	upsert      func() string
}

var dialects = map[string]dialect{
	"sqlite": {
		name:   "sqlite",
		driver: "sqlite",
		createTable: `
			CREATE TABLE IF NOT EXISTS job_records (
				apply_link   TEXT PRIMARY KEY,
				title        TEXT NOT NULL,
				subtitle     TEXT NOT NULL,
				location     TEXT NOT NULL,
				posted       TEXT NOT NULL,
				posted_on    TIMESTAMP NULL,
				content      TEXT NULL,
				checksum     TEXT NOT NULL,
				sequence_num INTEGER NOT NULL,
				fetched_at   TIMESTAMP NOT NULL
			)`,
		placeholder: func(int) string { return "?" },
	},
	"postgres": {
		name:   "postgres",
		driver: "postgres",
		createTable: `
			CREATE TABLE IF NOT EXISTS job_records (
				apply_link   TEXT PRIMARY KEY,
				title        TEXT NOT NULL,
				subtitle     TEXT NOT NULL,
				location     TEXT NOT NULL,
				posted       TEXT NOT NULL,
				posted_on    DATE NULL,
				content      TEXT NULL,
				checksum     CHAR(64) NOT NULL,
				sequence_num INTEGER NOT NULL,
				fetched_at   TIMESTAMPTZ NOT NULL
			)`,
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	},
	"mssql": {
		name:   "mssql",
		driver: "sqlserver",
		createTable: `
			IF OBJECT_ID(N'job_records', N'U') IS NULL
			CREATE TABLE job_records (
				[apply_link]   NVARCHAR(450) NOT NULL PRIMARY KEY,
				[title]        NVARCHAR(MAX) NOT NULL,
				[subtitle]     NVARCHAR(MAX) NOT NULL,
				[location]     NVARCHAR(MAX) NOT NULL,
				[posted]       NVARCHAR(200) NOT NULL,
				[posted_on]    DATE NULL,
				[content]      NVARCHAR(MAX) NULL,
				[checksum]     CHAR(64) NOT NULL,
				[sequence_num] INT NOT NULL,
				[fetched_at]   DATETIME2 NOT NULL
			)`,
		placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) },
	},
}

func (d dialect) placeholders() []string {
	out := make([]string, len(columns))
	for i := range columns {
		out[i] = d.placeholder(i + 1)
	}
	return out
}

// upsertQuery builds the insert-or-update statement. Arguments are bound
// positionally in columns order.
func (d dialect) upsertQuery() string {
	ph := d.placeholders()

	if d.name == "mssql" {
		sets := make([]string, 0, len(columns)-1)
		for i, c := range columns[1:] {
			sets = append(sets, fmt.Sprintf("[%s] = %s", c, ph[i+1]))
		}
		return fmt.Sprintf(`
			MERGE INTO job_records AS target
			USING (SELECT %s AS apply_link) AS source
			ON target.[apply_link] = source.apply_link
			WHEN MATCHED THEN
				UPDATE SET %s
			WHEN NOT MATCHED THEN
				INSERT (%s)
				VALUES (%s);`,
			ph[0], strings.Join(sets, ", "), strings.Join(columns, ", "), strings.Join(ph, ", "))
	}

	sets := make([]string, 0, len(columns)-1)
	for _, c := range columns[1:] {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf(`
		INSERT INTO job_records (%s)
		VALUES (%s)
		ON CONFLICT (apply_link) DO UPDATE SET %s`,
		strings.Join(columns, ", "), strings.Join(ph, ", "), strings.Join(sets, ", "))
}

func (d dialect) existsQuery() string {
	return "SELECT COUNT(*) FROM job_records WHERE apply_link = " + d.placeholder(1)
}

func (d dialect) checksumQuery() string {
	return "SELECT checksum FROM job_records WHERE apply_link = " + d.placeholder(1)
}
