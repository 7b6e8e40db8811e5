// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package categories ranks subject categories of paper records by frequency
// for a given year. Records are read from an existing SQLite table; the
// ranker never writes to it.
//
// The pipeline is three independent steps: Load reads columns into memory,
// a Derive step adds a year column, and Rank tallies categories for one year
// of a named year column. Data-source problems never abort the pipeline: they
// are logged, kept in Warnings, and leave later steps with empty results.
package categories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/pdiddy/paper-insights/pkg/types"
)

// Column names read and produced by the ranker.
const (
	ColumnCategories  = "categories"
	ColumnVersions    = "versions"
	ColumnUpdateDate  = "update_date"
	ColumnVersionYear = "version_year"
	ColumnUpdateYear  = "update_year"
)

const (
	defaultTable = "ARXIV"
	defaultTop   = 10
)

// DefaultColumns are the columns loaded for the version-year ranking.
var DefaultColumns = []string{ColumnCategories, ColumnVersions}

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	yearPattern  = regexp.MustCompile(`\d{4}`)
)

// Ranker holds one in-memory snapshot of a table and the warnings collected
// while building it.
type Ranker struct {
	db       *sql.DB
	source   string
	top      int
	log      *slog.Logger
	table    *Table
	warnings []error
}

// Open opens the SQLite database at cfg.Database read-only. The file is not
// touched until Load runs, so a missing database surfaces as a QueryError.
func Open(cfg types.CategoriesConfig, log *slog.Logger) (*Ranker, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = types.DriverMattn
	}
	switch driver {
	case types.DriverMattn, types.DriverModernc:
	default:
		return nil, fmt.Errorf("unsupported sqlite driver %q (want %s or %s)", driver, types.DriverMattn, types.DriverModernc)
	}
	if cfg.Database == "" {
		return nil, errors.New("no database path configured")
	}

	db, err := sql.Open(string(driver), readOnlyDSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database, err)
	}
	return New(db, cfg.Database, cfg.Top, log), nil
}

// uriEscaper escapes the characters that end or alter the path part of an
// SQLite file: URI.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// readOnlyDSN builds a read-only SQLite URI for path.
func readOnlyDSN(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=ro"
}

// New wraps an open database. source names it in messages. top <= 0 selects
// the default of 10.
func New(db *sql.DB, source string, top int, log *slog.Logger) *Ranker {
	if top <= 0 {
		top = defaultTop
	}
	return &Ranker{
		db:     db,
		source: source,
		top:    top,
		log:    log,
		table:  &Table{},
	}
}

// Close releases the database connection.
func (r *Ranker) Close() error {
	return r.db.Close()
}

// Table returns the current in-memory snapshot.
func (r *Ranker) Table() *Table { return r.table }

// Warnings returns the non-fatal problems recorded so far, oldest first.
func (r *Ranker) Warnings() []error {
	return append([]error(nil), r.warnings...)
}

func (r *Ranker) warn(err error) error {
	r.warnings = append(r.warnings, err)
	r.log.Warn("category ranking degraded", slog.String("source", r.source), slog.Any("err", err))
	return err
}

// Load reads columns from table into memory, replacing any previous
// snapshot. On failure the snapshot is empty and a *QueryError is returned.
func (r *Ranker) Load(ctx context.Context, table string, columns []string) error {
	if table == "" {
		table = defaultTable
	}
	r.table = &Table{}

	loaded, err := r.query(ctx, table, columns)
	if err != nil {
		return r.warn(&QueryError{Source: r.source, Table: table, Columns: columns, Err: err})
	}
	r.table = loaded
	r.log.Debug("records loaded", slog.String("table", table), slog.Int("rows", loaded.Len()))
	return nil
}

func (r *Ranker) query(ctx context.Context, table string, columns []string) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.New("no columns requested")
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		if !identPattern.MatchString(c) {
			return nil, fmt.Errorf("invalid column name %q", c)
		}
		quoted[i] = `"` + c + `"`
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	query := fmt.Sprintf(`SELECT %s FROM "%s"`, strings.Join(quoted, ", "), table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := &Table{columns: append([]string(nil), columns...)}
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			row[i] = c.String
		}
		t.rows = append(t.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

type versionEntry struct {
	Created string `json:"created"`
}

// VersionYear returns the 4-digit year of the last entry's created field in
// a JSON-encoded version list. Earlier entries are ignored.
func VersionYear(raw string) (string, error) {
	var entries []versionEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return "", fmt.Errorf("parsing versions: %w", err)
	}
	if len(entries) == 0 {
		return "", errors.New("empty version list")
	}
	created := entries[len(entries)-1].Created
	year := yearPattern.FindString(created)
	if year == "" {
		return "", fmt.Errorf("no year in created %q", created)
	}
	return year, nil
}

// UpdateYear returns the year field of a YYYY-MM-DD date.
func UpdateYear(raw string) (string, error) {
	year, _, _ := strings.Cut(strings.TrimSpace(raw), "-")
	if len(year) != 4 || !yearPattern.MatchString(year) {
		return "", fmt.Errorf("no year in update date %q", raw)
	}
	return year, nil
}

// DeriveVersionYear adds the version_year column from the versions column.
func (r *Ranker) DeriveVersionYear() error {
	return r.derive("derive version year", ColumnVersions, ColumnVersionYear, VersionYear)
}

// DeriveUpdateYear adds the update_year column from the update_date column.
func (r *Ranker) DeriveUpdateYear() error {
	return r.derive("derive update year", ColumnUpdateDate, ColumnUpdateYear, UpdateYear)
}

func (r *Ranker) derive(op, from, to string, extract func(string) (string, error)) error {
	values, ok := r.table.Column(from)
	if !ok {
		return r.warn(&SchemaError{Op: op, Column: from})
	}

	years := make([]string, len(values))
	malformed := 0
	for i, raw := range values {
		year, err := extract(raw)
		if err != nil {
			malformed++
			continue
		}
		years[i] = year
	}
	if err := r.table.SetColumn(to, years); err != nil {
		return r.warn(err)
	}
	if malformed > 0 {
		r.warn(&RowsError{Column: to, Malformed: malformed, Total: len(values)})
	}
	return nil
}

// latestYearColumn returns the last column whose name contains "year".
func (r *Ranker) latestYearColumn() string {
	col := ""
	for _, c := range r.table.columns {
		if strings.Contains(c, "year") {
			col = c
		}
	}
	return col
}

// Rank tallies the categories of rows whose column equals year and returns
// the most frequent ones, at most the configured top count. An empty column
// selects the most recently derived year column.
func (r *Ranker) Rank(year int, column string) []types.CategoryRank {
	// An empty table already carries the load warning.
	quiet := len(r.table.columns) == 0

	if column == "" {
		column = r.latestYearColumn()
	}
	years, ok := r.table.Column(column)
	if !ok {
		if !quiet {
			if column == "" {
				column = "*year*"
			}
			r.warn(&SchemaError{Op: "rank", Column: column})
		}
		return nil
	}
	cats, ok := r.table.Column(ColumnCategories)
	if !ok {
		if !quiet {
			r.warn(&SchemaError{Op: "rank", Column: ColumnCategories})
		}
		return nil
	}

	want := strconv.Itoa(year)
	var labels []string
	for i, y := range years {
		if y == want {
			labels = append(labels, cats[i])
		}
	}
	return Tally(labels, r.top)
}

// Tally counts labels and returns the top most frequent, ties in
// first-seen order. Blank labels are not counted.
func Tally(labels []string, top int) []types.CategoryRank {
	counts := make(map[string]int)
	var order []string
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if top > 0 && len(order) > top {
		order = order[:top]
	}

	ranks := make([]types.CategoryRank, len(order))
	for i, l := range order {
		ranks[i] = types.CategoryRank{Rank: i + 1, Label: l, Count: counts[l]}
	}
	return ranks
}

// Report ranks year on column and bundles the result with the warnings
// recorded so far.
func (r *Ranker) Report(year int, column string) Report {
	ranks := r.Rank(year, column)
	if column == "" {
		column = r.latestYearColumn()
	}
	return Report{
		Year:     year,
		Top:      r.top,
		Column:   column,
		Ranks:    ranks,
		Warnings: r.Warnings(),
	}
}

// TopCategories runs the whole version-year pipeline against cfg. It never
// fails: every problem ends up in the report's warnings.
func TopCategories(ctx context.Context, cfg types.CategoriesConfig, log *slog.Logger) Report {
	return TopCategoriesBy(ctx, cfg, ColumnVersionYear, log)
}

// TopCategoriesBy ranks on the version_year or the update_year column,
// loading and deriving only what that column needs. Any other column is
// reported as a SchemaError.
func TopCategoriesBy(ctx context.Context, cfg types.CategoriesConfig, column string, log *slog.Logger) Report {
	r, err := Open(cfg, log)
	if err != nil {
		log.Warn("category ranking degraded", slog.String("source", cfg.Database), slog.Any("err", err))
		top := cfg.Top
		if top <= 0 {
			top = defaultTop
		}
		return Report{Year: cfg.Year, Top: top, Column: column, Warnings: []error{err}}
	}
	defer r.Close()

	switch column {
	case ColumnVersionYear:
		r.Load(ctx, cfg.Table, DefaultColumns)
		r.DeriveVersionYear()
	case ColumnUpdateYear:
		r.Load(ctx, cfg.Table, []string{ColumnCategories, ColumnUpdateDate})
		r.DeriveUpdateYear()
	default:
		r.warn(&SchemaError{Op: "rank", Column: column})
		return Report{Year: cfg.Year, Top: r.top, Column: column, Warnings: r.Warnings()}
	}
	return r.Report(cfg.Year, column)
}
