// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-insights/internal/logger"
	"github.com/pdiddy/paper-insights/pkg/types"
)

type record struct {
	categories string
	versions   string
	updateDate string
}

func versions(dates ...string) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = fmt.Sprintf(`{"version": "v%d", "created": %q}`, i+1, d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// writeDB creates an ARXIV table in a fresh SQLite file and returns its path.
func writeDB(t *testing.T, records []record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arxiv.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE ARXIV (id TEXT, categories TEXT, versions TEXT, update_date TEXT)`)
	require.NoError(t, err)
	for i, r := range records {
		_, err := db.Exec(`INSERT INTO ARXIV VALUES (?, ?, ?, ?)`,
			fmt.Sprintf("%04d.%05d", 2000+i, i), r.categories, r.versions, r.updateDate)
		require.NoError(t, err)
	}
	return path
}

func openRanker(t *testing.T, path string, driver types.SQLiteDriver) *Ranker {
	t.Helper()
	r, err := Open(types.CategoriesConfig{Database: path, Driver: driver}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

// twelveIn2020 spans 4 categories with counts 5, 4, 2, 1, plus noise from 2019.
func twelveIn2020() []record {
	var rs []record
	add := func(cat string, n int, dates ...string) {
		for i := 0; i < n; i++ {
			rs = append(rs, record{categories: cat, versions: versions(dates...), updateDate: "2021-01-05"})
		}
	}
	add("hep-ph", 2, "Mon, 2 Apr 2007 19:18:42 GMT", "Tue, 3 Mar 2020 10:00:00 GMT")
	add("cs.CL", 4, "Wed, 1 Jan 2020 00:00:00 GMT")
	add("hep-ph", 3, "Thu, 5 Nov 2020 08:00:00 GMT")
	add("math.CO", 2, "Fri, 6 Nov 2020 08:00:00 GMT")
	add("astro-ph", 1, "Sat, 7 Nov 2020 08:00:00 GMT")
	add("cs.LG", 6, "Sun, 1 Dec 2019 08:00:00 GMT")
	return rs
}

func TestVersionYear(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"last entry wins", `[{"created": "2019-01-01"}, {"created": "2020-06-15"}]`, "2020", false},
		{"rfc1123 date", versions("Mon, 2 Apr 2007 19:18:42 GMT"), "2007", false},
		{"not json", `[{'created': '2019'}]`, "", true},
		{"empty list", `[]`, "", true},
		{"no year", `[{"created": "yesterday"}]`, "", true},
		{"missing created", `[{"version": "v1"}]`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VersionYear(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateYear(t *testing.T) {
	got, err := UpdateYear("2008-11-13")
	require.NoError(t, err)
	assert.Equal(t, "2008", got)

	_, err = UpdateYear("")
	assert.Error(t, err)
	_, err = UpdateYear("13/11/2008")
	assert.Error(t, err)
}

func TestTally(t *testing.T) {
	labels := []string{"b", "a", "c", "a", "b", "d", "", "  "}
	got := Tally(labels, 10)
	require.Len(t, got, 4)

	// a and b tie on 2; b was seen first.
	assert.Equal(t, types.CategoryRank{Rank: 1, Label: "b", Count: 2}, got[0])
	assert.Equal(t, types.CategoryRank{Rank: 2, Label: "a", Count: 2}, got[1])
	assert.Equal(t, "c", got[2].Label)
	assert.Equal(t, "d", got[3].Label)
}

func TestTally_TruncatesToTop(t *testing.T) {
	var labels []string
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			labels = append(labels, fmt.Sprintf("cat-%02d", i))
		}
	}
	got := Tally(labels, 10)
	require.Len(t, got, 10)

	seen := map[string]bool{}
	for i, rk := range got {
		assert.False(t, seen[rk.Label], "duplicate label %s", rk.Label)
		seen[rk.Label] = true
		assert.Equal(t, i+1, rk.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Count, rk.Count)
		}
	}
	assert.Equal(t, "cat-11", got[0].Label)
}

func TestTopCategories_EndToEnd(t *testing.T) {
	path := writeDB(t, twelveIn2020())

	for _, driver := range []types.SQLiteDriver{types.DriverModernc, types.DriverMattn} {
		t.Run(string(driver), func(t *testing.T) {
			report := TopCategories(context.Background(), types.CategoriesConfig{
				Database: path,
				Driver:   driver,
				Table:    "ARXIV",
				Year:     2020,
			}, logger.Discard())

			assert.Empty(t, report.Warnings)
			assert.Equal(t, []string{"hep-ph", "cs.CL", "math.CO", "astro-ph"}, report.Labels())
			assert.Equal(t, 5, report.Ranks[0].Count)

			want := "TOP 10 CATEGORIES FOR YEAR 2020: \n" +
				"  #1: hep-ph\n" +
				"  #2: cs.CL\n" +
				"  #3: math.CO\n" +
				"  #4: astro-ph\n"
			assert.Equal(t, want, report.String())
		})
	}
}

func TestReadOnlyDSN(t *testing.T) {
	assert.Equal(t, "file:data/arxiv.db?mode=ro", readOnlyDSN("data/arxiv.db"))
	assert.Equal(t, "file:/srv/dump%3Fv=1%23b%2520/arxiv.db?mode=ro", readOnlyDSN("/srv/dump?v=1#b%20/arxiv.db"))
}

func TestTopCategories_PathWithURICharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump?v=1#b%20")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "arxiv.db")
	require.NoError(t, os.Rename(writeDB(t, twelveIn2020()), path))

	for _, driver := range []types.SQLiteDriver{types.DriverModernc, types.DriverMattn} {
		t.Run(string(driver), func(t *testing.T) {
			report := TopCategories(context.Background(), types.CategoriesConfig{
				Database: path,
				Driver:   driver,
				Table:    "ARXIV",
				Year:     2020,
			}, logger.Discard())

			assert.Empty(t, report.Warnings)
			assert.Equal(t, []string{"hep-ph", "cs.CL", "math.CO", "astro-ph"}, report.Labels())
		})
	}
}

func TestRank_NoMatchingYear(t *testing.T) {
	r := openRanker(t, writeDB(t, twelveIn2020()), types.DriverModernc)
	require.NoError(t, r.Load(context.Background(), "ARXIV", DefaultColumns))
	require.NoError(t, r.DeriveVersionYear())

	report := r.Report(1999, ColumnVersionYear)
	assert.Empty(t, report.Ranks)
	assert.Equal(t, "TOP 10 CATEGORIES FOR YEAR 1999: \n", report.String())
}

func TestLoad_MissingTable(t *testing.T) {
	r := openRanker(t, writeDB(t, twelveIn2020()), types.DriverModernc)

	err := r.Load(context.Background(), "PAPERS", DefaultColumns)
	var qerr *QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, "PAPERS", qerr.Table)
	assert.Equal(t, 0, r.Table().Len())

	var serr *SchemaError
	assert.True(t, errors.As(r.DeriveVersionYear(), &serr))

	report := r.Report(2020, ColumnVersionYear)
	assert.Empty(t, report.Ranks)
	assert.Len(t, report.Warnings, 2)
}

func TestLoad_RejectsInvalidIdentifiers(t *testing.T) {
	r := openRanker(t, writeDB(t, twelveIn2020()), types.DriverModernc)

	err := r.Load(context.Background(), "ARXIV; DROP TABLE ARXIV", DefaultColumns)
	var qerr *QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Contains(t, qerr.Error(), "invalid table name")

	err = r.Load(context.Background(), "ARXIV", []string{"categories", "1=1"})
	require.True(t, errors.As(err, &qerr))
	assert.Contains(t, qerr.Error(), "invalid column name")

	require.NoError(t, r.Load(context.Background(), "ARXIV", DefaultColumns))
	assert.Equal(t, 18, r.Table().Len())
}

func TestDeriveVersionYear_MissingColumn(t *testing.T) {
	r := openRanker(t, writeDB(t, twelveIn2020()), types.DriverModernc)
	require.NoError(t, r.Load(context.Background(), "ARXIV", []string{ColumnCategories}))

	err := r.DeriveVersionYear()
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ColumnVersions, serr.Column)
	assert.Equal(t, []string{ColumnCategories}, r.Table().Columns())

	assert.Empty(t, r.Rank(2020, ColumnVersionYear))
	assert.Empty(t, r.Rank(2020, ""))
	assert.Len(t, r.Warnings(), 3)
}

func TestDeriveVersionYear_MalformedRowsExcluded(t *testing.T) {
	rs := twelveIn2020()
	rs = append(rs,
		record{categories: "bogus", versions: "not json"},
		record{categories: "bogus", versions: `[]`},
		record{categories: "bogus", versions: `[{"created": "2020"}, {"created": "n/a"}]`},
	)
	r := openRanker(t, writeDB(t, rs), types.DriverModernc)
	require.NoError(t, r.Load(context.Background(), "ARXIV", DefaultColumns))
	require.NoError(t, r.DeriveVersionYear())

	warnings := r.Warnings()
	require.Len(t, warnings, 1)
	var rerr *RowsError
	require.True(t, errors.As(warnings[0], &rerr))
	assert.Equal(t, 3, rerr.Malformed)
	assert.Equal(t, 21, rerr.Total)

	assert.NotContains(t, labelsOf(r.Rank(2020, ColumnVersionYear)), "bogus")
}

func TestRank_LatestYearColumnFallback(t *testing.T) {
	r := openRanker(t, writeDB(t, twelveIn2020()), types.DriverModernc)
	require.NoError(t, r.Load(context.Background(), "ARXIV",
		[]string{ColumnCategories, ColumnVersions, ColumnUpdateDate}))
	require.NoError(t, r.DeriveVersionYear())
	require.NoError(t, r.DeriveUpdateYear())

	// update_year was derived last, and every record was updated in 2021.
	fallback := r.Rank(2021, "")
	require.Len(t, fallback, 5)
	assert.Equal(t, "cs.LG", fallback[0].Label)

	explicit := r.Report(2020, ColumnVersionYear)
	assert.Equal(t, ColumnVersionYear, explicit.Column)
	assert.Len(t, explicit.Ranks, 4)
}

func TestDeriveUpdateYear_MissingColumn(t *testing.T) {
	r := openRanker(t, writeDB(t, twelveIn2020()), types.DriverModernc)
	require.NoError(t, r.Load(context.Background(), "ARXIV", DefaultColumns))

	var serr *SchemaError
	require.True(t, errors.As(r.DeriveUpdateYear(), &serr))
	assert.Equal(t, ColumnUpdateDate, serr.Column)
	assert.Empty(t, r.Rank(2021, ColumnUpdateYear))
}

func TestTopCategories_MissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	report := TopCategories(context.Background(), types.CategoriesConfig{
		Database: path,
		Driver:   types.DriverModernc,
		Year:     2020,
	}, logger.Discard())

	assert.Empty(t, report.Ranks)
	assert.NotEmpty(t, report.Warnings)
	assert.Equal(t, "TOP 10 CATEGORIES FOR YEAR 2020: \n", report.String())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "read-only open must not create the database")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(types.CategoriesConfig{Database: "x.db", Driver: "postgres"}, logger.Discard())
	assert.Error(t, err)
}

func labelsOf(ranks []types.CategoryRank) []string {
	out := make([]string, len(ranks))
	for i, rk := range ranks {
		out[i] = rk.Label
	}
	return out
}

func TestTopCategoriesBy(t *testing.T) {
	path := writeDB(t, twelveIn2020())
	cfg := types.CategoriesConfig{Database: path, Driver: types.DriverModernc, Year: 2021}

	report := TopCategoriesBy(context.Background(), cfg, ColumnUpdateYear, logger.Discard())
	assert.Empty(t, report.Warnings)
	assert.Equal(t, ColumnUpdateYear, report.Column)
	require.Len(t, report.Ranks, 5)
	assert.Equal(t, types.CategoryRank{Rank: 1, Label: "cs.LG", Count: 6}, report.Ranks[0])

	cfg.Year = 2020
	report = TopCategoriesBy(context.Background(), cfg, ColumnVersionYear, logger.Discard())
	assert.Equal(t, []string{"hep-ph", "cs.CL", "math.CO", "astro-ph"}, report.Labels())

	report = TopCategoriesBy(context.Background(), cfg, "publish_year", logger.Discard())
	assert.Empty(t, report.Ranks)
	var serr *SchemaError
	require.Len(t, report.Warnings, 1)
	assert.True(t, errors.As(report.Warnings[0], &serr))
	assert.Equal(t, "publish_year", serr.Column)
}
