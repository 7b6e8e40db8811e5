// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-insights/internal/logger"
	"github.com/pdiddy/paper-insights/pkg/types"
)

const sampleArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Test Paper
      Title</title>
    <summary>This is the abstract of the test paper.</summary>
    <published>2023-01-17T18:58:28Z</published>
    <author><name>Alice Smith</name></author>
    <author><name>Bob Jones</name></author>
    <link href="http://arxiv.org/abs/2301.07041v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="%s/pdf/2301.07041v1" rel="related" type="application/pdf"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

const emptyArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: id_list=9999.99999</title>
</feed>`

const errorArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_1234.1234</id>
    <title>Error</title>
    <summary>incorrect id format for 1234.1234</summary>
  </entry>
</feed>`

const fakePDFContent = "%PDF-1.4 fake"

// newTestServer serves arXiv API responses keyed by id_list and fake PDFs.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/query":
			w.Header().Set("Content-Type", "application/atom+xml")
			switch r.URL.Query().Get("id_list") {
			case "2301.07041":
				fmt.Fprintf(w, sampleArxivXML, ts.URL)
			case "1234.1234":
				fmt.Fprint(w, errorArxivXML)
			default:
				fmt.Fprint(w, emptyArxivXML)
			}
		case r.URL.Path == "/pdf/2301.07041v1":
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDFContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testClient(ts *httptest.Server) *Client {
	return NewClient(types.ArxivConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "paper-insights-test/0.1",
		},
		APIBase:         ts.URL + "/api/query",
		PDFBase:         ts.URL + "/pdf/",
		RequestInterval: time.Millisecond,
	}, logger.Discard())
}

func TestLookup(t *testing.T) {
	ts := newTestServer(t)
	c := testClient(ts)

	paper, err := c.Lookup(context.Background(), "arXiv:2301.07041")
	require.NoError(t, err)

	assert.Equal(t, "2301.07041", paper.ID)
	assert.Equal(t, "Test Paper Title", paper.Title)
	assert.Equal(t, []string{"Alice Smith", "Bob Jones"}, paper.Authors)
	assert.Equal(t, []string{"cs.CL", "cs.LG"}, paper.Categories)
	assert.Equal(t, ts.URL+"/pdf/2301.07041v1", paper.PDFURL)
	assert.Equal(t, 2023, paper.Date.Year())
}

func TestLookup_NotFound(t *testing.T) {
	ts := newTestServer(t)
	c := testClient(ts)

	for _, id := range []string{"9999.99999", "1234.1234"} {
		t.Run(id, func(t *testing.T) {
			_, err := c.Lookup(context.Background(), id)
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
		})
	}
}

func TestLookup_InvalidID(t *testing.T) {
	ts := newTestServer(t)
	_, err := testClient(ts).Lookup(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestLookup_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := testClient(ts).Lookup(context.Background(), "2301.07041")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestDownload(t *testing.T) {
	ts := newTestServer(t)
	c := testClient(ts)

	paper, err := c.Lookup(context.Background(), "2301.07041")
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "work", "2301.07041.pdf")
	require.NoError(t, c.Download(context.Background(), paper, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, fakePDFContent, string(data))
	assert.Equal(t, dest, paper.PDFPath)
}

func TestDownload_FailureLeavesNoFile(t *testing.T) {
	ts := newTestServer(t)
	c := testClient(ts)

	paper := &types.Paper{ID: "2301.00000", PDFURL: ts.URL + "/pdf/missing"}
	dir := t.TempDir()
	dest := filepath.Join(dir, "2301.00000.pdf")

	err := c.Download(context.Background(), paper, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".pdf") || strings.HasSuffix(e.Name(), ".tmp"),
			"unexpected file %s", e.Name())
	}
	assert.Empty(t, paper.PDFPath)
}
