// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire looks papers up in the arXiv index and downloads their
// PDF bodies.
package acquire

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/paper-insights/internal/httputil"
	"github.com/pdiddy/paper-insights/pkg/types"
)

// ErrNotFound is returned when the index has no record for an identifier.
var ErrNotFound = errors.New("paper not found")

const (
	defaultTimeout         = 60 * time.Second
	defaultUserAgent       = "paper-insights/0.1"
	defaultRequestInterval = 3 * time.Second
)

var whitespace = regexp.MustCompile(`\s+`)

// Client talks to the arXiv API. Calls share one pacing budget.
type Client struct {
	http *httputil.Client
	cfg  types.ArxivConfig
	log  *slog.Logger
}

// NewClient applies defaults to cfg and returns a Client.
func NewClient(cfg types.ArxivConfig, log *slog.Logger) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.PDFBase == "" {
		cfg.PDFBase = DefaultPDFBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.RequestInterval == 0 {
		cfg.RequestInterval = defaultRequestInterval
	}
	hc := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		http: httputil.NewClient(hc, cfg.RequestInterval, cfg.MaxRetries, log),
		cfg:  cfg,
		log:  log,
	}
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
	Links      []arxivLink     `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Lookup searches the index by identifier and returns the first match.
func (c *Client) Lookup(ctx context.Context, identifier string) (*types.Paper, error) {
	id, err := Classify(identifier)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("id_list", id)
	q.Set("max_results", "1")
	apiURL := c.cfg.APIBase + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	// arXiv answers 400 for malformed id_list values.
	if resp.StatusCode == http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	for _, entry := range feed.Entries {
		// Unknown IDs come back as an empty entry or an "Error" entry.
		if entry.ID == "" || strings.Contains(entry.ID, "/api/errors") {
			continue
		}
		paper := c.toPaper(id, entry)
		c.log.Debug("paper found", slog.String("id", id), slog.String("title", paper.Title))
		return paper, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (c *Client) toPaper(id string, entry arxivEntry) *types.Paper {
	p := &types.Paper{
		ID:       id,
		Title:    collapse(entry.Title),
		Abstract: collapse(entry.Summary),
		PDFURL:   PDFURL(c.cfg.PDFBase, id),
	}
	for _, a := range entry.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	for _, cat := range entry.Categories {
		if term := strings.TrimSpace(cat.Term); term != "" {
			p.Categories = append(p.Categories, term)
		}
	}
	for _, l := range entry.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			p.PDFURL = l.Href
			break
		}
	}
	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		p.Date = t
	}
	return p
}

func collapse(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Download fetches the paper's PDF to destPath through a temporary file and
// records destPath on the paper. A partial download never lands at destPath.
func (c *Client) Download(ctx context.Context, paper *types.Paper, destPath string) error {
	if paper.PDFURL == "" {
		return fmt.Errorf("no PDF URL for %s", paper.ID)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(destPath), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, paper.PDFURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, paper.PDFURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	paper.PDFPath = destPath
	c.log.Debug("paper downloaded", slog.String("id", paper.ID), slog.Int64("bytes", n))
	return nil
}
