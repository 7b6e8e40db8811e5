// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords fetches a paper, extracts its text, renders its word
// cloud and ranks its keywords. Each request works in its own scratch
// directory, removed when the request ends.
package keywords

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-insights/internal/acquire"
	"github.com/pdiddy/paper-insights/internal/convert"
	"github.com/pdiddy/paper-insights/pkg/types"
)

const defaultCount = 20

// PaperSource finds papers and downloads their bodies.
type PaperSource interface {
	Lookup(ctx context.Context, identifier string) (*types.Paper, error)
	Download(ctx context.Context, paper *types.Paper, destPath string) error
}

// CloudRenderer writes a word-cloud image of text to path.
type CloudRenderer interface {
	RenderFile(path, text string) error
}

// ArtifactStore names and indexes rendered images per paper. Reserve keeps
// the path from being evicted until Put or Release.
type ArtifactStore interface {
	Reserve(paperID string) string
	Release(paperID string)
	Put(paperID, path string)
}

// Extractor runs the keyword pipeline. It is safe for concurrent use; all
// per-request state lives in an Analysis.
type Extractor struct {
	source    PaperSource
	converter convert.Converter
	renderer  CloudRenderer
	store     ArtifactStore
	count     int
	workDir   string
	timeout   time.Duration
	log       *slog.Logger
}

// New returns an Extractor. An empty cfg.WorkDir uses the system temp
// directory and a non-positive cfg.Count uses 20.
func New(source PaperSource, converter convert.Converter, renderer CloudRenderer, store ArtifactStore, cfg types.KeywordsConfig, log *slog.Logger) *Extractor {
	e := &Extractor{
		source:    source,
		converter: converter,
		renderer:  renderer,
		store:     store,
		count:     cfg.Count,
		workDir:   cfg.WorkDir,
		timeout:   cfg.Timeout,
		log:       log,
	}
	if e.count <= 0 {
		e.count = defaultCount
	}
	if e.workDir == "" {
		e.workDir = filepath.Join(os.TempDir(), "paper-insights")
	}
	return e
}

// Count returns the default number of keywords.
func (e *Extractor) Count() int { return e.count }

// Analysis is the state of one paper request: identity, title, extracted
// text and the transient PDF.
type Analysis struct {
	e       *Extractor
	id      string
	scratch string

	// PaperID is the identifier as requested until Retrieve normalizes it.
	PaperID string
	Title   string
	Text    string
	PDFPath string
}

// Open starts an analysis of paperID. Nothing touches the network or the
// filesystem until Retrieve.
func (e *Extractor) Open(paperID string) *Analysis {
	return &Analysis{
		e:       e,
		id:      uuid.NewString(),
		PaperID: paperID,
	}
}

// Retrieve looks the paper up, downloads it to a scratch directory and
// extracts its text. An unknown paper yields an error matching
// acquire.ErrNotFound and a malformed identifier one matching
// acquire.ErrInvalidID; every failure is a *RetrievalError.
func (a *Analysis) Retrieve(ctx context.Context) error {
	paper, err := a.e.source.Lookup(ctx, a.PaperID)
	if err != nil {
		return &RetrievalError{PaperID: a.PaperID, Op: OpLookup, Err: err}
	}
	a.PaperID = paper.ID
	a.Title = paper.Title

	a.scratch = filepath.Join(a.e.workDir, a.id)
	dest := filepath.Join(a.scratch, acquire.Slug(paper.ID)+".pdf")
	if err := a.e.source.Download(ctx, paper, dest); err != nil {
		return &RetrievalError{PaperID: a.PaperID, Op: OpDownload, Err: err}
	}
	a.PDFPath = dest

	text, err := a.e.converter.Convert(ctx, dest)
	if err != nil {
		return &RetrievalError{PaperID: a.PaperID, Op: OpExtract, Err: err}
	}
	a.Text = text

	a.e.log.Debug("paper retrieved",
		slog.String("paper_id", a.PaperID),
		slog.Int("text_bytes", len(text)))
	return nil
}

// RenderWordCloud renders the text to the paper's image path, registers it
// in the artifact store and returns the path.
func (a *Analysis) RenderWordCloud(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RetrievalError{PaperID: a.PaperID, Op: OpRender, Err: err}
	}
	path := a.e.store.Reserve(a.PaperID)
	if err := a.e.renderer.RenderFile(path, a.Text); err != nil {
		a.e.store.Release(a.PaperID)
		return "", &RetrievalError{PaperID: a.PaperID, Op: OpRender, Err: err}
	}
	a.e.store.Put(a.PaperID, path)
	return path, nil
}

// ExtractKeywords ranks the text and keeps the first n phrases. Empty text
// gives an empty list under the usual header.
func (a *Analysis) ExtractKeywords(n int) Result {
	return Result{
		N:        n,
		PaperID:  a.PaperID,
		Title:    a.Title,
		Keywords: Top(a.Text, n),
	}
}

// Cleanup removes the transient PDF and its scratch directory. It may be
// called any number of times; removal failures are logged, not returned.
func (a *Analysis) Cleanup() {
	if a.PDFPath != "" {
		a.remove(a.PDFPath)
		a.PDFPath = ""
	}
	if a.scratch != "" {
		a.remove(a.scratch)
		a.scratch = ""
	}
}

func (a *Analysis) remove(path string) {
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.e.log.Warn("cleanup failed",
			slog.String("paper_id", a.PaperID),
			slog.String("path", path),
			slog.Any("err", err))
	}
}

// Run retrieves the paper, renders its word cloud and extracts n keywords,
// removing the transient download whatever the outcome. A non-positive n
// uses the configured count. Retrieval failures stop the run before
// anything is rendered.
func (e *Extractor) Run(ctx context.Context, paperID string, n int) (Result, error) {
	if n <= 0 {
		n = e.count
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	a := e.Open(paperID)
	defer a.Cleanup()

	if err := a.Retrieve(ctx); err != nil {
		return Result{}, err
	}
	path, err := a.RenderWordCloud(ctx)
	if err != nil {
		return Result{}, err
	}
	res := a.ExtractKeywords(n)
	res.WordCloud = path

	e.log.Info("keywords extracted",
		slog.String("paper_id", res.PaperID),
		slog.Int("requested", n),
		slog.Int("found", len(res.Keywords)),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}
