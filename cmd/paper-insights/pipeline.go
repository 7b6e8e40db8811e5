// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-insights/internal/acquire"
	"github.com/pdiddy/paper-insights/internal/artifacts"
	"github.com/pdiddy/paper-insights/internal/convert"
	"github.com/pdiddy/paper-insights/internal/keywords"
	"github.com/pdiddy/paper-insights/internal/wordcloud"
	"github.com/pdiddy/paper-insights/pkg/types"
)

// newPipeline wires the keyword extractor and the artifact store it renders
// into. The caller closes the store.
func newPipeline(ctx context.Context, cfg types.Config) (*keywords.Extractor, *artifacts.Store, error) {
	converter, err := convert.New(ctx, cfg.Keywords)
	if err != nil {
		return nil, nil, fmt.Errorf("text extraction backend: %w", err)
	}
	renderer, err := wordcloud.NewRenderer(cfg.WordCloud)
	if err != nil {
		return nil, nil, err
	}
	store, err := artifacts.New(cfg.WordCloud.Dir, cfg.WordCloud.TTL, log)
	if err != nil {
		return nil, nil, err
	}
	source := acquire.NewClient(cfg.Arxiv, log)
	return keywords.New(source, converter, renderer, store, cfg.Keywords, log), store, nil
}
