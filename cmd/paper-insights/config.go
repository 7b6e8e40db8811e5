// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-insights/internal/acquire"
	"github.com/pdiddy/paper-insights/internal/secrets"
	"github.com/pdiddy/paper-insights/pkg/types"
)

func setDefaults() {
	viper.SetDefault("server.addr", "localhost:8080")
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)

	viper.SetDefault("categories.database", "data/arxiv.db")
	viper.SetDefault("categories.driver", string(types.DriverMattn))
	viper.SetDefault("categories.table", "ARXIV")
	viper.SetDefault("categories.year", 2020)
	viper.SetDefault("categories.top", 10)

	viper.SetDefault("keywords.count", 20)
	viper.SetDefault("keywords.work_dir", "data/work")
	viper.SetDefault("keywords.backend", string(types.BackendNative))
	viper.SetDefault("keywords.runtime", "")
	viper.SetDefault("keywords.timeout", 2*time.Minute)

	viper.SetDefault("arxiv.api_base", acquire.DefaultAPIBase)
	viper.SetDefault("arxiv.pdf_base", acquire.DefaultPDFBase)
	viper.SetDefault("arxiv.timeout", 60*time.Second)
	viper.SetDefault("arxiv.user_agent", "")
	viper.SetDefault("arxiv.request_interval", 3*time.Second)
	viper.SetDefault("arxiv.max_retries", 5)

	viper.SetDefault("wordcloud.width", 800)
	viper.SetDefault("wordcloud.height", 400)
	viper.SetDefault("wordcloud.max_words", 200)
	viper.SetDefault("wordcloud.dir", "data/wordclouds")
	viper.SetDefault("wordcloud.ttl", time.Hour)
}

// loadConfig assembles the typed configuration from viper. Flags bound to
// keys, environment variables and the config file all land here.
func loadConfig() types.Config {
	return types.Config{
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Categories: types.CategoriesConfig{
			Database: viper.GetString("categories.database"),
			Driver:   types.SQLiteDriver(viper.GetString("categories.driver")),
			Table:    viper.GetString("categories.table"),
			Year:     viper.GetInt("categories.year"),
			Top:      viper.GetInt("categories.top"),
		},
		Keywords: types.KeywordsConfig{
			Count:   viper.GetInt("keywords.count"),
			WorkDir: viper.GetString("keywords.work_dir"),
			Backend: types.ConversionBackend(viper.GetString("keywords.backend")),
			Runtime: viper.GetString("keywords.runtime"),
			Timeout: viper.GetDuration("keywords.timeout"),
		},
		Arxiv: types.ArxivConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("arxiv.timeout"),
				UserAgent: userAgent(viper.GetString("arxiv.user_agent"), loadedSecrets),
			},
			APIBase:         viper.GetString("arxiv.api_base"),
			PDFBase:         viper.GetString("arxiv.pdf_base"),
			RequestInterval: viper.GetDuration("arxiv.request_interval"),
			MaxRetries:      viper.GetInt("arxiv.max_retries"),
		},
		WordCloud: types.WordCloudConfig{
			Width:    viper.GetInt("wordcloud.width"),
			Height:   viper.GetInt("wordcloud.height"),
			MaxWords: viper.GetInt("wordcloud.max_words"),
			Dir:      viper.GetString("wordcloud.dir"),
			TTL:      viper.GetDuration("wordcloud.ttl"),
		},
	}
}

// userAgent keeps an explicit setting as is; otherwise it names the build
// and appends the arXiv contact address from the secrets directory.
func userAgent(configured string, s secrets.Secrets) string {
	if configured != "" {
		return configured
	}
	return s.UserAgent(fmt.Sprintf("paper-insights/%s", version))
}
