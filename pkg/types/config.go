package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-insights/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ArxivConfig holds settings for paper lookup and download.
type ArxivConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBase is the arXiv Atom query endpoint.
	APIBase string `json:"api_base" yaml:"api_base"`

	// PDFBase is prefixed to the paper ID when the feed carries no PDF link.
	PDFBase string `json:"pdf_base" yaml:"pdf_base"`

	// RequestInterval is the minimum spacing between calls to arXiv (default 3s).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`

	// MaxRetries bounds the retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SQLiteDriver names a registered database/sql SQLite driver.
type SQLiteDriver string

const (
	DriverMattn   SQLiteDriver = "sqlite3"
	DriverModernc SQLiteDriver = "sqlite"
)

// CategoriesConfig holds settings for the category ranking.
type CategoriesConfig struct {
	// Database is the path to the SQLite file holding the records.
	Database string `json:"database" yaml:"database"`

	// Driver selects the SQLite driver: sqlite3 (cgo) or sqlite (pure Go).
	Driver SQLiteDriver `json:"driver" yaml:"driver"`

	// Table is the table to read from (default "ARXIV").
	Table string `json:"table" yaml:"table"`

	// Year is the analysis year for the category route (default 2020).
	Year int `json:"year" yaml:"year"`

	// Top is the number of ranked categories to keep (default 10).
	Top int `json:"top" yaml:"top"`
}

// ConversionBackend identifies the PDF text extraction tool.
type ConversionBackend string

const (
	BackendNative     ConversionBackend = "native"
	BackendPdftotext  ConversionBackend = "pdftotext"
	BackendMarkitdown ConversionBackend = "markitdown"
)

// WordCloudConfig holds settings for word-cloud rendering and storage.
type WordCloudConfig struct {
	Width    int `json:"width" yaml:"width"`
	Height   int `json:"height" yaml:"height"`
	MaxWords int `json:"max_words" yaml:"max_words"`

	// Dir is where rendered images are kept, one file per paper.
	Dir string `json:"dir" yaml:"dir"`

	// TTL is how long a rendered image stays servable before it is deleted.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// KeywordsConfig holds settings for the keyword pipeline.
type KeywordsConfig struct {
	// Count is the number of keywords to report (default 20).
	Count int `json:"count" yaml:"count"`

	// WorkDir holds the transient per-request downloads.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// Backend selects the text extraction tool.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Runtime pins the container runtime (docker or podman) used by the
	// markitdown backend. Empty tries docker, then podman.
	Runtime string `json:"runtime,omitempty" yaml:"runtime,omitempty"`

	// Timeout bounds one run of the pipeline; zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Config groups every component configuration.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Categories CategoriesConfig `json:"categories" yaml:"categories"`
	Keywords   KeywordsConfig   `json:"keywords" yaml:"keywords"`
	Arxiv      ArxivConfig      `json:"arxiv" yaml:"arxiv"`
	WordCloud  WordCloudConfig  `json:"wordcloud" yaml:"wordcloud"`
}
