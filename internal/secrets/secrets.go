// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads contact data and credentials from a directory of
// plain-text files. The filename is the key and the trimmed contents are the
// value.
//
// Supported keys: arxiv-contact-email.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KeyArxivContactEmail is appended to the User-Agent sent to arXiv, as its
// API etiquette asks.
const KeyArxivContactEmail = "arxiv-contact-email"

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields an empty set. Unreadable files are logged and skipped.
func Load(dir string, log *slog.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", slog.String("key", name), slog.Any("err", err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Lookup returns fallback when it is set, else the secret stored under key.
// Explicit configuration wins over files.
func (s Secrets) Lookup(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return s[key]
}

// Keys returns the loaded key names, sorted. Values are never listed.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UserAgent appends the arXiv contact address to base as a mailto comment,
// when one is known.
func (s Secrets) UserAgent(base string) string {
	email := s[KeyArxivContactEmail]
	if email == "" || strings.Contains(base, "mailto:") {
		return base
	}
	return fmt.Sprintf("%s (mailto:%s)", base, email)
}
