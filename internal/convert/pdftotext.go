// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const binPdftotext = "pdftotext"

// PdftotextConverter shells out to poppler's pdftotext.
type PdftotextConverter struct {
	bin string
	run func(ctx context.Context, name string, args []string, stdout, stderr *bytes.Buffer) error
}

// NewPdftotextConverter returns a converter bound to the pdftotext binary on
// PATH, or an error when it is not installed.
func NewPdftotextConverter() (*PdftotextConverter, error) {
	bin, err := exec.LookPath(binPdftotext)
	if err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binPdftotext, err)
	}
	return &PdftotextConverter{bin: bin, run: runCommand}, nil
}

func runCommand(ctx context.Context, name string, args []string, stdout, stderr *bytes.Buffer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Convert runs "pdftotext -enc UTF-8 <pdf> -" and returns its stdout.
func (p *PdftotextConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("PDF not found: %w", err)
	}

	var out, stderr bytes.Buffer
	args := []string{"-enc", "UTF-8", pdfPath, "-"}
	if err := p.run(ctx, p.bin, args, &out, &stderr); err != nil {
		return "", fmt.Errorf("pdftotext failed on %s: %w: %s", pdfPath, err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}
