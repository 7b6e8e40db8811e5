// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-insights/pkg/types"
)

// fakeRuntime implements container.Runtime for testing.
type fakeRuntime struct {
	imageErr error
	output   string
	runErr   error
	gotInput string
}

func (f *fakeRuntime) Name() string { return "docker" }

func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(context.Context, string) error { return f.imageErr }

func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	data, _ := io.ReadAll(stdin)
	f.gotInput = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

// writePDF creates a fake PDF file and returns its path.
func writePDF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "2301.07041.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew(t *testing.T) {
	c, err := New(context.Background(), types.KeywordsConfig{})
	require.NoError(t, err)
	assert.IsType(t, NativeConverter{}, c)

	c, err = New(context.Background(), types.KeywordsConfig{Backend: types.BackendNative})
	require.NoError(t, err)
	assert.IsType(t, NativeConverter{}, c)

	_, err = New(context.Background(), types.KeywordsConfig{Backend: "grobid"})
	assert.ErrorContains(t, err, "unknown conversion backend")
}

// buildPDF returns a one-page PDF that shows line in Helvetica. Object
// offsets in the xref table are computed as the body is written.
func buildPDF(line string) []byte {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

func TestNativeConverter_ExtractsText(t *testing.T) {
	path := writePDF(t, string(buildPDF("Hello")))

	text, err := NativeConverter{}.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello")
}

func TestNativeConverter_TruncatedPDF(t *testing.T) {
	full := buildPDF("Hello")
	path := writePDF(t, string(full[:len(full)/2]))

	_, err := NativeConverter{}.Convert(context.Background(), path)
	assert.Error(t, err)
}

func TestNativeConverter_RejectsNonPDF(t *testing.T) {
	path := writePDF(t, "this is not a pdf")
	_, err := NativeConverter{}.Convert(context.Background(), path)
	assert.Error(t, err)
}

func TestNativeConverter_MissingFile(t *testing.T) {
	_, err := NativeConverter{}.Convert(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	assert.ErrorContains(t, err, "opening PDF")
}

func TestNativeConverter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NativeConverter{}.Convert(ctx, writePDF(t, "%PDF-1.4"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPdftotextConverter(t *testing.T) {
	path := writePDF(t, "%PDF-1.4 fake")

	var gotArgs []string
	p := &PdftotextConverter{
		bin: "/usr/bin/pdftotext",
		run: func(_ context.Context, _ string, args []string, stdout, _ *bytes.Buffer) error {
			gotArgs = args
			stdout.WriteString("Extracted text.\n")
			return nil
		},
	}
	text, err := p.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Extracted text.\n", text)
	assert.Equal(t, []string{"-enc", "UTF-8", path, "-"}, gotArgs)
}

func TestPdftotextConverter_Failure(t *testing.T) {
	path := writePDF(t, "%PDF-1.4 fake")
	p := &PdftotextConverter{
		bin: "pdftotext",
		run: func(_ context.Context, _ string, _ []string, _, stderr *bytes.Buffer) error {
			stderr.WriteString("Syntax Error: Couldn't find trailer dictionary")
			return errors.New("exit status 1")
		},
	}
	_, err := p.Convert(context.Background(), path)
	assert.ErrorContains(t, err, "trailer dictionary")

	_, err = p.Convert(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	assert.ErrorContains(t, err, "PDF not found")
}

func TestMarkitdownConverter(t *testing.T) {
	path := writePDF(t, "%PDF-1.4 fake")

	rt := &fakeRuntime{output: "# Title\n\nBody."}
	m, err := NewMarkitdownConverter(context.Background(), rt)
	require.NoError(t, err)

	text, err := m.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody.", text)
	assert.Equal(t, "%PDF-1.4 fake", rt.gotInput)
}

func TestMarkitdownConverter_EmptyOutputIsNotAnError(t *testing.T) {
	m, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{})
	require.NoError(t, err)

	text, err := m.Convert(context.Background(), writePDF(t, "%PDF-1.4"))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestMarkitdownConverter_Errors(t *testing.T) {
	_, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{imageErr: errors.New("no such image")})
	assert.ErrorContains(t, err, "markitdown image not available")

	m, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{runErr: errors.New("container crashed")})
	require.NoError(t, err)
	_, err = m.Convert(context.Background(), writePDF(t, "%PDF-1.4"))
	assert.ErrorContains(t, err, "container crashed")
}
