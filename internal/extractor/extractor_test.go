package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `class C
{
/// <summary>broken
void First() { }

///<remarks>
///    plain text
///　　note
/// </remarks>
void Second() { }

void Undocumented() { }

/// <summary>Third</summary>
void Third() { }
}
`

func quietLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

func TestExtractSourceIsolatesFailures(t *testing.T) {
	log, hook := quietLogger()
	x := NewExtractor(Options{}, log)

	report, err := x.ExtractSource(context.Background(), "sample.cs", sample)
	require.NoError(t, err)

	assert.Equal(t, "sample.cs", report.Path)
	assert.Equal(t, 4, report.Methods)
	require.Len(t, report.Entries, 3)
	assert.Equal(t, 1, report.Failures())

	first := report.Entries[0]
	assert.Equal(t, "First", first.Method)
	assert.False(t, first.OK())
	assert.Nil(t, first.Doc)
	require.NotNil(t, first.Err)
	assert.Equal(t, "<root> <summary>broken\n</root>", first.Err.Text)

	second := report.Entries[1]
	assert.Equal(t, "Second", second.Method)
	assert.True(t, second.OK())
	require.NotNil(t, second.Doc)
	assert.False(t, second.HasRem, "remarks are only extracted in remarks mode")

	third := report.Entries[2]
	assert.Equal(t, "Third", third.Method)
	assert.Equal(t, 15, third.Line)
	assert.True(t, third.OK())

	var warnings int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestExtractSourceRemarksMode(t *testing.T) {
	log, _ := quietLogger()
	x := NewExtractor(Options{RemarksOnly: true}, log)

	report, err := x.ExtractSource(context.Background(), "sample.cs", sample)
	require.NoError(t, err)
	require.Len(t, report.Entries, 3)

	second := report.Entries[1]
	assert.True(t, second.HasRem)
	assert.Equal(t, "plain text\n　note\n", second.Remarks)

	third := report.Entries[2]
	assert.False(t, third.HasRem)
	assert.Empty(t, third.Remarks)
}

func TestExtractSourceNoMethods(t *testing.T) {
	x := NewExtractor(Options{}, nil)

	report, err := x.ExtractSource(context.Background(), "empty.cs", "namespace N { class C { int x; } }")
	require.NoError(t, err)
	assert.Zero(t, report.Methods)
	assert.Empty(t, report.Entries)
}

func TestExtractSourceSyntaxError(t *testing.T) {
	x := NewExtractor(Options{}, nil)

	_, err := x.ExtractSource(context.Background(), "bad.cs", "class C { /* open")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing bad.cs")
}

func TestExtractSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x := NewExtractor(Options{}, nil)
	report, err := x.ExtractSource(ctx, "sample.cs", sample)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Entries)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Program.cs")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	x := NewExtractor(Options{}, nil)
	report, err := x.ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, report.Path)
	assert.Len(t, report.Entries, 3)
}

func TestExtractFileMissing(t *testing.T) {
	x := NewExtractor(Options{}, nil)

	_, err := x.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "nope.cs"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "reading source")
}
