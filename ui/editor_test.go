package ui_test

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/habedi/showcase/catalog"
	"github.com/habedi/showcase/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editor(input string) (*ui.PromptEditor, *bytes.Buffer) {
	var out bytes.Buffer
	return ui.NewPromptEditor(bufio.NewReader(strings.NewReader(input)), &out), &out
}

func TestPromptEditor_Create(t *testing.T) {
	ed, _ := editor("Tytuł\nOpis\n\n")
	got, err := ed.Open(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, catalog.Entry{Title: "Tytuł", Description: "Opis"}, *got)
}

func TestPromptEditor_CreateEmptyTitleCancels(t *testing.T) {
	ed, _ := editor("\n")
	got, err := ed.Open(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPromptEditor_EditKeepsFields(t *testing.T) {
	ed, _ := editor("\n\ny\n")
	existing := catalog.Entry{ID: "7", Title: "Old", Description: "Desc"}
	got, err := ed.Open(context.Background(), &existing)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, existing, *got)
}

func TestPromptEditor_DeclineSave(t *testing.T) {
	ed, _ := editor("New\n\nn\n")
	got, err := ed.Open(context.Background(), &catalog.Entry{ID: "7", Title: "Old"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPromptEditor_RetriesInvalidTitle(t *testing.T) {
	long := strings.Repeat("x", 201)
	ed, out := editor(long + "\nGood\n\ny\n")
	got, err := ed.Open(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Good", got.Title)
	assert.Contains(t, out.String(), "Error: title must be at most")
}

func TestPromptEditor_EOFCancels(t *testing.T) {
	ed, _ := editor("Title")
	got, err := ed.Open(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPromptEditor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ed, _ := editor("x\n")
	_, err := ed.Open(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptEditor_StopsWaitingWhenCancelled(t *testing.T) {
	in, feed := io.Pipe()
	defer feed.Close()
	var out bytes.Buffer
	ed := ui.NewPromptEditor(bufio.NewReader(in), &out)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	got, err := ed.Open(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, got)
}
