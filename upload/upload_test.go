package upload

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUploader_RoundTrip(t *testing.T) {
	ctx := context.Background()
	u := NewMemoryUploader("/files/")

	ref, err := u.Upload(ctx, []byte("%PDF-1.4"), "summary.pdf", "discharge-summaries")
	require.NoError(t, err)
	assert.Equal(t, "/files/"+ref.FileID, ref.URL)
	assert.Equal(t, "discharge-summaries", u.Folder(ref.FileID))

	var buf bytes.Buffer
	require.NoError(t, u.Download(ctx, ref.FileID, &buf))
	assert.Equal(t, "%PDF-1.4", buf.String())
}

func TestMemoryUploader_Errors(t *testing.T) {
	ctx := context.Background()
	u := NewMemoryUploader("/files")

	var buf bytes.Buffer
	assert.ErrorIs(t, u.Download(ctx, "missing", &buf), ErrFileNotFound)

	u.Err = errors.New("disk full")
	_, err := u.Upload(ctx, []byte("x"), "a.pdf", "f")
	assert.EqualError(t, err, "disk full")
}
