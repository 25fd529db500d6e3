package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/export"
	"github.com/sensai-ai/hubkit/internal/export/sqlite"
	exportTypes "github.com/sensai-ai/hubkit/internal/export/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errBackend = errors.New("backend down")

type fakeBackend struct {
	posts   map[int64]*types.Post
	failOn  int64
	fetched atomic.Int32
}

func (f *fakeBackend) ListPosts(_ context.Context, hubID int64) ([]types.Post, error) {
	if hubID != 3 {
		return nil, errBackend
	}

	list := make([]types.Post, 0, len(f.posts))
	for id := int64(1); id <= int64(len(f.posts)); id++ {
		post := *f.posts[id]
		post.Comments = nil
		list = append(list, post)
	}
	return list, nil
}

func (f *fakeBackend) GetPost(_ context.Context, postID, userID int64) (*types.Post, error) {
	f.fetched.Add(1)

	if userID != 0 {
		return nil, errors.New("export must fetch anonymously")
	}
	if postID == f.failOn {
		return nil, errBackend
	}

	post := *f.posts[postID]
	return &post, nil
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{posts: map[int64]*types.Post{
		1: {
			ID: 1, HubID: 3, Title: "Welcome", PostType: types.PostThread, Author: "ada@example.com",
			Votes: 4, Comments: []types.Comment{
				{ID: 10, Content: "hi", Author: "bob@example.com"},
				{ID: 11, Content: "hello", Author: "cy@example.com"},
			},
		},
		2: {ID: 2, HubID: 3, Title: "Question", PostType: types.PostQuestion, Author: "bob@example.com", IsAnswered: true},
		3: {ID: 3, HubID: 3, Title: "Notes", PostType: types.PostNote, Author: "cy@example.com", Comments: []types.Comment{
			{ID: 12, Content: "thanks", Author: "ada@example.com"},
		}},
	}}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()

	archive, err := export.Collect(t.Context(), backend, 3, 2, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.Len(t, archive.Posts, 3)
	assert.Equal(t, "Welcome", archive.Posts[0].Title)
	assert.Equal(t, 2, archive.Posts[0].CommentCount)
	assert.True(t, archive.Posts[1].IsAnswered)
	assert.Equal(t, "question", archive.Posts[1].PostType)

	require.Len(t, archive.Comments, 3)
	assert.Equal(t, int64(1), archive.Comments[0].PostID)
	assert.Equal(t, int64(3), archive.Comments[2].PostID)
	assert.Equal(t, int32(3), backend.fetched.Load())
}

func TestCollectFailures(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	_, err := export.Collect(t.Context(), backend, 9, 2, zaptest.NewLogger(t))
	require.ErrorIs(t, err, errBackend)

	backend = newFakeBackend()
	backend.failOn = 2
	_, err = export.Collect(t.Context(), backend, 3, 1, zaptest.NewLogger(t))
	require.ErrorIs(t, err, errBackend)
}

func TestParseFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    []export.Format
		wantErr bool
	}{
		{input: "all", want: []export.Format{export.FormatSQLite, export.FormatCSV}},
		{input: "", want: []export.Format{export.FormatSQLite, export.FormatCSV}},
		{input: "csv", want: []export.Format{export.FormatCSV}},
		{input: "CSV, sqlite,csv", want: []export.Format{export.FormatCSV, export.FormatSQLite}},
		{input: "binary", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := export.ParseFormats(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, export.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExporterWritesAllFormats(t *testing.T) {
	t.Parallel()

	archive, err := export.Collect(t.Context(), newFakeBackend(), 3, 4, zaptest.NewLogger(t))
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "archive")
	formats := []export.Format{export.FormatSQLite, export.FormatCSV}
	now := time.Date(2025, 7, 22, 12, 0, 0, 0, time.UTC)

	manifest, err := export.New(outDir, formats, zaptest.NewLogger(t)).Export(archive, "", now)
	require.NoError(t, err)
	assert.Equal(t, 3, manifest.Posts)
	assert.Equal(t, 3, manifest.Comments)
	assert.False(t, manifest.Pseudonymized)

	for _, file := range []string{sqlite.FileName, "posts.csv", "comments.csv"} {
		assert.FileExists(t, filepath.Join(outDir, file))
	}

	data, err := os.ReadFile(filepath.Join(outDir, export.ManifestFile))
	require.NoError(t, err)

	var written export.Manifest
	require.NoError(t, sonic.Unmarshal(data, &written))
	assert.Equal(t, int64(3), written.HubID)
	assert.Equal(t, export.EngineVersion, written.EngineVersion)
	assert.True(t, now.Equal(written.ExportedAt))
}

func TestExporterUnsupportedFormat(t *testing.T) {
	t.Parallel()

	e := export.New(t.TempDir(), []export.Format{"binary"}, zaptest.NewLogger(t))
	_, err := e.Export(&exportTypes.Archive{HubID: 3}, "", time.Now())
	require.ErrorIs(t, err, export.ErrUnsupportedFormat)
}
