package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactrelay/backend/internal/model"
)

func newTestFileRepo(t *testing.T) *FileSubmissionRepository {
	t.Helper()
	return NewFileSubmissionRepository(filepath.Join(t.TempDir(), "contacts.json"))
}

func TestFileRepo_Load_MissingFileReturnsEmpty(t *testing.T) {
	repo := newTestFileRepo(t)

	subs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestFileRepo_AppendThenLoad_LastElementMatches(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	first := &model.Submission{Name: "A", Email: "a@x.com", Message: "hi", Subject: "Q", Date: "2024-01-01T00:00:00.000Z"}
	second := &model.Submission{Name: "B", Email: "b@x.com", Message: "yo", Subject: "R", Budget: json.RawMessage(`5000`), Date: "2024-01-02T00:00:00.000Z"}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	subs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, first, subs[0])
	assert.Equal(t, second, subs[1])
}

func TestFileRepo_Append_WritesIndentedArray(t *testing.T) {
	repo := newTestFileRepo(t)
	require.NoError(t, repo.Append(context.Background(), &model.Submission{
		Name: "A", Email: "a@x.com", Message: "hi", Subject: "Q", Date: "2024-01-01T00:00:00.000Z",
	}))

	data, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[\n  {\n    \"name\": \"A\"")

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", raw[0]["date"])
	_, hasCompany := raw[0]["company"]
	assert.False(t, hasCompany, "empty optional fields should be omitted")
}

func TestFileRepo_Append_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "contacts.json")
	repo := NewFileSubmissionRepository(path)

	require.NoError(t, repo.Append(context.Background(), &model.Submission{Name: "A"}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileRepo_Load_MalformedFileReturnsErrParse(t *testing.T) {
	repo := newTestFileRepo(t)
	require.NoError(t, os.WriteFile(repo.Path(), []byte("{not json"), 0o644))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrParse)
}

func TestFileRepo_Append_MalformedFileIsNotOverwritten(t *testing.T) {
	repo := newTestFileRepo(t)
	require.NoError(t, os.WriteFile(repo.Path(), []byte("{not json"), 0o644))

	err := repo.Append(context.Background(), &model.Submission{Name: "A"})
	assert.ErrorIs(t, err, ErrParse)

	data, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestFileRepo_Load_NullFileReturnsEmpty(t *testing.T) {
	repo := newTestFileRepo(t)
	require.NoError(t, os.WriteFile(repo.Path(), []byte("null"), 0o644))

	subs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

// TestFileRepo_Append_ConcurrentWithinProcess verifies in-process appends are serialized.
func TestFileRepo_Append_ConcurrentWithinProcess(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, &model.Submission{Name: "A"}))
		}()
	}
	wg.Wait()

	subs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, n)
}

func TestFileRepo_Ping(t *testing.T) {
	repo := newTestFileRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))

	missing := NewFileSubmissionRepository(filepath.Join(t.TempDir(), "gone", "contacts.json"))
	assert.Error(t, missing.Ping(context.Background()))
}

// TestFileRepo_AppendThenLoad_KeepsNonStringFields verifies optional values round-trip as submitted.
func TestFileRepo_AppendThenLoad_KeepsNonStringFields(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, &model.Submission{
		Name: "A", Email: "a@x.com", Message: "hi", Subject: "Q",
		Budget: json.RawMessage(`5000`), Phone: json.RawMessage(`"555"`),
	}))

	subs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.JSONEq(t, `5000`, string(subs[0].Budget))
	assert.JSONEq(t, `"555"`, string(subs[0].Phone))
}
