package lsp

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LaBatata101/python-lsp/errors"
)

func newSession(t *testing.T, maxDocuments int) *Session {
	t.Helper()
	return NewSession(zaptest.NewLogger(t).Sugar(), maxDocuments)
}

func TestSessionID(t *testing.T) {
	s := newSession(t, 0)
	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, s.ID, newSession(t, 0).ID)
}

func TestSessionOpenChangeClose(t *testing.T) {
	s := newSession(t, 0)
	const uri = "file:///proj/app.py"

	doc, err := s.Open(uri, "python", 1, "x = 1\n")
	require.NoError(t, err)
	assert.Equal(t, int32(1), doc.Version)
	assert.Empty(t, doc.Analysis.Diagnostics)
	require.NotNil(t, doc.Analysis.Module)

	changed, err := s.Change(uri, 2, "x = = 1\n")
	require.NoError(t, err)
	assert.Equal(t, int32(2), changed.Version)
	assert.NotEmpty(t, changed.Analysis.Diagnostics)

	// The earlier snapshot is untouched.
	assert.Equal(t, int32(1), doc.Version)
	assert.Equal(t, "x = 1\n", doc.Text)
	assert.Empty(t, doc.Analysis.Diagnostics)

	current, err := s.Document(uri)
	require.NoError(t, err)
	assert.Same(t, changed, current)

	require.NoError(t, s.Close(uri))
	_, err = s.Document(uri)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSessionRejectsStaleChange(t *testing.T) {
	s := newSession(t, 0)
	const uri = "file:///a.py"
	_, err := s.Open(uri, "python", 5, "pass\n")
	require.NoError(t, err)

	_, err = s.Change(uri, 4, "x\n")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))

	doc, err := s.Document(uri)
	require.NoError(t, err)
	assert.Equal(t, "pass\n", doc.Text)

	_, err = s.Change(uri, 5, "y\n")
	assert.NoError(t, err, "same version is accepted")
}

func TestSessionUnknownDocument(t *testing.T) {
	s := newSession(t, 0)

	err := s.Close("file:///missing.py")
	assert.True(t, errors.IsNotFoundError(err))

	_, err = s.Change("file:///missing.py", 1, "")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSessionReopenReplaces(t *testing.T) {
	s := newSession(t, 1)
	const uri = "file:///a.py"
	_, err := s.Open(uri, "python", 3, "a\n")
	require.NoError(t, err)

	doc, err := s.Open(uri, "python", 1, "b\n")
	require.NoError(t, err, "reopening does not count against the limit")
	assert.Equal(t, int32(1), doc.Version)
	assert.Len(t, s.Documents(), 1)
}

func TestSessionDocumentLimit(t *testing.T) {
	s := newSession(t, 2)
	_, err := s.Open("file:///a.py", "python", 1, "")
	require.NoError(t, err)
	_, err = s.Open("file:///b.py", "python", 1, "")
	require.NoError(t, err)

	_, err = s.Open("file:///c.py", "python", 1, "")
	require.Error(t, err)
	assert.True(t, errors.IsLimitExceededError(err))
	assert.Contains(t, errors.FlattenHints(err), "server.max_documents")

	s.SetMaxDocuments(0)
	_, err = s.Open("file:///c.py", "python", 1, "")
	assert.NoError(t, err)

	docs := s.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, "file:///a.py", docs[0].URI)
	assert.Equal(t, "file:///c.py", docs[2].URI)
}

func TestSessionWorkspaces(t *testing.T) {
	s := newSession(t, 0)
	require.NoError(t, s.OpenWorkspaceFolder("file:///proj", "proj"))
	require.NoError(t, s.OpenWorkspaceFolder("file:///proj/sub", "sub"))

	tests := []struct {
		uri  string
		want string
	}{
		{"file:///proj/app.py", "file:///proj"},
		{"file:///proj/sub/mod.py", "file:///proj/sub"},
		{"file:///proj/subway/x.py", "file:///proj"},
		{"file:///projector/x.py", defaultWorkspace},
		{"untitled:Untitled-1", defaultWorkspace},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, s.WorkspaceFor(tt.uri).URI)
		})
	}

	doc, err := s.Open("file:///proj/sub/mod.py", "python", 1, "")
	require.NoError(t, err)
	assert.Equal(t, "file:///proj/sub", doc.Workspace)

	require.NoError(t, s.CloseWorkspaceFolder("file:///proj/sub"))
	doc, err = s.Document("file:///proj/sub/mod.py")
	require.NoError(t, err)
	assert.Equal(t, "file:///proj", doc.Workspace)

	err = s.CloseWorkspaceFolder("file:///proj/sub")
	assert.True(t, errors.IsNotFoundError(err))

	ws := s.Workspaces()
	require.Len(t, ws, 1)
	assert.Equal(t, "proj", ws[0].Name)
}
