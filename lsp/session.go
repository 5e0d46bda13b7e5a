package lsp

import (
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/logger"
)

// Document is an immutable snapshot of an open text document. Every change
// produces a new Document, so a snapshot handed to a request stays consistent
// while later edits arrive.
type Document struct {
	URI        string
	LanguageID string
	Version    int32
	Text       string
	Workspace  string
	Analysis   *Analysis
}

// Workspace is a folder the editor opened. Documents belong to the workspace
// whose path is the longest prefix of theirs.
type Workspace struct {
	URI  string
	Name string
	path string
}

// Session tracks the workspaces and open documents of one editor connection.
type Session struct {
	ID string

	mu           sync.RWMutex
	documents    map[string]*Document
	workspaces   map[string]*Workspace
	maxDocuments int
	logger       *zap.SugaredLogger
}

// NewSession creates an empty session. maxDocuments caps the number of open
// documents; zero means no cap.
func NewSession(log *zap.SugaredLogger, maxDocuments int) *Session {
	id := uuid.NewString()
	if log == nil {
		log = logger.Logger
	}
	return &Session{
		ID:           id,
		documents:    make(map[string]*Document),
		workspaces:   make(map[string]*Workspace),
		maxDocuments: maxDocuments,
		logger:       log.Named("session").With(logger.FieldSessionID, id),
	}
}

// SetMaxDocuments changes the open-document cap. Documents already open stay open.
func (s *Session) SetMaxDocuments(n int) {
	s.mu.Lock()
	s.maxDocuments = n
	s.mu.Unlock()
}

// Open adds a document and parses it. Opening a document that is already open
// replaces it.
func (s *Session) Open(uri, languageID string, version int32, text string) (*Document, error) {
	analysis := analyze(version, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.documents[uri]; exists {
		s.logger.Warnw("Document opened twice, replacing it",
			logger.FieldURI, uri,
			logger.FieldVersion, version,
		)
	} else if s.maxDocuments > 0 && len(s.documents) >= s.maxDocuments {
		return nil, errors.WithHint(
			errors.NewLimitExceededError("document limit reached (%d documents open)", s.maxDocuments),
			"close some files or raise server.max_documents")
	}

	doc := &Document{
		URI:        uri,
		LanguageID: languageID,
		Version:    version,
		Text:       text,
		Workspace:  s.workspaceForLocked(uri).URI,
		Analysis:   analysis,
	}
	s.documents[uri] = doc

	s.logger.Infow("Document opened",
		logger.FieldURI, uri,
		logger.FieldVersion, version,
		logger.FieldDiagnostics, len(analysis.Diagnostics),
		logger.FieldDurationMS, analysis.Duration.Milliseconds(),
		logger.FieldCount, len(s.documents),
	)
	return doc, nil
}

// Change replaces the full text of an open document. A version older than
// the current one is rejected.
func (s *Session) Change(uri string, version int32, text string) (*Document, error) {
	current, err := s.Document(uri)
	if err != nil {
		return nil, err
	}
	if version < current.Version {
		return nil, staleVersion(uri, version, current.Version)
	}

	analysis := analyze(version, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.documents[uri]
	if !ok {
		return nil, errors.NewNotFoundError("document %s is not open", uri)
	}
	if version < current.Version {
		return nil, staleVersion(uri, version, current.Version)
	}

	next := *current
	next.Version = version
	next.Text = text
	next.Analysis = analysis
	s.documents[uri] = &next

	s.logger.Debugw("Document changed",
		logger.FieldURI, uri,
		logger.FieldVersion, version,
		logger.FieldDiagnostics, len(analysis.Diagnostics),
		logger.FieldDurationMS, analysis.Duration.Milliseconds(),
	)
	return &next, nil
}

func staleVersion(uri string, got, have int32) error {
	return errors.NewInvalidRequestError("stale change for %s: version %d is older than %d", uri, got, have)
}

// Close drops a document.
func (s *Session) Close(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[uri]; !ok {
		return errors.NewNotFoundError("cannot close %s: document is not open", uri)
	}
	delete(s.documents, uri)

	s.logger.Infow("Document closed",
		logger.FieldURI, uri,
		logger.FieldCount, len(s.documents),
	)
	return nil
}

// Document returns the current snapshot of an open document.
func (s *Session) Document(uri string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]
	if !ok {
		return nil, errors.NewNotFoundError("document %s is not open", uri)
	}
	return doc, nil
}

// Documents returns every open document ordered by URI.
func (s *Session) Documents() []*Document {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	return docs
}

// OpenWorkspaceFolder registers a workspace folder. Open documents under it
// move into it.
func (s *Session) OpenWorkspaceFolder(uri, name string) error {
	p, err := uriPath(uri)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.workspaces[uri] = &Workspace{URI: uri, Name: name, path: p}
	s.reassignLocked()

	s.logger.Infow("Workspace folder opened", logger.FieldURI, uri, "name", name)
	return nil
}

// CloseWorkspaceFolder removes a workspace folder. Its documents stay open and
// fall back to the next matching workspace.
func (s *Session) CloseWorkspaceFolder(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[uri]; !ok {
		return errors.NewNotFoundError("workspace folder %s is not open", uri)
	}
	delete(s.workspaces, uri)
	s.reassignLocked()

	s.logger.Infow("Workspace folder closed", logger.FieldURI, uri)
	return nil
}

// Workspaces returns the registered folders ordered by URI.
func (s *Session) Workspaces() []Workspace {
	s.mu.RLock()
	out := make([]Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		out = append(out, *ws)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// WorkspaceFor resolves the workspace a document URI belongs to. URIs outside
// every folder belong to the default workspace.
func (s *Session) WorkspaceFor(uri string) Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.workspaceForLocked(uri)
}

var defaultWorkspaceFolder = &Workspace{URI: defaultWorkspace, Name: defaultWorkspace}

func (s *Session) workspaceForLocked(uri string) *Workspace {
	p, err := uriPath(uri)
	if err != nil {
		return defaultWorkspaceFolder
	}

	best := defaultWorkspaceFolder
	for _, ws := range s.workspaces {
		if !withinDir(p, ws.path) {
			continue
		}
		if best == defaultWorkspaceFolder || len(ws.path) > len(best.path) {
			best = ws
		}
	}
	return best
}

func (s *Session) reassignLocked() {
	for uri, doc := range s.documents {
		ws := s.workspaceForLocked(uri).URI
		if ws == doc.Workspace {
			continue
		}
		moved := *doc
		moved.Workspace = ws
		s.documents[uri] = &moved
	}
}

func withinDir(p, dir string) bool {
	if dir == "/" {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// uriPath extracts the cleaned path of a file URI. URIs without a scheme are
// taken as plain paths.
func uriPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "invalid URI %q: %v", uri, err)
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if p == "" {
		return "", errors.NewInvalidRequestError("URI %q has no path", uri)
	}
	return path.Clean(p), nil
}
