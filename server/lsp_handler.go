package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/LaBatata101/python-lsp/internal/util"
	"github.com/LaBatata101/python-lsp/logger"
	"github.com/LaBatata101/python-lsp/lsp"
	"github.com/LaBatata101/python-lsp/version"
)

// ServerName is reported to clients in the initialize result.
const ServerName = "sith"

// GLSPHandler implements the editor protocol for one client connection.
// Each connection gets its own session; the language service is shared.
type GLSPHandler struct {
	session   *lsp.Session
	service   *lsp.Service
	publisher *publisher
	logger    *zap.SugaredLogger
}

// NewGLSPHandler creates a handler with a fresh session.
func NewGLSPHandler(service *lsp.Service, maxDocuments int, log *zap.SugaredLogger) *GLSPHandler {
	session := lsp.NewSession(log, maxDocuments)
	return &GLSPHandler{
		session:   session,
		service:   service,
		publisher: newPublisher(DefaultPublishRate),
		logger:    log.With(logger.FieldSessionID, session.ID),
	}
}

// Session exposes the connection's documents.
func (h *GLSPHandler) Session() *lsp.Session {
	return h.session
}

// Protocol wires the handler methods into a glsp handler table.
func (h *GLSPHandler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                         h.Initialize,
		Initialized:                        h.Initialized,
		Shutdown:                           h.Shutdown,
		SetTrace:                           h.SetTrace,
		TextDocumentDidOpen:                h.TextDocumentDidOpen,
		TextDocumentDidChange:              h.TextDocumentDidChange,
		TextDocumentDidClose:               h.TextDocumentDidClose,
		TextDocumentHover:                  h.TextDocumentHover,
		TextDocumentDefinition:             h.TextDocumentDefinition,
		TextDocumentDocumentSymbol:         h.TextDocumentDocumentSymbol,
		TextDocumentSemanticTokensFull:     h.TextDocumentSemanticTokensFull,
		WorkspaceDidChangeWorkspaceFolders: h.WorkspaceDidChangeWorkspaceFolders,
	}
}

// Initialize handles the initialize request
func (h *GLSPHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	client := "unknown"
	if params.ClientInfo != nil {
		client = params.ClientInfo.Name
	}
	h.logger.Infow("LSP client initializing",
		"client", client,
		"workspace_folders", len(params.WorkspaceFolders),
	)

	for _, folder := range params.WorkspaceFolders {
		if err := h.session.OpenWorkspaceFolder(string(folder.URI), folder.Name); err != nil {
			h.logger.Warnw("Ignoring workspace folder", logger.FieldURI, folder.URI, logger.FieldError, err)
		}
	}
	if len(params.WorkspaceFolders) == 0 && params.RootURI != nil {
		if err := h.session.OpenWorkspaceFolder(string(*params.RootURI), "root"); err != nil {
			h.logger.Warnw("Ignoring root URI", logger.FieldURI, *params.RootURI, logger.FieldError, err)
		}
	}

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: util.Ptr(true),
			Change:    &syncKind,
		},
		HoverProvider:          true,
		DefinitionProvider:     true,
		DocumentSymbolProvider: true,
		Workspace: &protocol.ServerCapabilitiesWorkspace{
			WorkspaceFolders: &protocol.WorkspaceFoldersServerCapabilities{
				Supported:           util.Ptr(true),
				ChangeNotifications: &protocol.BoolOrString{Value: true},
			},
		},
	}
	if h.service.Options().SemanticTokens {
		capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
			Legend: protocol.SemanticTokensLegend{
				TokenTypes:     lsp.TokenTypes,
				TokenModifiers: []string{},
			},
			Full: true,
		}
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: util.Ptr(version.Get().Short()),
		},
	}, nil
}

// Initialized is called after client receives InitializeResult
func (h *GLSPHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.logger.Infow("LSP client initialized")
	return nil
}

// Shutdown handles the shutdown request
func (h *GLSPHandler) Shutdown(ctx *glsp.Context) error {
	h.logger.Infow("LSP client shutting down", logger.FieldCount, len(h.session.Documents()))
	h.publisher.Stop()
	return nil
}

// SetTrace records the client's requested trace level
func (h *GLSPHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen parses the new document and publishes its diagnostics
func (h *GLSPHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	doc, err := h.session.Open(string(item.URI), item.LanguageID, int32(item.Version), item.Text)
	if err != nil {
		h.logger.Warnw("Document open rejected", logger.FieldURI, item.URI, logger.FieldError, err)
		return err
	}
	h.publishDiagnostics(ctx, doc)
	return nil
}

// TextDocumentDidChange replaces the document text (full sync) and re-publishes
func (h *GLSPHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	text, ok := "", false
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, ok = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			// Incremental edits are not negotiated; a client sending one anyway
			// gets its text taken as the whole document only when it has no range.
			if c.Range == nil {
				text, ok = c.Text, true
			}
		}
	}
	if !ok {
		h.logger.Debugw("Change without full text ignored", logger.FieldURI, uri)
		return nil
	}

	doc, err := h.session.Change(uri, int32(params.TextDocument.Version), text)
	if err != nil {
		h.logger.Warnw("Document change rejected", logger.FieldURI, uri, logger.FieldError, err)
		return err
	}
	h.publishDiagnostics(ctx, doc)
	return nil
}

// TextDocumentDidClose drops the document and clears its diagnostics
func (h *GLSPHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	h.publisher.Forget(uri)
	if err := h.session.Close(uri); err != nil {
		h.logger.Warnw("Document close rejected", logger.FieldURI, uri, logger.FieldError, err)
		return err
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (h *GLSPHandler) publishDiagnostics(ctx *glsp.Context, doc *lsp.Document) {
	h.publisher.Publish(doc.URI, func() {
		diags := h.service.Diagnostics(doc)
		h.logger.Debugw("Publishing diagnostics",
			logger.FieldURI, doc.URI,
			logger.FieldVersion, doc.Version,
			logger.FieldDiagnostics, len(diags),
		)
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentUri(doc.URI),
			Version:     util.Ptr(protocol.UInteger(doc.Version)),
			Diagnostics: toDiagnostics(diags),
		})
	})
}

// TextDocumentHover describes the token under the cursor
func (h *GLSPHandler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (result *protocol.Hover, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in hover handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result, err = nil, nil
		}
	}()

	doc, err := h.session.Document(string(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	hover := h.service.Hover(doc, fromPosition(params.Position))
	if hover == nil {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hover.Contents,
		},
		Range: util.Ptr(toRange(hover.Range)),
	}, nil
}

// TextDocumentDefinition jumps to a def, class or module-level assignment
func (h *GLSPHandler) TextDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in definition handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result, err = nil, nil
		}
	}()

	doc, err := h.session.Document(string(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	loc := h.service.Definition(doc, fromPosition(params.Position))
	if loc == nil {
		return nil, nil
	}
	return protocol.Location{URI: protocol.DocumentUri(loc.URI), Range: toRange(loc.Range)}, nil
}

// TextDocumentDocumentSymbol returns the document outline
func (h *GLSPHandler) TextDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in document symbol handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result, err = []protocol.DocumentSymbol{}, nil
		}
	}()

	doc, err := h.session.Document(string(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	return toDocumentSymbols(h.service.DocumentSymbols(doc)), nil
}

// TextDocumentSemanticTokensFull handles semantic tokens request for syntax highlighting
func (h *GLSPHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (result *protocol.SemanticTokens, err error) {
	// Panic recovery: if the encoder panics, return empty tokens instead of crashing
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in semantic tokens handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result, err = &protocol.SemanticTokens{Data: []uint32{}}, nil
		}
	}()

	doc, err := h.session.Document(string(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	data := h.service.SemanticTokens(doc)
	if data == nil {
		data = []uint32{}
	}
	h.logger.Debugw("Semantic tokens", logger.FieldURI, doc.URI, logger.FieldTokens, len(data)/5)
	return &protocol.SemanticTokens{Data: data}, nil
}

// WorkspaceDidChangeWorkspaceFolders tracks folders added and removed by the client
func (h *GLSPHandler) WorkspaceDidChangeWorkspaceFolders(ctx *glsp.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	for _, folder := range params.Event.Removed {
		if err := h.session.CloseWorkspaceFolder(string(folder.URI)); err != nil {
			h.logger.Warnw("Workspace folder removal rejected", logger.FieldURI, folder.URI, logger.FieldError, err)
		}
	}
	for _, folder := range params.Event.Added {
		if err := h.session.OpenWorkspaceFolder(string(folder.URI), folder.Name); err != nil {
			h.logger.Warnw("Workspace folder rejected", logger.FieldURI, folder.URI, logger.FieldError, err)
		}
	}
	return nil
}
