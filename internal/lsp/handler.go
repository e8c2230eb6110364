package lsp

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"sccp/internal/cps"
	"sccp/internal/cpsparser"
	"sccp/internal/sccp"
)

// SemanticTokenTypes is the set of token kinds this server reports (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"namespace",
	"function",
	"variable",
	"parameter",
	"keyword",
	"number",
	"operator",
}

// SemanticTokenModifiers is the set of extra tags this server attaches to tokens
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
}

// document holds everything derived from the last successful build of one
// open file: the graph itself plus the analysis result the diagnostics pass
// and semantic highlighting both read from.
type document struct {
	source string
	prog   *cpsparser.Program
	root   *cps.RootNode
	result *sccp.Result
}

// Handler implements the LSP server handlers for the CPS surface language.
type Handler struct {
	mu   sync.RWMutex
	docs map[string]*document
}

// NewHandler creates and returns a new Handler instance
func NewHandler() *Handler {
	return &Handler{docs: make(map[string]*document)}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("CPS LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("CPS LSP Shutdown")
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)
	return h.rebuildAndPublish(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	delete(h.docs, path)
	h.mu.Unlock()

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
// The server only advertises TextDocumentSyncKindFull, so the last entry in
// ContentChanges always carries the document's complete new text.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)
	source, ok := fullDocumentText(params.ContentChanges)
	if !ok {
		return fmt.Errorf("no full text in change event for %s", params.TextDocument.URI)
	}
	return h.rebuildAndPublish(ctx, params.TextDocument.URI, source)
}

// fullDocumentText extracts the whole-document text from a Full-sync change
// event. Under TextDocumentSyncKindFull the client sends exactly one change
// per notification carrying the entire new document, with no Range set.
func fullDocumentText(changes []interface{}) (string, bool) {
	if len(changes) == 0 {
		return "", false
	}
	switch c := changes[len(changes)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text, true
	case *protocol.TextDocumentContentChangeEventWhole:
		return c.Text, true
	default:
		return "", false
	}
}

// TextDocumentCompletion handles completion requests (currently returns empty list)
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        []protocol.CompletionItem{},
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.RLock()
	doc := h.docs[path]
	h.mu.RUnlock()

	if doc == nil || doc.prog == nil {
		return &protocol.SemanticTokens{}, nil
	}

	tokens := collectSemanticTokens(doc.prog)

	var data []uint32
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{Data: data}, nil
}

// rebuildAndPublish parses and builds source (the editor's own in-memory
// buffer, not whatever is currently on disk), runs the analyzer, stores the
// result, and publishes whatever diagnostics fall out — parse errors, build
// errors, or reachability warnings, in that order of precedence since each
// later stage depends on the previous one having succeeded.
func (h *Handler) rebuildAndPublish(ctx *glsp.Context, rawURI protocol.DocumentUri, source string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	prog, parseErr := cpsparser.Parse(path, source)
	if parseErr != nil {
		sendDiagnosticNotification(ctx, rawURI, ConvertParseError(path, source, parseErr))
		return nil
	}

	root, conts, branches, buildErrs := cpsparser.Build(prog)
	if len(buildErrs) > 0 {
		sendDiagnosticNotification(ctx, rawURI, ConvertBuildErrors(buildErrs))
		return nil
	}

	result := sccp.Run(root, sccp.Config{})

	h.mu.Lock()
	h.docs[path] = &document{source: source, prog: prog, root: root, result: result}
	h.mu.Unlock()

	diagnostics := append(ConvertReachabilityWarnings(conts, result), ConvertDeadBranchWarnings(branches, result)...)
	sendDiagnosticNotification(ctx, rawURI, diagnostics)
	return nil
}

// uriToPath converts a file:// URI to a platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
