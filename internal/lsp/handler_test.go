package lsp

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"sccp/internal/cpsparser"
	"sccp/internal/sccp"
)

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	absPath, err := filepath.Abs(filepath.Join("testdata", "sample.cps"))
	require.NoError(t, err, "failed to get absolute path")

	source, err := os.ReadFile(absPath)
	require.NoError(t, err, "failed to read fixture")

	prog, err := cpsparser.Parse(absPath, string(source))
	require.NoError(t, err, "unexpected parse error")

	root, _, _, errs := cpsparser.Build(prog)
	require.Empty(t, errs, "unexpected build errors")

	result := sccp.Run(root, sccp.Config{})

	h := NewHandler()
	h.docs[absPath] = &document{source: string(source), prog: prog, root: root, result: result}

	uri := "file://" + filepath.ToSlash(absPath)
	params := &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}

	tokens, err := h.TextDocumentSemanticTokensFull(nil, params)
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "returned tokens should not be nil")
	require.NotEmpty(t, tokens.Data, "returned token data should not be empty")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "failed to decode semantic tokens")
	require.NotEmpty(t, decoded, "no semantic tokens decoded")

	tokenTypes := make(map[string]int)
	for _, token := range decoded {
		tokenTypes[token.Type]++
	}

	require.Greater(t, tokenTypes["function"], 0, "should have function tokens for fn/letcont names")
	require.Greater(t, tokenTypes["parameter"], 0, "should have parameter tokens for fn params")
	require.Greater(t, tokenTypes["variable"], 0, "should have variable tokens for let bindings")
	require.Greater(t, tokenTypes["keyword"], 0, "should have keyword tokens for terminators")

	t.Logf("generated %d semantic tokens with types: %v", len(decoded), tokenTypes)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line,
			Char:      char,
			Length:    length,
			Type:      SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}
