// Copyright © 2024 The pystyle authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/pystyle/lint"
)

// codeActions opens src and requests code actions for all of its
// diagnostics.
func codeActions(t *testing.T, s *Server, src string) (string, []protocol.CodeAction) {
	t.Helper()
	doc := openDoc(s, "file:///test/actions.py", src)
	diags := s.documentDiagnostics(doc)
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI},
		Context:      protocol.CodeActionContext{Diagnostics: diags},
	})
	require.NoError(t, err)
	if result == nil {
		return doc.URI, nil
	}
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok, "result should be []CodeAction, got %T", result)
	return doc.URI, actions
}

func findAction(actions []protocol.CodeAction, title string) *protocol.CodeAction {
	for i := range actions {
		if actions[i].Title == title {
			return &actions[i]
		}
	}
	return nil
}

func TestCodeActionRemoveSemicolon(t *testing.T) {
	uri, actions := codeActions(t, testServer(), "x = 1;\n")

	fix := findAction(actions, "Remove semicolon")
	require.NotNil(t, fix)
	require.NotNil(t, fix.Kind)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *fix.Kind)
	edits := fix.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, "", edits[0].NewText)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 5},
		End:   protocol.Position{Line: 0, Character: 6},
	}, edits[0].Range)
}

func TestCodeActionSuppressNoqa(t *testing.T) {
	uri, actions := codeActions(t, testServer(), "x = 1;\n")

	suppress := findAction(actions, "Suppress with # noqa: S003")
	require.NotNil(t, suppress)
	edits := suppress.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, "  # noqa: S003", edits[0].NewText)
	end := protocol.Position{Line: 0, Character: 6}
	assert.Equal(t, protocol.Range{Start: end, End: end}, edits[0].Range)
	require.Len(t, suppress.Diagnostics, 1)
	assert.Equal(t, "S003", suppress.Diagnostics[0].Code.Value)
}

func TestCodeActionNoSuppressWithoutNoqa(t *testing.T) {
	_, actions := codeActions(t, New(WithLinter(&lint.Linter{})), "x = 1;\n")
	require.Len(t, actions, 1)
	assert.Equal(t, "Remove semicolon", actions[0].Title)
}

func TestCodeActionInlineCommentSpacing(t *testing.T) {
	uri, actions := codeActions(t, testServer(), "x = 1 # note\n")

	fix := findAction(actions, "Insert spaces before comment")
	require.NotNil(t, fix)
	edits := fix.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, " ", edits[0].NewText)
	at := protocol.Position{Line: 0, Character: 6}
	assert.Equal(t, protocol.Range{Start: at, End: at}, edits[0].Range)
}

func TestCodeActionDefinitionSpacing(t *testing.T) {
	uri, actions := codeActions(t, testServer(), "def  run():\n    pass\n")

	fix := findAction(actions, "Use a single space")
	require.NotNil(t, fix)
	edits := fix.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, " ", edits[0].NewText)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 3},
		End:   protocol.Position{Line: 0, Character: 5},
	}, edits[0].Range)
}

func TestCodeActionNoFix(t *testing.T) {
	_, actions := codeActions(t, New(WithLinter(&lint.Linter{})), "def Run():\n    pass\n")
	assert.Nil(t, actions, "naming problems have no mechanical fix")
}

func TestCodeActionNoDiagnostics(t *testing.T) {
	_, actions := codeActions(t, testServer(), "x = 1\n")
	assert.Nil(t, actions)
}

func TestCodeActionForeignSource(t *testing.T) {
	s := testServer()
	doc := openDoc(s, "file:///test/foreign.py", "x = 1;\n")
	diag := protocol.Diagnostic{
		Source:  strPtr("flake8"),
		Code:    &protocol.IntegerOrString{Value: "E703"},
		Message: "statement ends with a semicolon",
	}
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI},
		Context:      protocol.CodeActionContext{Diagnostics: []protocol.Diagnostic{diag}},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCodeActionOnlyFilter(t *testing.T) {
	s := testServer()
	doc := openDoc(s, "file:///test/filter.py", "x = 1;\n")

	// Only refactor actions are requested, so quick fixes are left out.
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI},
		Context: protocol.CodeActionContext{
			Diagnostics: s.documentDiagnostics(doc),
			Only:        []protocol.CodeActionKind{protocol.CodeActionKindRefactor},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCodeActionUnknownDocument(t *testing.T) {
	s := testServer()
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.py"},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}
