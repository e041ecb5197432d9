// Copyright © 2024 The pystyle authors

package lsp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/pystyle/lint"
)

// textDocumentCodeAction handles the textDocument/codeAction request.
// It returns quick-fix actions for pystyle diagnostics in the request.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	// If the client only wants specific kinds, check we support them.
	if len(params.Context.Only) > 0 && !slices.Contains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}
	noqa := s.currentLinter().Noqa

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		// Only handle diagnostics from our lint source.
		if diag.Source == nil || *diag.Source != diagnosticSource || diag.Code == nil {
			continue
		}
		code := fmt.Sprintf("%v", diag.Code.Value)

		doc.mu.Lock()
		text := doc.line(int(diag.Range.Start.Line))
		doc.mu.Unlock()

		if fix, ok := fixAction(params.TextDocument.URI, diag, code, text); ok {
			actions = append(actions, fix)
		}
		if noqa {
			actions = append(actions, suppressAction(params.TextDocument.URI, diag, code, text))
		}
	}

	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// fixAction returns an edit that resolves the diagnostic, for the checks
// that have a mechanical fix.
func fixAction(uri string, diag protocol.Diagnostic, code, text string) (protocol.CodeAction, bool) {
	var (
		title string
		edit  protocol.TextEdit
	)
	switch code {
	case lint.CheckSemicolon.Code:
		title = "Remove semicolon"
		edit = protocol.TextEdit{Range: diag.Range, NewText: ""}
	case lint.CheckDefinitionSpacing.Code:
		title = "Use a single space"
		edit = protocol.TextEdit{Range: diag.Range, NewText: " "}
	case lint.CheckInlineComment.Code:
		col := runeColumn(text, diag.Range.Start.Character)
		before := []rune(text)[:col]
		have := len(before) - len(strings.TrimRight(string(before), " "))
		if have >= 2 {
			return protocol.CodeAction{}, false
		}
		title = "Insert spaces before comment"
		at := protocol.Range{Start: diag.Range.Start, End: diag.Range.Start}
		edit = protocol.TextEdit{Range: at, NewText: strings.Repeat(" ", 2-have)}
	default:
		return protocol.CodeAction{}, false
	}
	return quickFix(uri, title, diag, edit), true
}

// suppressAction creates a code action that appends a noqa comment for the
// diagnostic's code to its line.
func suppressAction(uri string, diag protocol.Diagnostic, code, text string) protocol.CodeAction {
	end := lineEnd(int(diag.Range.Start.Line), text)
	edit := protocol.TextEdit{
		Range:   protocol.Range{Start: end, End: end},
		NewText: "  # noqa: " + code,
	}
	return quickFix(uri, "Suppress with # noqa: "+code, diag, edit)
}

func quickFix(uri, title string, diag protocol.Diagnostic, edit protocol.TextEdit) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title:       title,
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {edit},
			},
		},
	}
}
