// Copyright © 2024 The pystyle authors

package lsp

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/pystyle/lint"
)

// testServer creates a server that runs every check and honours noqa.
func testServer() *Server {
	return New(WithLinter(&lint.Linter{Noqa: true}))
}

// openDoc opens a document in the test server and returns it.
func openDoc(s *Server, uri, content string) *Document {
	return s.docs.Open(uri, 1, content)
}

// mockContext returns a minimal glsp.Context for testing.
func mockContext() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {},
	}
}

// published collects diagnostics notifications, possibly from timers.
type published struct {
	mu   sync.Mutex
	list []*protocol.PublishDiagnosticsParams
}

func (p *published) all() []*protocol.PublishDiagnosticsParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*protocol.PublishDiagnosticsParams(nil), p.list...)
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *published) {
	p := &published{}
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				p.mu.Lock()
				p.list = append(p.list, params.(*protocol.PublishDiagnosticsParams))
				p.mu.Unlock()
			}
		},
	}
	return ctx, p
}

func diagCodes(diags []protocol.Diagnostic) []string {
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code.Value.(string))
	}
	return codes
}

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	doc := store.Open("file:///a.py", 1, "x = 1\n")
	assert.Same(t, doc, store.Get("file:///a.py"))
	assert.Len(t, store.All(), 1)

	changed := store.Change("file:///a.py", 2, "y = 2\n")
	assert.Same(t, doc, changed)
	assert.Equal(t, int32(2), doc.Version)
	assert.Equal(t, "y = 2", doc.line(0))

	store.Close("file:///a.py")
	assert.Nil(t, store.Get("file:///a.py"))
	assert.Empty(t, store.All())
}

func TestDocumentParse(t *testing.T) {
	s := testServer()
	doc := openDoc(s, "file:///ok.py", "def f(x):\n    return x\n")
	assert.NotNil(t, doc.module)
	assert.NoError(t, doc.skip)
	assert.Equal(t, "    return x", doc.line(1))
	assert.Equal(t, "", doc.line(5))
}

func TestDocumentParseError(t *testing.T) {
	s := testServer()
	doc := openDoc(s, "file:///bad.py", "def f(:\n")
	assert.Nil(t, doc.module)
	assert.Error(t, doc.skip)
}

func TestDiagnosticsOnOpen(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        "file:///test.py",
			LanguageID: "python",
			Version:    1,
			Text:       "x = 1;\n",
		},
	})
	require.NoError(t, err)
	pubs := captured.all()
	require.Len(t, pubs, 1)
	pub := pubs[0]
	assert.Equal(t, "file:///test.py", pub.URI)
	require.Len(t, pub.Diagnostics, 1)

	d := pub.Diagnostics[0]
	assert.Equal(t, "S003", d.Code.Value)
	assert.Equal(t, "Unnecessary semicolon", d.Message)
	assert.Equal(t, diagnosticSource, *d.Source)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 5},
		End:   protocol.Position{Line: 0, Character: 6},
	}, d.Range)
}

func TestDiagnosticsOnOpen_Clean(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///clean.py", Version: 1, Text: "x = 1\n"},
	})
	require.NoError(t, err)
	pubs := captured.all()
	require.Len(t, pubs, 1)
	assert.NotNil(t, pubs[0].Diagnostics)
	assert.Empty(t, pubs[0].Diagnostics)
}

func TestDiagnosticsOnParseError(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()

	// The syntax error itself is not reported; line checks still run.
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     "file:///broken.py",
			Version: 1,
			Text:    "x = 1;\ndef BadName(:\n",
		},
	})
	require.NoError(t, err)
	pubs := captured.all()
	require.Len(t, pubs, 1)
	assert.Equal(t, []string{"S003", "S009"}, diagCodes(pubs[0].Diagnostics))
}

func TestDiagnosticsWholeLine(t *testing.T) {
	s := testServer()
	doc := openDoc(s, "file:///blank.py", "x = 1\n\n\n\ny = 2\n")
	diags := s.documentDiagnostics(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "S006", diags[0].Code.Value)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 4, Character: 0},
		End:   protocol.Position{Line: 4, Character: 5},
	}, diags[0].Range)
}

func TestDiagnosticsOnChange_Debounced(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	openDoc(s, "file:///edit.py", "x = 1\n")

	err := s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///edit.py"},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "x = 1;\n"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, captured.all(), "change is published after the debounce delay")
	assert.Eventually(t, func() bool {
		pubs := captured.all()
		return len(pubs) == 1 && len(pubs[0].Diagnostics) == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestDiagnosticsOnClose_Cleared(t *testing.T) {
	s := testServer()
	openCtx, _ := capturingContext()

	err := s.textDocumentDidOpen(openCtx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     "file:///test.py",
			Version: 1,
			Text:    "x = 1;\n",
		},
	})
	require.NoError(t, err)

	// Close should clear diagnostics.
	closeCtx, closeCaptured := capturingContext()
	s.captureNotify(closeCtx)
	err = s.textDocumentDidClose(closeCtx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.py"},
	})
	require.NoError(t, err)
	pubs := closeCaptured.all()
	require.Len(t, pubs, 1)
	assert.Empty(t, pubs[0].Diagnostics, "close should clear diagnostics")
	assert.Nil(t, s.docs.Get("file:///test.py"), "document should be removed from store")
}

func TestDiagnosticsOnSave_Immediate(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     "file:///test.py",
			Version: 1,
			Text:    "x = 1\n",
		},
	})
	require.NoError(t, err)

	before := len(captured.all())
	err = s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.py"},
	})
	require.NoError(t, err)
	assert.Greater(t, len(captured.all()), before, "save should trigger immediate diagnostics publish")
}

func TestHoverOnDiagnostic(t *testing.T) {
	s := testServer()
	openDoc(s, "file:///hover.py", "x = 1;\n")

	hover, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///hover.py"},
			Position:     protocol.Position{Line: 0, Character: 5},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
	assert.Contains(t, content.Value, "**S003** `semicolon`: Unnecessary semicolon")
	assert.Contains(t, content.Value, lint.CheckSemicolon.Doc)
}

func TestHoverOutsideDiagnostic(t *testing.T) {
	s := testServer()
	openDoc(s, "file:///hover.py", "x = 1;\n")

	for _, pos := range []protocol.Position{{Line: 0, Character: 0}, {Line: 3, Character: 0}} {
		hover, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: "file:///hover.py"},
				Position:     pos,
			},
		})
		require.NoError(t, err)
		assert.Nil(t, hover)
	}
}

func TestDocumentSymbols(t *testing.T) {
	s := testServer()
	content := `class Shape:
    def area(self):
        return 0


def main(argv, env):
    pass
`
	openDoc(s, "file:///symbols.py", content)

	result, err := s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///symbols.py"},
	})
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok, "result should be []DocumentSymbol, got %T", result)
	require.Len(t, symbols, 2)

	shape := symbols[0]
	assert.Equal(t, "Shape", shape.Name)
	assert.Equal(t, protocol.SymbolKindClass, shape.Kind)
	assert.Equal(t, protocol.UInteger(0), shape.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(2), shape.Range.End.Line)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 6},
		End:   protocol.Position{Line: 0, Character: 11},
	}, shape.SelectionRange)
	require.Len(t, shape.Children, 1)
	assert.Equal(t, "area", shape.Children[0].Name)
	assert.Equal(t, protocol.SymbolKindMethod, shape.Children[0].Kind)

	main := symbols[1]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, protocol.SymbolKindFunction, main.Kind)
	require.NotNil(t, main.Detail)
	assert.Equal(t, "(argv, env)", *main.Detail)
	assert.Equal(t, protocol.UInteger(5), main.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(6), main.Range.End.Line)
}

func TestDocumentSymbolsParseError(t *testing.T) {
	s := testServer()
	openDoc(s, "file:///bad.py", "def f(:\n")
	result, err := s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///bad.py"},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestUTF16Offset(t *testing.T) {
	assert.Equal(t, protocol.UInteger(0), utf16Offset("a😀b", 0))
	assert.Equal(t, protocol.UInteger(1), utf16Offset("a😀b", 1))
	assert.Equal(t, protocol.UInteger(3), utf16Offset("a😀b", 2))
	assert.Equal(t, protocol.UInteger(4), utf16Offset("a😀b", 10))
	assert.Equal(t, 2, runeColumn("a😀b", 3))
	assert.Equal(t, 3, runeColumn("a😀b", 9))
}

func TestConvertLintDiagnostic(t *testing.T) {
	d := lint.Diagnostic{
		Pos:      lint.Position{File: "a.py", Line: 3, Col: 5, EndCol: 7},
		Code:     "S009",
		Message:  "Function name 'Foo' should use snake_case",
		Severity: lint.SeverityWarning,
	}
	got := convertLintDiagnostic(d, "def Foo():")
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 2, Character: 7},
	}, got.Range)
	assert.Equal(t, "S009", got.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *got.Severity)

	d.Severity = lint.SeverityInfo
	got = convertLintDiagnostic(d, "def Foo():")
	assert.Equal(t, protocol.DiagnosticSeverityInformation, *got.Severity)
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/src/a.py", uriToPath("file:///src/a.py"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
	assert.Equal(t, "file:///src/a.py", pathToURI("/src/a.py"))
	assert.Equal(t, "a.py", pathToURI("a.py"))
}

func TestExitHandler(t *testing.T) {
	s := testServer()
	var exitCode int
	var exitCalled bool
	s.exitFn = func(code int) {
		exitCode = code
		exitCalled = true
	}

	err := s.exit(mockContext())
	require.NoError(t, err)
	assert.True(t, exitCalled, "exit handler should call exitFn")
	assert.Equal(t, 0, exitCode, "exit should call with code 0")
}

func TestInitializeLifecycle(t *testing.T) {
	s := testServer()

	rootURI := "file:///workspace"
	result, err := s.initialize(mockContext(), &protocol.InitializeParams{
		RootURI: &rootURI,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	initResult, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.NotNil(t, initResult.ServerInfo)
	assert.Equal(t, serverName, initResult.ServerInfo.Name)
	assert.Equal(t, "/workspace", s.rootPath)
	assert.True(t, s.currentLinter().Noqa, "an injected linter is kept")
}

func TestInitializeLoadsWorkspaceConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"),
		[]byte("[tool.pystyle]\nselect = [\"S001\"]\nnoqa = true\n"), 0o600))

	s := New()
	rootURI := pathToURI(dir)
	_, err := s.initialize(mockContext(), &protocol.InitializeParams{RootURI: &rootURI})
	require.NoError(t, err)

	l := s.currentLinter()
	assert.True(t, l.Noqa)
	require.Len(t, l.Checks, 1)
	assert.Equal(t, "S001", l.Checks[0].Code)

	doc := openDoc(s, pathToURI(filepath.Join(dir, "a.py")), "x = 1;\n")
	assert.Empty(t, s.documentDiagnostics(doc), "S003 is not selected")
}

func TestInitializeBadWorkspaceConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"),
		[]byte("[tool.pystyle]\nselect = [\"S999\"]\n"), 0o600))

	s := New()
	rootURI := pathToURI(dir)
	_, err := s.initialize(mockContext(), &protocol.InitializeParams{RootURI: &rootURI})
	require.NoError(t, err)
	assert.Nil(t, s.currentLinter().Checks, "the default linter runs every check")
}
