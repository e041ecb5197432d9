// Copyright © 2024 The pystyle authors

package lsp

import (
	"context"
	"sync"

	"github.com/luthersystems/pystyle/lint"
	"github.com/luthersystems/pystyle/parser"
	"github.com/luthersystems/pystyle/parser/ast"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string
	lines   []lint.SourceLine
	module  *ast.Module
	skip    error
	result  *lint.Result
}

// parse splits and parses the document content.  A document that does not
// parse keeps a nil module; skip holds the reason.
func (d *Document) parse() {
	src := []byte(d.Content)
	d.lines = lint.SplitLines(src)
	parsed := parser.Parse(uriToPath(d.URI), src)
	d.module = parsed.Module
	d.skip = parsed.Skip
	d.result = nil
}

// lint runs l over the content unless a result is cached.  The caller holds
// d.mu.
func (d *Document) lint(l *lint.Linter) (*lint.Result, error) {
	if d.result != nil {
		return d.result, nil
	}
	res, err := l.LintFile(context.Background(), uriToPath(d.URI), []byte(d.Content))
	if err != nil {
		return nil, err
	}
	d.result = res
	return res, nil
}

// line returns the text of the 0-based line n without its line break.
func (d *Document) line(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n].Content()
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns every open document.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	return docs
}
