// Copyright © 2024 The pystyle authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/pystyle/astutil"
	"github.com/luthersystems/pystyle/lint"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line class and function definitions
// and consecutive comment lines.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	doc.mu.Lock()
	module := doc.module
	lines := doc.lines
	doc.mu.Unlock()

	var ranges []protocol.FoldingRange
	if module != nil {
		for _, def := range astutil.Definitions(module) {
			if def.EndLine > def.Line {
				ranges = append(ranges, foldingRange(def.Line-1, def.EndLine-1, protocol.FoldingRangeKindRegion))
			}
		}
	}
	ranges = append(ranges, commentFoldingRanges(lines)...)
	return ranges, nil
}

func foldingRange(start, end int, kind protocol.FoldingRangeKind) protocol.FoldingRange {
	k := string(kind)
	return protocol.FoldingRange{
		StartLine: safeUint(start),
		EndLine:   safeUint(end),
		Kind:      &k,
	}
}

// commentFoldingRanges produces a folding range for each block of two or
// more consecutive lines starting with "#".
func commentFoldingRanges(lines []lint.SourceLine) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	blockStart := -1
	flush := func(end int) {
		if blockStart >= 0 && end > blockStart {
			ranges = append(ranges, foldingRange(blockStart, end, protocol.FoldingRangeKindComment))
		}
		blockStart = -1
	}
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line.Text), "#") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		flush(i - 1)
	}
	flush(len(lines) - 1)
	return ranges
}
