package highlighter

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/tidelist/internal/highlighter/lang"
	"github.com/bethropolis/tidelist/internal/highlighter/utils"
	"github.com/bethropolis/tidelist/internal/logger"
)

// Span is a styled range of rune columns [StartCol, EndCol) on one line.
type Span struct {
	StartCol  int
	EndCol    int
	StyleName string
}

// Result maps line number -> styled spans on that line.
type Result map[int][]Span

// Highlighter service manages parsing and querying syntax trees.
type Highlighter struct {
	mu      sync.Mutex
	parser  *sitter.Parser
	queries map[string]*sitter.Query // Compiled queries per language name
}

// NewHighlighter creates a new highlighter instance.
func NewHighlighter() *Highlighter {
	return &Highlighter{
		parser:  sitter.NewParser(),
		queries: make(map[string]*sitter.Query),
	}
}

func (h *Highlighter) query(l *lang.Language) (*sitter.Query, error) {
	if q, ok := h.queries[l.Name]; ok {
		return q, nil
	}
	src, err := l.GetQuery()
	if err != nil {
		return nil, err
	}
	q, err := sitter.NewQuery(src, l.TreeSitterLang)
	if err != nil {
		return nil, fmt.Errorf("query parse failed for %s: %w", l.Name, err)
	}
	h.queries[l.Name] = q
	return q, nil
}

// Highlight parses source as l and returns the styled spans per line.
// Captures spanning several lines are dropped. When two captures cover the
// same range the later pattern in the query wins.
func (h *Highlighter) Highlight(ctx context.Context, source []byte, l *lang.Language) (Result, error) {
	if l == nil {
		return nil, fmt.Errorf("no language provided for highlighting")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	q, err := h.query(l)
	if err != nil {
		return nil, err
	}

	input := make([]byte, 0, len(l.Prefix)+len(source)+len(l.Suffix))
	input = append(input, l.Prefix...)
	input = append(input, source...)
	input = append(input, l.Suffix...)

	h.parser.SetLanguage(l.TreeSitterLang)
	tree, err := h.parser.ParseCtx(ctx, nil, input)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	lines := bytes.Split(source, []byte("\n"))
	shift := len(l.Prefix)
	result := make(Result)
	priority := make(map[spanKey]uint16)

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			start, end := capture.Node.StartPoint(), capture.Node.EndPoint()
			if start.Row != end.Row {
				continue
			}
			row := int(start.Row)
			startByte, endByte := int(start.Column), int(end.Column)
			if row == 0 {
				startByte -= shift
				endByte -= shift
			}
			if row >= len(lines) || startByte < 0 || endByte > len(lines[row]) {
				continue // Inside the wrapper
			}

			span := Span{
				StartCol:  utils.ByteOffsetToRuneIndex(lines[row], startByte),
				EndCol:    utils.ByteOffsetToRuneIndex(lines[row], endByte),
				StyleName: utils.CaptureNameToStyleName(q.CaptureNameForId(capture.Index)),
			}
			if span.EndCol <= span.StartCol {
				continue
			}
			key := spanKey{row, span.StartCol, span.EndCol}
			if prev, seen := priority[key]; seen && prev > match.PatternIndex {
				continue
			}
			priority[key] = match.PatternIndex
			result[row] = addSpan(result[row], span)
		}
	}

	logger.DebugTagf("highlight", "Highlight %s: spans on %d lines", l.Name, len(result))
	return result, nil
}

type spanKey struct{ row, start, end int }

func addSpan(spans []Span, s Span) []Span {
	for i := range spans {
		if spans[i].StartCol == s.StartCol && spans[i].EndCol == s.EndCol {
			spans[i].StyleName = s.StyleName
			return spans
		}
	}
	return append(spans, s)
}
