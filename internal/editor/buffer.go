package editor

import (
	"strconv"
	"strings"

	"github.com/HilaBluman/CEOS/internal/model"
)

// Buffer is a document's ordered line sequence. Every line keeps its own
// terminator; the final line may lack one. Apply validates before mutating,
// so a failed operation leaves the buffer untouched.
type Buffer struct {
	lines []string
}

// NewBuffer splits raw content into lines, keeping terminators.
func NewBuffer(content string) *Buffer {
	if content == "" {
		return &Buffer{}
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return &Buffer{lines: lines}
}

// Len returns the current line count.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Content reassembles the buffer into raw document content.
func (b *Buffer) Content() string {
	return strings.Join(b.lines, "")
}

// Lines returns the line contents without terminators.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, line := range b.lines {
		out[i] = strings.TrimRight(line, "\n")
	}
	return out
}

// Apply canonicalizes op and applies it to the buffer, returning the
// canonical action. On error the buffer is unchanged.
func (b *Buffer) Apply(op model.Operation) (model.Action, error) {
	action := Canonicalize(op.Action, op.LinesLength, len(b.lines))

	switch action {
	case model.ActionInsert:
		b.insert(op.Row, op.Content)
	case model.ActionPaste:
		b.insert(op.Row, unescapeQuotes(op.Content))
	case model.ActionUpdate:
		if err := b.update(op.Row, op.Content); err != nil {
			return "", err
		}
	case model.ActionDelete:
		if op.Row < 0 || op.Row >= len(b.lines) {
			return "", model.NewValidationError("row %d out of bounds", op.Row)
		}
		b.lines = append(b.lines[:op.Row], b.lines[op.Row+1:]...)
	case model.ActionDeleteHighlight:
		if err := b.deleteRange(op.Row, op.Content); err != nil {
			return "", err
		}
	case model.ActionUpdateDeleteNext:
		if op.Row < 0 || op.Row >= len(b.lines) {
			return "", model.NewValidationError("row %d out of bounds", op.Row)
		}
		b.lines[op.Row] = op.Content + "\n"
		// The row below may already be gone when the client's view lagged
		// behind the server; that is the race this action exists to resolve.
		if op.Row+1 < len(b.lines) {
			b.lines = append(b.lines[:op.Row+1], b.lines[op.Row+2:]...)
		}
	case model.ActionSaveAll:
		b.lines = NewBuffer(op.Content).lines
	default:
		return "", model.NewValidationError("invalid action %q", op.Action)
	}

	return action, nil
}

// insert places content at row: past the end it becomes the new final line
// with no trailing terminator, mid-sequence it gets one.
func (b *Buffer) insert(row int, content string) {
	if row >= len(b.lines) {
		b.lines = append(b.lines, content)
		return
	}
	if row < 0 {
		row = 0
	}
	line := content + "\n"
	b.lines = append(b.lines[:row], append([]string{line}, b.lines[row:]...)...)
}

func (b *Buffer) update(row int, content string) error {
	switch {
	case row == len(b.lines):
		b.lines = append(b.lines, content)
	case row >= 0 && row < len(b.lines):
		b.lines[row] = content + "\n"
	default:
		return model.NewValidationError("row %d out of bounds", row)
	}
	return nil
}

// deleteRange removes the closed-open range [row, bound) where bound is
// carried in the operation's content field. Deletion walks from the end of
// the range toward row so indices never shift under it.
func (b *Buffer) deleteRange(row int, rawBound string) error {
	bound, err := strconv.Atoi(strings.TrimSpace(rawBound))
	if err != nil {
		return model.NewValidationError("invalid range bound %q", rawBound)
	}
	if row < 0 || row > len(b.lines) || bound < row {
		return model.NewValidationError("range [%d, %d) out of bounds", row, bound)
	}
	if bound > len(b.lines) {
		bound = len(b.lines)
	}
	for i := bound - 1; i >= row; i-- {
		b.lines = append(b.lines[:i], b.lines[i+1:]...)
	}
	return nil
}

// unescapeQuotes turns literal escaped quotes from pasted payloads back
// into plain quotes.
func unescapeQuotes(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\'`, `'`)
}
