// Package annotate implements the rename-annotation extractor:
// it scans raw SQL for `-- @renamed from = ...` style comments, lifts them
// into a structured annotation list, and splices the annotation text back
// out of the comment while preserving every byte offset of non-comment
// content and every newline, so a downstream parser's line numbers stay
// valid.
//
// Grounded on sqldef's own comment scanner (parser/comments.go),
// which is quote-aware and line/rune oriented in the same way, but solves
// a different problem (margin comment stripping rather than annotation
// lifting) — this package is a new algorithm in that idiom, not a copy.
package annotate

import (
	"fmt"
	"strings"
)

// Annotation is one recognized `@renamed from = <ident>` comment.
type Annotation struct {
	Line       int // 1-based source line number
	From       string
	Deprecated bool // true if matched via the deprecated `@rename` spelling
}

// Extract scans raw SQL line by line and returns the cleaned SQL (with
// annotation text spliced out of its comment, everything else untouched)
// plus the ordered list of recognized annotations. There is no failure
// mode at this layer; an error only surfaces later when an annotation has
// no preceding object to attach to (sqlddl.Parse). An annotation whose
// source name is not found among the current objects is not an error: the
// rename protocol (diff/names.go) falls back to matching the object by its
// own name.
func Extract(sql string) (string, []Annotation) {
	lines := splitKeepingTerminators(sql)
	var annotations []Annotation
	var out strings.Builder

	for i, line := range lines {
		cleaned, ann := extractFromLine(line, i+1)
		out.WriteString(cleaned)
		if ann != nil {
			annotations = append(annotations, *ann)
		}
	}
	return out.String(), annotations
}

// splitKeepingTerminators splits sql into lines, keeping the trailing "\n"
// (or "\r\n") attached to each line so that re-joining reproduces the
// input exactly when no annotation is spliced out.
func splitKeepingTerminators(sql string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '\n' {
			lines = append(lines, sql[start:i+1])
			start = i + 1
		}
	}
	if start < len(sql) {
		lines = append(lines, sql[start:])
	}
	return lines
}

// extractFromLine finds the first line-comment marker `--` outside of a
// quoted string on this line, then looks inside the comment for a
// `@renamed`/`@rename` annotation. Doubled quotes (`''`, `""`) inside their
// respective strings are not terminators, matching standard SQL escaping.
func extractFromLine(line string, lineNo int) (string, *Annotation) {
	commentStart := findLineCommentStart(line)
	if commentStart < 0 {
		return line, nil
	}

	code := line[:commentStart]
	comment := line[commentStart:]

	spliced, ann := extractAnnotationFromComment(comment, lineNo)
	if ann == nil {
		return line, nil
	}
	return code + spliced, ann
}

// findLineCommentStart returns the byte offset of the first `--` that
// lies outside a single- or double-quoted string, or -1 if none exists.
func findLineCommentStart(line string) int {
	inSingle, inDouble := false, false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inSingle:
			if c == '\'' {
				if i+1 < len(line) && line[i+1] == '\'' {
					i++ // doubled quote escape, not a terminator
					continue
				}
				inSingle = false
			}
		case inDouble:
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					i++
					continue
				}
				inDouble = false
			}
		default:
			switch c {
			case '\'':
				inSingle = true
			case '"':
				inDouble = true
			case '-':
				if i+1 < len(line) && line[i+1] == '-' {
					return i
				}
			}
		}
	}
	return -1
}

// extractAnnotationFromComment scans the comment region (starting at its
// leading "--") for an `@renamed`/`@rename` marker followed by `from`,
// `=`, and an identifier, and splices the matched text out.
func extractAnnotationFromComment(comment string, lineNo int) (string, *Annotation) {
	at := strings.IndexByte(comment, '@')
	for at >= 0 {
		rest := comment[at:]
		deprecated := false
		var afterMarker string
		if strings.HasPrefix(rest, "@renamed") {
			afterMarker = rest[len("@renamed"):]
		} else if strings.HasPrefix(rest, "@rename") {
			afterMarker = rest[len("@rename"):]
			deprecated = true
		} else {
			next := strings.IndexByte(comment[at+1:], '@')
			if next < 0 {
				return comment, nil
			}
			at = at + 1 + next
			continue
		}

		ident, consumed, ok := matchFromClause(afterMarker)
		if !ok {
			next := strings.IndexByte(comment[at+1:], '@')
			if next < 0 {
				return comment, nil
			}
			at = at + 1 + next
			continue
		}

		matchEnd := at + (len(rest) - len(afterMarker)) + consumed
		// comment[:at] already retains the comment's "--" lead-in (and any
		// text between it and the '@'); splicing the matched clause out
		// leaves that lead-in and whatever trails the clause (e.g. the
		// line's newline terminator) untouched.
		spliced := comment[:at] + comment[matchEnd:]
		return spliced, &Annotation{Line: lineNo, From: ident, Deprecated: deprecated}
	}
	return comment, nil
}

// matchFromClause matches, at the start of s: whitespace, the literal
// "from", whitespace, "=", whitespace, and an identifier — either
// `"quoted"` (with doubled-quote escape) or an unquoted whitespace/EOL
// terminated token. Returns the identifier, the number of bytes of s
// consumed by the whole clause, and whether the match succeeded.
func matchFromClause(s string) (string, int, bool) {
	pos := 0
	pos += skipSpace(s[pos:])
	if !strings.HasPrefix(strings.ToLower(s[pos:]), "from") {
		return "", 0, false
	}
	pos += len("from")
	n := skipSpace(s[pos:])
	if n == 0 {
		return "", 0, false
	}
	pos += n
	if pos >= len(s) || s[pos] != '=' {
		return "", 0, false
	}
	pos++
	pos += skipSpace(s[pos:])

	if pos < len(s) && s[pos] == '"' {
		ident, n, ok := scanQuotedIdent(s[pos:])
		if !ok {
			return "", 0, false
		}
		return ident, pos + n, true
	}

	start := pos
	for pos < len(s) && !isSpace(s[pos]) {
		pos++
	}
	if pos == start {
		return "", 0, false
	}
	return s[start:pos], pos, true
}

func scanQuotedIdent(s string) (string, int, bool) {
	if len(s) == 0 || s[0] != '"' {
		return "", 0, false
	}
	var b strings.Builder
	i := 1
	for i < len(s) {
		if s[i] == '"' {
			if i+1 < len(s) && s[i+1] == '"' {
				b.WriteByte('"')
				i += 2
				continue
			}
			return b.String(), i + 1, true
		}
		b.WriteByte(s[i])
		i++
	}
	return "", 0, false // unterminated
}

func skipSpace(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// String renders an annotation for diagnostics.
func (a Annotation) String() string {
	marker := "@renamed"
	if a.Deprecated {
		marker = "@rename"
	}
	return fmt.Sprintf("line %d: %s from = %s", a.Line, marker, a.From)
}
