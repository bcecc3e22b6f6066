package sla

import (
	"bytes"
	"strings"

	"github.com/codfish-zz/ScribusGenerator/pkg/vars"
)

// placeholderPrefix opens a substitution token: %VAR_name%. Matching is
// case-sensitive, both for the prefix and for the variable name.
const placeholderPrefix = "%VAR_"

// xmlEscaper makes substituted values safe inside markup text and attribute
// values, where SLA templates keep their visible text.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Substitute replaces every %VAR_name% token in markup with its XML-escaped
// value from m. Text outside recognized placeholder spans is copied verbatim,
// so input without placeholders round-trips byte-identical. A token whose
// name is missing from m fails with *UnresolvedVariableError; an unterminated
// or empty token fails with *MalformedPlaceholderError.
func Substitute(markup []byte, m vars.SubstitutionMap) ([]byte, error) {
	return substitute(markup, m, true)
}

// SubstitutePlain is Substitute without XML escaping. It resolves output
// file-name patterns, where entity escaping would corrupt the name.
func SubstitutePlain(markup []byte, m vars.SubstitutionMap) ([]byte, error) {
	return substitute(markup, m, false)
}

// ContainsPlaceholders reports whether markup holds at least one opening
// placeholder token.
func ContainsPlaceholders(markup []byte) bool {
	return bytes.Contains(markup, []byte(placeholderPrefix))
}

func substitute(markup []byte, m vars.SubstitutionMap, escape bool) ([]byte, error) {
	prefix := []byte(placeholderPrefix)
	out := make([]byte, 0, len(markup))

	i := 0
	for i < len(markup) {
		j := bytes.Index(markup[i:], prefix)
		if j < 0 {
			out = append(out, markup[i:]...)
			break
		}
		j += i
		out = append(out, markup[i:j]...)

		nameStart := j + len(prefix)
		k := nameStart
		for k < len(markup) && isNameByte(markup[k]) {
			k++
		}
		if k == nameStart || k >= len(markup) || markup[k] != '%' {
			return nil, &MalformedPlaceholderError{
				Offset:  j,
				Line:    lineOf(markup, j),
				Snippet: snippetAt(markup, j),
			}
		}

		name := string(markup[nameStart:k])
		value, ok := m[name]
		if !ok {
			return nil, &UnresolvedVariableError{Name: name, Offset: j, Line: lineOf(markup, j)}
		}
		if escape {
			value = xmlEscaper.Replace(value)
		}
		out = append(out, value...)
		i = k + 1
	}
	return out, nil
}

// isNameByte limits variable names to the characters data-file headers use.
func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == '-' || b == '.':
		return true
	}
	return false
}

func lineOf(markup []byte, offset int) int {
	return bytes.Count(markup[:offset], []byte{'\n'}) + 1
}

func snippetAt(markup []byte, offset int) string {
	end := offset + 24
	if end > len(markup) {
		end = len(markup)
	}
	if nl := bytes.IndexByte(markup[offset:end], '\n'); nl >= 0 {
		end = offset + nl
	}
	return string(markup[offset:end])
}
