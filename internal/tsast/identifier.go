package tsast

import (
	"strings"
	"unicode"
)

// reserved holds the words that cannot be used as binding names.
var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "implements": true,
	"import": true, "in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "static": true, "super": true, "switch": true,
	"this": true, "throw": true, "true": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// IsIdentifierName reports whether name is usable after a dot or as an
// unquoted property key. Reserved words qualify.
func IsIdentifierName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

// IsValidIdentifier reports whether name can be declared as a variable,
// parameter or type.
func IsValidIdentifier(name string) bool {
	return IsIdentifierName(name) && !reserved[name]
}

// isNumericKey reports whether name is a plain decimal integer key.
func isNumericKey(name string) bool {
	if name == "" || (len(name) > 1 && name[0] == '0') {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NeedsQuoting reports whether a property key has to be written as a string.
func NeedsQuoting(name string) bool {
	return !IsIdentifierName(name) && !isNumericKey(name)
}

// Sanitize turns an arbitrary string into a declarable identifier by
// replacing invalid characters and suffixing reserved words.
func Sanitize(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			b.WriteRune('_')
		}
		if isIdentPart(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	if reserved[out] {
		out += "_"
	}
	return out
}
