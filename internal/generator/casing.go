package generator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type charClass int

const (
	classOther charClass = iota
	classLower
	classUpper
	classDigit
)

func classify(r rune) charClass {
	switch {
	case unicode.IsLower(r):
		return classLower
	case unicode.IsUpper(r), unicode.IsLetter(r):
		return classUpper
	case unicode.IsDigit(r):
		return classDigit
	}
	return classOther
}

// Words splits s the way lodash does before re-casing: on separators, on
// lower to upper transitions, at the end of acronyms (HTTPServer becomes
// HTTP and Server) and between letters and digits. English ordinals such
// as 2nd stay together.
func Words(s string) []string {
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	runes := []rune(s)
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i := 0; i < len(runes); i++ {
		c := classify(runes[i])
		if c == classOther {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := classify(runes[i-1])
		switch {
		case c == classDigit && prev != classDigit:
			flush(i)
			start = i
		case c != classDigit && prev == classDigit:
			if n := ordinalSuffix(runes, i); n > 0 {
				i += n - 1
				continue
			}
			flush(i)
			start = i
		case c == classUpper && prev == classLower:
			flush(i)
			start = i
		case c == classLower && prev == classUpper && i-1 > start:
			// ABc: the acronym ends before the last capital.
			flush(i - 1)
			start = i - 1
		}
	}
	flush(len(runes))
	return words
}

// ordinalSuffix returns the length of an ordinal suffix (st, nd, rd, th)
// starting at i after a digit run, or 0.
func ordinalSuffix(runes []rune, i int) int {
	if i+2 > len(runes) {
		return 0
	}
	suffix := strings.ToLower(string(runes[i : i+2]))
	if i+2 < len(runes) && classify(runes[i+2]) == classLower {
		return 0
	}
	switch last := runes[i-1]; {
	case last == '1' && suffix == "st",
		last == '2' && suffix == "nd",
		last == '3' && suffix == "rd",
		last != '1' && last != '2' && last != '3' && suffix == "th":
		return 2
	}
	return 0
}

// CamelCase converts s to lower camel case using lodash word rules.
func CamelCase(s string) string {
	var b strings.Builder
	for i, w := range Words(s) {
		w = strings.ToLower(w)
		if i > 0 {
			w = UpperFirst(w)
		}
		b.WriteString(w)
	}
	return b.String()
}

// UpperFirst upper-cases the first character of s and leaves the rest.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// PascalCase converts s to upper camel case.
func PascalCase(s string) string {
	return UpperFirst(CamelCase(s))
}
