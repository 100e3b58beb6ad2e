package generator

import (
	"regexp"
	"strings"

	"github.com/celestialdb/codegen/internal/domain"
	"github.com/celestialdb/codegen/internal/tsast"
)

var (
	nonWordRe         = regexp.MustCompile(`[^\w\s]`)
	leadingNonIdentRe = regexp.MustCompile(`^[^a-zA-Z_$]+`)
	pathParamRe       = regexp.MustCompile(`\{(.+?)\}`)
)

// OperationName derives the endpoint name of an operation. A usable
// operation id wins; otherwise the name is built from the verb and path,
// with the first path parameter read as "by x" and the second as "and y".
func OperationName(verb, path, operationID string) string {
	if id := operationIdentifier(operationID); id != "" {
		return id
	}
	path = replaceFirst(pathParamRe, path, "by $1")
	path = replaceFirst(pathParamRe, path, "and $1")
	return CamelCase(verb + " " + path)
}

func operationIdentifier(id string) string {
	if id == "" {
		return ""
	}
	cleaned := nonWordRe.ReplaceAllString(id, " ")
	ident := leadingNonIdentRe.ReplaceAllString(CamelCase(cleaned), "")
	if !tsast.IsValidIdentifier(ident) {
		return ""
	}
	return ident
}

func replaceFirst(re *regexp.Regexp, s, template string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, template, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}

// OperationNameOf is OperationName applied to a resolved operation.
func OperationNameOf(op domain.OperationDefinition) string {
	return OperationName(op.Verb, op.Path, op.OperationID)
}

// ResponseAliasName is the exported response type alias of an endpoint.
func ResponseAliasName(operationName, suffix string) string {
	return UpperFirst(operationName + suffix)
}

// ArgAliasName is the exported argument type alias of an endpoint.
func ArgAliasName(operationName, suffix string) string {
	return UpperFirst(operationName + suffix)
}

// APISliceName is the variable holding a grouping's createApi result.
func APISliceName(key string) string { return key + "ApiSlice" }

// ReducerPath is the store key of a grouping.
func ReducerPath(key string) string { return key }

// ModuleFileName is the file a grouping is written to.
func ModuleFileName(key string) string { return APISliceName(key) + ".ts" }

// SelectorKind enumerates the selectors exported per grouping.
type SelectorKind int

const (
	SelectAll SelectorKind = iota
	SelectIDs
	SelectByID
)

var selectorKinds = []SelectorKind{SelectAll, SelectIDs, SelectByID}

// SelectorName is the exported selector of the given kind.
func SelectorName(key string, kind SelectorKind) string {
	base := "select" + UpperFirst(key)
	switch kind {
	case SelectIDs:
		return base + "Ids"
	case SelectByID:
		return base + "ById"
	}
	return base
}

// SelectorNames lists every selector exported for key.
func SelectorNames(key string) []string {
	names := make([]string, len(selectorKinds))
	for i, k := range selectorKinds {
		names[i] = SelectorName(key, k)
	}
	return names
}

func adapterMethod(kind SelectorKind) string {
	switch kind {
	case SelectIDs:
		return "selectIds"
	case SelectByID:
		return "selectById"
	}
	return "selectAll"
}

// HookName is the React hook RTK Query generates for an endpoint.
func HookName(operationName string, kind domain.EndpointKind, lazy bool) string {
	var b strings.Builder
	b.WriteString("use")
	if lazy {
		b.WriteString("Lazy")
	}
	b.WriteString(UpperFirst(operationName))
	if kind == domain.KindQuery {
		b.WriteString("Query")
	} else {
		b.WriteString("Mutation")
	}
	return b.String()
}
