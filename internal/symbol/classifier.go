// Package symbol classifies mangled symbol names into an owning package
// name and an ordered attribution path.
//
// The classifier understands three symbol shapes: plain `::`-separated
// paths, angle-bracket qualified forms such as `<Type as Trait>::method`,
// and foreign dialects that attach `<...>` or `(...)` decorations to a
// segment. Everything else routes to the unclassified sections branch.
package symbol

import (
	"regexp"
	"strings"
)

// PathSeparator separates segments in a symbol path.
const PathSeparator = "::"

// maxQualifiedDepth bounds the unwrapping of nested qualified forms so a
// corrupted symbol cannot recurse without limit. Real symbols stay in the
// low single digits.
const maxQualifiedDepth = 32

// bracketAggregateRegex matches bucketed placeholder rows such as
// "[1848 Others]".
var bracketAggregateRegex = regexp.MustCompile(`^\[\d+ Others\]$`)

// scalarPrimitives are the type names grouped under the std/primitive
// branch, keeping one branch for all primitive trait implementations.
var scalarPrimitives = map[string]bool{
	"bool": true, "char": true, "str": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"f32": true, "f64": true,
}

// Segment names for the synthetic primitive branch.
const (
	stdName       = "std"
	primitiveName = "primitive"
)

// Classification is the parsed owner and ordered path of a classified
// symbol. Segments always starts with Owner.
type Classification struct {
	Owner    string
	Segments []string
}

// IsOwnerName reports whether s is acceptable as an owning package name.
// Mangled non-path forms contain "..", aggregate buckets are bracketed, and
// well-formed package names never contain a space.
func IsOwnerName(s string) bool {
	if s == "" {
		return false
	}
	if strings.Contains(s, "..") {
		return false
	}
	if strings.ContainsRune(s, ' ') {
		return false
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return false
	}
	return true
}

// Classify parses a mangled symbol. ok is false when the symbol cannot be
// attributed to an owning package and belongs on the sections branch.
func Classify(sym string) (Classification, bool) {
	if strings.Contains(sym, "..") || bracketAggregateRegex.MatchString(sym) {
		return Classification{}, false
	}

	var segments []string
	if strings.HasPrefix(sym, "<") {
		segments = classifyQualified(sym)
	} else {
		parts := SplitSegments(sym)
		if len(parts) <= 1 {
			return Classification{}, false
		}
		segments = cleanSegments(parts)
	}

	if len(segments) == 0 {
		return Classification{}, false
	}
	owner := segments[0]
	if !IsOwnerName(owner) {
		return Classification{}, false
	}
	return Classification{Owner: owner, Segments: segments}, true
}

// SplitSegments splits a symbol on the `::` separator at bracket depth
// zero. Separator-like characters inside `{...}`, `<...>`, `(...)` or
// `[...]` groups never split, which keeps markers such as `{closure#0}`
// and `{shim:vtable#0}` atomic.
func SplitSegments(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); {
		switch s[i] {
		case '<', '{', '(', '[':
			depth++
		case '>', '}', ')', ']':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && strings.HasPrefix(s[i:], PathSeparator) {
			parts = append(parts, s[start:i])
			i += len(PathSeparator)
			start = i
			continue
		}
		i++
	}
	return append(parts, s[start:])
}

// classifyQualified resolves an angle-bracket qualified symbol down to the
// innermost type expression plus the outermost method suffix.
func classifyQualified(sym string) []string {
	typeExpr, method, ok := unwrapQualified(sym, 0)
	if !ok {
		return nil
	}
	segments := normalizeType(typeExpr)
	if len(segments) == 0 {
		return nil
	}
	if method != "" {
		segments = append(segments, cleanSegments(SplitSegments(method))...)
	}
	return segments
}

// unwrapQualified peels `<Type as Trait>::method` forms. Nested qualified
// type expressions (`<<T as A>::Assoc as B>::method`) recurse so that only
// the innermost concrete type survives; intermediate trait and method
// context is dropped. Only the outermost method suffix is kept.
func unwrapQualified(s string, depth int) (typeExpr, method string, ok bool) {
	if depth >= maxQualifiedDepth {
		return "", "", false
	}

	end := matchingAngle(s)
	if end < 0 {
		return "", "", false
	}

	inner := s[1:end]
	if depth == 0 {
		rest := s[end+1:]
		if strings.HasPrefix(rest, PathSeparator) {
			method = rest[len(PathSeparator):]
		}
	}

	typeExpr = inner
	if idx := indexTopLevel(inner, " as "); idx >= 0 {
		typeExpr = inner[:idx]
	}
	typeExpr = strings.TrimSpace(typeExpr)

	if strings.HasPrefix(typeExpr, "<") {
		innerType, _, innerOK := unwrapQualified(typeExpr, depth+1)
		if !innerOK {
			return "", "", false
		}
		return innerType, method, true
	}
	return typeExpr, method, true
}

// matchingAngle returns the index of the `>` closing the leading `<`, or
// -1 when unbalanced.
func matchingAngle(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// indexTopLevel returns the first index of substr that sits at bracket
// depth zero, or -1.
func indexTopLevel(s, substr string) int {
	depth := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		switch s[i] {
		case '<', '{', '(', '[':
			depth++
		case '>', '}', ')', ']':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && strings.HasPrefix(s[i:], substr) {
			return i
		}
	}
	return -1
}

// normalizeType canonicalizes an isolated type expression into path
// segments. Primitive types collapse onto the std/primitive branch so that
// their trait implementations group under one standard-library subtree.
func normalizeType(typeExpr string) []string {
	typeExpr = stripTypeQualifiers(typeExpr)
	if typeExpr == "" {
		return nil
	}

	switch {
	case typeExpr == "()":
		return primitivePath("unit")
	case strings.HasPrefix(typeExpr, "(") && strings.HasSuffix(typeExpr, ")"):
		return primitivePath("tuple")
	case strings.HasPrefix(typeExpr, "[") && strings.HasSuffix(typeExpr, "]"):
		return primitivePath("slice")
	case scalarPrimitives[typeExpr]:
		return primitivePath(typeExpr)
	}

	return cleanSegments(SplitSegments(typeExpr))
}

// stripTypeQualifiers removes leading reference, raw-pointer, lifetime and
// dyn qualifiers, repeating until a bare type expression remains.
func stripTypeQualifiers(typeExpr string) string {
	for {
		trimmed := strings.TrimSpace(typeExpr)
		switch {
		case strings.HasPrefix(trimmed, "&"):
			trimmed = trimmed[1:]
			if strings.HasPrefix(trimmed, "'") {
				// Lifetime annotation: &'a T
				if sp := strings.IndexByte(trimmed, ' '); sp >= 0 {
					trimmed = trimmed[sp+1:]
				}
			}
		case strings.HasPrefix(trimmed, "*const "):
			trimmed = trimmed[len("*const "):]
		case strings.HasPrefix(trimmed, "*mut "):
			trimmed = trimmed[len("*mut "):]
		case strings.HasPrefix(trimmed, "mut "):
			trimmed = trimmed[len("mut "):]
		case strings.HasPrefix(trimmed, "dyn "):
			trimmed = trimmed[len("dyn "):]
		default:
			return trimmed
		}
		typeExpr = trimmed
	}
}

func primitivePath(name string) []string {
	return []string{stdName, primitiveName, name}
}

// cleanSegments strips trailing decorations from each segment and drops
// segments that were nothing but decoration.
func cleanSegments(parts []string) []string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = stripDecoration(part)
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}

// stripDecoration removes trailing balanced `<...>` or `(...)` groups from
// a segment, e.g. `to_vec::<>` splits into a `<>` segment that vanishes and
// `call(int)` becomes `call`. Unbalanced groups are left untouched.
func stripDecoration(s string) string {
	for len(s) > 0 {
		var open, closing byte
		switch s[len(s)-1] {
		case '>':
			open, closing = '<', '>'
		case ')':
			open, closing = '(', ')'
		default:
			return s
		}

		depth := 0
		i := len(s) - 1
		for ; i >= 0; i-- {
			switch s[i] {
			case closing:
				depth++
			case open:
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if i < 0 {
			return s
		}
		if i == 0 {
			return ""
		}
		s = s[:i]
	}
	return s
}
