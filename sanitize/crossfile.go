// Package sanitize implements cross-file sanitization analysis: a
// one-hop, conservative pass that eliminates taint on internal helper
// parameters which are, in fact, always called with pre-validated
// arguments.
package sanitize

import (
	"strings"

	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/parser"
)

type funcEntry struct {
	file       string
	params     []string
	isExported bool
	span       ir.Span
}

// Analyze runs cross-file sanitization over every parsed file belonging
// to one scan target, rewriting tainted Parameter occurrences in place
// wherever every observed call site supplies a Literal or Sanitized
// argument at that position. It never fails; ambiguity resolves to no
// downgrade.
func Analyze(files []*parser.ParsedFile) {
	funcMap := buildFunctionMap(files)
	callMap := buildCallMap(files)

	byPath := make(map[string]*parser.ParsedFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	for name, entries := range funcMap {
		callSites := callMap[name]
		for _, entry := range entries {
			if entry.isExported && len(callSites) == 0 {
				// Safety is unproven for an exported function with no
				// discovered callers: keep its parameters tainted.
				continue
			}
			for i, paramName := range entry.params {
				label, ok := downgradable(callSites, i)
				if !ok {
					continue
				}
				rewrite(byPath[entry.file], entry.span, paramName, label)
			}
		}
	}
}

func buildFunctionMap(files []*parser.ParsedFile) map[string][]funcEntry {
	m := make(map[string][]funcEntry)
	for _, f := range files {
		for _, fn := range f.Functions {
			m[fn.Name] = append(m[fn.Name], funcEntry{
				file:       f.Path,
				params:     fn.Params,
				isExported: fn.IsExported,
				span:       fn.Span,
			})
		}
	}
	return m
}

// buildCallMap keys call sites by the callee's rightmost identifier
// segment, so "validate(x)" and "obj.validate(x)" both index under
// "validate" — a deliberately loose, nominal join, since the analysis
// is one-hop and conservative rather than a real binding resolution.
func buildCallMap(files []*parser.ParsedFile) map[string][][]ir.ArgumentSource {
	m := make(map[string][][]ir.ArgumentSource)
	for _, f := range files {
		for _, cs := range f.CallSites {
			key := rightmostSegment(cs.Callee)
			m[key] = append(m[key], cs.Args)
		}
	}
	return m
}

func rightmostSegment(callee string) string {
	idx := strings.LastIndex(callee, ".")
	if idx == -1 {
		return callee
	}
	return callee[idx+1:]
}

// downgradable reports whether every call site supplies Literal or
// Sanitized at argument position i, and if so returns the
// representative sanitizer label: the name from the first Sanitized
// argument seen, or "literal" if every supplying call site was a bare
// literal. A call site that doesn't reach position i (too few
// arguments) blocks the downgrade, same as any tainted argument would.
func downgradable(callSites [][]ir.ArgumentSource, i int) (string, bool) {
	label := ""
	for _, args := range callSites {
		if i >= len(args) {
			return "", false
		}
		switch args[i].Kind {
		case ir.KindLiteral:
		case ir.KindSanitized:
			if label == "" {
				label = args[i].Sanitizer
			}
		default:
			return "", false
		}
	}
	if label == "" {
		label = "literal"
	}
	return label, true
}

// rewrite replaces every Parameter{paramName} argument on operation
// records whose location falls within span with Sanitized{label}. Call
// sites are never touched — only the callee's own operations.
func rewrite(f *parser.ParsedFile, span ir.Span, paramName, label string) {
	if f == nil {
		return
	}
	for _, op := range f.AllOperations() {
		if !span.Contains(op.Location.Line) {
			continue
		}
		for i := range op.Args {
			if op.Args[i].Kind == ir.KindParameter && op.Args[i].Name == paramName {
				op.Args[i] = ir.Sanitized(label)
			}
		}
	}
}
