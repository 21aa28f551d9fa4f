// Package python implements the Python structural parser: a tree-sitter
// walk over function/class/call/assignment nodes that classifies call
// arguments into the taint lattice and feeds the shared sink catalogs.
package python

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/parser"
	"github.com/limaronaldo/agentshield/parser/sinks"
)

// asyncClientPattern recognizes the `async with AsyncClient() as x:` /
// `async with ClientSession() as x:` binding idiom textually rather than
// by tree-sitter field name, since the construct is a narrow, well-known
// idiom (httpx.AsyncClient, aiohttp.ClientSession) and the with_item
// grammar shape varies across tree-sitter-python versions.
var asyncClientPattern = regexp.MustCompile(`(?:Async)?Client(?:Session)?\s*\([^)]*\)\s*as\s+(\w+)`)

// networkMethodNames are the HTTP-verb methods recognized on a variable
// bound by the async-context-manager idiom above.
var networkMethodNames = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "head": true, "request": true,
}

// funcScope tracks the enclosing function while walking, for Parameter
// classification and the Caller field on recorded call sites.
type funcScope struct {
	name   string
	params []string
}

// Parser implements parser.Parser for Python source files.
type Parser struct{}

// New returns a ready-to-use Python parser.
func New() *Parser { return &Parser{} }

func (p *Parser) Language() string { return "python" }

func (p *Parser) Parse(path string, src []byte) (*parser.ParsedFile, error) {
	pf := parser.NewParsedFile(path, "python")

	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(python.GetLanguage())

	tree, err := sp.ParseCtx(context.Background(), nil, src)
	if err != nil {
		pf.Diagnostics = append(pf.Diagnostics, "parse error: "+err.Error())
		return pf, nil
	}
	defer tree.Close()

	w := &walker{
		pf:          pf,
		src:         src,
		path:        path,
		envVars:     make(map[string]string),
		asyncClient: make(map[string]bool),
	}
	w.walk(tree.RootNode(), nil)
	return pf, nil
}

type walker struct {
	pf   *parser.ParsedFile
	src  []byte
	path string

	// envVars maps a variable name to the environment variable name it
	// was bound from (os.environ.get("X") / os.environ["X"]).
	envVars map[string]string
	// asyncClient marks variable names bound via the async-context-
	// manager idiom as network-client handles.
	asyncClient map[string]bool
}

func (w *walker) loc(n *sitter.Node) ir.Location {
	pt := n.StartPoint()
	return ir.Location{File: w.path, Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

func (w *walker) content(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) walk(n *sitter.Node, scope *funcScope) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "function_definition":
		w.handleFunctionDef(n, scope)
		return // children already visited by handleFunctionDef
	case "call":
		w.handleCall(n, scope)
	case "assignment":
		w.handleAssignment(n, scope)
	case "with_statement":
		w.handleWithStatement(n)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i), scope)
	}
}

func (w *walker) handleFunctionDef(n *sitter.Node, outer *funcScope) {
	nameNode := n.ChildByFieldName("name")
	name := w.content(nameNode)

	var params []string
	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
			params = append(params, paramName(paramsNode.NamedChild(i), w.src))
		}
	}

	isExported := name != "" && !strings.HasPrefix(name, "_")

	inner := &funcScope{name: name, params: params}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			w.walk(body.NamedChild(i), inner)
		}
	}

	start := n.StartPoint()
	end := n.EndPoint()
	w.pf.Functions = append(w.pf.Functions, ir.FunctionDef{
		Name:       name,
		Params:     params,
		IsExported: isExported,
		File:       w.path,
		Location:   w.loc(n),
		Span:       ir.Span{StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1},
	})
	_ = outer
}

// paramName extracts the bound identifier from a parameter node,
// stripping type annotations, defaults and */** markers.
func paramName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "identifier":
		return n.Content(src)
	case "typed_parameter", "default_parameter", "typed_default_parameter":
		if name := n.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
		if n.NamedChildCount() > 0 {
			return paramName(n.NamedChild(0), src)
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		if n.NamedChildCount() > 0 {
			return paramName(n.NamedChild(0), src)
		}
	}
	return n.Content(src)
}

func (w *walker) handleCall(n *sitter.Node, scope *funcScope) {
	fnNode := n.ChildByFieldName("function")
	callee := w.content(fnNode)
	if callee == "" {
		return
	}

	args := w.classifyArgs(n, scope)
	loc := w.loc(n)

	caller := ir.ModuleTopCaller
	if scope != nil {
		caller = scope.name
	}
	w.pf.CallSites = append(w.pf.CallSites, ir.CallSite{
		Callee: callee, Location: loc, Args: args, Caller: caller,
	})

	op := ir.Operation{Callee: callee, Location: loc, Args: args}

	if envName, ok := environGet(fnNode, n, w.src); ok {
		w.pf.EnvReads = append(w.pf.EnvReads, ir.EnvVarRead{Name: envName, Location: loc})
		return
	}

	if w.isAsyncClientCall(fnNode) {
		w.pf.NetworkOps = append(w.pf.NetworkOps, op)
		return
	}

	switch {
	case sinks.IsCommandSink(callee):
		w.pf.Commands = append(w.pf.Commands, op)
	case sinks.IsNetworkSink(callee):
		w.pf.NetworkOps = append(w.pf.NetworkOps, op)
	case sinks.IsFileSink(callee):
		w.pf.FileOps = append(w.pf.FileOps, op)
	case sinks.IsDynamicExecSink(callee):
		w.pf.DynamicExec = append(w.pf.DynamicExec, op)
	}
}

// isAsyncClientCall reports whether fnNode is "<var>.<method>" where
// <var> was bound by the async-context-manager idiom and <method> is an
// HTTP verb.
func (w *walker) isAsyncClientCall(fnNode *sitter.Node) bool {
	if fnNode == nil || fnNode.Type() != "attribute" {
		return false
	}
	object := fnNode.ChildByFieldName("object")
	attr := fnNode.ChildByFieldName("attribute")
	if object == nil || attr == nil {
		return false
	}
	return w.asyncClient[w.content(object)] && networkMethodNames[w.content(attr)]
}

// environGet recognizes os.environ.get("NAME") and os.environ["NAME"],
// returning the environment variable name.
func environGet(fnNode, callNode *sitter.Node, src []byte) (string, bool) {
	if fnNode != nil && fnNode.Type() == "attribute" {
		object := fnNode.ChildByFieldName("object")
		attr := fnNode.ChildByFieldName("attribute")
		if object != nil && attr != nil && object.Content(src) == "os.environ" && attr.Content(src) == "get" {
			if argsNode := callNode.ChildByFieldName("arguments"); argsNode != nil && argsNode.NamedChildCount() > 0 {
				return stringLiteralValue(argsNode.NamedChild(0), src), true
			}
		}
	}
	return "", false
}

func (w *walker) handleAssignment(n *sitter.Node, scope *funcScope) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "identifier" {
		return
	}
	name := w.content(left)

	if right.Type() == "subscript" {
		value := right.ChildByFieldName("value")
		sub := right.ChildByFieldName("subscript")
		if value != nil && sub != nil && w.content(value) == "os.environ" {
			envName := stringLiteralValue(sub, w.src)
			w.envVars[name] = envName
			w.pf.EnvReads = append(w.pf.EnvReads, ir.EnvVarRead{Name: envName, Location: w.loc(right)})
			return
		}
	}

	if right.Type() == "call" {
		fnNode := right.ChildByFieldName("function")
		callee := w.content(fnNode)
		if envName, ok := environGet(fnNode, right, w.src); ok {
			w.envVars[name] = envName
			_ = envName
			return
		}
		if sinks.IsSanitizer(callee) {
			w.pf.SanitizedVars[name] = callee
		}
	}
}

func (w *walker) handleWithStatement(n *sitter.Node) {
	text := w.content(n)
	for _, m := range asyncClientPattern.FindAllStringSubmatch(text, -1) {
		w.asyncClient[m[1]] = true
	}
}

// classifyArgs walks a call's argument list and classifies each
// positional/keyword argument expression into the taint lattice.
func (w *walker) classifyArgs(callNode *sitter.Node, scope *funcScope) []ir.ArgumentSource {
	argsNode := callNode.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	var out []ir.ArgumentSource
	for i := 0; i < int(argsNode.NamedChildCount()); i++ {
		arg := argsNode.NamedChild(i)
		if arg.Type() == "keyword_argument" {
			if v := arg.ChildByFieldName("value"); v != nil {
				arg = v
			}
		}
		out = append(out, w.classifyExpr(arg, scope))
	}
	return out
}

func (w *walker) classifyExpr(n *sitter.Node, scope *funcScope) ir.ArgumentSource {
	if n == nil {
		return ir.Unknown()
	}

	switch n.Type() {
	case "string":
		if hasInterpolation(n) {
			return ir.Interpolated()
		}
		return ir.Literal(stringLiteralValue(n, w.src))
	case "concatenated_string":
		return ir.Interpolated()
	case "binary_operator":
		op := n.ChildByFieldName("operator")
		if op != nil && op.Content(w.src) == "+" {
			return ir.Interpolated()
		}
		return ir.Unknown()
	case "subscript":
		value := n.ChildByFieldName("value")
		sub := n.ChildByFieldName("subscript")
		if value != nil && sub != nil && w.content(value) == "os.environ" {
			return ir.EnvVar(stringLiteralValue(sub, w.src))
		}
		return ir.Unknown()
	case "call":
		fnNode := n.ChildByFieldName("function")
		if envName, ok := environGet(fnNode, n, w.src); ok {
			return ir.EnvVar(envName)
		}
		if sinks.IsSanitizer(w.content(fnNode)) {
			return ir.Sanitized(w.content(fnNode))
		}
		return ir.Unknown()
	case "identifier":
		name := w.content(n)
		if scope != nil && contains(scope.params, name) {
			return ir.Parameter(name)
		}
		if s, ok := w.pf.SanitizedVars[name]; ok {
			return ir.Sanitized(s)
		}
		if e, ok := w.envVars[name]; ok {
			return ir.EnvVar(e)
		}
		return ir.Unknown()
	default:
		return ir.Unknown()
	}
}

// hasInterpolation reports whether a Python string node is an f-string
// carrying at least one {expr} interpolation.
func hasInterpolation(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "interpolation" {
			return true
		}
	}
	return false
}

// stringLiteralValue strips the surrounding quotes of a string node,
// guarding against degenerate (too-short) content rather than slicing
// blindly.
func stringLiteralValue(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	text := n.Content(src)
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' || first == '\'') && first == last {
			return text[1 : len(text)-1]
		}
	}
	return text
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
