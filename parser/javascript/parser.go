// Package javascript implements the JavaScript/TypeScript structural
// parser (including JSX/TSX), mirroring the walk-and-classify approach
// of the Python parser over a different grammar.
package javascript

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/parser"
	"github.com/limaronaldo/agentshield/parser/sinks"
)

type funcScope struct {
	name   string
	params []string
}

// Parser implements parser.Parser for .js/.jsx/.ts/.tsx source files.
type Parser struct{}

// New returns a ready-to-use JavaScript/TypeScript parser.
func New() *Parser { return &Parser{} }

func (p *Parser) Language() string { return "javascript" }

func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

func (p *Parser) Parse(path string, src []byte) (*parser.ParsedFile, error) {
	lang := "javascript"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		lang = "typescript"
	case ".tsx":
		lang = "tsx"
	case ".jsx":
		lang = "jsx"
	}
	pf := parser.NewParsedFile(path, lang)

	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(languageFor(path))

	tree, err := sp.ParseCtx(context.Background(), nil, src)
	if err != nil {
		pf.Diagnostics = append(pf.Diagnostics, "parse error: "+err.Error())
		return pf, nil
	}
	defer tree.Close()

	w := &walker{pf: pf, src: src, path: path, envVars: make(map[string]string)}
	w.walk(tree.RootNode(), nil)
	return pf, nil
}

type walker struct {
	pf      *parser.ParsedFile
	src     []byte
	path    string
	envVars map[string]string
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
	case "function_declaration", "function", "method_definition":
		w.handleFunctionDef(n, scope)
		return
	case "arrow_function":
		w.handleArrowFunction(n, scope)
		return
	case "call_expression":
		w.handleCall(n, scope)
	case "variable_declarator":
		w.handleVariableDeclarator(n, scope)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i), scope)
	}
}

func isExportedDecl(n *sitter.Node) bool {
	parent := n.Parent()
	return parent != nil && parent.Type() == "export_statement"
}

func (w *walker) handleFunctionDef(n *sitter.Node, outer *funcScope) {
	nameNode := n.ChildByFieldName("name")
	name := w.content(nameNode)

	params := w.paramNames(n.ChildByFieldName("parameters"))
	exported := isExportedDecl(n) || (name != "" && !strings.HasPrefix(name, "_"))

	inner := &funcScope{name: name, params: params}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			w.walk(body.NamedChild(i), inner)
		}
	}

	start, end := n.StartPoint(), n.EndPoint()
	w.pf.Functions = append(w.pf.Functions, ir.FunctionDef{
		Name: name, Params: params, IsExported: exported, File: w.path,
		Location: w.loc(n),
		Span:     ir.Span{StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1},
	})
	_ = outer
}

// handleArrowFunction handles `const foo = (x) => { ... }` by deriving
// the bound name from an enclosing variable_declarator, since arrow
// functions have no name field of their own.
func (w *walker) handleArrowFunction(n *sitter.Node, outer *funcScope) {
	name := ""
	exported := false
	if parent := n.Parent(); parent != nil && parent.Type() == "variable_declarator" {
		name = w.content(parent.ChildByFieldName("name"))
		if decl := parent.Parent(); decl != nil {
			if stmt := decl.Parent(); stmt != nil {
				exported = stmt.Type() == "export_statement"
			}
		}
	}
	if !exported && name != "" {
		exported = !strings.HasPrefix(name, "_")
	}

	params := w.paramNames(n.ChildByFieldName("parameters"))
	if len(params) == 0 {
		if p := n.ChildByFieldName("parameter"); p != nil {
			params = []string{paramName(p, w.src)}
		}
	}

	inner := &funcScope{name: name, params: params}
	body := n.ChildByFieldName("body")
	if body != nil {
		if body.Type() == "statement_block" {
			for i := 0; i < int(body.NamedChildCount()); i++ {
				w.walk(body.NamedChild(i), inner)
			}
		} else {
			w.walk(body, inner)
		}
	}

	start, end := n.StartPoint(), n.EndPoint()
	w.pf.Functions = append(w.pf.Functions, ir.FunctionDef{
		Name: name, Params: params, IsExported: exported, File: w.path,
		Location: w.loc(n),
		Span:     ir.Span{StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1},
	})
	_ = outer
}

func (w *walker) paramNames(paramsNode *sitter.Node) []string {
	if paramsNode == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		out = append(out, paramName(paramsNode.NamedChild(i), w.src))
	}
	return out
}

func paramName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "identifier":
		return n.Content(src)
	case "required_parameter", "optional_parameter":
		if p := n.ChildByFieldName("pattern"); p != nil {
			return paramName(p, src)
		}
	case "assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil {
			return paramName(left, src)
		}
	case "rest_pattern":
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

func (w *walker) handleVariableDeclarator(n *sitter.Node, scope *funcScope) {
	nameNode := n.ChildByFieldName("name")
	valueNode := n.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil || nameNode.Type() != "identifier" {
		return
	}
	name := w.content(nameNode)

	if envName, ok := processEnvAccess(valueNode, w.src); ok {
		w.envVars[name] = envName
		w.pf.EnvReads = append(w.pf.EnvReads, ir.EnvVarRead{Name: envName, Location: w.loc(valueNode)})
		return
	}

	if valueNode.Type() == "call_expression" {
		callee := w.content(valueNode.ChildByFieldName("function"))
		if sinks.IsSanitizer(callee) {
			w.pf.SanitizedVars[name] = callee
		}
	}
}

// processEnvAccess recognizes process.env.X (member_expression) and
// process.env["X"] (subscript_expression).
func processEnvAccess(n *sitter.Node, src []byte) (string, bool) {
	switch n.Type() {
	case "member_expression":
		object := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if object != nil && prop != nil && object.Content(src) == "process.env" {
			return prop.Content(src), true
		}
	case "subscript_expression":
		object := n.ChildByFieldName("object")
		index := n.ChildByFieldName("index")
		if object != nil && index != nil && object.Content(src) == "process.env" {
			return stringLiteralValue(index, src), true
		}
	}
	return "", false
}

func (w *walker) classifyArgs(callNode *sitter.Node, scope *funcScope) []ir.ArgumentSource {
	argsNode := callNode.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	var out []ir.ArgumentSource
	for i := 0; i < int(argsNode.NamedChildCount()); i++ {
		out = append(out, w.classifyExpr(argsNode.NamedChild(i), scope))
	}
	return out
}

func (w *walker) classifyExpr(n *sitter.Node, scope *funcScope) ir.ArgumentSource {
	if n == nil {
		return ir.Unknown()
	}

	switch n.Type() {
	case "string":
		return ir.Literal(stringLiteralValue(n, w.src))
	case "template_string":
		if hasSubstitution(n) {
			return ir.Interpolated()
		}
		return ir.Literal(stringLiteralValue(n, w.src))
	case "binary_expression":
		op := n.ChildByFieldName("operator")
		if op != nil && op.Content(w.src) == "+" {
			return ir.Interpolated()
		}
		return ir.Unknown()
	case "member_expression", "subscript_expression":
		if envName, ok := processEnvAccess(n, w.src); ok {
			return ir.EnvVar(envName)
		}
		return ir.Unknown()
	case "call_expression":
		if envName, ok := processEnvAccess(n, w.src); ok {
			return ir.EnvVar(envName)
		}
		callee := w.content(n.ChildByFieldName("function"))
		if sinks.IsSanitizer(callee) {
			return ir.Sanitized(callee)
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

func hasSubstitution(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "template_substitution" {
			return true
		}
	}
	return false
}

// stringLiteralValue strips surrounding quotes, guarding against
// degenerate (too-short) content rather than slicing blindly.
func stringLiteralValue(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	text := n.Content(src)
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
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
