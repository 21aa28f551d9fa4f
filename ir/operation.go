package ir

// Operation is a single observed sink or source call site: a command
// execution, network call, file operation, dynamic-exec, or
// environment-variable read. The Args sequence has exactly one entry
// per observed argument at that call site.
type Operation struct {
	Callee   string // e.g. "subprocess.run", "fs.readFile", "httpx.AsyncClient.get"
	Location Location
	Args     []ArgumentSource
}

// FunctionDef is a per-file record of a function definition: its name,
// ordered parameter names, and whether the language's export rule
// marks it reachable from outside the file (TypeScript `export`;
// Python's "no leading underscore" convention).
type FunctionDef struct {
	Name       string
	Params     []string
	IsExported bool
	File       string
	// Location marks the function signature; Span is its textual
	// extent (start/end line), used by the cross-file sanitizer to
	// scope operation rewrites to the function's body.
	Location Location
	Span     Span
}

// Span is an inclusive line range.
type Span struct {
	StartLine int
	EndLine   int
}

// Contains reports whether line falls within the span.
func (s Span) Contains(line int) bool {
	return line >= s.StartLine && line <= s.EndLine
}

// CallSite is a per-file record of a call expression: its callee as
// written (e.g. "obj.validate"; the cross-file sanitizer keys on its
// rightmost dotted segment), the arguments observed, and the function
// it occurs within ("module-top" if none).
type CallSite struct {
	Callee   string
	Location Location
	Args     []ArgumentSource
	Caller   string // enclosing function name, or "module-top"
}

// ModuleTopCaller is the Caller value for call sites outside any
// function body.
const ModuleTopCaller = "module-top"

// EnvVarRead records one `process.env.X` / `os.environ["X"]` read site.
type EnvVarRead struct {
	Name     string
	Location Location
}
