package ir

// ArgumentSourceKind tags the variant carried by an ArgumentSource.
// This is a closed sum type: detectors switch on Kind (or call
// IsTainted) rather than type-asserting an open interface hierarchy.
type ArgumentSourceKind string

const (
	KindLiteral      ArgumentSourceKind = "literal"
	KindParameter    ArgumentSourceKind = "parameter"
	KindEnvVar       ArgumentSourceKind = "env_var"
	KindInterpolated ArgumentSourceKind = "interpolated"
	KindUnknown      ArgumentSourceKind = "unknown"
	KindSanitized    ArgumentSourceKind = "sanitized"
)

// ArgumentSource is the taint-lattice value attached to one observed
// call-site argument.
//
//   - Literal:      Text carries the literal source text.
//   - Parameter:    Name carries the parameter it aliases.
//   - EnvVar:       Name carries the environment variable name.
//   - Interpolated: a template string or `+` concatenation; no payload.
//   - Unknown:      could not be classified; lower confidence.
//   - Sanitized:    Sanitizer carries the sanitizer callee that produced
//     it. Parsers emit it for an argument that is a recognized sanitizer
//     call or a variable bound to one; sanitize.Analyze emits it when it
//     downgrades a Parameter proven safe at every call site.
type ArgumentSource struct {
	Kind      ArgumentSourceKind
	Text      string // populated for Literal
	Name      string // populated for Parameter, EnvVar
	Sanitizer string // populated for Sanitized
}

// Literal constructs a non-tainted literal argument source.
func Literal(text string) ArgumentSource {
	return ArgumentSource{Kind: KindLiteral, Text: text}
}

// Parameter constructs a tainted argument source aliasing a parameter.
func Parameter(name string) ArgumentSource {
	return ArgumentSource{Kind: KindParameter, Name: name}
}

// EnvVar constructs an argument source read from an environment variable.
func EnvVar(name string) ArgumentSource {
	return ArgumentSource{Kind: KindEnvVar, Name: name}
}

// Interpolated constructs an argument source built from string
// interpolation or concatenation.
func Interpolated() ArgumentSource {
	return ArgumentSource{Kind: KindInterpolated}
}

// Unknown constructs a low-confidence, conservatively-tainted argument
// source for anything the parser could not classify.
func Unknown() ArgumentSource {
	return ArgumentSource{Kind: KindUnknown}
}

// Sanitized constructs a sanitized argument source. It is called by the
// language parsers for sanitizer-bound arguments and by the cross-file
// sanitizer (package sanitize) for downgraded parameters.
func Sanitized(sanitizer string) ArgumentSource {
	return ArgumentSource{Kind: KindSanitized, Sanitizer: sanitizer}
}

// IsTainted reports whether this argument source must be treated as
// attacker-influenced. False iff the variant is Literal or Sanitized.
func (a ArgumentSource) IsTainted() bool {
	return a.Kind != KindLiteral && a.Kind != KindSanitized
}
