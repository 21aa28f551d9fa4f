// Package shell implements a regex-level extractor for shell scripts.
// Unlike the tree-sitter front ends, shell scripts are scanned line by
// line for recognized command invocations, per the regex-level strategy
// the specification calls for.
package shell

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/parser"
	"github.com/limaronaldo/agentshield/parser/sinks"
)

var (
	leadingTokenPattern  = regexp.MustCompile(`^\s*([A-Za-z0-9_./\-]+)(.*)$`)
	envVarPattern        = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)
	// commandSubstitution matches the opening of a backtick or $(...)
	// substitution, so a substitution split across whitespace tokens
	// still marks its first token.
	commandSubstitution  = regexp.MustCompile("`|\\$\\(")
	quotedLiteralPattern = regexp.MustCompile(`^(['"])(.*)(['"])$`)
)

// Parser implements parser.Parser for shell scripts.
type Parser struct{}

// New returns a ready-to-use shell parser.
func New() *Parser { return &Parser{} }

func (p *Parser) Language() string { return "shell" }

func (p *Parser) Parse(path string, src []byte) (*parser.ParsedFile, error) {
	pf := parser.NewParsedFile(path, "shell")

	scanner := bufio.NewScanner(bytes.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		m := leadingTokenPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		cmd, rest := m[1], m[2]

		loc := ir.Location{File: path, Line: lineNo, Column: 1}
		args := classifyTokens(rest, &pf.EnvReads, loc)

		tokens := strings.Fields(rest)
		second := ""
		if len(tokens) > 0 {
			second = tokens[0]
		}
		if sinks.IsPackageInstallInvocation(cmd, second) {
			pf.Commands = append(pf.Commands, ir.Operation{
				Callee: cmd + " " + second, Location: loc, Args: args,
			})
			continue
		}

		if sinks.IsShellCommand(cmd) {
			pf.Commands = append(pf.Commands, ir.Operation{Callee: cmd, Location: loc, Args: args})
		}
	}
	if err := scanner.Err(); err != nil {
		pf.Diagnostics = append(pf.Diagnostics, "scan error: "+err.Error())
	}
	return pf, nil
}

// classifyTokens splits the remainder of a shell line into whitespace
// tokens and classifies each: quoted literals without substitution are
// Literal, bare $VAR / ${VAR} references are EnvVar (and are also
// recorded as EnvVarRead), anything containing command substitution
// (backticks or $(...)) is Interpolated, everything else is Unknown.
func classifyTokens(rest string, envReads *[]ir.EnvVarRead, loc ir.Location) []ir.ArgumentSource {
	tokens := strings.Fields(rest)
	args := make([]ir.ArgumentSource, 0, len(tokens))
	for _, tok := range tokens {
		switch {
		case commandSubstitution.MatchString(tok):
			args = append(args, ir.Interpolated())
		case envVarPattern.MatchString(tok):
			name := envVarPattern.FindStringSubmatch(tok)[1]
			*envReads = append(*envReads, ir.EnvVarRead{Name: name, Location: loc})
			args = append(args, ir.EnvVar(name))
		default:
			if sm := quotedLiteralPattern.FindStringSubmatch(tok); sm != nil && sm[1] == sm[3] {
				args = append(args, ir.Literal(sm[2]))
			} else {
				args = append(args, ir.Unknown())
			}
		}
	}
	return args
}
