package sinks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_LoadsFromEmbeddedYAML(t *testing.T) {
	assert.NotEmpty(t, commandCatalog)
	assert.NotEmpty(t, sanitizerNames)
	assert.NotEmpty(t, packageInstallPrefixes)
}

func TestIsCommandSink(t *testing.T) {
	cases := map[string]bool{
		"subprocess.run":       true,
		"subprocess.Popen":     true,
		"os.system":            true,
		"child_process.exec":   true,
		"repo.git.log":         true, // library-level git dispatcher idiom
		"self.repo.git.commit": true,
		"requests.get":         false,
		"git.log":              false, // needs a receiver before "git"
	}
	for callee, want := range cases {
		assert.Equalf(t, want, IsCommandSink(callee), "IsCommandSink(%q)", callee)
	}
}

func TestIsNetworkSink(t *testing.T) {
	cases := map[string]bool{
		"requests.get":           true,
		"httpx.AsyncClient.get":  true,
		"axios.post":             true,
		"fetch":                  true,
		"urllib.request.urlopen": true,
		"fs.readFile":            false,
		"requests.":              false, // no method, just the namespace
	}
	for callee, want := range cases {
		assert.Equalf(t, want, IsNetworkSink(callee), "IsNetworkSink(%q)", callee)
	}
}

func TestIsFileSink(t *testing.T) {
	assert.True(t, IsFileSink("open"))
	assert.True(t, IsFileSink("fs.writeFile"))
	assert.False(t, IsFileSink("fs.unlink"), "fs.unlink is not in the catalog")
}

func TestIsDynamicExecSink(t *testing.T) {
	for _, c := range []string{"eval", "exec", "Function"} {
		assert.Truef(t, IsDynamicExecSink(c), "expected %q to be a dynamic exec sink", c)
	}
	assert.False(t, IsDynamicExecSink("evaluate"), "evaluate should not match eval exactly")
}

func TestIsShellCommand(t *testing.T) {
	assert.True(t, IsShellCommand("curl"))
	assert.False(t, IsShellCommand("ls"), "ls is not in the shell command catalog")
}

func TestIsPackageInstallInvocation(t *testing.T) {
	cases := []struct {
		first, second string
		want          bool
	}{
		{"pip", "install", true},
		{"npm", "install", true},
		{"apt-get", "install", true},
		{"ls", "install", false},
		{"npm", "run", false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, IsPackageInstallInvocation(c.first, c.second), "IsPackageInstallInvocation(%q, %q)", c.first, c.second)
	}
}

func TestIsSanitizer(t *testing.T) {
	cases := map[string]bool{
		"validatePath":         true,
		"utils.validatePath":   true,
		"sanitizeInput":        true,
		"path.resolve":         true,
		"parseInt":             true,
		"readFile":             false,
		"myCustomValidatePath": true, // matches *validate*path* glob
	}
	for name, want := range cases {
		assert.Equalf(t, want, IsSanitizer(name), "IsSanitizer(%q)", name)
	}
}
