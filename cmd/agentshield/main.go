// Command agentshield is the CLI entry point. It lives under
// cmd/agentshield rather than the module root because the root
// package already exports the library's Scan() entry point.
package main

import (
	"fmt"
	"os"

	"github.com/limaronaldo/agentshield/cmd"
	"github.com/limaronaldo/agentshield/output"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(int(output.ExitCodeError))
	}
}
