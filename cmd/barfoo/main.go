// Command barfoo defines classes in CUE and traces attribute resolution
// against them.
package main

import (
	"fmt"
	"os"

	"github.com/wardi/bar-foo/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.GetExitCode(err))
}
