package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const barSpecs = `package specs

class: Structure: attrs: foo: "bricks"

class: Dancing: parents: ["Structure"]

class: Drinking: {
	parents: ["Structure"]
	attrs: foo: "drinks"
}

class: Bar: parents: ["Dancing", "Drinking"]
`

const tempSpecs = `package specs

class: Temp: {
	attrs: {
		celsius: property: {}
		kelvin: property: {backing: "_k", readonly: true}
		describe: method: {returns: "a temperature"}
		unit: constant: "C"
	}
	hooks: missing: value: "n/a"
}
`

const barScenario = `name: bar_foo
description: nearest definition in MRO order wins
specs: [bar.cue]
steps:
  - new: {var: b, class: Bar}
  - read: {target: b, name: foo}
    expect: {value: drinks, owner: Drinking}
  - write: {target: b, name: foo, value: beer}
  - read: {target: b, name: foo}
    expect: {value: beer, step: instance}
`

// writeFiles writes name -> content into a new temp dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// execute runs cmd with args, returning stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// executeRoot runs the full command tree.
func executeRoot(args ...string) (string, error) {
	return execute(NewRootCommand(), args...)
}

type fixedIDs string

func (f fixedIDs) Generate() string { return string(f) }
