package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidSpecs(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bar.cue": barSpecs, "temp.cue": tempSpecs})

	output, err := executeRoot("validate", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ All specs valid (5 classes)")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bar.cue": barSpecs})

	output, err := executeRoot("--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 4, resp.Data.Classes)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	output, err := executeRoot("validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, output, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := executeRoot("validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		spec string
		code string
		msg  string
	}{
		{
			name: "float literal",
			spec: "package specs\nclass: A: attrs: x: 1.5\n",
			code: "E101",
			msg:  "floats are forbidden",
		},
		{
			name: "unknown parent",
			spec: "package specs\nclass: A: parents: [\"Ghost\"]\n",
			code: "E111",
			msg:  `unknown parent class "Ghost"`,
		},
		{
			name: "inheritance cycle",
			spec: "package specs\nclass: A: parents: [\"B\"]\nclass: B: parents: [\"A\"]\n",
			code: "E112",
			msg:  "inheritance cycle: A -> B -> A",
		},
		{
			name: "ambiguous hierarchy",
			spec: "package specs\nclass: A: {}\nclass: B: parents: [\"A\"]\nclass: C: parents: [\"A\", \"B\"]\n",
			code: "E113",
			msg:  "class.C.parents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"spec.cue": tt.spec})

			output, err := executeRoot("validate", dir)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, output, "✗ Validation failed")
			assert.Contains(t, output, tt.code)
			assert.Contains(t, output, tt.msg)

			output, err = executeRoot("--format", "json", "validate", dir)
			require.Error(t, err)
			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(output), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestValidateCollectsAllCompileErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"spec.cue": "package specs\nclass: A: attrs: x: 1.5\nclass: B: attrs: y: null\n"})

	output, err := executeRoot("validate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")
	assert.Contains(t, output, "floats are forbidden")
	assert.Contains(t, output, "null is not a valid literal")
}
