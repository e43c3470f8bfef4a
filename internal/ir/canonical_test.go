package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", String("drinks"), `"drinks"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"min int64", Int(-9223372036854775808), "-9223372036854775808"},
		{"bool", Bool(true), "true"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"native string", "bricks", `"bricks"`},
		{"native int", 3, "3"},
		{"native slice", []any{"a", int64(1), false}, `["a",1,false]`},
		{"native map", map[string]any{"b": 1, "a": "x"}, `{"a":"x","b":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonical_NestedKeyOrder(t *testing.T) {
	obj := Object{
		"zeta":  Object{"b": Int(1), "a": Int(2)},
		"alpha": Array{String("x"), Object{"d": Bool(false), "c": Bool(true)}},
	}

	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":["x",{"c":true,"d":false}],"zeta":{"a":2,"b":1}}`, string(got))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+10000 encodes as surrogates 0xD800 0xDC00, which sort before
	// U+E000 in UTF-16 but after it in UTF-8.
	obj := Object{
		"\uE000":     Int(1),
		"\U00010000": Int(2),
	}

	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(got))
}

func TestMarshalCanonical_Escaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"html is literal", "<a & b>", `"<a & b>"`},
		{"quote and backslash", `say "hi" \ bye`, `"say \"hi\" \\ bye"`},
		{"short escapes", "a\tb\nc\rd\be\ff", `"a\tb\nc\rd\be\ff"`},
		{"other control", "x\x01y\x1f", `"x\u0001y\u001f"`},
		{"line separators literal", "a\u2028b\u2029c", "\"a\u2028b\u2029c\""},
		{"non-ascii literal", "caf\u00e9", "\"caf\u00e9\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonical_NFC(t *testing.T) {
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"

	a, err := MarshalCanonical(String(decomposed))
	require.NoError(t, err)
	b, err := MarshalCanonical(String(composed))
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))

	// Keys are normalized too.
	k, err := MarshalCanonical(Object{decomposed: Int(1)})
	require.NoError(t, err)
	assert.Equal(t, `{"`+composed+`":1}`, string(k))
}

func TestMarshalCanonical_KeysSortedAfterNFC(t *testing.T) {
	// "A" + combining ring sorts before "B" as written but composes to
	// U+00C5, which sorts after "Z".
	got, err := MarshalCanonical(Object{
		"A\u030a": Int(1),
		"B":       Int(2),
		"Z":       Int(3),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"B":2,"Z":3,"`+"\u00c5"+`":1}`, string(got))
}

func TestMarshalCanonical_NFCKeyCollision(t *testing.T) {
	_, err := MarshalCanonical(Object{
		"cafe\u0301": Int(1),
		"caf\u00e9":  Int(2),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identical after NFC normalization")

	_, err = MarshalCanonical(map[string]any{
		"outer": map[string]any{"cafe\u0301": 1, "caf\u00e9": 2},
	})
	assert.Error(t, err)
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"float", 1.5},
		{"float in array", []any{1, 2.5}},
		{"float in map", map[string]any{"x": float32(1)}},
		{"struct", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestMustMarshalCanonical_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshalCanonical(3.14) })
	assert.Equal(t, `"ok"`, string(MustMarshalCanonical("ok")))
}
