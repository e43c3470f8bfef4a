package ir

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON.
// This is the only serialization used for spec hashes, stored trace
// values and golden files.
//
// Differences from encoding/json:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping; U+2028 and U+2029 are written literally
//  3. Strings are NFC normalized
//  4. Floats and null are errors
//
// v may be a Value or any native value FromGo accepts.
func MarshalCanonical(v any) ([]byte, error) {
	lit, err := FromGo(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, lit); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustMarshalCanonical is like MarshalCanonical but panics on error.
// Use only in tests or when the input is known to be valid.
func MustMarshalCanonical(v any) []byte {
	b, err := MarshalCanonical(v)
	if err != nil {
		panic(err)
	}
	return b
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case String:
		writeCanonicalString(buf, string(val))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Object:
		keys, err := normalizedKeys(val)
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k.nfc)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k.raw]); err != nil {
				return fmt.Errorf("value for key %q: %w", k.nfc, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value type for canonical JSON: %T", v)
	}
	return nil
}

type objectKey struct {
	raw string // key as stored in the Object
	nfc string // key as written
}

// normalizedKeys returns obj's keys in output order: NFC-normalized first,
// then sorted by UTF-16 code units. Two keys that normalize to the same
// string would be written twice, so they are an error.
func normalizedKeys(obj Object) ([]objectKey, error) {
	keys := make([]objectKey, 0, len(obj))
	seen := make(map[string]string, len(obj))
	for _, k := range obj.SortedKeys() {
		n := norm.NFC.String(k)
		if prev, dup := seen[n]; dup {
			return nil, fmt.Errorf("object keys %q and %q are identical after NFC normalization", prev, k)
		}
		seen[n] = k
		keys = append(keys, objectKey{raw: k, nfc: n})
	}
	slices.SortFunc(keys, func(a, b objectKey) int { return compareUTF16(a.nfc, b.nfc) })
	return keys, nil
}

const hexDigits = "0123456789abcdef"

// writeCanonicalString escapes only what RFC 8785 requires: quote,
// backslash and control characters below U+0020.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if c < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
				continue
			}
			buf.WriteByte(c)
		}
	}
	buf.WriteByte('"')
}
