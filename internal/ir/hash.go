package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed hashes.
// The version suffix allows migrating the algorithm later.
const (
	DomainClassSpec = "barfoo/class/v1"
	DomainSpecSet   = "barfoo/specset/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ClassSpecHash computes the content hash of a class spec.
// Equal specs hash equally regardless of map iteration order.
func ClassSpecHash(spec ClassSpec) (string, error) {
	canonical, err := MarshalCanonical(spec.Object())
	if err != nil {
		return "", fmt.Errorf("ClassSpecHash %s: %w", spec.Name, err)
	}
	return hashWithDomain(DomainClassSpec, canonical), nil
}

// SpecSetHash computes one hash over a set of class specs, keyed by name.
// Used to tag scenario runs with the exact hierarchy they ran against.
func SpecSetHash(specs []ClassSpec) (string, error) {
	set := make(Object, len(specs))
	for _, s := range specs {
		h, err := ClassSpecHash(s)
		if err != nil {
			return "", err
		}
		set[s.Name] = String(h)
	}
	canonical, err := MarshalCanonical(set)
	if err != nil {
		return "", fmt.Errorf("SpecSetHash: %w", err)
	}
	return hashWithDomain(DomainSpecSet, canonical), nil
}

// MustClassSpecHash is like ClassSpecHash but panics on error.
// Use only in tests or when the spec is known to be valid.
func MustClassSpecHash(spec ClassSpec) string {
	h, err := ClassSpecHash(spec)
	if err != nil {
		panic(err)
	}
	return h
}
