package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainConstraintSet = "tyunify/constraints/v1"
	DomainSubstitution  = "tyunify/substitution/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConstraintSetHash computes the content-addressed id of a constraint set.
// Two sets hash equal iff their canonical JSON is byte-identical, which
// includes constraint order and labels.
func ConstraintSetHash(constraints []Constraint) (string, error) {
	canonical, err := MarshalCanonical(constraints)
	if err != nil {
		return "", fmt.Errorf("ConstraintSetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainConstraintSet, canonical), nil
}

// SubstitutionHash computes the content-addressed id of a substitution.
func SubstitutionHash(s Substitution) (string, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("SubstitutionHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSubstitution, data), nil
}

// MustConstraintSetHash is like ConstraintSetHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustConstraintSetHash(constraints []Constraint) string {
	h, err := ConstraintSetHash(constraints)
	if err != nil {
		panic(err)
	}
	return h
}
