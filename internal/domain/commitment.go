package domain

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Commitment is the keccak256 hash of a solution's UTF-8 source.
type Commitment [32]byte

func NewCommitment(code string) Commitment {
	var c Commitment
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(code))
	h.Sum(c[:0])
	return c
}

func (c Commitment) Hex() string {
	return "0x" + hex.EncodeToString(c[:])
}

// Matches compares against a hex token, with or without 0x, case-insensitively.
func (c Commitment) Matches(token string) bool {
	t := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(token), "0x"))
	return t == hex.EncodeToString(c[:])
}
