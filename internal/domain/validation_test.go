package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCommitment(t *testing.T) {
	empty := NewCommitment("")
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", empty.Hex())

	c := NewCommitment("contract A {}")
	assert.True(t, c.Matches(c.Hex()))
	assert.True(t, c.Matches(strings.ToUpper(strings.TrimPrefix(c.Hex(), "0x"))))
	assert.False(t, c.Matches(empty.Hex()))
	assert.False(t, c.Matches(""))
}

func TestProblemText(t *testing.T) {
	assert.Equal(t, "Build a vault\n\nMust use ERC20", ProblemText(&Challenge{
		ProblemStatement: "Build a vault",
		Requirements:     "Must use ERC20",
	}))
	assert.Equal(t, "Must use ERC20", ProblemText(&Challenge{Requirements: "  Must use ERC20 "}))
	assert.Equal(t, "Build a vault", ProblemText(&Challenge{ProblemStatement: "Build a vault", Requirements: "   "}))
	assert.Equal(t, "", ProblemText(&Challenge{}))
}
