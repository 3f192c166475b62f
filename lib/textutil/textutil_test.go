package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "calculusi", NormalizeName("  Calculus \t I \n"))
}

func TestBestMatch(t *testing.T) {
	courses := []string{
		"Calculus I",
		"Object Oriented Programming",
		"Digital Logic Design",
	}

	idx, sim := BestMatch("calc", courses)
	require.Equal(t, 0, idx)
	require.Greater(t, sim, 0.7)

	idx, _ = BestMatch("digital logic", courses)
	require.Equal(t, 2, idx)

	idx, sim = BestMatch("anything", nil)
	require.Equal(t, -1, idx)
	require.Zero(t, sim)
}
