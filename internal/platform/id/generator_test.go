package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomGenerator_Defaults(t *testing.T) {
	id, err := NewRandomGenerator().NewID()
	require.NoError(t, err)
	require.Len(t, id, defaultIDBytes*2)
}

func TestRandomGenerator_PrefixAndSize(t *testing.T) {
	gen := NewRandomGenerator(WithPrefix("job_"), WithBytes(4), WithBytes(0))

	first, err := gen.NewID()
	require.NoError(t, err)
	second, err := gen.NewID()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(first, "job_"))
	require.Len(t, first, len("job_")+8)
	require.NotEqual(t, first, second)
}
