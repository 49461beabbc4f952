package merkdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathBits(t *testing.T) {
	var path Path
	for i := 0; i < pathBits; i++ {
		require.Equal(t, Right, path.Bit(i))
	}

	reference := []Direction{Left, Left, Right, Left, Right, Right, Left, Right, Left}
	path = pathFromDirections(reference...)
	for i, direction := range reference {
		require.Equal(t, direction, path.Bit(i))
	}

	path.set(0, Right)
	require.Equal(t, Right, path.Bit(0))
	path.set(0, Left)
	require.Equal(t, Left, path.Bit(0))
}

func TestPathOrdering(t *testing.T) {
	// Right sorts before Left.
	require.Negative(t, pathFromDirections(Right).Compare(pathFromDirections(Left)))
	require.Negative(t, pathFromDirections(Right).Compare(pathFromDirections(Right, Left)))
	require.Negative(t,
		pathFromDirections(Left, Right, Left).Compare(pathFromDirections(Left, Left, Left, Left, Left)))
	require.Zero(t, pathFromDirections(Left, Right).Compare(pathFromDirections(Left, Right)))
}

func TestPathDeepEqual(t *testing.T) {
	lho := pathFromDirections(Left, Right, Left, Left, Right, Left, Left, Left, Left, Left)
	rho := pathFromDirections(Left, Right, Left, Left, Right, Left, Right, Right, Right, Right)

	for depth := 0; depth <= 6; depth++ {
		require.True(t, deepEqual(lho, rho, depth), "depth %d", depth)
	}
	for depth := 7; depth <= 10; depth++ {
		require.False(t, deepEqual(lho, rho, depth), "depth %d", depth)
	}
}

func TestPrefixContains(t *testing.T) {
	path := pathFromDirections(Left, Left, Left, Right, Left, Left, Right, Right)

	require.True(t, rootPrefix().Contains(path))
	require.True(t, rootPrefix().Contains(pathFromDirections(Right)))

	require.True(t, rootPrefix().Left().Contains(path))
	require.False(t, rootPrefix().Right().Contains(path))

	require.True(t, prefixFromDirections(Left, Left, Left, Right, Left, Left).Contains(path))
	require.False(t, prefixFromDirections(Left, Left, Left, Right, Left, Right).Contains(path))
}

func TestPrefixEquality(t *testing.T) {
	require.True(t, rootPrefix().equals(rootPrefix()))
	require.True(t, rootPrefix().Left().equals(rootPrefix().Left()))
	require.False(t, rootPrefix().Left().equals(rootPrefix().Right()))
	require.False(t, rootPrefix().equals(rootPrefix().Left()))

	require.True(t,
		prefixFromDirections(Left, Left, Right).equals(prefixFromDirections(Left, Left, Right)))
	require.False(t,
		prefixFromDirections(Left, Left, Right).equals(prefixFromDirections(Left, Left)))
}

func TestPrefixAncestor(t *testing.T) {
	prefix := prefixFromDirections(Left, Right, Left)

	require.True(t, prefix.Ancestor(1).equals(prefixFromDirections(Left, Right)))
	require.True(t, prefix.Ancestor(3).equals(rootPrefix()))
	require.Panics(t, func() { prefix.Ancestor(4) })
}

func TestCommonPrefix(t *testing.T) {
	cases := []struct {
		lho, rho Path
		expected Prefix
	}{
		{pathFromDirections(), pathFromDirections(Left, Right, Left), rootPrefix()},
		{
			pathFromDirections(Left, Left),
			pathFromDirections(Left, Right, Left),
			prefixFromDirections(Left),
		},
		{
			pathFromDirections(Right, Right, Left),
			pathFromDirections(Left),
			rootPrefix(),
		},
		{
			pathFromDirections(Left, Right, Left, Right, Left, Left, Right, Left, Right, Right, Right, Right),
			pathFromDirections(Left, Right, Left, Right, Left, Left, Right, Left, Right, Right, Right, Left),
			prefixFromDirections(Left, Right, Left, Right, Left, Left, Right, Left, Right, Right, Right),
		},
	}

	for _, c := range cases {
		require.True(t, commonPrefix(c.lho, c.rho).equals(c.expected))
	}

	// Two equal paths share all 256 bits.
	path := pathFromDirections(Left, Right)
	require.Equal(t, pathBits, commonPrefix(path, path).Depth())
}
