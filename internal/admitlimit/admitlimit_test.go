package admitlimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsUpToRateThenDenies(t *testing.T) {
	l := New(map[time.Duration]int{time.Minute: 2})

	require.True(t, l.Allow("a.txt"))
	require.True(t, l.Allow("a.txt"))
	require.False(t, l.Allow("a.txt"), "third admission within the window must be denied")
}

func TestLimiter_CategoriesAreIndependent(t *testing.T) {
	l := New(map[time.Duration]int{time.Minute: 1})

	require.True(t, l.Allow("a.txt"))
	require.False(t, l.Allow("a.txt"))
	require.True(t, l.Allow("b.txt"), "a different category must have its own budget")
}
