package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetDeduplicates(t *testing.T) {
	s := New("/a", "/b", "/a")
	s.Add("/b")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("/a"))
	assert.False(t, s.Has("/c"))
	assert.Equal(t, []string{"/a", "/b"}, Sorted(s))
}

func TestDifference(t *testing.T) {
	known := New("uno", "esp32dev")
	asked := New("uno", "nope", "zzz")

	assert.Equal(t, []string{"nope", "zzz"}, Sorted(asked.Difference(known)))
	assert.Empty(t, Sorted(New[string]().Difference(known)))
}
