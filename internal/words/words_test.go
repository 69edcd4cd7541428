package words

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizes(t *testing.T) {
	d, err := New([]string{" cat ", "# comment", "", "Dog", "CAT", "it's", "naïve", "zebra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CAT", "DOG", "ZEBRA"}, d.Words())
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.Contains("dog"))
	assert.False(t, d.Contains("its"))
}

func TestNewEmpty(t *testing.T) {
	_, err := New([]string{"", "# nothing", "123"})
	require.ErrorIs(t, err, ErrEmpty)
}

func TestRead(t *testing.T) {
	d, err := Read(strings.NewReader("alpha\nbeta\r\ngamma\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ALPHA", "BETA", "GAMMA"}, d.Words())
}

func TestLoadFileAndDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("spell\ncast\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPELL", "CAST"}, d.Words())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	def, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, def.Len(), 1000)
	assert.True(t, def.Contains("CATS"))
	for _, w := range def.Words() {
		require.Equal(t, strings.ToUpper(w), w)
	}
}
