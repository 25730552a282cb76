package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffReportsChanges(t *testing.T) {
	existing := []byte("line one\nline two\nline three\n")
	newer := []byte("line one\nline 2\nline three\n")

	diff := Diff("settings.py", existing, newer)
	assert.Contains(t, diff, "settings.py")
	assert.Contains(t, diff, "line two")
	assert.Contains(t, diff, "line 2")
	assert.NotContains(t, diff, "+line one")
}

func TestDiffIdenticalContent(t *testing.T) {
	content := []byte("same\n")
	diff := Diff("f.py", content, content)
	assert.NotContains(t, diff, "+same")
	assert.NotContains(t, diff, "-same")
}

func TestDiffBinaryContent(t *testing.T) {
	diff := Diff("blob", []byte{0x00, 0x01, 0x02}, []byte("text"))
	assert.Contains(t, diff, "Binary files differ")
}

func TestConflictResolverFlags(t *testing.T) {
	_, err := NewConflictResolver(true, true)
	require.Error(t, err)

	r, err := NewConflictResolver(true, false)
	require.NoError(t, err)
	res, err := r.Resolve("f", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Overwrite, res)

	r, err = NewConflictResolver(false, true)
	require.NoError(t, err)
	res, err = r.Resolve("f", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Skip, res)
}
