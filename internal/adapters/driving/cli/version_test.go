package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	original := version
	version = v
	t.Cleanup(func() { version = original })
}

func TestVersionCmd(t *testing.T) {
	withVersion(t, "1.2.3")

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "notesmith version 1.2.3")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionCmd_Short(t *testing.T) {
	withVersion(t, "1.2.3")

	out, err := execute(t, "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestVersionCmd_DevByDefault(t *testing.T) {
	withVersion(t, "dev")

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "notesmith version dev")
}

func TestSetVersion(t *testing.T) {
	withVersion(t, "dev")

	SetVersion("9.9.9")

	assert.Equal(t, "9.9.9", version)
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "version", "extra")

	assert.Error(t, err)
}
