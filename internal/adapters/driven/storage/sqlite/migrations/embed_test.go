package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp_Embedded(t *testing.T) {
	got, err := Up(FS)

	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, Migration{Version: 1, Name: "001_audit.up.sql"}, got[0])
}

func TestUp_OrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.up.sql":    {Data: []byte("SELECT 1;")},
		"002_second.up.sql":   {Data: []byte("SELECT 1;")},
		"002_second.down.sql": {Data: []byte("SELECT 1;")},
		"notes.up.sql":        {Data: []byte("SELECT 1;")},
		"README.md":           {Data: []byte("x")},
	}

	got, err := Up(fsys)

	require.NoError(t, err)
	assert.Equal(t, []Migration{
		{Version: 2, Name: "002_second.up.sql"},
		{Version: 10, Name: "010_later.up.sql"},
	}, got)
}
