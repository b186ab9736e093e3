package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s.Theme())
	assert.Equal(t, DefaultTheme().Accent, s.Theme().Accent)
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	assert.True(t, s.Title.GetBold())
	assert.Equal(t, DefaultTheme().Accent, s.Title.GetForeground())
	assert.True(t, s.Selected.GetReverse())
	assert.False(t, s.Normal.GetReverse(), "deriving Selected must not change Normal")
	assert.True(t, s.Help.GetItalic())
}

func TestNewStyles_CustomTheme(t *testing.T) {
	theme := DefaultTheme()
	theme.Bad.Dark = "#FF0000"

	s := NewStyles(theme)

	assert.Equal(t, theme.Bad, s.Error.GetForeground())
}
