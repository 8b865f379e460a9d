package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dotcontext "dotshell/internal/context"
)

func TestThemeService_Name(t *testing.T) {
	service := NewThemeService()
	assert.Equal(t, "theme", service.Name())
}

func TestThemeService_LoadsEmbeddedThemes(t *testing.T) {
	service := NewThemeService()
	require.NoError(t, service.Initialize())

	themes := service.GetAvailableThemes()
	assert.ElementsMatch(t, []string{"default", "dark", "light", "plain"}, themes)
}

func TestThemeService_GetThemeByName(t *testing.T) {
	service := NewThemeService()
	require.NoError(t, service.Initialize())

	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{"exact match", "dark", "dark"},
		{"case insensitive", "DARK", "dark"},
		{"whitespace trimmed", "  light ", "light"},
		{"empty falls back to default", "", "default"},
		{"unknown falls back to plain", "nonexistent", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := service.GetThemeByName(tt.requested)
			require.NotNil(t, theme)
			assert.Equal(t, tt.want, theme.Name)
		})
	}
}

func TestThemeService_ActiveThemeFollowsSessionVariable(t *testing.T) {
	ctx := dotcontext.NewTestContext()
	dotcontext.SetGlobalContext(ctx)
	defer dotcontext.ResetGlobalContext()

	service := NewThemeService()
	require.NoError(t, service.Initialize())

	assert.Equal(t, "default", service.ActiveTheme().Name)

	require.NoError(t, ctx.SetVariable("theme", "plain"))
	assert.Equal(t, "plain", service.ActiveTheme().Name)
}

func TestThemeService_SegmentsLoaded(t *testing.T) {
	service := NewThemeService()
	require.NoError(t, service.Initialize())

	theme, exists := service.GetTheme("default")
	require.True(t, exists)
	require.NotEmpty(t, theme.Segments)

	names := make([]string, len(theme.Segments))
	for i, segment := range theme.Segments {
		names[i] = segment.Name
	}
	assert.Contains(t, names, "cwd")
	assert.Contains(t, names, "venv")
}

func TestThemeService_StyleProvider(t *testing.T) {
	service := NewThemeService()
	require.NoError(t, service.Initialize())

	dotcontext.SetGlobalContext(dotcontext.NewTestContext())
	defer dotcontext.ResetGlobalContext()

	assert.True(t, service.IsAvailable())
	assert.Contains(t, []string{"dark", "light"}, service.GetThemeType())

	for _, semantic := range []string{"command", "variable", "success", "error", "warning", "info", "highlight", "list", "unknown"} {
		style := service.GetStyle(semantic)
		require.NotNil(t, style)
		assert.NotEmpty(t, style.Render("x"))
	}
}
