package services

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatllm/pkg/chattypes"
)

func withColorProfile(t *testing.T, profile termenv.Profile) {
	t.Helper()
	previous := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(profile)
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })
}

func newInitializedThemes(t *testing.T) *ThemeService {
	t.Helper()
	svc := NewThemeService()
	require.NoError(t, svc.Initialize())
	return svc
}

func TestThemeService_Name(t *testing.T) {
	assert.Equal(t, "theme", NewThemeService().Name())
}

func TestThemeService_GetAvailableThemes(t *testing.T) {
	assert.Empty(t, NewThemeService().GetAvailableThemes())
	assert.Equal(t, []string{"dark", "default", "light", "plain"}, newInitializedThemes(t).GetAvailableThemes())
}

func TestThemeService_GetThemeByName(t *testing.T) {
	withColorProfile(t, termenv.ANSI256)
	svc := newInitializedThemes(t)

	assert.Equal(t, "default", svc.GetThemeByName("").Name)
	assert.Equal(t, "dark", svc.GetThemeByName(" DARK ").Name)
	assert.Equal(t, "light", svc.GetThemeByName("light").Name)
	assert.Equal(t, "plain", svc.GetThemeByName("neon").Name)

	dark := svc.GetThemeByName("dark")
	assert.True(t, dark.User.GetBold())
	assert.Equal(t, lipgloss.Color("39"), dark.User.GetForeground())
	assert.True(t, dark.System.GetItalic())

	def := svc.GetThemeByName("default")
	assert.Equal(t, lipgloss.AdaptiveColor{Light: "25", Dark: "39"}, def.User.GetForeground())
}

func TestThemeService_AsciiProfileUsesPlain(t *testing.T) {
	withColorProfile(t, termenv.Ascii)
	svc := newInitializedThemes(t)

	assert.False(t, IsColorSupported())
	assert.Equal(t, "plain", svc.GetThemeByName("dark").Name)
}

func TestThemeService_NotInitialized(t *testing.T) {
	theme := NewThemeService().GetThemeByName("dark")
	require.NotNil(t, theme)
	assert.Equal(t, "plain", theme.Name)
}

func TestTheme_RoleStyle(t *testing.T) {
	withColorProfile(t, termenv.ANSI256)
	theme := newInitializedThemes(t).GetThemeByName("dark")

	assert.Equal(t, theme.User, theme.RoleStyle(chattypes.RoleUser))
	assert.Equal(t, theme.Assistant, theme.RoleStyle(chattypes.RoleAssistant))
	assert.Equal(t, theme.System, theme.RoleStyle(chattypes.RoleSystem))
}

func TestTheme_CreateNumberedList(t *testing.T) {
	withColorProfile(t, termenv.Ascii)
	theme := newInitializedThemes(t).GetThemeByName("plain")

	rendered := theme.CreateNumberedList([]string{"alpha", "beta"}, 1).String()
	assert.Contains(t, rendered, "1. alpha")
	assert.Contains(t, rendered, "2. beta")
}
