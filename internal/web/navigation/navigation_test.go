package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	nav := NewContext("Platform Settings", "settings", "global")

	assert.Equal(t, "Platform Settings", nav.PageTitle)
	assert.Empty(t, nav.Breadcrumbs)
	assert.True(t, nav.IsActive("settings", "global"))
	assert.False(t, nav.IsActive("settings", "profile"))
	assert.True(t, nav.IsSectionActive("settings"))
	assert.False(t, nav.IsSectionActive("dashboard"))
}

func TestAddBreadcrumb(t *testing.T) {
	nav := NewContext("Profile Settings", "settings", "profile").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Profile Settings", "/profile/settings", true)

	assert.Len(t, nav.Breadcrumbs, 2)
	assert.Equal(t, "Home", nav.Breadcrumbs[0].Title)
	assert.True(t, nav.Breadcrumbs[1].Active)
}
