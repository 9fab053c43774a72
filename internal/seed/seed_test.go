package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"coal-site/internal/seed"
	"coal-site/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s, err := seed.Default()
	require.NoError(t, err)

	require.Len(t, s.Projects, 2)
	assert.Equal(t, "Titan Energy Dashboard", s.Projects[0].Title)
	assert.Equal(t, []string{"React", "D3.js", "Node.js", "AWS"}, s.Projects[0].TechUsed)
	assert.Equal(t, "Slate Ecommerce", s.Projects[1].Title)

	require.NotNil(t, s.Settings)
	assert.Equal(t, []string{"hello@coaldev.io"}, s.Settings.ContactEmails)

	assert.Len(t, s.Socials, 3)
	require.Len(t, s.Budgets, 4)
	assert.Equal(t, "$25k+", s.Budgets[3].Label)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
projects:
  - title: Only One
    visit_url: https://one.example.com
socials:
  - platform: GitHub
    url: https://github.com/one
    is_active: false
`), 0o644))

	s, err := seed.Load(path)
	require.NoError(t, err)
	require.Len(t, s.Projects, 1)
	assert.Nil(t, s.Settings)
	require.Len(t, s.Socials, 1)
	require.NotNil(t, s.Socials[0].IsActive)
	assert.False(t, *s.Socials[0].IsActive)

	_, err = seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	_, err := seed.Parse([]byte("projects: [{description: no title}]"))
	assert.ErrorContains(t, err, "title is required")

	_, err = seed.Parse([]byte("socials: [{platform: GitHub}]"))
	assert.ErrorContains(t, err, "platform and url are required")

	_, err = seed.Parse([]byte("projects: {"))
	assert.Error(t, err)
}

func TestApply_OnlyEmptyTables(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()

	s, err := seed.Default()
	require.NoError(t, err)

	require.NoError(t, seed.Apply(ctx, store, s, nil))
	require.NoError(t, seed.Apply(ctx, store, s, nil))

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Titan Energy Dashboard", projects[0].Title)
	assert.Equal(t, 1, projects[0].SortOrder)

	socials, err := store.ListSocials(ctx)
	require.NoError(t, err)
	assert.Len(t, socials, 3)
	for _, l := range socials {
		assert.True(t, l.IsActive)
	}

	budgets, err := store.ListBudgets(ctx)
	require.NoError(t, err)
	assert.Len(t, budgets, 4)

	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Engineered to perform. Built to last.", settings.Tagline)
}

func TestApply_KeepsExistingSettings(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()

	s, err := seed.Parse([]byte("settings: {tagline: seeded}"))
	require.NoError(t, err)

	first, err := seed.Parse([]byte("settings: {tagline: custom}"))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, store, first, nil))
	require.NoError(t, seed.Apply(ctx, store, s, nil, seed.Force()))

	got, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "custom", got.Tagline)
}

func TestApply_RunsOnce(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()

	s, err := seed.Default()
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, store, s, nil))

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	for _, p := range projects {
		require.NoError(t, store.DeleteProject(ctx, p.ID))
	}
	socials, err := store.ListSocials(ctx)
	require.NoError(t, err)
	for _, l := range socials {
		require.NoError(t, store.DeleteSocial(ctx, l.ID))
	}
	budgets, err := store.ListBudgets(ctx)
	require.NoError(t, err)
	for _, b := range budgets {
		require.NoError(t, store.DeleteBudget(ctx, b.ID))
	}

	// next start
	require.NoError(t, seed.Apply(ctx, store, s, nil))

	projects, err = store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
	socials, err = store.ListSocials(ctx)
	require.NoError(t, err)
	assert.Empty(t, socials)
	budgets, err = store.ListBudgets(ctx)
	require.NoError(t, err)
	assert.Empty(t, budgets)

	require.NoError(t, seed.Apply(ctx, store, s, nil, seed.Force()))
	projects, err = store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}
