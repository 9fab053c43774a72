package site_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"coal-site/internal/database"
	"coal-site/internal/models"
	"coal-site/internal/site"
	"coal-site/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// flakyStore wraps the sqlite store and lets a test intercept project listing.
type flakyStore struct {
	*database.Store
	listProjects func(ctx context.Context) ([]models.Project, error)
}

func (f *flakyStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	if f.listProjects != nil {
		return f.listProjects(ctx)
	}
	return f.Store.ListProjects(ctx)
}

type recordingBus struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingBus) Publish(_ context.Context, collections []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, collections)
	return nil
}

func validProject(title string) site.Project {
	return site.Project{
		Title:       title,
		Description: "desc",
		Problem:     "problem",
		Solution:    "solution",
		VisitURL:    "https://example.com",
	}
}

func TestState_RefreshMapsRows(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateProject(ctx, &models.Project{
		Title:       "Titan",
		Description: "dash",
		Problem:     "p",
		Solution:    "s",
		ImageURL:    "https://img.example.com/t.png",
		VisitURL:    "https://titan.example.com",
	}))
	require.NoError(t, store.CreateInquiry(ctx, &models.Inquiry{
		Name: "Ann", Email: "ann@example.com", Message: "hi", CreatedAt: created,
	}))

	st := site.NewState(store, nil)
	st.Refresh(ctx, true)

	snap := st.Snapshot(true)
	require.Len(t, snap.Projects, 1)
	p := snap.Projects[0]
	assert.Equal(t, "Titan", p.Title)
	assert.Equal(t, "https://img.example.com/t.png", p.ImageURL)
	assert.Equal(t, "https://titan.example.com", p.VisitURL)
	assert.NotNil(t, p.TechUsed)
	assert.Empty(t, p.TechUsed)

	require.Len(t, snap.Inquiries, 1)
	assert.Equal(t, created.UnixMilli(), snap.Inquiries[0].Timestamp)

	assert.NotNil(t, snap.Settings.ContactEmails)
	assert.NotNil(t, snap.Settings.Phones)
	assert.NotZero(t, snap.Version)
}

func TestState_PublicRefreshSkipsInquiries(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateInquiry(ctx, &models.Inquiry{Name: "Ann", Email: "ann@example.com", Message: "hi"}))

	st := site.NewState(store, nil)
	st.Refresh(ctx, false)
	assert.Empty(t, st.Snapshot(true).Inquiries)

	st.Refresh(ctx, true)
	assert.Len(t, st.Snapshot(true).Inquiries, 1)
	assert.Empty(t, st.Snapshot(false).Inquiries)
	assert.False(t, st.Snapshot(false).Admin)
}

func TestState_SupersededFetchIsDiscarded(t *testing.T) {
	base := testutil.OpenStore(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	store := &flakyStore{Store: base}
	store.listProjects = func(context.Context) ([]models.Project, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return []models.Project{{ID: "old", Title: "stale"}}, nil
		}
		return []models.Project{{ID: "new", Title: "fresh"}}, nil
	}

	st := site.NewState(store, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		st.RefreshCollections(ctx, string(site.CollProjects))
	}()

	<-entered
	st.RefreshCollections(ctx, string(site.CollProjects))
	close(release)
	<-done

	snap := st.Snapshot(false)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "new", snap.Projects[0].ID)
}

func TestState_FetchErrorKeepsPreviousData(t *testing.T) {
	base := testutil.OpenStore(t)
	ctx := context.Background()
	require.NoError(t, base.CreateProject(ctx, &models.Project{Title: "Titan"}))

	store := &flakyStore{Store: base}
	st := site.NewState(store, nil)
	st.Refresh(ctx, false)
	require.Len(t, st.Snapshot(false).Projects, 1)

	store.listProjects = func(context.Context) ([]models.Project, error) {
		return nil, errors.New("connection reset")
	}
	st.Refresh(ctx, false)

	snap := st.Snapshot(false)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "Titan", snap.Projects[0].Title)
}

func TestState_ProjectMutationsRefetch(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()
	bus := &recordingBus{}
	st := site.NewState(store, nil, site.WithInvalidator(bus))

	a, err := st.CreateProject(ctx, validProject("Titan"))
	require.NoError(t, err)
	b, err := st.CreateProject(ctx, validProject("Slate"))
	require.NoError(t, err)
	require.Len(t, st.Snapshot(false).Projects, 2)

	a.Title = "Titan v2"
	a.TechUsed = site.ParseTech("Go, , HTMX")
	_, err = st.UpdateProject(ctx, a)
	require.NoError(t, err)

	got, ok := st.Project(a.ID)
	require.True(t, ok)
	assert.Equal(t, "Titan v2", got.Title)
	assert.Equal(t, []string{"Go", "HTMX"}, got.TechUsed)

	other, ok := st.Project(b.ID)
	require.True(t, ok)
	assert.Equal(t, "Slate", other.Title)

	require.NoError(t, st.DeleteProject(ctx, b.ID))
	_, ok = st.Project(b.ID)
	assert.False(t, ok)

	err = st.DeleteProject(ctx, b.ID)
	assert.ErrorIs(t, err, site.ErrNotFound)

	bus.mu.Lock()
	defer bus.mu.Unlock()
	require.Len(t, bus.calls, 4)
	assert.Equal(t, []string{"projects"}, bus.calls[0])
}

func TestState_ValidationErrors(t *testing.T) {
	st := site.NewState(testutil.OpenStore(t), nil)
	ctx := context.Background()

	p := validProject("")
	_, err := st.CreateProject(ctx, p)
	require.ErrorIs(t, err, site.ErrInvalidInput)

	var verr *site.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	p = validProject("Titan")
	p.VisitURL = "ftp://nope"
	_, err = st.CreateProject(ctx, p)
	assert.ErrorIs(t, err, site.ErrInvalidInput)

	_, err = st.UpdateProject(ctx, validProject("No id"))
	assert.ErrorIs(t, err, site.ErrInvalidInput)

	_, err = st.SubmitInquiry(ctx, site.Inquiry{Name: "Ann", Email: "not-an-email", Message: "hi"})
	assert.ErrorIs(t, err, site.ErrInvalidInput)

	_, err = st.AddBudget(ctx, site.BudgetOption{})
	assert.ErrorIs(t, err, site.ErrInvalidInput)
}

func TestState_SubmitInquiry(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()
	st := site.NewState(store, nil)

	in, err := st.SubmitInquiry(ctx, site.Inquiry{
		Name: " Ann ", Email: "ann@example.com", Budget: "$5k - $10k", Timeline: "1-3 months", Message: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", in.Name)
	assert.NotEmpty(t, in.ID)
	assert.NotZero(t, in.Timestamp)

	// public state never holds inquiries
	assert.Empty(t, st.Snapshot(true).Inquiries)

	st.Refresh(ctx, true)
	_, err = st.SubmitInquiry(ctx, site.Inquiry{Name: "Bob", Email: "bob@example.com", Message: "again"})
	require.NoError(t, err)
	assert.Len(t, st.Snapshot(true).Inquiries, 2)
}

func TestState_SettingsRoundTrip(t *testing.T) {
	st := site.NewState(testutil.OpenStore(t), nil)
	ctx := context.Background()

	st.Refresh(ctx, false)
	assert.Empty(t, st.Snapshot(false).Settings.ContactEmails)

	require.NoError(t, st.SaveSettings(ctx, site.Settings{
		ContactEmails: []string{"hello@coal.dev", " "},
		Phones:        []string{"+1 555 0100"},
		Address:       "1 Forge St",
	}))
	got := st.Snapshot(false).Settings
	assert.Equal(t, []string{"hello@coal.dev"}, got.ContactEmails)
	assert.Equal(t, "1 Forge St", got.Address)

	err := st.SaveSettings(ctx, site.Settings{ContactEmails: []string{"broken"}})
	assert.ErrorIs(t, err, site.ErrInvalidInput)
}

func TestState_CommitSocials(t *testing.T) {
	st := site.NewState(testutil.OpenStore(t), nil)
	ctx := context.Background()

	gh, err := st.AddSocial(ctx, site.SocialLink{Platform: "GitHub", URL: "https://github.com/coal", Active: true})
	require.NoError(t, err)
	li, err := st.AddSocial(ctx, site.SocialLink{Platform: "LinkedIn", URL: "https://linkedin.com/company/coal", Active: false})
	require.NoError(t, err)

	require.NoError(t, st.CommitSocials(ctx, map[string]bool{gh.ID: false, li.ID: true}))

	snap := st.Snapshot(false)
	active := snap.ActiveSocials()
	require.Len(t, active, 1)
	assert.Equal(t, "LinkedIn", active[0].Platform)
	require.Len(t, snap.Socials, 2)

	require.NoError(t, st.SetSocialActive(ctx, gh.ID, true))
	assert.Len(t, st.Snapshot(false).ActiveSocials(), 2)

	require.NoError(t, st.RemoveSocial(ctx, gh.ID))
	assert.Len(t, st.Snapshot(false).Socials, 1)
}

func TestState_CommitSocials_StaleSnapshot(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()

	gh := &models.SocialLink{Platform: "GitHub", URL: "https://github.com/coal", IsActive: true}
	require.NoError(t, store.CreateSocial(ctx, gh))

	st := site.NewState(store, nil)
	st.Refresh(ctx, false)
	require.Len(t, st.Snapshot(false).ActiveSocials(), 1)

	// changed behind the cached copy
	require.NoError(t, store.SetSocialActive(ctx, gh.ID, false))
	other := &models.SocialLink{Platform: "Dribbble", URL: "https://dribbble.com/coal", IsActive: true}
	require.NoError(t, store.CreateSocial(ctx, other))

	require.NoError(t, st.CommitSocials(ctx, map[string]bool{gh.ID: true}))

	rows, err := store.ListSocials(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.True(t, r.IsActive, r.Platform)
	}
	assert.Len(t, st.Snapshot(false).ActiveSocials(), 2)
}

func TestState_SortOrderAfterDelete(t *testing.T) {
	store := testutil.OpenStore(t)
	st := site.NewState(store, nil)
	ctx := context.Background()

	first, err := st.CreateProject(ctx, validProject("One"))
	require.NoError(t, err)
	_, err = st.CreateProject(ctx, validProject("Two"))
	require.NoError(t, err)
	require.NoError(t, st.DeleteProject(ctx, first.ID))
	_, err = st.CreateProject(ctx, validProject("Three"))
	require.NoError(t, err)

	rows, err := store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Two", rows[0].Title)
	assert.Equal(t, 2, rows[0].SortOrder)
	assert.Equal(t, "Three", rows[1].Title)
	assert.Equal(t, 3, rows[1].SortOrder)
}

func TestState_Budgets(t *testing.T) {
	st := site.NewState(testutil.OpenStore(t), nil)
	ctx := context.Background()

	legacy, err := st.AddBudget(ctx, site.BudgetOption{Label: "$2k - $5k"})
	require.NoError(t, err)
	_, err = st.AddBudget(ctx, site.BudgetOption{ProjectType: "E-commerce", Amount: "$8k", Timeline: "3-6 months"})
	require.NoError(t, err)

	budgets := st.Snapshot(false).Budgets
	require.Len(t, budgets, 2)
	assert.Equal(t, "$2k - $5k", budgets[0].Display())
	assert.Equal(t, "E-commerce · $8k · 3-6 months", budgets[1].Display())

	require.NoError(t, st.RemoveBudget(ctx, legacy.ID))
	assert.Len(t, st.Snapshot(false).Budgets, 1)
}

func TestState_Subscribe(t *testing.T) {
	store := testutil.OpenStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateInquiry(ctx, &models.Inquiry{Name: "Ann", Email: "ann@example.com", Message: "hi"}))

	st := site.NewState(store, nil)
	ch, unsubscribe := st.Subscribe()

	st.Refresh(ctx, true)
	_, err := st.CreateProject(ctx, validProject("Titan"))
	require.NoError(t, err)

	// only the newest snapshot is retained for a reader that fell behind
	snap := <-ch
	assert.Len(t, snap.Projects, 1)
	assert.Empty(t, snap.Inquiries)

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)
}

func TestState_SnapshotIsCopy(t *testing.T) {
	st := site.NewState(testutil.OpenStore(t), nil)
	ctx := context.Background()
	p := validProject("Titan")
	p.TechUsed = []string{"Go"}
	_, err := st.CreateProject(ctx, p)
	require.NoError(t, err)

	snap := st.Snapshot(false)
	snap.Projects[0].TechUsed[0] = "Rust"
	snap.Projects[0].Title = "changed"

	again := st.Snapshot(false)
	assert.Equal(t, "Titan", again.Projects[0].Title)
	assert.Equal(t, []string{"Go"}, again.Projects[0].TechUsed)
}
