package site

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"coal-site/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collection names one table mirrored by State.
type Collection string

const (
	CollProjects  Collection = "projects"
	CollInquiries Collection = "inquiries"
	CollSettings  Collection = "settings"
	CollSocials   Collection = "socials"
	CollBudgets   Collection = "budgets"
)

var publicCollections = []Collection{CollProjects, CollSettings, CollSocials, CollBudgets}

// RemoteStore is the row-level CRUD surface State reads and writes through.
type RemoteStore interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) error
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	ListInquiries(ctx context.Context) ([]models.Inquiry, error)
	CreateInquiry(ctx context.Context, i *models.Inquiry) error

	GetSettings(ctx context.Context) (*models.SiteSettings, error)
	SaveSettings(ctx context.Context, s *models.SiteSettings) error

	ListSocials(ctx context.Context) ([]models.SocialLink, error)
	CreateSocial(ctx context.Context, l *models.SocialLink) error
	SetSocialActive(ctx context.Context, id string, active bool) error
	DeleteSocial(ctx context.Context, id string) error

	ListBudgets(ctx context.Context) ([]models.BudgetOption, error)
	CreateBudget(ctx context.Context, b *models.BudgetOption) error
	DeleteBudget(ctx context.Context, id string) error
}

// Invalidator tells other replicas which collections changed.
type Invalidator interface {
	Publish(ctx context.Context, collections []string) error
}

type Option func(*State)

func WithInvalidator(inv Invalidator) Option {
	return func(s *State) { s.inv = inv }
}

// State owns the in-memory copy of every collection. Reads are served from the
// latest snapshot; every write goes to the store and is followed by a full
// reload of the affected collections.
type State struct {
	store RemoteStore
	log   *zap.Logger
	inv   Invalidator

	mu      sync.RWMutex
	snap    Snapshot
	issued  map[Collection]uint64
	version uint64

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

func NewState(store RemoteStore, log *zap.Logger, opts ...Option) *State {
	if log == nil {
		log = zap.NewNop()
	}
	s := &State{
		store:  store,
		log:    log,
		issued: make(map[Collection]uint64),
		subs:   make(map[int]chan Snapshot),
		snap: Snapshot{
			Projects:  []Project{},
			Inquiries: []Inquiry{},
			Settings:  Settings{ContactEmails: []string{}, Phones: []string{}},
			Socials:   []SocialLink{},
			Budgets:   []BudgetOption{},
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns a copy of the current state. Inquiries are only included
// for admin callers.
func (s *State) Snapshot(admin bool) Snapshot {
	s.mu.RLock()
	out := s.snap.clone()
	s.mu.RUnlock()

	if !admin {
		out.Inquiries = []Inquiry{}
	}
	out.Admin = admin
	return out
}

// Project returns a single project from the current snapshot.
func (s *State) Project(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.snap.Project(id)
	if ok {
		p.TechUsed = append([]string{}, p.TechUsed...)
	}
	return p, ok
}

// Refresh reloads projects, settings, socials and budgets, plus inquiries when
// admin is true. Fetch failures are logged and leave the previous value.
func (s *State) Refresh(ctx context.Context, admin bool) {
	colls := append([]Collection{}, publicCollections...)
	if admin {
		colls = append(colls, CollInquiries)
	}
	s.refresh(ctx, colls...)
}

// RefreshCollections reloads the named collections. Inquiries are skipped
// unless an admin refresh has loaded them before.
func (s *State) RefreshCollections(ctx context.Context, names ...string) {
	s.mu.RLock()
	adminLoaded := s.snap.Admin
	s.mu.RUnlock()

	var colls []Collection
	for _, n := range names {
		c := Collection(n)
		switch c {
		case CollProjects, CollSettings, CollSocials, CollBudgets:
			colls = append(colls, c)
		case CollInquiries:
			if adminLoaded {
				colls = append(colls, c)
			}
		default:
			s.log.Warn("ignoring unknown collection", zap.String("collection", n))
		}
	}
	if len(colls) > 0 {
		s.refresh(ctx, colls...)
	}
}

func (s *State) refresh(ctx context.Context, colls ...Collection) {
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range colls {
		c := c
		seq := s.issue(c)
		g.Go(func() error {
			s.fetch(gctx, c, seq)
			return nil
		})
	}
	_ = g.Wait()
	s.publish()
}

// issue tags a new fetch of c. Only the most recently issued fetch of a
// collection may write its result.
func (s *State) issue(c Collection) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[c]++
	return s.issued[c]
}

func (s *State) apply(c Collection, seq uint64, fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.issued[c] {
		s.log.Debug("discarding superseded fetch",
			zap.String("collection", string(c)),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.issued[c]))
		return
	}
	fn(&s.snap)
	s.version++
	s.snap.Version = s.version
}

func (s *State) fetch(ctx context.Context, c Collection, seq uint64) {
	fail := func(err error) {
		s.log.Warn("fetch failed, keeping previous data", zap.String("collection", string(c)), zap.Error(err))
	}

	switch c {
	case CollProjects:
		rows, err := s.store.ListProjects(ctx)
		if err != nil {
			fail(err)
			return
		}
		items := mapRows(rows, projectFromRow)
		s.apply(c, seq, func(sn *Snapshot) { sn.Projects = items })

	case CollInquiries:
		rows, err := s.store.ListInquiries(ctx)
		if err != nil {
			fail(err)
			return
		}
		items := mapRows(rows, inquiryFromRow)
		s.apply(c, seq, func(sn *Snapshot) {
			sn.Inquiries = items
			sn.Admin = true
		})

	case CollSettings:
		row, err := s.store.GetSettings(ctx)
		if errors.Is(err, ErrNotFound) {
			row, err = &models.SiteSettings{}, nil
		}
		if err != nil {
			fail(err)
			return
		}
		st := settingsFromRow(*row)
		s.apply(c, seq, func(sn *Snapshot) { sn.Settings = st })

	case CollSocials:
		rows, err := s.store.ListSocials(ctx)
		if err != nil {
			fail(err)
			return
		}
		items := mapRows(rows, socialFromRow)
		s.apply(c, seq, func(sn *Snapshot) { sn.Socials = items })

	case CollBudgets:
		rows, err := s.store.ListBudgets(ctx)
		if err != nil {
			fail(err)
			return
		}
		items := mapRows(rows, budgetFromRow)
		s.apply(c, seq, func(sn *Snapshot) { sn.Budgets = items })
	}
}

// Subscribe registers for snapshots published after every refresh. A slow
// reader only sees the newest snapshot.
func (s *State) Subscribe() (<-chan Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
		})
	}
}

func (s *State) publish() {
	s.mu.RLock()
	snap := s.snap.clone()
	s.mu.RUnlock()
	snap.Inquiries = []Inquiry{}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// afterWrite reloads the written collections and notifies other replicas.
func (s *State) afterWrite(ctx context.Context, colls ...Collection) {
	s.refresh(ctx, colls...)

	if s.inv == nil {
		return
	}
	names := make([]string, len(colls))
	for i, c := range colls {
		names[i] = string(c)
	}
	if err := s.inv.Publish(ctx, names); err != nil {
		s.log.Warn("publish invalidation failed", zap.Strings("collections", names), zap.Error(err))
	}
}

//
// PROJECTS
//

func (s *State) CreateProject(ctx context.Context, p Project) (Project, error) {
	p, err := NormalizeProject(p)
	if err != nil {
		return p, err
	}

	row := projectToRow(p)
	row.ID = ""

	if err := s.store.CreateProject(ctx, &row); err != nil {
		return p, fmt.Errorf("create project: %w", err)
	}
	s.afterWrite(ctx, CollProjects)
	return projectFromRow(row), nil
}

func (s *State) UpdateProject(ctx context.Context, p Project) (Project, error) {
	if p.ID == "" {
		return p, invalid("id", "is required")
	}
	p, err := NormalizeProject(p)
	if err != nil {
		return p, err
	}

	row := projectToRow(p)
	if err := s.store.UpdateProject(ctx, &row); err != nil {
		return p, fmt.Errorf("update project: %w", err)
	}
	s.afterWrite(ctx, CollProjects)
	return p, nil
}

func (s *State) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.afterWrite(ctx, CollProjects)
	return nil
}

//
// INQUIRIES
//

// SubmitInquiry stores a contact form submission.
func (s *State) SubmitInquiry(ctx context.Context, in Inquiry) (Inquiry, error) {
	in, err := NormalizeInquiry(in)
	if err != nil {
		return in, err
	}

	row := models.Inquiry{
		Name:     in.Name,
		Email:    in.Email,
		Budget:   in.Budget,
		Timeline: in.Timeline,
		Message:  in.Message,
	}
	if err := s.store.CreateInquiry(ctx, &row); err != nil {
		return in, fmt.Errorf("submit inquiry: %w", err)
	}

	s.mu.RLock()
	adminLoaded := s.snap.Admin
	s.mu.RUnlock()
	if adminLoaded {
		s.afterWrite(ctx, CollInquiries)
	} else if s.inv != nil {
		if err := s.inv.Publish(ctx, []string{string(CollInquiries)}); err != nil {
			s.log.Warn("publish invalidation failed", zap.Error(err))
		}
	}
	return inquiryFromRow(row), nil
}

//
// SETTINGS
//

func (s *State) SaveSettings(ctx context.Context, st Settings) error {
	st, err := NormalizeSettings(st)
	if err != nil {
		return err
	}
	row := settingsToRow(st)
	if err := s.store.SaveSettings(ctx, &row); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.afterWrite(ctx, CollSettings)
	return nil
}

//
// SOCIAL LINKS
//

func (s *State) AddSocial(ctx context.Context, l SocialLink) (SocialLink, error) {
	l, err := NormalizeSocial(l)
	if err != nil {
		return l, err
	}
	row := models.SocialLink{Platform: l.Platform, URL: l.URL, IsActive: l.Active}
	if err := s.store.CreateSocial(ctx, &row); err != nil {
		return l, fmt.Errorf("add social: %w", err)
	}
	s.afterWrite(ctx, CollSocials)
	return socialFromRow(row), nil
}

func (s *State) SetSocialActive(ctx context.Context, id string, active bool) error {
	if err := s.store.SetSocialActive(ctx, id, active); err != nil {
		return fmt.Errorf("toggle social: %w", err)
	}
	s.afterWrite(ctx, CollSocials)
	return nil
}

// CommitSocials persists the desired active flag of every link named in
// active. The comparison is made against the stored rows, so a stale snapshot
// never hides a change. Links not named in active are left alone.
func (s *State) CommitSocials(ctx context.Context, active map[string]bool) error {
	rows, err := s.store.ListSocials(ctx)
	if err != nil {
		return fmt.Errorf("commit socials: %w", err)
	}

	var errs []error
	for _, r := range rows {
		want, ok := active[r.ID]
		if !ok || want == r.IsActive {
			continue
		}
		if err := s.store.SetSocialActive(ctx, r.ID, want); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Platform, err))
		}
	}
	s.afterWrite(ctx, CollSocials)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("commit socials: %w", err)
	}
	return nil
}

func (s *State) RemoveSocial(ctx context.Context, id string) error {
	if err := s.store.DeleteSocial(ctx, id); err != nil {
		return fmt.Errorf("remove social: %w", err)
	}
	s.afterWrite(ctx, CollSocials)
	return nil
}

//
// BUDGET OPTIONS
//

func (s *State) AddBudget(ctx context.Context, b BudgetOption) (BudgetOption, error) {
	b, err := NormalizeBudget(b)
	if err != nil {
		return b, err
	}
	row := models.BudgetOption{
		Label:       b.Label,
		ProjectType: b.ProjectType,
		Amount:      b.Amount,
		Timeline:    b.Timeline,
	}
	if err := s.store.CreateBudget(ctx, &row); err != nil {
		return b, fmt.Errorf("add budget: %w", err)
	}
	s.afterWrite(ctx, CollBudgets)
	return budgetFromRow(row), nil
}

func (s *State) RemoveBudget(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("remove budget: %w", err)
	}
	s.afterWrite(ctx, CollBudgets)
	return nil
}
