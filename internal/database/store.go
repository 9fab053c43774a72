package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coal-site/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the row-level CRUD surface over the site tables.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewStore(db *gorm.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) with(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout <= 0 {
		return s.db.WithContext(ctx), func() {}
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(cctx), cancel
}

func notFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", entity, id, models.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}

// nextSortOrder returns one past the highest sort_order in model's table.
func nextSortOrder(db *gorm.DB, model any) (int, error) {
	var top int
	if err := db.Model(model).Select("COALESCE(MAX(sort_order), 0)").Row().Scan(&top); err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	return top + 1, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return Ping(ctx, s.db)
}

//
// PROJECTS
//

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	db, cancel := s.with(ctx)
	defer cancel()

	var rows []models.Project
	if err := db.Order("sort_order asc").Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return rows, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	db, cancel := s.with(ctx)
	defer cancel()

	var row models.Project
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "project", id)
	}
	return &row, nil
}

// CreateProject inserts p. A zero SortOrder places it after the last row.
func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	db, cancel := s.with(ctx)
	defer cancel()

	if p.SortOrder == 0 {
		order, err := nextSortOrder(db, &models.Project{})
		if err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		p.SortOrder = order
	}
	if err := db.Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// UpdateProject overwrites the editable columns of a single row.
func (s *Store) UpdateProject(ctx context.Context, p *models.Project) error {
	db, cancel := s.with(ctx)
	defer cancel()

	p.UpdatedAt = time.Now()
	res := db.Model(&models.Project{}).
		Where("id = ?", p.ID).
		Select("title", "description", "problem", "solution", "tech_used", "image_url", "visit_url", "updated_at").
		Updates(p)
	if res.Error != nil {
		return fmt.Errorf("update project %s: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "project", p.ID)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	db, cancel := s.with(ctx)
	defer cancel()

	res := db.Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete project %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "project", id)
	}
	return nil
}

//
// INQUIRIES
//

func (s *Store) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	db, cancel := s.with(ctx)
	defer cancel()

	var rows []models.Inquiry
	if err := db.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return rows, nil
}

func (s *Store) CreateInquiry(ctx context.Context, i *models.Inquiry) error {
	db, cancel := s.with(ctx)
	defer cancel()

	if err := db.Create(i).Error; err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

//
// SETTINGS
//

func (s *Store) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	db, cancel := s.with(ctx)
	defer cancel()

	var row models.SiteSettings
	if err := db.First(&row, models.SiteSettingsID).Error; err != nil {
		return nil, notFound(err, "settings", "1")
	}
	return &row, nil
}

// SaveSettings upserts the singleton row.
func (s *Store) SaveSettings(ctx context.Context, st *models.SiteSettings) error {
	db, cancel := s.with(ctx)
	defer cancel()

	st.ID = models.SiteSettingsID
	st.UpdatedAt = time.Now()
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"contact_emails", "phones", "address", "tagline", "updated_at"}),
	}).Create(st).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

//
// SOCIAL LINKS
//

func (s *Store) ListSocials(ctx context.Context) ([]models.SocialLink, error) {
	db, cancel := s.with(ctx)
	defer cancel()

	var rows []models.SocialLink
	if err := db.Order("sort_order asc").Order("platform asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list socials: %w", err)
	}
	return rows, nil
}

func (s *Store) CreateSocial(ctx context.Context, l *models.SocialLink) error {
	db, cancel := s.with(ctx)
	defer cancel()

	if l.SortOrder == 0 {
		order, err := nextSortOrder(db, &models.SocialLink{})
		if err != nil {
			return fmt.Errorf("create social: %w", err)
		}
		l.SortOrder = order
	}
	if err := db.Create(l).Error; err != nil {
		return fmt.Errorf("create social: %w", err)
	}
	return nil
}

func (s *Store) SetSocialActive(ctx context.Context, id string, active bool) error {
	db, cancel := s.with(ctx)
	defer cancel()

	res := db.Model(&models.SocialLink{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("update social %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// the row may exist with the same value on drivers that report changed rows only
		var count int64
		if err := db.Model(&models.SocialLink{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("update social %s: %w", id, err)
		}
		if count == 0 {
			return notFound(gorm.ErrRecordNotFound, "social", id)
		}
	}
	return nil
}

func (s *Store) DeleteSocial(ctx context.Context, id string) error {
	db, cancel := s.with(ctx)
	defer cancel()

	res := db.Delete(&models.SocialLink{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete social %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "social", id)
	}
	return nil
}

//
// BUDGET OPTIONS
//

func (s *Store) ListBudgets(ctx context.Context) ([]models.BudgetOption, error) {
	db, cancel := s.with(ctx)
	defer cancel()

	var rows []models.BudgetOption
	if err := db.Order("sort_order asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return rows, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *models.BudgetOption) error {
	db, cancel := s.with(ctx)
	defer cancel()

	if b.SortOrder == 0 {
		order, err := nextSortOrder(db, &models.BudgetOption{})
		if err != nil {
			return fmt.Errorf("create budget: %w", err)
		}
		b.SortOrder = order
	}
	if err := db.Create(b).Error; err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	db, cancel := s.with(ctx)
	defer cancel()

	res := db.Delete(&models.BudgetOption{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete budget %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "budget", id)
	}
	return nil
}
