// Package seed loads the initial site content and writes it into empty tables.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"coal-site/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

type Seed struct {
	Projects []Project `yaml:"projects"`
	Settings *Settings `yaml:"settings"`
	Socials  []Social  `yaml:"socials"`
	Budgets  []Budget  `yaml:"budgets"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Problem     string   `yaml:"problem"`
	Solution    string   `yaml:"solution"`
	TechUsed    []string `yaml:"tech_used"`
	ImageURL    string   `yaml:"image_url"`
	VisitURL    string   `yaml:"visit_url"`
}

type Settings struct {
	ContactEmails []string `yaml:"contact_emails"`
	Phones        []string `yaml:"phones"`
	Address       string   `yaml:"address"`
	Tagline       string   `yaml:"tagline"`
}

type Social struct {
	Platform string `yaml:"platform"`
	URL      string `yaml:"url"`
	IsActive *bool  `yaml:"is_active"`
}

type Budget struct {
	Label       string `yaml:"label"`
	ProjectType string `yaml:"project_type"`
	Amount      string `yaml:"amount"`
	Timeline    string `yaml:"timeline"`
}

// Default returns the embedded seed.
func Default() (*Seed, error) {
	return Parse(defaultSeed)
}

// Load reads a seed file, or the embedded default when path is empty.
func Load(path string) (*Seed, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("seed: parse: %w", err)
	}
	for i, p := range s.Projects {
		if p.Title == "" {
			return nil, fmt.Errorf("seed: project %d: title is required", i)
		}
	}
	for i, l := range s.Socials {
		if l.Platform == "" || l.URL == "" {
			return nil, fmt.Errorf("seed: social %d: platform and url are required", i)
		}
	}
	return &s, nil
}

// Store is the subset of the row store seeding writes through.
type Store interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) error
	GetSettings(ctx context.Context) (*models.SiteSettings, error)
	SaveSettings(ctx context.Context, s *models.SiteSettings) error
	ListSocials(ctx context.Context) ([]models.SocialLink, error)
	CreateSocial(ctx context.Context, l *models.SocialLink) error
	ListBudgets(ctx context.Context) ([]models.BudgetOption, error)
	CreateBudget(ctx context.Context, b *models.BudgetOption) error

	SeedApplied(ctx context.Context, name string) (bool, error)
	MarkSeedApplied(ctx context.Context, name string) error
}

// runName is the seed_runs key recorded after the first Apply.
const runName = "initial"

type applyOptions struct {
	force bool
}

type ApplyOption func(*applyOptions)

// Force applies the seed even if it ran before. Tables that hold rows are
// still left alone.
func Force() ApplyOption {
	return func(o *applyOptions) { o.force = true }
}

// Apply writes each section of s into its table when that table is empty,
// then records the run. Once recorded, later calls do nothing unless Force is
// given, so content the admin deleted stays deleted.
func Apply(ctx context.Context, store Store, s *Seed, log *zap.Logger, opts ...ApplyOption) error {
	if log == nil {
		log = zap.NewNop()
	}
	var o applyOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !o.force {
		done, err := store.SeedApplied(ctx, runName)
		if err != nil {
			return err
		}
		if done {
			log.Debug("seed already applied")
			return nil
		}
	}
	if err := fill(ctx, store, s, log); err != nil {
		return err
	}
	return store.MarkSeedApplied(ctx, runName)
}

func fill(ctx context.Context, store Store, s *Seed, log *zap.Logger) error {
	existing, err := store.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 && len(s.Projects) > 0 {
		for i, p := range s.Projects {
			row := &models.Project{
				Title:       p.Title,
				Description: p.Description,
				Problem:     p.Problem,
				Solution:    p.Solution,
				TechUsed:    append([]string{}, p.TechUsed...),
				ImageURL:    p.ImageURL,
				VisitURL:    p.VisitURL,
				SortOrder:   i + 1,
			}
			if err := store.CreateProject(ctx, row); err != nil {
				return fmt.Errorf("seed project %q: %w", p.Title, err)
			}
		}
		log.Info("seeded projects", zap.Int("count", len(s.Projects)))
	}

	if s.Settings != nil {
		_, err := store.GetSettings(ctx)
		switch {
		case errors.Is(err, models.ErrNotFound):
			row := &models.SiteSettings{
				ContactEmails: append([]string{}, s.Settings.ContactEmails...),
				Phones:        append([]string{}, s.Settings.Phones...),
				Address:       s.Settings.Address,
				Tagline:       s.Settings.Tagline,
			}
			if err := store.SaveSettings(ctx, row); err != nil {
				return fmt.Errorf("seed settings: %w", err)
			}
			log.Info("seeded settings")
		case err != nil:
			return err
		}
	}

	socials, err := store.ListSocials(ctx)
	if err != nil {
		return err
	}
	if len(socials) == 0 && len(s.Socials) > 0 {
		for i, l := range s.Socials {
			active := true
			if l.IsActive != nil {
				active = *l.IsActive
			}
			row := &models.SocialLink{Platform: l.Platform, URL: l.URL, IsActive: active, SortOrder: i + 1}
			if err := store.CreateSocial(ctx, row); err != nil {
				return fmt.Errorf("seed social %q: %w", l.Platform, err)
			}
		}
		log.Info("seeded social links", zap.Int("count", len(s.Socials)))
	}

	budgets, err := store.ListBudgets(ctx)
	if err != nil {
		return err
	}
	if len(budgets) == 0 && len(s.Budgets) > 0 {
		for i, b := range s.Budgets {
			row := &models.BudgetOption{
				Label:       b.Label,
				ProjectType: b.ProjectType,
				Amount:      b.Amount,
				Timeline:    b.Timeline,
				SortOrder:   i + 1,
			}
			if err := store.CreateBudget(ctx, row); err != nil {
				return fmt.Errorf("seed budget: %w", err)
			}
		}
		log.Info("seeded budget options", zap.Int("count", len(s.Budgets)))
	}

	return nil
}
