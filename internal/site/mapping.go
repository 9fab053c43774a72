package site

import "coal-site/internal/models"

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func projectFromRow(r models.Project) Project {
	return Project{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Problem:     r.Problem,
		Solution:    r.Solution,
		TechUsed:    orEmpty(r.TechUsed),
		ImageURL:    r.ImageURL,
		VisitURL:    r.VisitURL,
	}
}

func projectToRow(p Project) models.Project {
	return models.Project{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Problem:     p.Problem,
		Solution:    p.Solution,
		TechUsed:    orEmpty(p.TechUsed),
		ImageURL:    p.ImageURL,
		VisitURL:    p.VisitURL,
	}
}

func inquiryFromRow(r models.Inquiry) Inquiry {
	return Inquiry{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Budget:    r.Budget,
		Timeline:  r.Timeline,
		Message:   r.Message,
		Timestamp: r.CreatedAt.UnixMilli(),
	}
}

func settingsFromRow(r models.SiteSettings) Settings {
	return Settings{
		ContactEmails: orEmpty(r.ContactEmails),
		Phones:        orEmpty(r.Phones),
		Address:       r.Address,
		Tagline:       r.Tagline,
	}
}

func settingsToRow(s Settings) models.SiteSettings {
	return models.SiteSettings{
		ContactEmails: orEmpty(s.ContactEmails),
		Phones:        orEmpty(s.Phones),
		Address:       s.Address,
		Tagline:       s.Tagline,
	}
}

func socialFromRow(r models.SocialLink) SocialLink {
	return SocialLink{ID: r.ID, Platform: r.Platform, URL: r.URL, Active: r.IsActive}
}

func budgetFromRow(r models.BudgetOption) BudgetOption {
	return BudgetOption{
		ID:          r.ID,
		Label:       r.Label,
		ProjectType: r.ProjectType,
		Amount:      r.Amount,
		Timeline:    r.Timeline,
	}
}

func mapRows[R any, T any](rows []R, fn func(R) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
