package site

import (
	"net/mail"
	"net/url"
	"strings"
)

// ParseTech splits a comma separated tag list, dropping blanks.
func ParseTech(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseList splits on commas and newlines, dropping blanks.
func ParseList(s string) []string {
	return cleanList(strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }))
}

func cleanList(in []string) []string {
	out := []string{}
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NormalizeProject trims input and enforces the required fields.
func NormalizeProject(p Project) (Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Problem = strings.TrimSpace(p.Problem)
	p.Solution = strings.TrimSpace(p.Solution)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.VisitURL = strings.TrimSpace(p.VisitURL)
	p.TechUsed = cleanList(p.TechUsed)

	switch {
	case p.Title == "":
		return p, invalid("title", "is required")
	case p.Description == "":
		return p, invalid("description", "is required")
	case p.Problem == "":
		return p, invalid("problem", "is required")
	case p.Solution == "":
		return p, invalid("solution", "is required")
	case p.VisitURL == "":
		return p, invalid("visitUrl", "is required")
	case !validURL(p.VisitURL):
		return p, invalid("visitUrl", "must be an http(s) URL")
	}
	return p, nil
}

func NormalizeInquiry(i Inquiry) (Inquiry, error) {
	i.Name = strings.TrimSpace(i.Name)
	i.Email = strings.TrimSpace(i.Email)
	i.Budget = strings.TrimSpace(i.Budget)
	i.Timeline = strings.TrimSpace(i.Timeline)
	i.Message = strings.TrimSpace(i.Message)

	switch {
	case i.Name == "":
		return i, invalid("name", "is required")
	case i.Email == "":
		return i, invalid("email", "is required")
	case !validEmail(i.Email):
		return i, invalid("email", "is not a valid address")
	case i.Message == "":
		return i, invalid("message", "is required")
	}
	return i, nil
}

func NormalizeSettings(s Settings) (Settings, error) {
	s.ContactEmails = cleanList(s.ContactEmails)
	s.Phones = cleanList(s.Phones)
	s.Address = strings.TrimSpace(s.Address)
	s.Tagline = strings.TrimSpace(s.Tagline)
	for _, e := range s.ContactEmails {
		if !validEmail(e) {
			return s, invalid("contactEmails", e+" is not a valid address")
		}
	}
	return s, nil
}

func NormalizeSocial(l SocialLink) (SocialLink, error) {
	l.Platform = strings.TrimSpace(l.Platform)
	l.URL = strings.TrimSpace(l.URL)
	switch {
	case l.Platform == "":
		return l, invalid("platform", "is required")
	case !validURL(l.URL):
		return l, invalid("url", "must be an http(s) URL")
	}
	return l, nil
}

func NormalizeBudget(b BudgetOption) (BudgetOption, error) {
	b.Label = strings.TrimSpace(b.Label)
	b.ProjectType = strings.TrimSpace(b.ProjectType)
	b.Amount = strings.TrimSpace(b.Amount)
	b.Timeline = strings.TrimSpace(b.Timeline)
	if b.Display() == "" {
		return b, invalid("label", "a label or a project type, amount or timeline is required")
	}
	return b, nil
}
