package site

import "strings"

// Project is the application-side shape of a projects row.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Problem     string   `json:"problem"`
	Solution    string   `json:"solution"`
	TechUsed    []string `json:"techUsed"`
	ImageURL    string   `json:"imageUrl"`
	VisitURL    string   `json:"visitUrl"`
}

type Inquiry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Budget   string `json:"budget"`
	Timeline string `json:"timeline"`
	Message  string `json:"message"`
	// Timestamp is the creation time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

type Settings struct {
	ContactEmails []string `json:"contactEmails"`
	Phones        []string `json:"phones"`
	Address       string   `json:"address"`
	Tagline       string   `json:"tagline"`
}

type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Active   bool   `json:"active"`
}

type BudgetOption struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	ProjectType string `json:"projectType,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Timeline    string `json:"timeline,omitempty"`
}

// Display returns the text shown in the budget selector.
func (b BudgetOption) Display() string {
	if strings.TrimSpace(b.Label) != "" {
		return b.Label
	}
	var parts []string
	for _, p := range []string{b.ProjectType, b.Amount, b.Timeline} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

// Snapshot is an immutable view of every collection at one point in time.
type Snapshot struct {
	Version   uint64         `json:"version"`
	Admin     bool           `json:"-"`
	Projects  []Project      `json:"projects"`
	Inquiries []Inquiry      `json:"inquiries,omitempty"`
	Settings  Settings       `json:"settings"`
	Socials   []SocialLink   `json:"socials"`
	Budgets   []BudgetOption `json:"budgets"`
}

// ActiveSocials returns the links shown in the public footer.
func (s Snapshot) ActiveSocials() []SocialLink {
	out := make([]SocialLink, 0, len(s.Socials))
	for _, l := range s.Socials {
		if l.Active {
			out = append(out, l)
		}
	}
	return out
}

// Project looks a project up by id.
func (s Snapshot) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Projects = make([]Project, len(s.Projects))
	for i, p := range s.Projects {
		p.TechUsed = append([]string{}, p.TechUsed...)
		out.Projects[i] = p
	}
	out.Inquiries = append([]Inquiry{}, s.Inquiries...)
	out.Settings.ContactEmails = append([]string{}, s.Settings.ContactEmails...)
	out.Settings.Phones = append([]string{}, s.Settings.Phones...)
	out.Socials = append([]SocialLink{}, s.Socials...)
	out.Budgets = append([]BudgetOption{}, s.Budgets...)
	return out
}
