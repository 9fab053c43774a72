package site

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTech(t *testing.T) {
	assert.Equal(t, []string{"React", "Node.js"}, ParseTech(" React , ,Node.js,"))
	assert.Equal(t, []string{}, ParseTech(""))
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a@x.io", "b@x.io", "c@x.io"}, ParseList("a@x.io, b@x.io\n c@x.io\n\n"))
}

func TestBudgetDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   BudgetOption
		want string
	}{
		{"label wins", BudgetOption{Label: "$5k - $10k", Amount: "$7k"}, "$5k - $10k"},
		{"triple", BudgetOption{ProjectType: "Web App", Amount: "$15k", Timeline: "3 months"}, "Web App · $15k · 3 months"},
		{"partial", BudgetOption{Amount: "$2k"}, "$2k"},
		{"empty", BudgetOption{Label: "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Display())
		})
	}
}

func TestNormalizeProject(t *testing.T) {
	valid := Project{
		Title:       " Titan ",
		Description: "Dashboard",
		Problem:     "Slow",
		Solution:    "Fast",
		TechUsed:    []string{" Go ", ""},
		VisitURL:    "https://titan.example.com",
	}
	got, err := NormalizeProject(valid)
	require.NoError(t, err)
	assert.Equal(t, "Titan", got.Title)
	assert.Equal(t, []string{"Go"}, got.TechUsed)

	bad := valid
	bad.VisitURL = "ftp://titan"
	_, err = NormalizeProject(bad)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "visitUrl", verr.Field)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = valid
	bad.Solution = " "
	_, err = NormalizeProject(bad)
	assert.ErrorContains(t, err, "solution")
}

func TestNormalizeInquiry(t *testing.T) {
	_, err := NormalizeInquiry(Inquiry{Name: "Ann", Email: "not-an-email", Message: "hi"})
	assert.ErrorContains(t, err, "email")

	_, err = NormalizeInquiry(Inquiry{Name: "Ann", Email: "Ann <ann@example.com>", Message: "hi"})
	assert.Error(t, err, "display-name form is rejected")

	got, err := NormalizeInquiry(Inquiry{Name: " Ann ", Email: "ann@example.com", Message: " hi "})
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "hi", got.Message)
}

func TestNormalizeSettings(t *testing.T) {
	got, err := NormalizeSettings(Settings{ContactEmails: []string{" ops@coal.dev ", ""}, Tagline: " x "})
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@coal.dev"}, got.ContactEmails)
	assert.Equal(t, "x", got.Tagline)

	_, err = NormalizeSettings(Settings{ContactEmails: []string{"nope"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeSocialAndBudget(t *testing.T) {
	_, err := NormalizeSocial(SocialLink{Platform: "GitHub", URL: "github.com/coal"})
	assert.ErrorContains(t, err, "url")

	_, err = NormalizeBudget(BudgetOption{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	b, err := NormalizeBudget(BudgetOption{Amount: " $9k "})
	require.NoError(t, err)
	assert.Equal(t, "$9k", b.Amount)
}
