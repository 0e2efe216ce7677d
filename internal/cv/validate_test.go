package cv

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() Document {
	doc := New(t0)
	doc.PersonalInfo.FullName = "Jane Doe"
	doc.PersonalInfo.Email = "jane@x.com"
	doc.WorkExperience = []Engagement{{JobTitle: "Engineer", Company: "Acme", StartDate: "01/2020", EndDate: "Present"}}
	doc.Education = []Education{{Degree: "BSc", Institution: "Uni", StartDate: "09/2014", EndDate: "06/2018"}}
	doc.Skills = []SkillGroup{{Skills: []string{"Go"}, DisplayLayout: LayoutColumns2}}
	doc.Languages = []Language{{Language: "English", Proficiency: "Native"}}
	return doc
}

func fieldNames(err error) []string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(validDocument()))
}

func TestValidate_RequiredPersonalInfo(t *testing.T) {
	doc := validDocument()
	doc.PersonalInfo.FullName = ""
	doc.PersonalInfo.Email = "not-an-email"

	err := Validate(doc)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"personalInfo.fullName", "personalInfo.email"}, fieldNames(err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages(), "personalInfo.email: must be a valid email address")
}

func TestValidate_EndBeforeStart(t *testing.T) {
	doc := validDocument()
	doc.WorkExperience[0].StartDate = "06/2021"
	doc.WorkExperience[0].EndDate = "01/2020"

	err := Validate(doc)
	require.Error(t, err)
	assert.Equal(t, []string{"workExperience[0].endDate"}, fieldNames(err))
}

func TestValidate_EnumsAndRanges(t *testing.T) {
	doc := validDocument()
	pct := 140
	doc.Languages[0].Proficiency = "Conversational"
	doc.Skills[0].DisplayLayout = "grid"
	doc.Skills[0].Proficiency = []Proficiency{{Skill: "Go", Level: "Expert", Percentage: &pct}}

	err := Validate(doc)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{
		"languages[0].proficiency",
		"skills[0].displayLayout",
		"skills[0].proficiency[0].percentage",
	}, fieldNames(err))
}

func TestValidate_EmptySkillGroup(t *testing.T) {
	doc := validDocument()
	doc.Skills[0].Skills = []string{}

	assert.Equal(t, []string{"skills[0].skills"}, fieldNames(Validate(doc)))
}

func TestParseMonth(t *testing.T) {
	for _, in := range []string{"01/2022", "1/2022", "2022-01", "2022-01-15", "2022-01-15T10:00:00Z"} {
		got, ok := ParseMonth(in)
		require.True(t, ok, in)
		assert.Equal(t, 2022, got.Year(), in)
		assert.Equal(t, 1, int(got.Month()), in)
	}

	_, ok := ParseMonth("sometime in 2022")
	assert.False(t, ok)
}

func TestIsOngoing(t *testing.T) {
	assert.True(t, IsOngoing(""))
	assert.True(t, IsOngoing("present"))
	assert.True(t, IsOngoing(" Present "))
	assert.False(t, IsOngoing("01/2022"))
}

func TestSummaryTooLong(t *testing.T) {
	doc := New(t0)
	doc.Summary = strings.Repeat("a", SummarySoftLimit)
	assert.False(t, SummaryTooLong(doc))

	doc.Summary += "é"
	assert.True(t, SummaryTooLong(doc))
}
