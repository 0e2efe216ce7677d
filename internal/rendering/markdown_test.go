package rendering

import (
	"testing"
	"time"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/stretchr/testify/assert"
)

func TestMarkdown_EmptyDocument(t *testing.T) {
	assert.Equal(t, "# CV\n\n## Contact Information\n\n\n", Markdown(cv.New(t0)))
	assert.Equal(t, "# CV\n\n## Contact Information\n\n\n", Markdown(cv.Document{}), "nil collections are fine")
}

func TestMarkdown_FullDocument(t *testing.T) {
	want := `# Jane Doe

**Backend Engineer**

## Contact Information

- **Email:** jane@x.com
- **Phone:** +1 555 0100
- **Location:** Berlin
- **GitHub:** [https://github.com/jane](https://github.com/jane)

## Professional Summary

Builds reliable services.

## Work Experience

### Engineer at Acme
*Remote*
*Jan 2020 - Present*

Owned billing.

**Key Achievements:**
- Cut latency 40%

## Internships

### Intern at Beta
*Jun 2018 - Sep 2018*

## Education

### BSc Computer Science
**TU Berlin**
*Oct 2014 - Sep 2018*
**GPA:** 1.3
**Relevant Courses:** Algorithms, Databases

## Skills

### Languages
Go, SQL
- Go: Expert (90%)

## Projects

### cv-builder
**Role:** Author
*Jan 2024 - Present*
**Tech Stack:** Go, Chrome
**Links:** [GitHub](https://github.com/jane/cv)

## Certifications

### CKA
**Issuer:** CNCF
*Mar 2022 - Mar 2025*
[View Certificate](https://cncf.io/cka)

## Languages

- English: Native
- German: Fluent

`
	assert.Equal(t, want, Markdown(fullDocument()))
}

func TestMarkdown_JaneDoeScenario(t *testing.T) {
	store := cv.NewStore(cv.WithClock(func() time.Time { return t0 }))
	fullName, email := "Jane Doe", "jane@x.com"
	store.Dispatch(cv.UpdatePersonalInfo{Patch: cv.PersonalInfoPatch{FullName: &fullName, Email: &email}})
	store.Dispatch(cv.ReplaceCollection{
		Collection: cv.CollectionWorkExperience,
		Items:      []cv.Engagement{{JobTitle: "Engineer", Company: "Acme", StartDate: "01/2020"}},
	})

	md := Markdown(store.Snapshot())

	assert.Contains(t, md, "# Jane Doe")
	assert.Contains(t, md, "### Engineer at Acme")
	assert.Contains(t, md, "Jan 2020 - Present")
}

func TestMarkdown_IgnoresDisplayLayout(t *testing.T) {
	doc := cv.New(t0)
	doc.Skills = []cv.SkillGroup{
		{GroupName: "Backend", Skills: []string{"Go", "SQL"}, DisplayLayout: cv.LayoutBadges},
		{GroupName: "Frontend", Skills: []string{"TypeScript"}, DisplayLayout: cv.LayoutBullet},
	}
	withLayouts := Markdown(doc)

	doc.Skills[0].DisplayLayout = cv.LayoutColumns3
	doc.Skills[1].DisplayLayout = ""

	assert.Equal(t, withLayouts, Markdown(doc))
	assert.Contains(t, withLayouts, "### Backend\nGo, SQL\n\n### Frontend\nTypeScript\n\n")
}

func TestMarkdown_IgnoresSectionOrder(t *testing.T) {
	doc := fullDocument()
	before := Markdown(doc)

	doc.Customization.SectionOrder = []string{"languages", "skills", "summary"}

	assert.Equal(t, before, Markdown(doc))
}

func TestMarkdown_OptionalFields(t *testing.T) {
	doc := cv.New(t0)
	doc.Projects = []cv.Project{
		{Name: "undated", EndDate: "01/2020", LiveDemoLink: "https://demo.example", GithubLink: "https://github.com/x/y"},
	}
	doc.Skills = []cv.SkillGroup{{Skills: []string{"Go"}, Proficiency: []cv.Proficiency{{Skill: "Go", Level: "Beginner"}}}}
	doc.WorkExperience = []cv.Engagement{{JobTitle: "Dev", Company: "X", StartDate: "01/2019", EndDate: "05/2021", IsCurrent: true}}

	md := Markdown(doc)

	assert.Contains(t, md, "### undated\n**Links:** [Live Demo](https://demo.example) | [GitHub](https://github.com/x/y)\n")
	assert.Contains(t, md, "## Skills\n\nGo\n- Go: Beginner\n\n")
	assert.Contains(t, md, "*Jan 2019 - Present*", "isCurrent wins over endDate")
	assert.NotContains(t, md, "## Education")
	assert.NotContains(t, md, "## Professional Summary")
}
