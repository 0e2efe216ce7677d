package rendering

import (
	"time"

	"github.com/jonathan/cv-builder/internal/cv"
)

var t0 = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

func fullDocument() cv.Document {
	doc := cv.New(t0)
	doc.PersonalInfo = cv.PersonalInfo{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		JobTitle: "Backend Engineer",
		Phone:    "+1 555 0100",
		Location: "Berlin",
		Links:    []cv.Link{{Type: cv.LinkGitHub, URL: "https://github.com/jane"}},
	}
	doc.Summary = "Builds reliable services."
	doc.WorkExperience = []cv.Engagement{{
		JobTitle:     "Engineer",
		Company:      "Acme",
		Location:     "Remote",
		StartDate:    "01/2020",
		Description:  "Owned billing.",
		Achievements: []string{"Cut latency 40%"},
	}}
	doc.Internships = []cv.Engagement{{JobTitle: "Intern", Company: "Beta", StartDate: "06/2018", EndDate: "09/2018"}}
	doc.Education = []cv.Education{{
		Degree:          "BSc Computer Science",
		Institution:     "TU Berlin",
		StartDate:       "10/2014",
		EndDate:         "09/2018",
		GPA:             "1.3",
		RelevantCourses: []string{"Algorithms", "Databases"},
	}}
	doc.Skills = []cv.SkillGroup{{
		GroupName:     "Languages",
		Skills:        []string{"Go", "SQL"},
		DisplayLayout: cv.LayoutBadges,
		Proficiency:   []cv.Proficiency{{Skill: "Go", Level: "Expert", Percentage: intPtr(90)}},
	}}
	doc.Projects = []cv.Project{{
		Name:       "cv-builder",
		Role:       "Author",
		StartDate:  "01/2024",
		IsCurrent:  true,
		TechStack:  []string{"Go", "Chrome"},
		GithubLink: "https://github.com/jane/cv",
	}}
	doc.Certifications = []cv.Certification{{
		Title:           "CKA",
		Issuer:          "CNCF",
		StartDate:       "03/2022",
		EndDate:         "03/2025",
		CertificateLink: "https://cncf.io/cka",
	}}
	doc.Languages = []cv.Language{
		{Language: "English", Proficiency: "Native"},
		{Language: "German", Proficiency: "Fluent"},
	}
	return doc
}
