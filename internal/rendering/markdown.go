package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-builder/internal/cv"
)

// Markdown renders doc as a Markdown document. It never fails: missing optional fields are omitted
// and an empty document yields a "CV" heading with an empty contact section.
//
// Sections always appear in the same order regardless of the document's section order, and skill
// groups are listed the same way whatever their display layout.
func Markdown(doc cv.Document) string {
	var md strings.Builder
	p := doc.PersonalInfo

	fmt.Fprintf(&md, "# %s\n\n", orDefault(p.FullName, "CV"))
	if p.JobTitle != "" {
		fmt.Fprintf(&md, "**%s**\n\n", p.JobTitle)
	}

	md.WriteString("## Contact Information\n\n")
	if p.Email != "" {
		fmt.Fprintf(&md, "- **Email:** %s\n", p.Email)
	}
	if p.Phone != "" {
		fmt.Fprintf(&md, "- **Phone:** %s\n", p.Phone)
	}
	if p.Location != "" {
		fmt.Fprintf(&md, "- **Location:** %s\n", p.Location)
	}
	for _, link := range p.Links {
		fmt.Fprintf(&md, "- **%s:** [%s](%s)\n", link.Type, link.URL, link.URL)
	}
	md.WriteString("\n")

	if doc.Summary != "" {
		md.WriteString("## Professional Summary\n\n")
		fmt.Fprintf(&md, "%s\n\n", doc.Summary)
	}

	writeEngagements(&md, cv.SectionWork.Title(), doc.WorkExperience)
	writeEngagements(&md, cv.SectionInternships.Title(), doc.Internships)

	if len(doc.Education) > 0 {
		md.WriteString("## Education\n\n")
		for _, edu := range doc.Education {
			fmt.Fprintf(&md, "### %s\n", edu.Degree)
			fmt.Fprintf(&md, "**%s**\n", edu.Institution)
			if edu.Location != "" {
				fmt.Fprintf(&md, "*%s*\n", edu.Location)
			}
			fmt.Fprintf(&md, "*%s*\n", DateRange(edu.StartDate, edu.EndDate, edu.IsCurrent))
			if edu.GPA != "" {
				fmt.Fprintf(&md, "**GPA:** %s\n", edu.GPA)
			}
			if edu.Description != "" {
				fmt.Fprintf(&md, "%s\n", edu.Description)
			}
			if len(edu.RelevantCourses) > 0 {
				fmt.Fprintf(&md, "**Relevant Courses:** %s\n", strings.Join(edu.RelevantCourses, ", "))
			}
			md.WriteString("\n")
		}
	}

	if len(doc.Skills) > 0 {
		md.WriteString("## Skills\n\n")
		for _, group := range doc.Skills {
			if group.GroupName != "" {
				fmt.Fprintf(&md, "### %s\n", group.GroupName)
			}
			if len(group.Skills) > 0 {
				fmt.Fprintf(&md, "%s\n", strings.Join(group.Skills, ", "))
			}
			for _, prof := range group.Proficiency {
				fmt.Fprintf(&md, "- %s: %s", prof.Skill, prof.Level)
				if prof.Percentage != nil {
					fmt.Fprintf(&md, " (%d%%)", *prof.Percentage)
				}
				md.WriteString("\n")
			}
			md.WriteString("\n")
		}
	}

	if len(doc.Projects) > 0 {
		md.WriteString("## Projects\n\n")
		for _, project := range doc.Projects {
			fmt.Fprintf(&md, "### %s\n", project.Name)
			if project.Role != "" {
				fmt.Fprintf(&md, "**Role:** %s\n", project.Role)
			}
			if project.StartDate != "" {
				fmt.Fprintf(&md, "*%s*\n", DateRange(project.StartDate, project.EndDate, project.IsCurrent))
			}
			if len(project.TechStack) > 0 {
				fmt.Fprintf(&md, "**Tech Stack:** %s\n", strings.Join(project.TechStack, ", "))
			}
			if project.Description != "" {
				fmt.Fprintf(&md, "%s\n", project.Description)
			}
			if links := projectLinks(project); len(links) > 0 {
				fmt.Fprintf(&md, "**Links:** %s\n", strings.Join(links, " | "))
			}
			md.WriteString("\n")
		}
	}

	if len(doc.Certifications) > 0 {
		md.WriteString("## Certifications\n\n")
		for _, cert := range doc.Certifications {
			fmt.Fprintf(&md, "### %s\n", cert.Title)
			fmt.Fprintf(&md, "**Issuer:** %s\n", cert.Issuer)
			fmt.Fprintf(&md, "*%s*\n", DateRange(cert.StartDate, cert.EndDate, cert.IsCurrent))
			if cert.Description != "" {
				fmt.Fprintf(&md, "%s\n", cert.Description)
			}
			if cert.CertificateLink != "" {
				fmt.Fprintf(&md, "[View Certificate](%s)\n", cert.CertificateLink)
			}
			md.WriteString("\n")
		}
	}

	if len(doc.Languages) > 0 {
		md.WriteString("## Languages\n\n")
		for _, lang := range doc.Languages {
			fmt.Fprintf(&md, "- %s: %s\n", lang.Language, lang.Proficiency)
		}
		md.WriteString("\n")
	}

	return md.String()
}

func writeEngagements(md *strings.Builder, title string, entries []cv.Engagement) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(md, "## %s\n\n", title)
	for _, e := range entries {
		fmt.Fprintf(md, "### %s at %s\n", e.JobTitle, e.Company)
		if e.Location != "" {
			fmt.Fprintf(md, "*%s*\n", e.Location)
		}
		fmt.Fprintf(md, "*%s*\n\n", DateRange(e.StartDate, e.EndDate, e.IsCurrent))
		if e.Description != "" {
			fmt.Fprintf(md, "%s\n\n", e.Description)
		}
		if len(e.Achievements) > 0 {
			md.WriteString("**Key Achievements:**\n")
			for _, a := range e.Achievements {
				fmt.Fprintf(md, "- %s\n", a)
			}
			md.WriteString("\n")
		}
	}
}

func projectLinks(p cv.Project) []string {
	var links []string
	if p.LiveDemoLink != "" {
		links = append(links, fmt.Sprintf("[Live Demo](%s)", p.LiveDemoLink))
	}
	if p.GithubLink != "" {
		links = append(links, fmt.Sprintf("[GitHub](%s)", p.GithubLink))
	}
	return links
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
