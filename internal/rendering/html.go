package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/cv-builder/internal/cv"
)

//go:embed templates/cv.html.tmpl
var templateFS embed.FS

// PrintOrder is the fixed section order of the print artifact. The header is always rendered first
// and is not part of the list.
var PrintOrder = []cv.Section{
	cv.SectionSummary,
	cv.SectionWork,
	cv.SectionInternships,
	cv.SectionEducation,
	cv.SectionSkills,
	cv.SectionCertifications,
	cv.SectionProjects,
	cv.SectionLanguages,
}

// TemplateData is the view passed to the HTML template. Every user-provided string has
// already been sanitized.
type TemplateData struct {
	Name     template.HTML
	JobTitle template.HTML
	Contact  []ContactItem
	Sections []SectionView
	Theme    Theme
	Template string
	Preview  bool
}

// Theme holds the CSS values derived from the document customization.
type Theme struct {
	Primary    template.CSS
	Secondary  template.CSS
	FontFamily template.CSS
	Spacing    string
	Border     string
}

// ContactItem is one entry of the contact line.
type ContactItem struct {
	Label template.HTML
	Value template.HTML
	Href  string
	Color template.CSS
}

// SectionView is one rendered section.
type SectionView struct {
	ID        string
	Title     string
	Paragraph template.HTML
	Entries   []EntryView
	Groups    []SkillGroupView
	Items     []template.HTML
}

// EntryView is one dated entry of a section (a job, a degree, a project...).
type EntryView struct {
	Heading    template.HTML
	Subheading template.HTML
	Location   template.HTML
	Range      string
	Details    []template.HTML
	Body       template.HTML
	Bullets    []template.HTML
	Links      []LinkView
}

// LinkView is a labelled hyperlink.
type LinkView struct {
	Label string
	Href  string
}

// SkillGroupView is a skill group with the CSS class of its display layout.
type SkillGroupView struct {
	Name        template.HTML
	Layout      string
	Skills      []template.HTML
	Proficiency []template.HTML
}

const htmlTemplateName = "cv.html.tmpl"

var htmlTemplate = template.Must(parseTemplate())

func parseTemplate() (*template.Template, error) {
	tmpl, err := template.New(htmlTemplateName).ParseFS(templateFS, "templates/"+htmlTemplateName)
	if err != nil {
		return nil, &TemplateError{Name: htmlTemplateName, Op: "parse", Cause: err}
	}
	return tmpl, nil
}

// RenderHTML renders doc as a standalone HTML page with sections in the given order. Empty sections
// are omitted and unknown section ids are skipped.
func RenderHTML(doc cv.Document, order []cv.Section) ([]byte, error) {
	data := BuildTemplateData(doc, order)

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, &TemplateError{Name: htmlTemplateName, Op: "execute", Cause: err}
	}
	return buf.Bytes(), nil
}

// RenderPrintHTML renders doc in PrintOrder, the layout used for PDF export.
func RenderPrintHTML(doc cv.Document) ([]byte, error) {
	return RenderHTML(doc, PrintOrder)
}

// RenderPreviewHTML renders doc following its own section order.
func RenderPreviewHTML(doc cv.Document) ([]byte, error) {
	data := BuildTemplateData(doc, cv.ResolveSectionOrder(doc.Customization.SectionOrder))
	data.Preview = true

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, &TemplateError{Name: htmlTemplateName, Op: "execute", Cause: err}
	}
	return buf.Bytes(), nil
}

// BuildTemplateData constructs the sanitized view of doc.
func BuildTemplateData(doc cv.Document, order []cv.Section) *TemplateData {
	p := doc.PersonalInfo
	c := doc.Customization

	data := &TemplateData{
		Name:     Sanitize(orDefault(p.FullName, "CV")),
		JobTitle: Sanitize(p.JobTitle),
		Contact:  buildContact(p, c.IconColors),
		Theme: Theme{
			Primary:    CSSColor(c.PrimaryColor, cv.DefaultPrimaryColor),
			Secondary:  CSSColor(c.SecondaryColor, cv.DefaultSecondaryColor),
			FontFamily: fontStack(c.FontFamily),
			Spacing:    cssToken(c.Spacing, "standard"),
			Border:     cssToken(c.BorderStyle, "subtle"),
		},
		Template: cssToken(c.Template, cv.DefaultTemplate),
	}

	for _, s := range order {
		if s == cv.SectionPersonal {
			continue
		}
		if section, ok := buildSection(doc, s); ok {
			data.Sections = append(data.Sections, section)
		}
	}
	return data
}

func buildContact(p cv.PersonalInfo, colors map[string]string) []ContactItem {
	var items []ContactItem
	add := func(key, label, value, href string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		items = append(items, ContactItem{
			Label: Sanitize(label),
			Value: Sanitize(value),
			Href:  href,
			Color: CSSColor(colors[key], ""),
		})
	}

	add("email", "Email", p.Email, "mailto:"+p.Email)
	add("phone", "Phone", p.Phone, "")
	add("location", "Location", p.Location, "")
	for _, link := range p.Links {
		color := link.IconColor
		if color == "" {
			color = colors[strings.ToLower(string(link.Type))]
		}
		if strings.TrimSpace(link.URL) == "" {
			continue
		}
		items = append(items, ContactItem{
			Label: Sanitize(string(link.Type)),
			Value: Sanitize(link.URL),
			Href:  link.URL,
			Color: CSSColor(color, ""),
		})
	}
	return items
}

func buildSection(doc cv.Document, s cv.Section) (SectionView, bool) {
	view := SectionView{ID: string(s), Title: s.Title()}

	switch s {
	case cv.SectionSummary:
		if strings.TrimSpace(doc.Summary) == "" {
			return view, false
		}
		view.Paragraph = Sanitize(doc.Summary)
	case cv.SectionWork:
		view.Entries = engagementEntries(doc.WorkExperience)
	case cv.SectionInternships:
		view.Entries = engagementEntries(doc.Internships)
	case cv.SectionEducation:
		for _, edu := range doc.Education {
			entry := EntryView{
				Heading:    Sanitize(edu.Degree),
				Subheading: Sanitize(edu.Institution),
				Location:   Sanitize(edu.Location),
				Range:      DateRange(edu.StartDate, edu.EndDate, edu.IsCurrent),
				Body:       Sanitize(edu.Description),
			}
			if edu.GPA != "" {
				entry.Details = append(entry.Details, Sanitize("GPA: "+edu.GPA))
			}
			if len(edu.RelevantCourses) > 0 {
				entry.Details = append(entry.Details, Sanitize("Relevant Courses: "+strings.Join(edu.RelevantCourses, ", ")))
			}
			view.Entries = append(view.Entries, entry)
		}
	case cv.SectionSkills:
		for _, group := range doc.Skills {
			g := SkillGroupView{
				Name:   Sanitize(group.GroupName),
				Layout: layoutClass(group.DisplayLayout),
				Skills: sanitizeAll(group.Skills),
			}
			for _, prof := range group.Proficiency {
				line := prof.Skill + ": " + prof.Level
				if prof.Percentage != nil {
					line += fmt.Sprintf(" (%d%%)", *prof.Percentage)
				}
				g.Proficiency = append(g.Proficiency, Sanitize(line))
			}
			view.Groups = append(view.Groups, g)
		}
	case cv.SectionCertifications:
		for _, cert := range doc.Certifications {
			entry := EntryView{
				Heading:    Sanitize(cert.Title),
				Subheading: Sanitize(cert.Issuer),
				Range:      DateRange(cert.StartDate, cert.EndDate, cert.IsCurrent),
				Body:       Sanitize(cert.Description),
			}
			if cert.CertificateLink != "" {
				entry.Links = append(entry.Links, LinkView{Label: "View Certificate", Href: cert.CertificateLink})
			}
			view.Entries = append(view.Entries, entry)
		}
	case cv.SectionProjects:
		for _, project := range doc.Projects {
			entry := EntryView{
				Heading:    Sanitize(project.Name),
				Subheading: Sanitize(project.Role),
				Body:       Sanitize(project.Description),
			}
			if project.StartDate != "" {
				entry.Range = DateRange(project.StartDate, project.EndDate, project.IsCurrent)
			}
			if len(project.TechStack) > 0 {
				entry.Details = append(entry.Details, Sanitize("Tech Stack: "+strings.Join(project.TechStack, ", ")))
			}
			if project.LiveDemoLink != "" {
				entry.Links = append(entry.Links, LinkView{Label: "Live Demo", Href: project.LiveDemoLink})
			}
			if project.GithubLink != "" {
				entry.Links = append(entry.Links, LinkView{Label: "GitHub", Href: project.GithubLink})
			}
			view.Entries = append(view.Entries, entry)
		}
	case cv.SectionLanguages:
		for _, lang := range doc.Languages {
			view.Items = append(view.Items, Sanitize(lang.Language+": "+lang.Proficiency))
		}
	default:
		return view, false
	}

	empty := view.Paragraph == "" && len(view.Entries) == 0 && len(view.Groups) == 0 && len(view.Items) == 0
	return view, !empty
}

func engagementEntries(entries []cv.Engagement) []EntryView {
	var out []EntryView
	for _, e := range entries {
		out = append(out, EntryView{
			Heading:  Sanitize(e.JobTitle + " at " + e.Company),
			Location: Sanitize(e.Location),
			Range:    DateRange(e.StartDate, e.EndDate, e.IsCurrent),
			Body:     Sanitize(e.Description),
			Bullets:  sanitizeAll(e.Achievements),
		})
	}
	return out
}

func layoutClass(layout string) string {
	switch layout {
	case cv.LayoutBullet, cv.LayoutOneLine, cv.LayoutColumns2, cv.LayoutColumns3, cv.LayoutBadges:
		return layout
	default:
		return cv.LayoutOneLine
	}
}

var fontStacks = map[string]string{
	"inter":     `"Inter", "Helvetica Neue", Arial, sans-serif`,
	"roboto":    `"Roboto", Arial, sans-serif`,
	"open-sans": `"Open Sans", Arial, sans-serif`,
	"lato":      `"Lato", Arial, sans-serif`,
	"georgia":   `Georgia, "Times New Roman", serif`,
	"times":     `"Times New Roman", Times, serif`,
}

func fontStack(name string) template.CSS {
	if stack, ok := fontStacks[strings.ToLower(name)]; ok {
		return template.CSS(stack)
	}
	return template.CSS(fontStacks["inter"])
}
