package cv

import "math"

// Section identifies one of the top-level content groups of a CV.
type Section string

// Section identifiers
const (
	SectionPersonal       Section = "personal"
	SectionSummary        Section = "summary"
	SectionWork           Section = "work"
	SectionInternships    Section = "internships"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionCertifications Section = "certifications"
	SectionProjects       Section = "projects"
	SectionLanguages      Section = "languages"
)

var sectionTitles = map[Section]string{
	SectionPersonal:       "Personal Information",
	SectionSummary:        "Professional Summary",
	SectionWork:           "Work Experience",
	SectionInternships:    "Internships",
	SectionEducation:      "Education",
	SectionSkills:         "Skills",
	SectionCertifications: "Certifications",
	SectionProjects:       "Projects",
	SectionLanguages:      "Languages",
}

// CanonicalSectionOrder is the fallback order used when a document has no usable section order.
func CanonicalSectionOrder() []Section {
	return []Section{
		SectionPersonal,
		SectionSummary,
		SectionWork,
		SectionInternships,
		SectionEducation,
		SectionSkills,
		SectionCertifications,
		SectionProjects,
		SectionLanguages,
	}
}

// Title returns the display heading of s, or the raw id for unknown sections.
func (s Section) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return string(s)
}

// Known reports whether s is one of the recognized section ids.
func (s Section) Known() bool {
	_, ok := sectionTitles[s]
	return ok
}

func sectionIDs(sections []Section) []string {
	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = string(s)
	}
	return ids
}

// ResolveSectionOrder turns a stored section order into a complete ordering of known sections.
// Unknown and repeated ids are skipped; known ids missing from order are appended in canonical order.
func ResolveSectionOrder(order []string) []Section {
	seen := make(map[Section]bool, len(sectionTitles))
	resolved := make([]Section, 0, len(sectionTitles))
	for _, id := range order {
		s := Section(id)
		if !s.Known() || seen[s] {
			continue
		}
		seen[s] = true
		resolved = append(resolved, s)
	}
	for _, s := range CanonicalSectionOrder() {
		if !seen[s] {
			resolved = append(resolved, s)
		}
	}
	return resolved
}

// dedupeOrder drops repeated ids, keeping the first occurrence. Unknown ids are kept.
func dedupeOrder(order []string) []string {
	out := make([]string, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// progressSections are the eight sections counted by Progress. Internships are optional and not tracked.
var progressSections = []Section{
	SectionPersonal,
	SectionSummary,
	SectionWork,
	SectionEducation,
	SectionSkills,
	SectionCertifications,
	SectionProjects,
	SectionLanguages,
}

// SectionComplete reports whether a section has enough content to count as filled in.
func SectionComplete(d Document, s Section) bool {
	switch s {
	case SectionPersonal:
		return d.PersonalInfo.FullName != "" && d.PersonalInfo.Email != ""
	case SectionSummary:
		return d.Summary != ""
	case SectionWork:
		return len(d.WorkExperience) > 0
	case SectionInternships:
		return len(d.Internships) > 0
	case SectionEducation:
		return len(d.Education) > 0
	case SectionSkills:
		return len(d.Skills) > 0
	case SectionCertifications:
		return len(d.Certifications) > 0
	case SectionProjects:
		return len(d.Projects) > 0
	case SectionLanguages:
		return len(d.Languages) > 0
	default:
		return false
	}
}

// Progress returns the rounded percentage of tracked sections that are complete.
// It is derived from d on every call and never stored.
func Progress(d Document) int {
	completed := 0
	for _, s := range progressSections {
		if SectionComplete(d, s) {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(progressSections))))
}
