// Package cv provides the CV document model and the command-based state store that mutates it.
package cv

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// LinkType names one of the professional platforms a link can point to.
type LinkType string

// Known link platforms
const (
	LinkLinkedIn  LinkType = "LinkedIn"
	LinkGitHub    LinkType = "GitHub"
	LinkPortfolio LinkType = "Portfolio"
	LinkBehance   LinkType = "Behance"
	LinkDribbble  LinkType = "Dribbble"
	LinkMedium    LinkType = "Medium"
	LinkTwitter   LinkType = "Twitter"
)

// Skill display layouts
const (
	LayoutBullet    = "bullet"
	LayoutOneLine   = "one-line"
	LayoutColumns2  = "columns-2"
	LayoutColumns3  = "columns-3"
	LayoutBadges    = "badges"
	PresentMarker   = "Present"
	DefaultTemplate = "classic"
)

// Default customization colors
const (
	DefaultPrimaryColor   = "#F25C1C"
	DefaultSecondaryColor = "#F47A2E"
)

// Link is a professional profile link shown in the contact block.
type Link struct {
	Type      LinkType `json:"type" validate:"required,oneof=LinkedIn GitHub Portfolio Behance Dribbble Medium Twitter"`
	URL       string   `json:"url" validate:"required"`
	IconColor string   `json:"iconColor,omitempty"`
}

// PersonalInfo is the required header record of a CV.
type PersonalInfo struct {
	FullName       string `json:"fullName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	JobTitle       string `json:"jobTitle,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Location       string `json:"location,omitempty"`
	Links          []Link `json:"links" validate:"dive"`
	MaritalStatus  string `json:"maritalStatus,omitempty"`
	MilitaryStatus string `json:"militaryStatus,omitempty"`
}

// Engagement is a work experience or internship entry.
type Engagement struct {
	ID           string   `json:"id,omitempty"`
	JobTitle     string   `json:"jobTitle" validate:"required"`
	Company      string   `json:"company" validate:"required"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty" validate:"omitempty,month_date"`
	EndDate      string   `json:"endDate,omitempty" validate:"omitempty,present_or_date"`
	IsCurrent    bool     `json:"isCurrent,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements"`
}

// Education is a degree or course of study.
type Education struct {
	ID              string   `json:"id,omitempty"`
	Degree          string   `json:"degree" validate:"required"`
	Institution     string   `json:"institution" validate:"required"`
	Location        string   `json:"location,omitempty"`
	StartDate       string   `json:"startDate" validate:"required,month_date"`
	EndDate         string   `json:"endDate,omitempty" validate:"omitempty,present_or_date"`
	IsCurrent       bool     `json:"isCurrent,omitempty"`
	Description     string   `json:"description,omitempty"`
	GPA             string   `json:"gpa,omitempty"`
	RelevantCourses []string `json:"relevantCourses"`
}

// Proficiency rates a single skill inside a group.
type Proficiency struct {
	Skill      string `json:"skill" validate:"required"`
	Level      string `json:"level" validate:"required,oneof=Beginner Intermediate Expert"`
	Percentage *int   `json:"percentage" validate:"omitempty,min=0,max=100"`
}

// SkillGroup is a named list of skills rendered with one display layout.
type SkillGroup struct {
	ID            string        `json:"id,omitempty"`
	GroupName     string        `json:"groupName,omitempty"`
	Skills        []string      `json:"skills" validate:"required,min=1,dive,required"`
	DisplayLayout string        `json:"displayLayout" validate:"omitempty,oneof=bullet one-line columns-2 columns-3 badges"`
	Proficiency   []Proficiency `json:"proficiency" validate:"dive"`
}

// Certification is a credential issued by a third party.
type Certification struct {
	ID              string `json:"id,omitempty"`
	Title           string `json:"title" validate:"required"`
	Issuer          string `json:"issuer" validate:"required"`
	StartDate       string `json:"startDate" validate:"required,month_date"`
	EndDate         string `json:"endDate,omitempty" validate:"omitempty,present_or_date"`
	IsCurrent       bool   `json:"isCurrent,omitempty"`
	Description     string `json:"description,omitempty"`
	CertificateLink string `json:"certificateLink,omitempty"`
}

// Project is a personal or professional project.
type Project struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name" validate:"required"`
	Role         string   `json:"role,omitempty"`
	StartDate    string   `json:"startDate,omitempty" validate:"omitempty,month_date"`
	EndDate      string   `json:"endDate,omitempty" validate:"omitempty,present_or_date"`
	IsCurrent    bool     `json:"isCurrent,omitempty"`
	TechStack    []string `json:"techStack"`
	LiveDemoLink string   `json:"liveDemoLink,omitempty"`
	GithubLink   string   `json:"githubLink,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Language is a spoken language with a proficiency level.
type Language struct {
	ID          string `json:"id,omitempty"`
	Language    string `json:"language" validate:"required"`
	Proficiency string `json:"proficiency" validate:"required,oneof=Native Fluent Intermediate Basic"`
}

// Customization holds the cosmetic settings of a CV.
type Customization struct {
	PrimaryColor   string            `json:"primaryColor"`
	SecondaryColor string            `json:"secondaryColor,omitempty"`
	SectionOrder   []string          `json:"sectionOrder"`
	IconColors     map[string]string `json:"iconColors"`
	Template       string            `json:"template,omitempty"`
	IconStyle      string            `json:"iconStyle,omitempty"`
	Spacing        string            `json:"spacing,omitempty"`
	FontFamily     string            `json:"fontFamily,omitempty"`
	BorderStyle    string            `json:"borderStyle,omitempty"`
}

// Document is the root aggregate: one resume's full content and styling.
type Document struct {
	ID             string          `json:"id"`
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Summary        string          `json:"summary,omitempty"`
	WorkExperience []Engagement    `json:"workExperience" validate:"dive"`
	Internships    []Engagement    `json:"internships" validate:"dive"`
	Education      []Education     `json:"education" validate:"dive"`
	Skills         []SkillGroup    `json:"skills" validate:"dive"`
	Certifications []Certification `json:"certifications" validate:"dive"`
	Projects       []Project       `json:"projects" validate:"dive"`
	Languages      []Language      `json:"languages" validate:"dive"`
	Customization  Customization   `json:"customization"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// newID generates identifiers for documents and entries. Tests swap it for a deterministic source.
var newID = uuid.NewString

// New returns an empty document with a fresh id and both timestamps set to now.
func New(now time.Time) Document {
	now = now.UTC()
	return Document{
		ID:             newID(),
		PersonalInfo:   PersonalInfo{Links: []Link{}},
		WorkExperience: []Engagement{},
		Internships:    []Engagement{},
		Education:      []Education{},
		Skills:         []SkillGroup{},
		Certifications: []Certification{},
		Projects:       []Project{},
		Languages:      []Language{},
		Customization:  DefaultCustomization(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// DefaultCustomization returns the styling applied to a freshly created document.
func DefaultCustomization() Customization {
	return Customization{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		SectionOrder:   sectionIDs(CanonicalSectionOrder()),
		IconColors:     map[string]string{},
		Template:       DefaultTemplate,
		IconStyle:      "professional",
		Spacing:        "standard",
		FontFamily:     "inter",
		BorderStyle:    "subtle",
	}
}

// Clone returns a deep copy that shares no slices or maps with d.
func (d Document) Clone() Document {
	out := d
	out.PersonalInfo.Links = slices.Clone(d.PersonalInfo.Links)
	out.WorkExperience = cloneEntries[Engagement, *Engagement](d.WorkExperience)
	out.Internships = cloneEntries[Engagement, *Engagement](d.Internships)
	out.Education = cloneEntries[Education, *Education](d.Education)
	out.Skills = cloneEntries[SkillGroup, *SkillGroup](d.Skills)
	out.Certifications = cloneEntries[Certification, *Certification](d.Certifications)
	out.Projects = cloneEntries[Project, *Project](d.Projects)
	out.Languages = cloneEntries[Language, *Language](d.Languages)
	out.Customization.SectionOrder = slices.Clone(d.Customization.SectionOrder)
	out.Customization.IconColors = maps.Clone(d.Customization.IconColors)
	return out
}

// normalize fills in what a loaded document may be missing: an id and non-nil collections.
func normalize(d Document) Document {
	if d.ID == "" {
		d.ID = newID()
	}
	if d.PersonalInfo.Links == nil {
		d.PersonalInfo.Links = []Link{}
	}
	if d.WorkExperience == nil {
		d.WorkExperience = []Engagement{}
	}
	if d.Internships == nil {
		d.Internships = []Engagement{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []SkillGroup{}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Languages == nil {
		d.Languages = []Language{}
	}
	if d.Customization.IconColors == nil {
		d.Customization.IconColors = map[string]string{}
	}
	if d.UpdatedAt.Before(d.CreatedAt) {
		d.UpdatedAt = d.CreatedAt
	}
	return d
}

// Normalize prepares a document received from outside the store. Missing timestamps become now,
// a missing id or collection is filled in as on Load, and entries without ids get one.
func Normalize(d Document, now time.Time) Document {
	d = d.Clone()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now.UTC()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	d = normalize(d)
	d.WorkExperience = withIDs[Engagement, *Engagement](d.WorkExperience)
	d.Internships = withIDs[Engagement, *Engagement](d.Internships)
	d.Education = withIDs[Education, *Education](d.Education)
	d.Skills = withIDs[SkillGroup, *SkillGroup](d.Skills)
	d.Certifications = withIDs[Certification, *Certification](d.Certifications)
	d.Projects = withIDs[Project, *Project](d.Projects)
	d.Languages = withIDs[Language, *Language](d.Languages)
	return d
}
