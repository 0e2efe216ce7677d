// Package templates is the static catalog of ATS-friendly CV templates.
package templates

import (
	"errors"
	"time"

	"github.com/jonathan/cv-builder/internal/cv"
)

// ErrNotFound is returned for template ids outside the catalog.
var ErrNotFound = errors.New("template not found")

// Template describes one selectable CV template.
type Template struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	ATSOptimized bool     `json:"atsOptimized"`
	Features     []string `json:"features"`
}

// Preview pairs a template with sample content to render it with.
type Preview struct {
	TemplateID string      `json:"templateId"`
	SampleData cv.Document `json:"sampleData"`
}

var catalog = []Template{
	{
		ID:           "classic",
		Name:         "Classic",
		Description:  "Clean and traditional layout with professional formatting.",
		ThumbnailURL: "/templates/classic.png",
		ATSOptimized: true,
		Features:     []string{"Traditional layout", "ATS-friendly formatting", "Professional appearance"},
	},
	{
		ID:           "modern",
		Name:         "Modern",
		Description:  "Sleek design with emphasis on skills and achievements.",
		ThumbnailURL: "/templates/modern.png",
		ATSOptimized: true,
		Features:     []string{"Contemporary design", "Skills-focused layout", "Clean typography"},
	},
	{
		ID:           "minimal",
		Name:         "Minimal",
		Description:  "Simple and clean layout for maximum readability.",
		ThumbnailURL: "/templates/minimal.png",
		ATSOptimized: true,
		Features:     []string{"Minimal design", "Maximum readability", "ATS-optimized"},
	},
	{
		ID:           "professional",
		Name:         "Professional",
		Description:  "Corporate-style layout suitable for all industries.",
		ThumbnailURL: "/templates/professional.png",
		ATSOptimized: true,
		Features:     []string{"Corporate style", "Industry-agnostic", "Professional appearance"},
	},
	{
		ID:           "creative",
		Name:         "Creative",
		Description:  "Modern layout with subtle design elements for creative fields.",
		ThumbnailURL: "/templates/creative.png",
		ATSOptimized: true,
		Features:     []string{"Creative design", "Subtle styling", "ATS-compatible"},
	},
}

// All returns a copy of the catalog in display order.
func All() []Template {
	out := make([]Template, len(catalog))
	for i, t := range catalog {
		t.Features = append([]string(nil), t.Features...)
		out[i] = t
	}
	return out
}

// Get returns the template with the given id.
func Get(id string) (Template, error) {
	for _, t := range All() {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, ErrNotFound
}

// Known reports whether id names a catalog template.
func Known(id string) bool {
	_, err := Get(id)
	return err == nil
}

var sampleTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// GetPreview returns sample content styled with the template. The sample is built through the
// store's command path so it always has the shape a user-edited document has.
func GetPreview(id string) (*Preview, error) {
	if !Known(id) {
		return nil, ErrNotFound
	}

	store := cv.NewStore(cv.WithClock(func() time.Time { return sampleTime }))
	store.Dispatch(cv.UpdatePersonalInfo{Patch: cv.PersonalInfoPatch{
		FullName: ptr("John Doe"),
		JobTitle: ptr("Software Developer"),
		Email:    ptr("john.doe@email.com"),
		Phone:    ptr("+1 (555) 123-4567"),
		Location: ptr("San Francisco, CA"),
	}})
	store.Dispatch(cv.UpdateSummary{Text: "Experienced software developer with 5+ years in full-stack development..."})
	store.Dispatch(cv.AddEntry{Collection: cv.CollectionWorkExperience, Entry: cv.Engagement{
		JobTitle:    "Senior Developer",
		Company:     "Tech Corp",
		StartDate:   "01/2022",
		IsCurrent:   true,
		Description: "Led development of web applications...",
	}})
	store.Dispatch(cv.AddEntry{Collection: cv.CollectionSkills, Entry: cv.SkillGroup{
		GroupName: "Programming Languages",
		Skills:    []string{"JavaScript", "Python", "Java"},
	}})
	doc := store.Dispatch(cv.UpdateCustomization{Patch: cv.CustomizationPatch{Template: ptr(id)}})

	return &Preview{TemplateID: id, SampleData: doc}, nil
}

func ptr(s string) *string { return &s }
