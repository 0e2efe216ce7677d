package cv

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// sequentialIDs makes generated ids predictable for the duration of a test.
func sequentialIDs(t *testing.T) {
	t.Helper()
	prev := newID
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = prev })
}

func TestNew_EmptyDocument(t *testing.T) {
	doc := New(t0)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, t0, doc.CreatedAt)
	assert.Equal(t, t0, doc.UpdatedAt)
	assert.Empty(t, doc.WorkExperience)
	assert.NotNil(t, doc.WorkExperience)
	assert.Equal(t, DefaultPrimaryColor, doc.Customization.PrimaryColor)
	assert.Equal(t, DefaultTemplate, doc.Customization.Template)
	assert.Len(t, doc.Customization.SectionOrder, len(CanonicalSectionOrder()))
}

func TestReduce_UpdatePersonalInfoMerges(t *testing.T) {
	doc := New(t0)
	doc, _ = Reduce(doc, UpdatePersonalInfo{Patch: PersonalInfoPatch{
		FullName: strPtr("Jane Doe"),
		Email:    strPtr("jane@x.com"),
	}}, t0.Add(time.Second))

	doc, applied := Reduce(doc, UpdatePersonalInfo{Patch: PersonalInfoPatch{
		Phone: strPtr("+1 555 0100"),
	}}, t0.Add(2*time.Second))

	require.True(t, applied)
	assert.Equal(t, "Jane Doe", doc.PersonalInfo.FullName)
	assert.Equal(t, "jane@x.com", doc.PersonalInfo.Email)
	assert.Equal(t, "+1 555 0100", doc.PersonalInfo.Phone)
	assert.Equal(t, t0.Add(2*time.Second), doc.UpdatedAt)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	sequentialIDs(t)
	doc := New(t0)
	doc, _ = Reduce(doc, ReplaceCollection{
		Collection: CollectionWorkExperience,
		Items:      []Engagement{{JobTitle: "Engineer", Company: "Acme"}},
	}, t0)
	before := doc.Clone()

	_, _ = Reduce(doc, AddEntry{Collection: CollectionWorkExperience, Entry: Engagement{JobTitle: "Lead", Company: "Beta"}}, t0.Add(time.Minute))
	_, _ = Reduce(doc, UpdateSummary{Text: "changed"}, t0.Add(time.Minute))
	_, _ = Reduce(doc, ReorderSections{Order: []string{"skills"}}, t0.Add(time.Minute))

	assert.Equal(t, before, doc)
}

func TestReduce_ReplaceCollectionAssignsIDs(t *testing.T) {
	sequentialIDs(t)
	doc := New(t0)

	doc, applied := Reduce(doc, ReplaceCollection{
		Collection: CollectionLanguages,
		Items: []Language{
			{Language: "English", Proficiency: "Native"},
			{ID: "keep", Language: "German", Proficiency: "Basic"},
		},
	}, t0)

	require.True(t, applied)
	require.Len(t, doc.Languages, 2)
	assert.Equal(t, "id-2", doc.Languages[0].ID)
	assert.Equal(t, "keep", doc.Languages[1].ID)
}

func TestReduce_ReplaceCollectionWrongItemTypeIsRejected(t *testing.T) {
	doc := New(t0)

	next, applied := Reduce(doc, ReplaceCollection{
		Collection: CollectionEducation,
		Items:      []Language{{Language: "English", Proficiency: "Native"}},
	}, t0.Add(time.Hour))

	assert.False(t, applied)
	assert.Equal(t, doc, next)
}

func TestReduce_EntryLifecycle(t *testing.T) {
	sequentialIDs(t)
	doc := New(t0)

	doc, _ = Reduce(doc, AddEntry{Collection: CollectionProjects, Entry: Project{Name: "cvbuilder"}}, t0)
	require.Len(t, doc.Projects, 1)
	id := doc.Projects[0].ID
	require.NotEmpty(t, id)

	doc, applied := Reduce(doc, UpdateEntry{Collection: CollectionProjects, ID: id, Entry: Project{Name: "cv-builder", Role: "Author"}}, t0)
	require.True(t, applied)
	assert.Equal(t, "cv-builder", doc.Projects[0].Name)
	assert.Equal(t, id, doc.Projects[0].ID)

	doc, _ = Reduce(doc, DeleteEntry{Collection: CollectionProjects, ID: "missing"}, t0)
	assert.Len(t, doc.Projects, 1)

	doc, _ = Reduce(doc, ReplaceCollection{
		Collection: CollectionWorkExperience,
		Items:      []Engagement{{ID: "w1", JobTitle: "Engineer", Company: "Acme", StartDate: "01/2020"}},
	}, t0)
	cmd, err := DecodeCommand([]byte(`{"type":"UPDATE_ENTRY","payload":{"collection":"workExperience","id":"w1","entry":{"description":"Built X"}}}`))
	require.NoError(t, err)
	doc, applied = Reduce(doc, cmd, t0)
	require.True(t, applied)
	require.Len(t, doc.WorkExperience, 1)
	assert.Equal(t, Engagement{ID: "w1", JobTitle: "Engineer", Company: "Acme", StartDate: "01/2020", Description: "Built X"}, doc.WorkExperience[0])

	doc, _ = Reduce(doc, DeleteEntry{Collection: CollectionProjects, ID: id}, t0)
	assert.Empty(t, doc.Projects)
}

func TestReduce_UpdateEntryPatchReplacesListFields(t *testing.T) {
	doc := New(t0)
	doc, _ = Reduce(doc, ReplaceCollection{
		Collection: CollectionWorkExperience,
		Items:      []Engagement{{ID: "w1", JobTitle: "Engineer", Company: "Acme", Achievements: []string{"a", "b", "c"}}},
	}, t0)
	before := doc.Clone()

	cmd, err := DecodeCommand([]byte(`{"type":"UPDATE_ENTRY","payload":{"collection":"workExperience","id":"w1","entry":{"achievements":["z"],"jobTitle":"Lead"}}}`))
	require.NoError(t, err)
	next, applied := Reduce(doc, cmd, t0.Add(time.Minute))

	require.True(t, applied)
	assert.Equal(t, []string{"z"}, next.WorkExperience[0].Achievements)
	assert.Equal(t, "Lead", next.WorkExperience[0].JobTitle)
	assert.Equal(t, "Acme", next.WorkExperience[0].Company)
	assert.Equal(t, before, doc)
}

func TestReduce_UpdateEntryPatchForMissingIDIsNoop(t *testing.T) {
	doc := New(t0)
	cmd, err := DecodeCommand([]byte(`{"type":"UPDATE_ENTRY","payload":{"collection":"projects","id":"nope","entry":{"name":"x"}}}`))
	require.NoError(t, err)

	next, applied := Reduce(doc, cmd, t0)

	assert.True(t, applied)
	assert.Empty(t, next.Projects)
}

func TestReduce_EntriesDoNotSharePayloadSlices(t *testing.T) {
	pct := 80
	items := []SkillGroup{{ID: "s1", GroupName: "Languages", Skills: []string{"Go"}, Proficiency: []Proficiency{{Skill: "Go", Level: "Expert", Percentage: &pct}}}}
	project := Project{ID: "p1", Name: "cv", TechStack: []string{"Go"}}

	doc := New(t0)
	doc, _ = Reduce(doc, ReplaceCollection{Collection: CollectionSkills, Items: items}, t0)
	doc, _ = Reduce(doc, AddEntry{Collection: CollectionProjects, Entry: project}, t0)
	doc, _ = Reduce(doc, UpdateEntry{Collection: CollectionSkills, ID: "s1", Entry: items[0]}, t0)

	items[0].Skills[0] = "Rust"
	*items[0].Proficiency[0].Percentage = 5
	project.TechStack[0] = "Rust"

	assert.Equal(t, []string{"Go"}, doc.Skills[0].Skills)
	assert.Equal(t, 80, *doc.Skills[0].Proficiency[0].Percentage)
	assert.Equal(t, []string{"Go"}, doc.Projects[0].TechStack)
}

func TestNormalize_DoesNotShareInputSlices(t *testing.T) {
	in := New(t0)
	in.Education = []Education{{Institution: "MIT", Degree: "BSc", RelevantCourses: []string{"Algorithms"}}}

	out := Normalize(in, t0)
	in.Education[0].RelevantCourses[0] = "Cooking"

	assert.Equal(t, []string{"Algorithms"}, out.Education[0].RelevantCourses)
	assert.NotEmpty(t, out.Education[0].ID)
}

func TestReduce_UnknownCommandIsNoop(t *testing.T) {
	doc := New(t0)

	next, applied := Reduce(doc, Unknown{Name: "SHUFFLE_EVERYTHING"}, t0.Add(time.Hour))

	assert.False(t, applied)
	assert.Equal(t, doc, next)
}

func TestReduce_UnknownCollectionIsNoop(t *testing.T) {
	doc := New(t0)

	next, applied := Reduce(doc, ReplaceCollection{Collection: "hobbies", Items: []string{"chess"}}, t0.Add(time.Hour))

	assert.False(t, applied)
	assert.Equal(t, doc, next)
}

func TestReduce_UpdatedAtNeverMovesBackwards(t *testing.T) {
	doc := New(t0)
	times := []time.Time{
		t0.Add(time.Minute),
		t0.Add(30 * time.Second), // clock stepped back
		t0.Add(-time.Hour),       // before creation
		t0.Add(2 * time.Minute),
	}
	commands := []Command{
		UpdateSummary{Text: "a"},
		UpdatePersonalInfo{Patch: PersonalInfoPatch{FullName: strPtr("Jane")}},
		ReorderSections{Order: []string{"summary", "personal"}},
		UpdateCustomization{Patch: CustomizationPatch{PrimaryColor: strPtr("#000000")}},
	}

	prev := doc.UpdatedAt
	for i, cmd := range commands {
		doc, _ = Reduce(doc, cmd, times[i])
		assert.False(t, doc.UpdatedAt.Before(prev), "step %d moved updatedAt backwards", i)
		assert.False(t, doc.UpdatedAt.Before(doc.CreatedAt), "step %d put updatedAt before createdAt", i)
		prev = doc.UpdatedAt
	}
}

func TestReduce_ResetChangesID(t *testing.T) {
	doc := New(t0)
	doc, _ = Reduce(doc, UpdateSummary{Text: "something"}, t0)

	reset, applied := Reduce(doc, Reset{}, t0.Add(time.Minute))

	require.True(t, applied)
	assert.NotEqual(t, doc.ID, reset.ID)
	assert.Empty(t, reset.Summary)
	assert.Equal(t, 0, Progress(reset))
}

func TestReduce_LoadReplacesState(t *testing.T) {
	loaded := New(t0.Add(-24 * time.Hour))
	loaded.Summary = "from disk"

	doc, applied := Reduce(New(t0), Load{Document: loaded}, t0)

	require.True(t, applied)
	assert.Equal(t, loaded, doc)
}

func TestReduce_LoadFillsMissingFields(t *testing.T) {
	doc, _ := Reduce(New(t0), Load{Document: Document{Summary: "partial"}}, t0)

	assert.NotEmpty(t, doc.ID)
	assert.NotNil(t, doc.Skills)
	assert.NotNil(t, doc.Customization.IconColors)
}

func TestReduce_ReorderSectionsIdempotent(t *testing.T) {
	doc := New(t0)
	order := []string{"skills", "work", "personal"}

	once, _ := Reduce(doc, ReorderSections{Order: order}, t0.Add(time.Minute))
	twice, _ := Reduce(once, ReorderSections{Order: order}, t0.Add(time.Minute))

	assert.Equal(t, once.Customization.SectionOrder, twice.Customization.SectionOrder)
	assert.Equal(t, once, twice)
}

func TestReduce_ReorderSectionsUnknownIDs(t *testing.T) {
	doc := New(t0)

	doc, applied := Reduce(doc, ReorderSections{Order: []string{"hobbies", "skills", "skills", "work"}}, t0)

	require.True(t, applied)
	assert.Equal(t, []string{"hobbies", "skills", "work"}, doc.Customization.SectionOrder)

	resolved := ResolveSectionOrder(doc.Customization.SectionOrder)
	assert.Equal(t, SectionSkills, resolved[0])
	assert.Equal(t, SectionWork, resolved[1])
	assert.Len(t, resolved, len(CanonicalSectionOrder()))
}

func TestReduce_UpdateCustomizationReplacesIconColors(t *testing.T) {
	doc := New(t0)
	doc, _ = Reduce(doc, UpdateCustomization{Patch: CustomizationPatch{IconColors: map[string]string{"email": "#111111"}}}, t0)
	doc, _ = Reduce(doc, UpdateCustomization{Patch: CustomizationPatch{IconColors: map[string]string{"phone": "#222222"}}}, t0)

	assert.Equal(t, map[string]string{"phone": "#222222"}, doc.Customization.IconColors)
	assert.Equal(t, DefaultPrimaryColor, doc.Customization.PrimaryColor)
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	pct := 80
	doc := New(t0)
	doc.PersonalInfo = PersonalInfo{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Links:    []Link{{Type: LinkGitHub, URL: "https://github.com/jane", IconColor: "#333333"}},
	}
	doc.Summary = "Builds things."
	doc.WorkExperience = []Engagement{{ID: "w1", JobTitle: "Engineer", Company: "Acme", StartDate: "01/2020", Achievements: []string{}}}
	doc.Education = []Education{{ID: "e1", Degree: "BSc", Institution: "Uni", StartDate: "09/2014", RelevantCourses: nil}}
	doc.Skills = []SkillGroup{{ID: "s1", Skills: []string{"Go"}, DisplayLayout: LayoutBadges, Proficiency: []Proficiency{{Skill: "Go", Level: "Expert", Percentage: &pct}}}}
	doc.Projects = []Project{{ID: "p1", Name: "cv", TechStack: []string{}}}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var parsed Document
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, doc, parsed)

	empty := New(t0)
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	var parsedEmpty Document
	require.NoError(t, json.Unmarshal(data, &parsedEmpty))
	assert.Equal(t, empty, parsedEmpty)
}

func TestNormalize_StampsTimestamps(t *testing.T) {
	doc := Normalize(Document{Summary: "from the api"}, t0)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, t0, doc.CreatedAt)
	assert.Equal(t, t0, doc.UpdatedAt)
	assert.NotNil(t, doc.Languages)

	withEntries := Normalize(Document{Languages: []Language{{Language: "English"}, {ID: "keep", Language: "German"}}}, t0)
	assert.NotEmpty(t, withEntries.Languages[0].ID)
	assert.Equal(t, "keep", withEntries.Languages[1].ID)

	earlier := t0.Add(-time.Hour)
	kept := Normalize(Document{ID: "x", CreatedAt: earlier}, t0)
	assert.Equal(t, "x", kept.ID)
	assert.Equal(t, earlier, kept.CreatedAt)
	assert.Equal(t, earlier, kept.UpdatedAt)
}
