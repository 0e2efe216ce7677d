package cv

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Collection names one of the repeatable sections of a document, using its JSON field name.
type Collection string

// Collection names
const (
	CollectionWorkExperience Collection = "workExperience"
	CollectionInternships    Collection = "internships"
	CollectionEducation      Collection = "education"
	CollectionSkills         Collection = "skills"
	CollectionCertifications Collection = "certifications"
	CollectionProjects       Collection = "projects"
	CollectionLanguages      Collection = "languages"
)

// Collections lists every collection in document order.
func Collections() []Collection {
	return []Collection{
		CollectionWorkExperience,
		CollectionInternships,
		CollectionEducation,
		CollectionSkills,
		CollectionCertifications,
		CollectionProjects,
		CollectionLanguages,
	}
}

type identified interface {
	entryID() string
	setEntryID(id string)
	// detach gives the entry its own copies of any nested slices.
	detach()
}

func (e *Engagement) entryID() string      { return e.ID }
func (e *Engagement) setEntryID(id string) { e.ID = id }

func (e *Education) entryID() string      { return e.ID }
func (e *Education) setEntryID(id string) { e.ID = id }

func (g *SkillGroup) entryID() string      { return g.ID }
func (g *SkillGroup) setEntryID(id string) { g.ID = id }

func (c *Certification) entryID() string      { return c.ID }
func (c *Certification) setEntryID(id string) { c.ID = id }

func (p *Project) entryID() string      { return p.ID }
func (p *Project) setEntryID(id string) { p.ID = id }

func (l *Language) entryID() string      { return l.ID }
func (l *Language) setEntryID(id string) { l.ID = id }

func (e *Engagement) detach() { e.Achievements = slices.Clone(e.Achievements) }

func (e *Education) detach() { e.RelevantCourses = slices.Clone(e.RelevantCourses) }

func (p *Project) detach() { p.TechStack = slices.Clone(p.TechStack) }

func (c *Certification) detach() {}

func (l *Language) detach() {}

func (g *SkillGroup) detach() {
	g.Skills = slices.Clone(g.Skills)
	if g.Proficiency == nil {
		return
	}
	profs := make([]Proficiency, len(g.Proficiency))
	for i, p := range g.Proficiency {
		if p.Percentage != nil {
			pct := *p.Percentage
			p.Percentage = &pct
		}
		profs[i] = p
	}
	g.Proficiency = profs
}

// cloneEntries deep-copies in, keeping nil as nil.
func cloneEntries[T any, P interface {
	*T
	identified
}](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	for i := range out {
		P(&out[i]).detach()
	}
	return out
}

// slotOps is the type-erased view of one collection field used by the reducer.
// Every operation builds a new slice; the previous backing array is never written to.
type slotOps interface {
	replace(items any) bool
	add(entry any) bool
	update(id string, entry any) bool
	remove(id string) bool
	decodeItems(raw json.RawMessage) (any, error)
	decodeEntry(raw json.RawMessage) (any, error)
}

type slot[T any, P interface {
	*T
	identified
}] struct {
	items *[]T
}

func withIDs[T any, P interface {
	*T
	identified
}](in []T) []T {
	out := cloneEntries[T, P](in)
	if out == nil {
		out = []T{}
	}
	for i := range out {
		if p := P(&out[i]); p.entryID() == "" {
			p.setEntryID(newID())
		}
	}
	return out
}

func (s slot[T, P]) replace(items any) bool {
	typed, ok := items.([]T)
	if !ok {
		return false
	}
	*s.items = withIDs[T, P](typed)
	return true
}

func (s slot[T, P]) add(entry any) bool {
	typed, ok := entry.(T)
	if !ok {
		return false
	}
	p := P(&typed)
	p.detach()
	if p.entryID() == "" {
		p.setEntryID(newID())
	}
	*s.items = append(slices.Clip(*s.items), typed)
	return true
}

// update swaps in entry when it is a T. A json.RawMessage is merged onto the current entry
// instead, so fields absent from the patch keep their values.
func (s slot[T, P]) update(id string, entry any) bool {
	idx := slices.IndexFunc(*s.items, func(item T) bool { return P(&item).entryID() == id })

	var typed T
	switch e := entry.(type) {
	case T:
		typed = e
		P(&typed).detach()
	case json.RawMessage:
		if idx < 0 {
			return true
		}
		typed = (*s.items)[idx]
		P(&typed).detach()
		if err := json.Unmarshal(e, &typed); err != nil {
			return false
		}
	default:
		return false
	}
	if idx < 0 {
		return true
	}
	P(&typed).setEntryID(id)
	next := slices.Clone(*s.items)
	next[idx] = typed
	*s.items = next
	return true
}

func (s slot[T, P]) remove(id string) bool {
	*s.items = slices.DeleteFunc(slices.Clone(*s.items), func(item T) bool { return P(&item).entryID() == id })
	return true
}

func (s slot[T, P]) decodeItems(raw json.RawMessage) (any, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s slot[T, P]) decodeEntry(raw json.RawMessage) (any, error) {
	var entry T
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// slotFor binds a collection name to the matching field of d.
func (d *Document) slotFor(c Collection) (slotOps, error) {
	switch c {
	case CollectionWorkExperience:
		return slot[Engagement, *Engagement]{&d.WorkExperience}, nil
	case CollectionInternships:
		return slot[Engagement, *Engagement]{&d.Internships}, nil
	case CollectionEducation:
		return slot[Education, *Education]{&d.Education}, nil
	case CollectionSkills:
		return slot[SkillGroup, *SkillGroup]{&d.Skills}, nil
	case CollectionCertifications:
		return slot[Certification, *Certification]{&d.Certifications}, nil
	case CollectionProjects:
		return slot[Project, *Project]{&d.Projects}, nil
	case CollectionLanguages:
		return slot[Language, *Language]{&d.Languages}, nil
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}
}

// Len returns the number of entries in collection c.
func (d Document) Len(c Collection) int {
	switch c {
	case CollectionWorkExperience:
		return len(d.WorkExperience)
	case CollectionInternships:
		return len(d.Internships)
	case CollectionEducation:
		return len(d.Education)
	case CollectionSkills:
		return len(d.Skills)
	case CollectionCertifications:
		return len(d.Certifications)
	case CollectionProjects:
		return len(d.Projects)
	case CollectionLanguages:
		return len(d.Languages)
	default:
		return 0
	}
}
