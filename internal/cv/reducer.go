package cv

import "time"

// Reduce applies cmd to doc and returns the resulting document. doc itself is never modified.
// The boolean reports whether the command was applied; unknown commands and payloads of the
// wrong shape return doc unchanged with false.
//
// Every applied mutating command sets UpdatedAt to now, clamped so that it never moves backwards.
func Reduce(doc Document, cmd Command, now time.Time) (Document, bool) {
	next := doc
	now = now.UTC()

	switch c := cmd.(type) {
	case UpdatePersonalInfo:
		next.PersonalInfo = mergePersonalInfo(doc.PersonalInfo, c.Patch)
	case UpdateSummary:
		next.Summary = c.Text
	case ReplaceCollection:
		ops, err := next.slotFor(c.Collection)
		if err != nil || !ops.replace(c.Items) {
			return doc, false
		}
	case AddEntry:
		ops, err := next.slotFor(c.Collection)
		if err != nil || !ops.add(c.Entry) {
			return doc, false
		}
	case UpdateEntry:
		ops, err := next.slotFor(c.Collection)
		if err != nil || !ops.update(c.ID, c.Entry) {
			return doc, false
		}
	case DeleteEntry:
		ops, err := next.slotFor(c.Collection)
		if err != nil || !ops.remove(c.ID) {
			return doc, false
		}
	case UpdateCustomization:
		next.Customization = mergeCustomization(doc.Customization, c.Patch)
	case ReorderSections:
		next.Customization.SectionOrder = dedupeOrder(c.Order)
	case Load:
		return normalize(c.Document.Clone()), true
	case Reset:
		return New(now), true
	default:
		return doc, false
	}

	next.UpdatedAt = touch(doc, now)
	return next, true
}

func touch(doc Document, now time.Time) time.Time {
	switch {
	case now.Before(doc.UpdatedAt):
		return doc.UpdatedAt
	case now.Before(doc.CreatedAt):
		return doc.CreatedAt
	default:
		return now
	}
}

func mergePersonalInfo(p PersonalInfo, patch PersonalInfoPatch) PersonalInfo {
	setString(&p.FullName, patch.FullName)
	setString(&p.Email, patch.Email)
	setString(&p.JobTitle, patch.JobTitle)
	setString(&p.Phone, patch.Phone)
	setString(&p.Location, patch.Location)
	setString(&p.MaritalStatus, patch.MaritalStatus)
	setString(&p.MilitaryStatus, patch.MilitaryStatus)
	if patch.Links != nil {
		links := make([]Link, len(*patch.Links))
		copy(links, *patch.Links)
		p.Links = links
	}
	return p
}

func mergeCustomization(c Customization, patch CustomizationPatch) Customization {
	setString(&c.PrimaryColor, patch.PrimaryColor)
	setString(&c.SecondaryColor, patch.SecondaryColor)
	setString(&c.Template, patch.Template)
	setString(&c.IconStyle, patch.IconStyle)
	setString(&c.Spacing, patch.Spacing)
	setString(&c.FontFamily, patch.FontFamily)
	setString(&c.BorderStyle, patch.BorderStyle)
	if patch.SectionOrder != nil {
		c.SectionOrder = dedupeOrder(*patch.SectionOrder)
	}
	if patch.IconColors != nil {
		colors := make(map[string]string, len(patch.IconColors))
		for k, v := range patch.IconColors {
			colors[k] = v
		}
		c.IconColors = colors
	}
	return c
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
