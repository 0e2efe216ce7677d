package cv

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Command names, also used as the "type" field of encoded commands.
const (
	CmdUpdatePersonalInfo  = "UPDATE_PERSONAL_INFO"
	CmdUpdateSummary       = "UPDATE_SUMMARY"
	CmdReplaceCollection   = "REPLACE_COLLECTION"
	CmdAddEntry            = "ADD_ENTRY"
	CmdUpdateEntry         = "UPDATE_ENTRY"
	CmdDeleteEntry         = "DELETE_ENTRY"
	CmdUpdateCustomization = "UPDATE_CUSTOMIZATION"
	CmdReorderSections     = "REORDER_SECTIONS"
	CmdLoad                = "LOAD_CV_DATA"
	CmdReset               = "RESET_CV_DATA"
)

// Command is one named transformation of a Document. The set understood by Reduce is closed;
// any other implementation is treated as unknown and leaves the document unchanged.
type Command interface {
	CommandName() string
}

// PersonalInfoPatch is a partial PersonalInfo; nil fields are left untouched.
type PersonalInfoPatch struct {
	FullName       *string `json:"fullName,omitempty"`
	Email          *string `json:"email,omitempty"`
	JobTitle       *string `json:"jobTitle,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Location       *string `json:"location,omitempty"`
	Links          *[]Link `json:"links,omitempty"`
	MaritalStatus  *string `json:"maritalStatus,omitempty"`
	MilitaryStatus *string `json:"militaryStatus,omitempty"`
}

// CustomizationPatch is a partial Customization; nil fields are left untouched.
type CustomizationPatch struct {
	PrimaryColor   *string           `json:"primaryColor,omitempty"`
	SecondaryColor *string           `json:"secondaryColor,omitempty"`
	SectionOrder   *[]string         `json:"sectionOrder,omitempty"`
	IconColors     map[string]string `json:"iconColors,omitempty"`
	Template       *string           `json:"template,omitempty"`
	IconStyle      *string           `json:"iconStyle,omitempty"`
	Spacing        *string           `json:"spacing,omitempty"`
	FontFamily     *string           `json:"fontFamily,omitempty"`
	BorderStyle    *string           `json:"borderStyle,omitempty"`
}

// UpdatePersonalInfo shallow-merges a patch into the personal info record.
type UpdatePersonalInfo struct {
	Patch PersonalInfoPatch
}

// UpdateSummary replaces the summary text.
type UpdateSummary struct {
	Text string
}

// ReplaceCollection swaps a whole collection. Items must be the slice type of that
// collection ([]Engagement for work experience and internships, []Education, and so on).
type ReplaceCollection struct {
	Collection Collection
	Items      any
}

// AddEntry appends one entry to a collection, assigning an id when it has none.
type AddEntry struct {
	Collection Collection
	Entry      any
}

// UpdateEntry changes the entry with the given id. A typed Entry replaces it; a json.RawMessage,
// as produced by DecodeCommand, is merged onto it field by field.
type UpdateEntry struct {
	Collection Collection
	ID         string
	Entry      any
}

// DeleteEntry removes the entry with the given id.
type DeleteEntry struct {
	Collection Collection
	ID         string
}

// UpdateCustomization shallow-merges a patch into the customization record.
type UpdateCustomization struct {
	Patch CustomizationPatch
}

// ReorderSections replaces the section order.
type ReorderSections struct {
	Order []string
}

// Load replaces the whole state, typically with a snapshot read from storage.
type Load struct {
	Document Document
}

// Reset replaces the state with a new empty document.
type Reset struct{}

// Unknown carries a command name the decoder did not recognize.
type Unknown struct {
	Name string
}

func (UpdatePersonalInfo) CommandName() string  { return CmdUpdatePersonalInfo }
func (UpdateSummary) CommandName() string       { return CmdUpdateSummary }
func (ReplaceCollection) CommandName() string   { return CmdReplaceCollection }
func (AddEntry) CommandName() string            { return CmdAddEntry }
func (UpdateEntry) CommandName() string         { return CmdUpdateEntry }
func (DeleteEntry) CommandName() string         { return CmdDeleteEntry }
func (UpdateCustomization) CommandName() string { return CmdUpdateCustomization }
func (ReorderSections) CommandName() string     { return CmdReorderSections }
func (Load) CommandName() string                { return CmdLoad }
func (Reset) CommandName() string               { return CmdReset }
func (u Unknown) CommandName() string           { return u.Name }

// envelope is the wire form of a command: {"type": "...", "payload": ...}.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type collectionPayload struct {
	Collection Collection      `json:"collection"`
	ID         string          `json:"id,omitempty"`
	Items      json.RawMessage `json:"items,omitempty"`
	Entry      json.RawMessage `json:"entry,omitempty"`
}

// DecodeCommand parses one encoded command. Unrecognized types decode to Unknown, which
// Reduce ignores; malformed payloads of recognized types are an error.
func DecodeCommand(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}

	switch env.Type {
	case CmdUpdatePersonalInfo:
		var patch PersonalInfoPatch
		if err := unmarshalPayload(env, &patch); err != nil {
			return nil, err
		}
		return UpdatePersonalInfo{Patch: patch}, nil
	case CmdUpdateSummary:
		var text string
		if err := unmarshalPayload(env, &text); err != nil {
			return nil, err
		}
		return UpdateSummary{Text: text}, nil
	case CmdUpdateCustomization:
		var patch CustomizationPatch
		if err := unmarshalPayload(env, &patch); err != nil {
			return nil, err
		}
		return UpdateCustomization{Patch: patch}, nil
	case CmdReorderSections:
		var order []string
		if err := unmarshalPayload(env, &order); err != nil {
			return nil, err
		}
		return ReorderSections{Order: order}, nil
	case CmdLoad:
		var doc Document
		if err := unmarshalPayload(env, &doc); err != nil {
			return nil, err
		}
		return Load{Document: doc}, nil
	case CmdReset:
		return Reset{}, nil
	case CmdReplaceCollection, CmdAddEntry, CmdUpdateEntry, CmdDeleteEntry:
		return decodeCollectionCommand(env)
	default:
		return Unknown{Name: env.Type}, nil
	}
}

func unmarshalPayload(env envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("command %s: missing payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("command %s: invalid payload: %w", env.Type, err)
	}
	return nil
}

func decodeCollectionCommand(env envelope) (Command, error) {
	var p collectionPayload
	if err := unmarshalPayload(env, &p); err != nil {
		return nil, err
	}

	var scratch Document
	ops, err := scratch.slotFor(p.Collection)
	if err != nil {
		return nil, fmt.Errorf("command %s: %w", env.Type, err)
	}

	switch env.Type {
	case CmdReplaceCollection:
		items, err := ops.decodeItems(orNull(p.Items))
		if err != nil {
			return nil, fmt.Errorf("command %s: invalid items: %w", env.Type, err)
		}
		return ReplaceCollection{Collection: p.Collection, Items: items}, nil
	case CmdAddEntry:
		entry, err := ops.decodeEntry(orNull(p.Entry))
		if err != nil {
			return nil, fmt.Errorf("command %s: invalid entry: %w", env.Type, err)
		}
		return AddEntry{Collection: p.Collection, Entry: entry}, nil
	case CmdUpdateEntry:
		if p.ID == "" {
			return nil, fmt.Errorf("command %s: missing id", env.Type)
		}
		raw := orNull(p.Entry)
		if _, err := ops.decodeEntry(raw); err != nil {
			return nil, fmt.Errorf("command %s: invalid entry: %w", env.Type, err)
		}
		return UpdateEntry{Collection: p.Collection, ID: p.ID, Entry: slices.Clone(raw)}, nil
	default:
		if p.ID == "" {
			return nil, fmt.Errorf("command %s: missing id", env.Type)
		}
		return DeleteEntry{Collection: p.Collection, ID: p.ID}, nil
	}
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
