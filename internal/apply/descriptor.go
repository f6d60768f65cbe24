package apply

import (
	"fmt"
	"strings"
)

// FieldKind is the semantic type of a detected form control. Each kind maps
// to one fill strategy.
type FieldKind uint8

const (
	KindText FieldKind = iota
	KindTextarea
	KindSelect
	KindFakeDropdown
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTextarea:
		return "textarea"
	case KindSelect:
		return "select"
	case KindFakeDropdown:
		return "fake_dropdown"
	default:
		return "unknown"
	}
}

// Descriptor is the normalized, in-memory representation of one detected form
// question. Descriptors are produced fresh per form load and hold no
// ownership over page elements beyond the locator string.
type Descriptor struct {
	Kind     FieldKind
	Label    string
	Selector string
	Options  []string
	StableID string
}

// rawControl is a snapshot of one form control's DOM facts, gathered by the
// playwright pass and consumed by the pure classification pass.
type rawControl struct {
	Tag         string // select | input | textarea
	Type        string // input type attribute
	ID          string
	Name        string
	Label       string
	Options     []string
	ReadOnly    bool
	Role        string
	HasPopup    bool
	DropdownCue bool // arrow/select-styled sibling or parent detected
}

// minLabelLen filters decorative or placeholder labels that carry no real
// question text.
const minLabelLen = 6

// standardFieldHints marks controls filled by the standard-field pass; they
// never become descriptors.
var standardFieldHints = []string{"first_name", "last_name", "email", "phone", "resume"}

func isStandardField(c rawControl) bool {
	id := strings.ToLower(c.ID)
	name := strings.ToLower(c.Name)
	for _, hint := range standardFieldHints {
		if strings.Contains(id, hint) || strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

func acceptLabel(label string) bool {
	return len(strings.TrimSpace(label)) >= minLabelLen
}

func (c rawControl) selector() string {
	if c.ID != "" {
		return "#" + c.ID
	}
	if c.Name != "" {
		return fmt.Sprintf(`[name=%q]`, c.Name)
	}
	return ""
}

func (c rawControl) stableID() string {
	if c.ID != "" {
		return c.ID
	}
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.Label)
}

// looksLikeFakeDropdown reports whether a text input is a JavaScript-simulated
// single-select: readonly, combobox-styled, or wrapped in dropdown chrome.
func looksLikeFakeDropdown(c rawControl) bool {
	return c.ReadOnly || c.Role == "combobox" || c.HasPopup || c.DropdownCue
}

// buildDescriptors turns gathered control snapshots into an ordered descriptor
// sequence. Native selects win first, then text inputs, then textareas. A
// label, once mapped to any descriptor, is never mapped again: platforms that
// render both a hidden native select and a decorative text-input proxy for
// the same question yield exactly one descriptor.
func buildDescriptors(controls []rawControl) []Descriptor {
	var descriptors []Descriptor
	seenLabels := make(map[string]bool)
	seenIDs := make(map[string]bool)

	emit := func(d Descriptor) {
		key := strings.ToLower(strings.TrimSpace(d.Label))
		if seenLabels[key] || seenIDs[d.StableID] {
			return
		}
		seenLabels[key] = true
		seenIDs[d.StableID] = true
		descriptors = append(descriptors, d)
	}

	//native selects carry the highest-confidence signal
	for _, c := range controls {
		if c.Tag != "select" {
			continue
		}
		if !acceptLabel(c.Label) || c.selector() == "" {
			continue
		}
		emit(Descriptor{
			Kind:     KindSelect,
			Label:    strings.TrimSpace(c.Label),
			Selector: c.selector(),
			Options:  c.Options,
			StableID: c.stableID(),
		})
	}

	//single-line inputs, minus standard contact fields
	for _, c := range controls {
		if c.Tag != "input" {
			continue
		}
		switch c.Type {
		case "text", "url", "email", "tel", "":
		default:
			continue
		}
		if isStandardField(c) {
			continue
		}
		if !acceptLabel(c.Label) || c.selector() == "" {
			continue
		}
		kind := KindText
		if looksLikeFakeDropdown(c) {
			//options render only on interaction; discovered lazily at fill time
			kind = KindFakeDropdown
		}
		emit(Descriptor{
			Kind:     kind,
			Label:    strings.TrimSpace(c.Label),
			Selector: c.selector(),
			StableID: c.stableID(),
		})
	}

	//textareas
	for _, c := range controls {
		if c.Tag != "textarea" {
			continue
		}
		if !acceptLabel(c.Label) || c.selector() == "" {
			continue
		}
		emit(Descriptor{
			Kind:     KindTextarea,
			Label:    strings.TrimSpace(c.Label),
			Selector: c.selector(),
			StableID: c.stableID(),
		})
	}

	return descriptors
}
