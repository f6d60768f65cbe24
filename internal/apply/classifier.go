package apply

import (
	"fmt"
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// ClassifyForm scans the current page for answerable form controls and
// returns one descriptor per distinct question. Individual controls that
// cannot be inspected are logged and skipped so one broken widget never
// aborts the scan.
func ClassifyForm(page playwright.Page) []Descriptor {
	var controls []rawControl

	gather := func(selector string, build func(playwright.Locator) (rawControl, error)) {
		elements, err := page.Locator(selector).All()
		if err != nil {
			log.Printf("⚠️ Failed to enumerate %s elements: %v", selector, err)
			return
		}
		for i, el := range elements {
			c, err := build(el)
			if err != nil {
				log.Printf("⚠️ Skipping %s #%d: %v", selector, i, err)
				continue
			}
			controls = append(controls, c)
		}
	}

	gather("select", func(el playwright.Locator) (rawControl, error) {
		return gatherSelect(page, el)
	})
	gather(`input[type="text"], input[type="url"], input[type="email"], input[type="tel"], input:not([type])`, func(el playwright.Locator) (rawControl, error) {
		return gatherInput(page, el)
	})
	gather("textarea", func(el playwright.Locator) (rawControl, error) {
		return gatherBasic(page, el, "textarea")
	})

	descriptors := buildDescriptors(controls)
	log.Printf("🔍 Classified %d form controls into %d questions", len(controls), len(descriptors))
	for _, d := range descriptors {
		log.Printf("   [%s] %s", d.Kind, d.Label)
	}
	return descriptors
}

func gatherBasic(page playwright.Page, el playwright.Locator, tag string) (rawControl, error) {
	c := rawControl{Tag: tag}

	if id, err := el.GetAttribute("id"); err == nil {
		c.ID = id
	}
	if name, err := el.GetAttribute("name"); err == nil {
		c.Name = name
	}
	label, err := resolveLabel(page, el, c.ID)
	if err != nil {
		return c, fmt.Errorf("label lookup failed: %w", err)
	}
	c.Label = label
	return c, nil
}

func gatherSelect(page playwright.Page, el playwright.Locator) (rawControl, error) {
	c, err := gatherBasic(page, el, "select")
	if err != nil {
		return c, err
	}
	options, err := el.Locator("option").All()
	if err != nil {
		return c, fmt.Errorf("option lookup failed: %w", err)
	}
	for _, opt := range options {
		text, err := opt.InnerText()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		//skip the placeholder entry
		if text == "" || strings.EqualFold(text, "select...") || strings.HasPrefix(strings.ToLower(text), "please select") {
			continue
		}
		c.Options = append(c.Options, text)
	}
	return c, nil
}

func gatherInput(page playwright.Page, el playwright.Locator) (rawControl, error) {
	c, err := gatherBasic(page, el, "input")
	if err != nil {
		return c, err
	}
	if t, err := el.GetAttribute("type"); err == nil {
		c.Type = t
	}
	if ro, err := el.GetAttribute("readonly"); err == nil && ro != "" {
		c.ReadOnly = true
	}
	if ro, err := el.GetAttribute("aria-readonly"); err == nil && ro == "true" {
		c.ReadOnly = true
	}
	if role, err := el.GetAttribute("role"); err == nil {
		c.Role = role
	}
	if popup, err := el.GetAttribute("aria-haspopup"); err == nil && (popup == "true" || popup == "listbox") {
		c.HasPopup = true
	}
	cue, err := el.Evaluate(`el => {
		const cls = c => (c.className || '').toString().toLowerCase();
		const parent = el.parentElement;
		if (parent && (cls(parent).includes('select') || cls(parent).includes('dropdown'))) return true;
		for (const sib of parent ? parent.children : []) {
			if (sib === el) continue;
			const c = cls(sib);
			if (c.includes('arrow') || c.includes('caret') || c.includes('indicator')) return true;
		}
		return false;
	}`, nil)
	if err == nil {
		if b, ok := cue.(bool); ok {
			c.DropdownCue = b
		}
	}
	return c, nil
}

// resolveLabel finds the question text for a control: an explicit
// label[for=id] first, then the closest wrapping label element.
func resolveLabel(page playwright.Page, el playwright.Locator, id string) (string, error) {
	if id != "" {
		label := page.Locator(fmt.Sprintf(`label[for=%q]`, id)).First()
		count, err := label.Count()
		if err != nil {
			return "", err
		}
		if count > 0 {
			text, err := label.InnerText()
			if err != nil {
				return "", err
			}
			return cleanLabel(text), nil
		}
	}
	wrapped, err := el.Evaluate(`el => {
		const label = el.closest('label');
		return label ? label.innerText : '';
	}`, nil)
	if err != nil {
		return "", err
	}
	if text, ok := wrapped.(string); ok {
		return cleanLabel(text), nil
	}
	return "", nil
}

func cleanLabel(text string) string {
	text = strings.TrimSpace(text)
	//strip the required-field marker platforms append to label text
	text = strings.TrimSuffix(text, "*")
	text = strings.TrimSuffix(text, "✱")
	return strings.TrimSpace(text)
}
