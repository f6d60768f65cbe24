package apply

import (
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-apply-agent/internal/browser"
)

// DropdownDriver drives JavaScript-simulated single-selects: text inputs
// whose option list only exists in the DOM after an open interaction.
type DropdownDriver struct {
	Settle time.Duration
}

func NewDropdownDriver(settle time.Duration) *DropdownDriver {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &DropdownDriver{Settle: settle}
}

// searchableHints marks fields whose widgets filter options as the user
// types, so typing the answer is faster than scrolling a huge list.
var searchableHints = []string{"school", "university", "college", "degree", "discipline", "location"}

func isSearchable(desc Descriptor) bool {
	key := strings.ToLower(desc.StableID + " " + desc.Label)
	for _, hint := range searchableHints {
		if strings.Contains(key, hint) {
			return true
		}
	}
	return false
}

// Select opens the simulated dropdown behind desc and picks the option
// matching answer. It reports success; every failure mode is logged and
// recoverable so the caller can move on to the next field.
func (d *DropdownDriver) Select(page playwright.Page, desc Descriptor, answer string) bool {
	field := page.Locator(desc.Selector).First()
	count, err := field.Count()
	if err != nil || count == 0 {
		log.Printf("⚠️ Dropdown field not found: %s", desc.Selector)
		return false
	}

	browser.ScrollIntoView(field)

	if isSearchable(desc) && d.selectByTyping(page, field, answer) {
		d.writeBack(field, answer)
		return true
	}

	if !d.open(page, field) {
		log.Printf("⚠️ Could not open dropdown for %q", desc.Label)
		return false
	}
	browser.Settle(d.Settle)

	menu := d.findMenu(page, field)
	if menu == nil {
		log.Printf("⚠️ No option menu appeared for %q", desc.Label)
		return false
	}

	if d.clickExact(menu, answer) || d.clickFuzzy(menu, answer) {
		browser.Settle(d.Settle / 2)
		d.writeBack(field, answer)
		return true
	}

	d.logOptions(menu, desc.Label)
	return false
}

// selectByTyping types the answer into a filter-as-you-type widget and
// clicks the first surviving option.
func (d *DropdownDriver) selectByTyping(page playwright.Page, field playwright.Locator, answer string) bool {
	if err := field.Fill(answer); err != nil {
		return false
	}
	browser.Settle(d.Settle)

	option := page.Locator(`[role="option"]`).First()
	visible, err := option.IsVisible()
	if err != nil || !visible {
		return false
	}
	return option.Click() == nil
}

// open clicks whatever makes the option list render. Widgets differ in which
// element reacts, so strategies run in order until one sticks.
func (d *DropdownDriver) open(page playwright.Page, field playwright.Locator) bool {
	target := field
	container := field.Locator(`xpath=ancestor::*[contains(@class,"select") or contains(@class,"dropdown") or contains(@class,"combobox") or contains(@class,"control")][1]`)
	if count, err := container.Count(); err == nil && count > 0 {
		cls, _ := container.GetAttribute("class")
		low := strings.ToLower(cls)
		if !strings.Contains(low, "placeholder") && !strings.Contains(low, "input") {
			target = container
		}
	}

	strategies := []func() error{
		func() error {
			return target.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(2000)})
		},
		func() error {
			_, err := target.Evaluate("el => el.click()", nil)
			return err
		},
		func() error {
			_, err := field.Evaluate("el => el.click()", nil)
			return err
		},
	}
	for _, attempt := range strategies {
		if attempt() == nil {
			return true
		}
	}
	return false
}

// findMenu locates the rendered option list: the element named by
// aria-controls first, then any visible listbox on the page.
func (d *DropdownDriver) findMenu(page playwright.Page, field playwright.Locator) playwright.Locator {
	if controls, err := field.GetAttribute("aria-controls"); err == nil && controls != "" {
		menu := page.Locator("#" + controls)
		if count, err := menu.Count(); err == nil && count > 0 {
			return menu
		}
	}

	candidates, err := page.Locator(`[role="listbox"], .select__menu-list`).All()
	if err != nil {
		return nil
	}
	for _, menu := range candidates {
		if visible, err := menu.IsVisible(); err == nil && visible {
			return menu
		}
	}
	return nil
}

func (d *DropdownDriver) clickExact(menu playwright.Locator, answer string) bool {
	candidates := []playwright.Locator{
		menu.Locator(`[role="option"]`, playwright.LocatorLocatorOptions{
			HasText: answer,
		}).First(),
		menu.GetByText(answer, playwright.LocatorGetByTextOptions{Exact: playwright.Bool(true)}).First(),
		menu.GetByText(answer).First(),
	}
	for _, option := range candidates {
		if visible, err := option.IsVisible(); err != nil || !visible {
			continue
		}
		if option.Click() == nil {
			return true
		}
	}
	return false
}

func (d *DropdownDriver) clickFuzzy(menu playwright.Locator, answer string) bool {
	options, err := menu.Locator(`[role="option"], li`).All()
	if err != nil {
		return false
	}
	for _, option := range options {
		text, err := option.InnerText()
		if err != nil {
			continue
		}
		if optionMatches(answer, text) {
			if option.Click() == nil {
				log.Printf("✅ Fuzzy-matched dropdown option %q for answer %q", strings.TrimSpace(text), answer)
				return true
			}
		}
	}
	return false
}

// writeBack syncs the input's value and fires the events framework state
// listens for; without them the visual selection never reaches form state.
func (d *DropdownDriver) writeBack(field playwright.Locator, answer string) {
	_, err := field.Evaluate(`(el, value) => {
		el.value = value;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		el.dispatchEvent(new Event('blur', { bubbles: true }));
	}`, answer)
	if err != nil {
		log.Printf("⚠️ Value write-back failed: %v", err)
	}
}

func (d *DropdownDriver) logOptions(menu playwright.Locator, label string) {
	options, err := menu.Locator(`[role="option"], li`).All()
	if err != nil {
		log.Printf("❌ No matching option for %q and option texts unreadable: %v", label, err)
		return
	}
	var texts []string
	for _, option := range options {
		if text, err := option.InnerText(); err == nil {
			texts = append(texts, strings.TrimSpace(text))
		}
	}
	log.Printf("❌ No matching option for %q; menu offered: %s", label, strings.Join(texts, " | "))
}

// normalizeOption lowers, strips diacritics, and folds hyphens, underscores
// and runs of whitespace to single spaces so cosmetic differences between an
// answer and an option text never block a match.
func normalizeOption(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// optionMatches reports whether an option text is close enough to the
// desired answer: containment either way, or enough shared words. The word
// threshold scales with answer length but never demands more than three, so
// "United States" still matches "United States of America" while single
// stray words do not cascade into wrong picks.
func optionMatches(answer, option string) bool {
	a := normalizeOption(answer)
	o := normalizeOption(option)
	if a == "" || o == "" {
		return false
	}
	if strings.Contains(o, a) || strings.Contains(a, o) {
		return true
	}

	words := strings.Fields(a)
	need := len(words) - 1
	if need > 3 {
		need = 3
	}
	if need < 1 {
		need = 1
	}

	optionWords := make(map[string]bool)
	for _, w := range strings.Fields(o) {
		optionWords[w] = true
	}
	shared := 0
	for _, w := range words {
		if optionWords[w] {
			shared++
			if shared >= need {
				return true
			}
		}
	}
	return false
}
