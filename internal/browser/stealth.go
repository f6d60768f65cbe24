package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay waits for a random duration between min and max milliseconds
func RandomDelay(min, max int) {
	duration := rand.Intn(max-min+1) + min
	time.Sleep(time.Duration(duration) * time.Millisecond)
}

// Settle pauses for a fixed duration to let asynchronous client-side
// rendering finish before the next interaction.
func Settle(d time.Duration) {
	time.Sleep(d)
}

// ScrollIntoView scrolls the page so the locator is visible, ignoring errors
// on detached elements.
func ScrollIntoView(loc playwright.Locator) {
	_ = loc.ScrollIntoViewIfNeeded()
}
