// Package notify delivers end-of-run summaries over the channels the
// operator configured. Channels are independent: a failing one never blocks
// the others.
package notify

import "log"

// AttemptSummary is the notification view of one application attempt.
type AttemptSummary struct {
	JobTitle string
	Company  string
	URL      string
	Outcome  string
	Message  string
}

// RunSummary aggregates one full pipeline run.
type RunSummary struct {
	Scraped   int
	Matched   int
	Attempts  []AttemptSummary
	Submitted int
}

// Notifier is one delivery channel.
type Notifier interface {
	Notify(summary RunSummary) error
}

// Broadcast sends the summary over every channel.
func Broadcast(summary RunSummary, channels ...Notifier) {
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		if err := ch.Notify(summary); err != nil {
			log.Printf("⚠️ Notification failed: %v", err)
		}
	}
}
