package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenShotDebugger captures audit screenshots of application pages.
type ScreenShotDebugger struct {
	outputDir string
}

func NewScreenShotDebugger(outputDir string) *ScreenShotDebugger {
	if outputDir == "" {
		outputDir = filepath.Join(".", "screenshots")
	}
	os.MkdirAll(outputDir, 0755)
	return &ScreenShotDebugger{
		outputDir: outputDir,
	}
}

// Capture takes a full-page screenshot named after the label and job ID and
// returns the saved path. Failures are logged but never fatal.
func (s *ScreenShotDebugger) Capture(page playwright.Page, label string, jobID int64) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%d_%s.png", label, jobID, timestamp)
	path := filepath.Join(s.outputDir, filename)

	//Take screenshot
	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return "", err
	}

	log.Printf("📸 Screenshot saved: %s", path)
	return path, nil
}
