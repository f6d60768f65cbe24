package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-apply-agent/internal/database"
	"go-apply-agent/internal/models"
)

// GithubIngester pulls job postings from curated GitHub job-board repos,
// the README-table kind, and stores new ones.
type GithubIngester struct {
	repo   *database.Repository
	client *http.Client
}

func NewGithubIngester(repo *database.Repository) *GithubIngester {
	return &GithubIngester{
		repo:   repo,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// IngestAll fetches every configured board and returns how many previously
// unseen jobs were stored. A board that fails is logged and skipped.
func (g *GithubIngester) IngestAll(ctx context.Context, boards []string) (int, error) {
	total := 0
	for _, board := range boards {
		jobs, err := g.ingestBoard(ctx, board)
		if err != nil {
			log.Printf("⚠️ Failed to ingest %s: %v", board, err)
			continue
		}
		saved := 0
		for i := range jobs {
			_, inserted, err := g.repo.SaveJob(ctx, &jobs[i])
			if err != nil {
				log.Printf("⚠️ Failed to save job %q: %v", jobs[i].Title, err)
				continue
			}
			if inserted {
				saved++
			}
		}
		log.Printf("✅ %s: %d postings parsed, %d new", board, len(jobs), saved)
		total += saved
	}
	return total, nil
}

func (g *GithubIngester) ingestBoard(ctx context.Context, board string) ([]models.Job, error) {
	readme, err := g.fetchReadme(ctx, board)
	if err != nil {
		return nil, err
	}
	return parseReadme(readme, board), nil
}

// fetchReadme downloads the board's README, trying the main branch first and
// falling back to master for older repos.
func (g *GithubIngester) fetchReadme(ctx context.Context, board string) (string, error) {
	var lastErr error
	for _, branch := range []string{"main", "master"} {
		url := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/README.md", board, branch)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return string(body), nil
		}
		lastErr = fmt.Errorf("branch %s returned %d", branch, resp.StatusCode)
	}
	return "", fmt.Errorf("failed to fetch README for %s: %w", board, lastErr)
}

// parseReadme extracts postings from both table dialects boards use:
// embedded HTML tables and plain markdown pipe tables.
func parseReadme(readme, source string) []models.Job {
	jobs := parseHTMLTables(readme, source)
	jobs = append(jobs, parseMarkdownTables(readme, source)...)
	return jobs
}

func parseHTMLTables(readme, source string) []models.Job {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(readme))
	if err != nil {
		return nil
	}

	var jobs []models.Job
	lastCompany := ""
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		var texts []string
		var link string
		cells.Each(func(_ int, cell *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(cell.Text()))
			if link == "" {
				if href, ok := cell.Find("a").First().Attr("href"); ok {
					link = href
				}
			}
		})
		if job, ok := rowToJob(texts, link, source, &lastCompany); ok {
			jobs = append(jobs, job)
		}
	})
	return jobs
}

var markdownLink = regexp.MustCompile(`\[[^\]]*\]\((https?://[^)\s]+)\)`)
var htmlLink = regexp.MustCompile(`href="(https?://[^"]+)"`)
var tagStripper = regexp.MustCompile(`<[^>]+>`)

func parseMarkdownTables(readme, source string) []models.Job {
	var jobs []models.Job
	lastCompany := ""
	for _, line := range strings.Split(readme, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		//separator rows look like | --- | --- |
		if isSeparatorRow(line) {
			continue
		}
		cells := splitMarkdownRow(line)
		if len(cells) < 3 {
			continue
		}

		link := ""
		if m := markdownLink.FindStringSubmatch(line); m != nil {
			link = m[1]
		} else if m := htmlLink.FindStringSubmatch(line); m != nil {
			link = m[1]
		}

		for i, cell := range cells {
			cell = markdownLink.ReplaceAllStringFunc(cell, func(s string) string {
				end := strings.Index(s, "]")
				return s[1:end]
			})
			cells[i] = strings.TrimSpace(tagStripper.ReplaceAllString(cell, ""))
		}
		if job, ok := rowToJob(cells, link, source, &lastCompany); ok {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

func isSeparatorRow(line string) bool {
	for _, r := range line {
		switch r {
		case '|', '-', ':', ' ':
		default:
			return false
		}
	}
	return true
}

func splitMarkdownRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// rowToJob maps a table row onto a Job using the Company | Role | Location
// column convention boards share. Rows without an application link, header
// rows, and closed postings are dropped.
func rowToJob(cells []string, link, source string, lastCompany *string) (models.Job, bool) {
	if len(cells) < 3 || link == "" {
		return models.Job{}, false
	}
	company, role, location := cells[0], cells[1], cells[2]

	if strings.EqualFold(company, "company") || strings.EqualFold(role, "role") {
		return models.Job{}, false
	}
	//a continuation marker means same company as the previous row
	if company == "↳" || company == "" {
		company = *lastCompany
	} else {
		*lastCompany = company
	}
	if company == "" || role == "" {
		return models.Job{}, false
	}
	//boards mark dead postings with a lock symbol
	if strings.Contains(role, "🔒") || strings.Contains(company, "🔒") {
		return models.Job{}, false
	}

	job := models.Job{
		Title:    role,
		Company:  company,
		Location: location,
		Remote:   strings.Contains(strings.ToLower(location), "remote"),
		URL:      link,
		ATSType:  models.DetectATSType(link),
		Source:   source,
		Status:   models.JobNew,
	}
	if len(cells) >= 4 {
		if posted := parsePostedDate(cells[len(cells)-1]); posted != nil {
			job.PostedDate = posted
		}
	}
	return job, true
}

// parsePostedDate handles the "Jan 02" style dates boards use, assuming the
// current year and rolling back one year for dates that land in the future.
func parsePostedDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	parsed, err := time.Parse("Jan 02", s)
	if err != nil {
		parsed, err = time.Parse("Jan 2", s)
	}
	if err != nil {
		return nil
	}
	now := time.Now()
	date := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(now) {
		date = date.AddDate(-1, 0, 0)
	}
	return &date
}
