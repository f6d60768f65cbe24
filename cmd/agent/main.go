package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-apply-agent/internal/ai"
	"go-apply-agent/internal/apply"
	"go-apply-agent/internal/browser"
	"go-apply-agent/internal/config"
	"go-apply-agent/internal/database"
	"go-apply-agent/internal/ingest"
	"go-apply-agent/internal/match"
	"go-apply-agent/internal/models"
	"go-apply-agent/internal/notify"
	"go-apply-agent/internal/profile"
	"go-apply-agent/internal/resume"
	"go-apply-agent/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:   "agent",
		Short: "Automated job application agent",
		Long:  "Scrapes curated job boards, matches postings against your profile, and fills application forms in a real browser.",
	}
	root.AddCommand(newInitDBCmd(), newScrapeCmd(), newMatchCmd(), newApplyCmd(), newRunCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			repo, err := database.ConnectDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer repo.Close()
			if err := repo.InitSchema(cmd.Context()); err != nil {
				return err
			}
			log.Println("✅ Database schema ready")
			return nil
		},
	}
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Pull new postings from the configured job boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			repo, err := database.ConnectDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer repo.Close()

			saved, err := scrape(cmd.Context(), cfg, repo)
			if err != nil {
				return err
			}
			log.Printf("✅ Scrape complete: %d new jobs", saved)
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score new jobs against your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			repo, err := database.ConnectDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer repo.Close()

			matched, err := matchJobs(cmd.Context(), cfg, repo, limit)
			if err != nil {
				return err
			}
			log.Printf("✅ Matching complete: %d jobs above threshold", matched)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 200, "maximum number of new jobs to score")
	return cmd
}

func newApplyCmd() *cobra.Command {
	var noReview bool
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply to matched jobs in a browser session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			repo, err := database.ConnectDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer repo.Close()

			results, err := applyJobs(cmd.Context(), cfg, repo, noReview)
			if err != nil {
				return err
			}
			log.Printf("✅ Apply complete: %d/%d submitted", countSubmitted(results), len(results))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noReview, "no-review", false, "submit without the human review pause")
	return cmd
}

func newRunCmd() *cobra.Command {
	var noReview bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: scrape, match, apply, notify",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			repo, err := database.ConnectDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer repo.Close()

			scraped, err := scrape(cmd.Context(), cfg, repo)
			if err != nil {
				return fmt.Errorf("scrape stage failed: %w", err)
			}
			matched, err := matchJobs(cmd.Context(), cfg, repo, 200)
			if err != nil {
				return fmt.Errorf("match stage failed: %w", err)
			}
			results, err := applyJobs(cmd.Context(), cfg, repo, noReview)
			if err != nil {
				return fmt.Errorf("apply stage failed: %w", err)
			}

			sendSummary(cfg, repo, scraped, matched, results)
			log.Printf("✅ Pipeline complete: %d scraped, %d matched, %d/%d submitted",
				scraped, matched, countSubmitted(results), len(results))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noReview, "no-review", false, "submit without the human review pause")
	return cmd
}

func scrape(ctx context.Context, cfg *config.Config, repo *database.Repository) (int, error) {
	return ingest.NewGithubIngester(repo).IngestAll(ctx, cfg.GithubRepos)
}

func matchJobs(ctx context.Context, cfg *config.Config, repo *database.Repository, limit int) (int, error) {
	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return 0, err
	}

	resumeText := ""
	if data, err := resume.Load(ctx, repo, cfg.ResumePath); err != nil {
		log.Printf("⚠️ Resume unavailable, matching on profile only: %v", err)
	} else {
		resumeText = data.RawText
	}

	client := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel, cfg.EmbeddingModel)
	return match.NewMatcher(repo, client, cfg.MatchThreshold).MatchAll(ctx, prof, resumeText, limit)
}

func applyJobs(ctx context.Context, cfg *config.Config, repo *database.Repository, noReview bool) ([]apply.Result, error) {
	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}

	jobs, err := repo.ListMatchedJobs(ctx, models.ATSGreenhouse, cfg.MaxApplications)
	if err != nil {
		return nil, fmt.Errorf("failed to list matched jobs: %w", err)
	}
	if len(jobs) == 0 {
		log.Println("📋 No matched jobs to apply to")
		return nil, nil
	}

	manager, err := browser.NewPlaywright(cfg.Headless)
	if err != nil {
		return nil, err
	}
	defer manager.Close()

	client := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel, cfg.EmbeddingModel)
	resolver := apply.NewResolver(prof, apply.BuildRules(answerOverrides(cfg, prof)), client)
	dropdown := apply.NewDropdownDriver(cfg.SettleDelay)
	shots := utils.NewScreenShotDebugger(cfg.ScreenshotDir)

	var review apply.ReviewGate
	if !noReview {
		review = apply.NewBrowserReviewGate(cfg.ReviewTimeout)
	}

	session := apply.NewSession(resolver, dropdown, review, shots, prof, cfg.ResumePath, cfg.NavigationTimeout, cfg.SettleDelay)
	return apply.NewRunner(repo, manager, session, cfg.MaxApplications).Run(ctx, jobs)
}

// answerOverrides folds profile-declared answers under the config-declared
// ones so an explicit config entry always wins.
func answerOverrides(cfg *config.Config, prof *models.Profile) map[string]string {
	overrides := make(map[string]string)
	if prof.WorkAuthorization.RequireVisaSponsorship {
		overrides["sponsorship"] = "Yes"
	}
	if !prof.WorkAuthorization.AuthorizedUS {
		overrides["authorized to work"] = "No"
	}
	for pattern, answer := range prof.LegalQuestions {
		overrides[pattern] = answer
	}
	for pattern, answer := range prof.Demographics {
		overrides[pattern] = answer
	}
	for pattern, answer := range cfg.AnswerOverrides {
		overrides[pattern] = answer
	}
	return overrides
}

func sendSummary(cfg *config.Config, repo *database.Repository, scraped, matched int, results []apply.Result) {
	summary := notify.RunSummary{
		Scraped:   scraped,
		Matched:   matched,
		Submitted: countSubmitted(results),
	}
	for _, r := range results {
		attempt := notify.AttemptSummary{Outcome: string(r.Outcome), Message: r.Message}
		if job, err := repo.GetJobByID(context.Background(), r.JobID); err == nil {
			attempt.JobTitle = job.Title
			attempt.Company = job.Company
			attempt.URL = job.URL
		}
		summary.Attempts = append(summary.Attempts, attempt)
	}

	var channels []notify.Notifier
	if cfg.EmailAddress != "" && cfg.EmailPassword != "" {
		channels = append(channels, notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailAddress, cfg.EmailPassword, cfg.NotificationEmail))
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		if tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID); err != nil {
			log.Printf("⚠️ Telegram unavailable: %v", err)
		} else {
			channels = append(channels, tg)
		}
	}
	notify.Broadcast(summary, channels...)
}

func countSubmitted(results []apply.Result) int {
	count := 0
	for _, r := range results {
		if r.Outcome == apply.OutcomeSuccess {
			count++
		}
	}
	return count
}
