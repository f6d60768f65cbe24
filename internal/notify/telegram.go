package notify

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier posts the run summary to a chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	log.Printf("✅ Telegram bot authorized as @%s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(summary RunSummary) error {
	msg := tgbotapi.NewMessage(n.chatID, formatSummary(summary))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram summary: %w", err)
	}
	log.Println("✅ Telegram summary sent")
	return nil
}

func formatSummary(summary RunSummary) string {
	var b strings.Builder
	b.WriteString("<b>📋 Job Application Run</b>\n")
	fmt.Fprintf(&b, "Scraped: %d | Matched: %d | Submitted: %d/%d\n",
		summary.Scraped, summary.Matched, summary.Submitted, len(summary.Attempts))

	for _, a := range summary.Attempts {
		icon := "❌"
		switch a.Outcome {
		case "SUCCESS":
			icon = "✅"
		case "SKIPPED":
			icon = "⏭"
		}
		fmt.Fprintf(&b, "\n%s <a href=%q>%s</a> at %s", icon, a.URL, a.JobTitle, a.Company)
		if a.Message != "" && a.Outcome != "SUCCESS" {
			fmt.Fprintf(&b, "\n    %s", a.Message)
		}
	}
	return b.String()
}
