package notify

import (
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// EmailNotifier sends the run summary as an HTML email over SMTP.
type EmailNotifier struct {
	host     string
	port     int
	from     string
	password string
	to       string
}

func NewEmailNotifier(host string, port int, from, password, to string) *EmailNotifier {
	if to == "" {
		to = from
	}
	return &EmailNotifier{host: host, port: port, from: from, password: password, to: to}
}

var emailTemplate = template.Must(template.New("summary").Parse(`<html>
<body style="font-family: sans-serif;">
<h2>Job Application Run Summary</h2>
<p>{{.Scraped}} new postings scraped, {{.Matched}} matched, {{.Submitted}}/{{len .Attempts}} applications submitted.</p>
{{if .Attempts}}
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Job</th><th>Company</th><th>Outcome</th><th>Detail</th></tr>
{{range .Attempts}}
<tr>
  <td><a href="{{.URL}}">{{.JobTitle}}</a></td>
  <td>{{.Company}}</td>
  <td>{{.Outcome}}</td>
  <td>{{.Message}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>`))

func (n *EmailNotifier) Notify(summary RunSummary) error {
	var body strings.Builder
	if err := emailTemplate.Execute(&body, summary); err != nil {
		return fmt.Errorf("failed to render summary email: %w", err)
	}

	subject := fmt.Sprintf("Job Agent: %d submitted, %d attempted (%s)",
		summary.Submitted, len(summary.Attempts), time.Now().Format("Jan 2"))

	var msg strings.Builder
	msg.WriteString("From: " + n.from + "\r\n")
	msg.WriteString("To: " + n.to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body.String())

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.from, n.password, n.host)
	if err := smtp.SendMail(addr, auth, n.from, []string{n.to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send summary email: %w", err)
	}
	log.Printf("✅ Summary email sent to %s", n.to)
	return nil
}
