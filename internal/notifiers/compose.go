package notifiers

import (
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"html"
	"strings"
)

// lineBreaks maps every line break sequence to an HTML break tag.
// "\r\n" must come first so it becomes one tag, not two.
var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>", "\r", "<br>")

// Composer turns a free-text announcement into mail content.
type Composer struct {
	subject string
	rawHTML bool
}

// NewComposer creates a Composer from the email settings.
func NewComposer(cfg *config.Config) *Composer {
	subject := cfg.Notifiers.Email.Subject
	if subject == "" {
		subject = "HomeMaster Announcement"
	}
	return &Composer{subject: subject, rawHTML: cfg.Notifiers.Email.RawHTML}
}

// Compose keeps the text part verbatim and renders line breaks as <br> in the HTML part.
// Unless raw HTML is enabled, markup in the message is escaped first.
func (c *Composer) Compose(message string) model.EmailContent {
	body := message
	if !c.rawHTML {
		body = html.EscapeString(body)
	}
	return model.EmailContent{
		Subject: c.subject,
		Text:    message,
		HTML:    lineBreaks.Replace(body),
	}
}
