package customers

import (
	"bytes"
	"errors"
	"text/template"
)

// DefaultReminderTemplate is the payment reminder sent for overdue bills.
const DefaultReminderTemplate = `To: {{.Email}}
Subject: Your energy payment is overdue

Hi {{.Name}},

Just a reminder that you have unpaid bills that are now overdue:

{{range .Bills}}Bill from {{.IssuedOn}} - Amount: ${{.Amount}} - {{.DaysOverdue}} days overdue
{{end}}
Please pay ASAP to avoid service interruption.

Thanks,
Customer Service Team`

// ReminderLine describes one overdue bill in a reminder.
type ReminderLine struct {
	Number      int
	IssuedOn    string
	Amount      string
	DaysOverdue int
}

// ReminderData provides fields for rendering reminder text.
type ReminderData struct {
	CustomerID int
	Name       string
	Email      string
	Province   string
	Bills      []ReminderLine
	Total      string
}

// ReminderTemplate renders reminder text.
type ReminderTemplate struct {
	tpl *template.Template
}

var defaultReminder = mustReminderTemplate()

func mustReminderTemplate() *ReminderTemplate {
	tpl, err := NewReminderTemplate("")
	if err != nil {
		panic(err)
	}
	return tpl
}

// NewReminderTemplate parses a reminder template, falling back to DefaultReminderTemplate.
func NewReminderTemplate(tpl string) (*ReminderTemplate, error) {
	if tpl == "" {
		tpl = DefaultReminderTemplate
	}
	parsed, err := template.New("payment-reminder").Option("missingkey=error").Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &ReminderTemplate{tpl: parsed}, nil
}

// Render applies the template to data.
func (t *ReminderTemplate) Render(data ReminderData) (string, error) {
	if t == nil || t.tpl == nil {
		return "", errors.New("reminder template: nil")
	}
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
