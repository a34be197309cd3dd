package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// Service emails the coach a summary of every accepted intake.
type Service struct {
	email  EmailSender
	to     string
	schema *intake.Schema
	logger *logging.Logger
}

// NewService creates a notification service. An empty recipient disables it.
func NewService(email EmailSender, coachEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:  email,
		to:     strings.TrimSpace(coachEmail),
		schema: intake.CoachingSchema,
		logger: logger,
	}
}

// Hook adapts the service to the form's post-submit hook.
func (s *Service) Hook() intake.SubmitHook {
	return s.NotifySubmission
}

// NotifySubmission sends the coach the full set of answers.
func (s *Service) NotifySubmission(ctx context.Context, sub intake.Submission) error {
	if s.email == nil || s.to == "" {
		s.logger.Debug("notify: coach email not configured, skipping notification")
		return nil
	}

	msg := s.submissionEmail(sub)
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: coach email: %w", err)
	}
	s.logger.Info("notify: coach notified", "session_id", sub.SessionID)
	return nil
}

type answerRow struct {
	label string
	value string
}

type answerSection struct {
	title string
	rows  []answerRow
}

func (s *Service) sections(rec intake.Record) []answerSection {
	var out []answerSection
	for _, field := range s.schema.Fields() {
		if len(out) == 0 || out[len(out)-1].title != field.Section {
			out = append(out, answerSection{title: field.Section})
		}
		sec := &out[len(out)-1]
		sec.rows = append(sec.rows, answerRow{label: field.Label, value: displayValue(field, rec)})
	}
	return out
}

func displayValue(field intake.Field, rec intake.Record) string {
	switch v := field.Value(&rec).(type) {
	case []string:
		labels := make([]string, 0, len(v))
		for _, item := range v {
			labels = append(labels, field.OptionLabel(item))
		}
		return strings.Join(labels, ", ")
	case intake.Number:
		return string(v)
	case string:
		if field.Kind == intake.KindSingleChoice {
			return field.OptionLabel(v)
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (s *Service) submissionEmail(sub intake.Submission) EmailMessage {
	rec := sub.Record
	name := strings.TrimSpace(rec.FullName)
	coaching, _ := s.schema.Field("coachingType")
	timeline, _ := s.schema.Field("startTimeline")

	subject := fmt.Sprintf("🆕 New Intake - %s", truncate(name, 60))

	var body strings.Builder
	fmt.Fprintf(&body, "%s completed the coaching intake form.\n\n", name)
	fmt.Fprintf(&body, "Interested in: %s\n", coaching.OptionLabel(rec.CoachingType))
	fmt.Fprintf(&body, "Wants to start: %s\n", timeline.OptionLabel(rec.StartTimeline))
	fmt.Fprintf(&body, "Submitted: %s\n", sub.SubmittedAt.UTC().Format(time.RFC1123))
	for _, sec := range s.sections(rec) {
		fmt.Fprintf(&body, "\n%s\n", strings.ToUpper(sec.title))
		for _, row := range sec.rows {
			value := row.value
			if value == "" {
				value = "-"
			}
			fmt.Fprintf(&body, "%s: %s\n", row.label, value)
		}
	}

	var page strings.Builder
	page.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	fmt.Fprintf(&page, `<h2 style="color: #059669;">New intake from %s</h2>`, html.EscapeString(name))
	for _, sec := range s.sections(rec) {
		fmt.Fprintf(&page, `<h3 style="margin-bottom: 4px;">%s</h3><table style="border-collapse: collapse; width: 100%%;">`, html.EscapeString(sec.title))
		for _, row := range sec.rows {
			fmt.Fprintf(&page, `<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`,
				html.EscapeString(row.label), html.EscapeString(row.value))
		}
		page.WriteString(`</table>`)
	}
	fmt.Fprintf(&page, `<p style="color: #6b7280; font-size: 12px;">Session %s</p></div>`, html.EscapeString(sub.SessionID))

	return EmailMessage{
		To:      s.to,
		ReplyTo: strings.TrimSpace(rec.Email),
		Subject: subject,
		Body:    body.String(),
		HTML:    page.String(),
	}
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
