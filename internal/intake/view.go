package intake

import "fmt"

// FieldView describes one input on an entry page.
type FieldView struct {
	Name     string   `json:"name"`
	Prompt   string   `json:"prompt"`
	Kind     Kind     `json:"kind"`
	Required bool     `json:"required"`
	Options  []Option `json:"options,omitempty"`
	Value    any      `json:"value"`
	Error    string   `json:"error,omitempty"`
}

// SectionView groups the fields under one heading.
type SectionView struct {
	Title  string      `json:"title"`
	Fields []FieldView `json:"fields"`
}

// Confirmation is what the thank-you page shows about the submission.
type Confirmation struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	MainGoal string `json:"mainGoal"`
}

// View is a snapshot of everything a page needs to render.
type View struct {
	SessionID        string        `json:"session_id"`
	Page             int           `json:"page"`
	Step             string        `json:"step,omitempty"`
	Record           Record        `json:"record"`
	Errors           ErrorMap      `json:"errors"`
	ShowErrorSummary bool          `json:"show_error_summary"`
	SubmitError      string        `json:"submit_error,omitempty"`
	Submitting       bool          `json:"submitting"`
	DraftInProgress  bool          `json:"draft_in_progress"`
	CanGoBack        bool          `json:"can_go_back"`
	NextLabel        string        `json:"next_label,omitempty"`
	NextDisabled     bool          `json:"next_disabled"`
	Sections         []SectionView `json:"sections,omitempty"`
	Confirmation     *Confirmation `json:"confirmation,omitempty"`
}

// View renders the current state.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		SessionID:       f.id,
		Page:            f.page,
		Record:          f.record.Clone(),
		Errors:          copyErrors(f.errors),
		Submitting:      f.submitting,
		DraftInProgress: f.dirty,
	}

	if f.page == ConfirmationPage {
		rec := f.record
		if f.submitted != nil {
			rec = f.submitted.Record
		}
		v.Confirmation = &Confirmation{FullName: rec.FullName, Email: rec.Email, MainGoal: rec.MainGoal}
		return v
	}

	v.Step = fmt.Sprintf("Step %d of %d", f.page, EntryPages)
	v.ShowErrorSummary = f.showSummary && len(f.errors) > 0
	v.SubmitError = f.submitError
	v.CanGoBack = f.page > 1 && !f.submitting
	v.NextDisabled = f.submitting
	switch {
	case f.submitting:
		v.NextLabel = "Submitting..."
	case f.page == EntryPages:
		v.NextLabel = "Submit"
	default:
		v.NextLabel = "Next"
	}
	v.Sections = f.sections()
	return v
}

func (f *Form) sections() []SectionView {
	var out []SectionView
	for _, field := range f.validator.schema.PageFields(f.page) {
		if len(out) == 0 || out[len(out)-1].Title != field.Section {
			out = append(out, SectionView{Title: field.Section})
		}
		sec := &out[len(out)-1]
		sec.Fields = append(sec.Fields, FieldView{
			Name:     field.Name,
			Prompt:   field.Prompt,
			Kind:     field.Kind,
			Required: !field.Optional,
			Options:  field.Options,
			Value:    field.Value(&f.record),
			Error:    f.errors[field.Name],
		})
	}
	return out
}
