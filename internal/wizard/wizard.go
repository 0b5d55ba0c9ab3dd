package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrSubmissionInFlight is returned when a submit attempt is made while
// another submission is still outstanding
var ErrSubmissionInFlight = errors.New("a repository creation is already in progress")

// ErrDraftInvalid is returned when submission is refused because the
// current section has validation errors; the errors themselves are
// available via Errors()
var ErrDraftInvalid = errors.New("draft has validation errors")

// Result is the server response to a successful creation
type Result struct {
	FullName string
	HTMLURL  string
}

// CreateFunc is the injected creation action. It receives the normalized
// draft and returns the created repository's location.
type CreateFunc func(ctx context.Context, draft NewRepoDraft) (*Result, error)

// Wizard drives the multi-section draft through validation and a single
// submit action. Advancing is blocked until the current section validates;
// going backward never revalidates. Submission is serialized by a busy
// flag and every resubmission is a fresh explicit action.
type Wizard struct {
	mu sync.Mutex

	draft      NewRepoDraft
	stepIndex  int
	stepErrors []string

	submitting     bool
	submitError    string
	successMessage string

	create CreateFunc
}

// New creates a wizard over a fresh draft with the given creation action
func New(create CreateFunc) *Wizard {
	return &Wizard{
		draft:  NewDraft(),
		create: create,
	}
}

// Step returns the current section
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Steps[w.stepIndex]
}

// Draft returns a copy of the current draft
func (w *Wizard) Draft() NewRepoDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// UpdateDraft mutates the draft field-by-field via the given function
func (w *Wizard) UpdateDraft(update func(*NewRepoDraft)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	update(&w.draft)
}

// Errors returns the validation errors surfaced by the last Next or
// Submit attempt
func (w *Wizard) Errors() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.stepErrors...)
}

// SubmitError returns the message of the last failed submission
func (w *Wizard) SubmitError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitError
}

// SuccessMessage returns the confirmation of the last successful submission
func (w *Wizard) SuccessMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.successMessage
}

// Submitting reports whether a submission is outstanding
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Next advances to the following section. It is blocked, with errors
// surfaced, unless the current section validates cleanly.
func (w *Wizard) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := ValidateStep(Steps[w.stepIndex], w.draft)
	if len(errs) > 0 {
		w.stepErrors = errs
		return false
	}

	w.stepErrors = nil
	if w.stepIndex < len(Steps)-1 {
		w.stepIndex++
	}
	return true
}

// Back returns to the previous section. Going backward is always
// permitted and never revalidates.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stepErrors = nil
	if w.stepIndex > 0 {
		w.stepIndex--
	}
}

// Submit validates the current section, normalizes the name, and invokes
// the creation action exactly once. On success the draft is discarded; on
// failure the draft and every field value are retained so the user can
// retry immediately. A second submit while one is outstanding is refused.
func (w *Wizard) Submit(ctx context.Context) (*Result, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	errs := ValidateStep(Steps[w.stepIndex], w.draft)
	if len(errs) > 0 {
		w.stepErrors = errs
		w.mu.Unlock()
		return nil, ErrDraftInvalid
	}

	w.stepErrors = nil
	w.submitError = ""
	w.successMessage = ""
	w.submitting = true

	payload := w.draft
	payload.Name = NormalizeRepoName(payload.Name)
	w.mu.Unlock()

	result, err := w.create(ctx, payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		w.submitError = err.Error()
		return nil, err
	}

	location := result.FullName
	if location == "" {
		location = result.HTMLURL
	}
	w.successMessage = fmt.Sprintf("Repository created successfully: %s", location)
	w.draft = NewDraft()
	return result, nil
}
