package wizard

import (
	"regexp"
	"strings"
)

const (
	msgNameRequired  = "Repository name is required."
	msgNameCharset   = "Repository name can only include letters, numbers, dots, dashes, and underscores."
	msgOwnerRequired = "Owner or organization is required."
	msgVisibility    = "Visibility must be either private or public."
	msgTemplatesInit = "Template options require initialization to be enabled."
)

var repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// NormalizeRepoName trims the name and collapses every internal run of
// whitespace into a single hyphen. Normalizing an already-normalized name
// is a no-op.
func NormalizeRepoName(name string) string {
	return strings.Join(strings.Fields(name), "-")
}

// ValidateStep evaluates one wizard section against the draft and returns
// human-readable errors. Validation errors are plain values, never error
// returns; an empty slice means the section is complete.
func ValidateStep(step Step, draft NewRepoDraft) []string {
	switch step {
	case StepDetails:
		var errs []string
		name := NormalizeRepoName(draft.Name)
		if name == "" {
			errs = append(errs, msgNameRequired)
		} else if !repoNamePattern.MatchString(name) {
			errs = append(errs, msgNameCharset)
		}
		return errs

	case StepAccess:
		var errs []string
		if strings.TrimSpace(draft.OwnerLogin) == "" {
			errs = append(errs, msgOwnerRequired)
		}
		if !draft.Visibility.Valid() {
			errs = append(errs, msgVisibility)
		}
		return errs

	case StepInitialize:
		var errs []string
		hasTemplate := strings.TrimSpace(draft.GitignoreTemplate) != "" ||
			strings.TrimSpace(draft.LicenseTemplate) != ""
		if !draft.AutoInit && hasTemplate {
			errs = append(errs, msgTemplatesInit)
		}
		return errs

	case StepReview:
		var errs []string
		errs = append(errs, ValidateStep(StepDetails, draft)...)
		errs = append(errs, ValidateStep(StepAccess, draft)...)
		errs = append(errs, ValidateStep(StepInitialize, draft)...)
		return errs

	default:
		return nil
	}
}
