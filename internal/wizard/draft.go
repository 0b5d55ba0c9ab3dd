package wizard

// Visibility is the repository visibility, fully enumerated so an invalid
// value is not representable as a distinct meaning
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Valid reports whether the visibility is one of the two allowed values
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// Step is one logical section of the new-repository wizard
type Step string

const (
	StepDetails    Step = "details"
	StepAccess     Step = "access"
	StepInitialize Step = "initialize"
	StepReview     Step = "review"
)

// Steps is the stepper order
var Steps = []Step{StepDetails, StepAccess, StepInitialize, StepReview}

// NewRepoDraft is the mutable form state of an in-progress repository
// creation. It is owned by one wizard session and never shared.
type NewRepoDraft struct {
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	OwnerLogin        string     `json:"ownerLogin"`
	Visibility        Visibility `json:"visibility"`
	AutoInit          bool       `json:"autoInit"`
	GitignoreTemplate string     `json:"gitignoreTemplate"`
	LicenseTemplate   string     `json:"licenseTemplate"`
}

// NewDraft creates a draft with the defaults: private visibility,
// auto-initialization enabled, everything else empty
func NewDraft() NewRepoDraft {
	return NewRepoDraft{
		Visibility: VisibilityPrivate,
		AutoInit:   true,
	}
}
