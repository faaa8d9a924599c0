package models

import "github.com/google/uuid"

// ApplicationStatus represents the onboarding/approval state of a business
// account. Only StatusApproved grants access to protected functionality.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusIncomplete  ApplicationStatus = "incomplete"
	StatusRejected    ApplicationStatus = "rejected"
	StatusApproved    ApplicationStatus = "approved"
)

// Valid returns true if the status is one of the known enum values.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusIncomplete, StatusRejected, StatusApproved:
		return true
	}
	return false
}

// Approved returns true if the application grants full access.
func (s ApplicationStatus) Approved() bool {
	return s == StatusApproved
}

// VerificationSteps tracks onboarding progress shown on status screens.
type VerificationSteps struct {
	EmailVerified         bool `json:"email_verified"`
	DocumentsUploaded     bool `json:"documents_uploaded"`
	BankDetailsProvided   bool `json:"bank_details_provided"`
	BackgroundCheckPassed bool `json:"background_check_passed"`
}

// ApplicationRecord is the business-account approval state gating access
// beyond authentication. It is attached to a session after login or restore
// and never exists without one.
type ApplicationRecord struct {
	ID           uuid.UUID         `json:"id"`
	Status       ApplicationStatus `json:"status"`
	BusinessName string            `json:"business_name"`
	BusinessType string            `json:"business_type"`
	Steps        VerificationSteps `json:"verification_steps"`
}

// StatusScreen describes the informational screen shown to an authenticated
// user whose application is not yet approved.
type StatusScreen struct {
	Title   string
	Message string
	Variant string // "info", "warning" or "error" - drives presentation only
}

// statusScreens maps each non-approved status to its screen variant.
// Straight lookup table, no string manipulation on the enum value.
var statusScreens = map[ApplicationStatus]StatusScreen{
	StatusPending: {
		Title:   "Application received",
		Message: "Your application has been received and is waiting to be processed.",
		Variant: "info",
	},
	StatusUnderReview: {
		Title:   "Application under review",
		Message: "Our team is reviewing your application. This usually takes 1-2 business days.",
		Variant: "info",
	},
	StatusIncomplete: {
		Title:   "Application incomplete",
		Message: "Some verification steps are missing. Complete the remaining steps to continue.",
		Variant: "warning",
	},
	StatusRejected: {
		Title:   "Application rejected",
		Message: "Your application was not approved. Contact support for details.",
		Variant: "error",
	},
}

// ScreenFor returns the status screen for a non-approved status. Unknown
// statuses fall back to the pending screen rather than failing open.
func ScreenFor(status ApplicationStatus) StatusScreen {
	if screen, ok := statusScreens[status]; ok {
		return screen
	}
	return statusScreens[StatusPending]
}
