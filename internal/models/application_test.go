package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatus(t *testing.T) {
	for _, status := range []ApplicationStatus{StatusPending, StatusUnderReview, StatusIncomplete, StatusRejected, StatusApproved} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, ApplicationStatus("golden").Valid())

	assert.True(t, StatusApproved.Approved())
	assert.False(t, StatusUnderReview.Approved())
}

func TestScreenFor(t *testing.T) {
	screens := map[ApplicationStatus]string{
		StatusPending:     "info",
		StatusUnderReview: "info",
		StatusIncomplete:  "warning",
		StatusRejected:    "error",
	}
	for status, variant := range screens {
		screen := ScreenFor(status)
		assert.Equal(t, variant, screen.Variant, string(status))
		assert.NotEmpty(t, screen.Title, string(status))
	}

	// Unknown statuses fall back to the pending screen.
	assert.Equal(t, ScreenFor(StatusPending), ScreenFor(ApplicationStatus("golden")))
}
