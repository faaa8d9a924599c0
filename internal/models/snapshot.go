package models

// Snapshot is the read-only session view handed to consumers of the engine.
type Snapshot struct {
	IsAuthenticated   bool              `json:"is_authenticated"`
	User              *UserRecord       `json:"user,omitempty"`
	ApplicationStatus ApplicationStatus `json:"application_status,omitempty"`
}
