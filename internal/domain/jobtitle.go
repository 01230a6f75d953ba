package domain

import (
	"fmt"
	"time"
)

// JobTitle is a per-user record linking a title string to one portal and
// one job description. Every job title has exactly one owner; only the
// owner may read or mutate it.
type JobTitle struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	UserID           int64     `json:"user_id"`
	PortalID         int64     `json:"portal_id"`
	JobDescriptionID int64     `json:"job_description_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Referenced entities, populated by lookups that join them.
	Portal         *Portal         `json:"portal,omitempty"`
	JobDescription *JobDescription `json:"job_description,omitempty"`
}

// Label is the human-readable form of a job title: "{title} ( {portal} )".
// Requires Portal to be populated.
func (j *JobTitle) Label() string {
	return fmt.Sprintf("%s ( %s )", j.Title, j.Portal)
}
