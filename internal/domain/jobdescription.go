package domain

import "time"

// JobDescription is a reusable description of a role, referenced by job
// titles. Like portals, descriptions are shared across users.
type JobDescription struct {
	ID              int64     `json:"id"`
	Role            string    `json:"role"`
	DescriptionText string    `json:"description_text"`
	PubDate         time.Time `json:"pub_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
