package domain

import "time"

// Portal is an external job-posting source. Portals are shared: every
// authenticated user sees the full catalog.
type Portal struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// String renders the portal the way job title labels embed it.
func (p *Portal) String() string {
	return p.Name
}
