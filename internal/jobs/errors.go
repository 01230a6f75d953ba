package jobs

import "errors"

// Service errors.
var (
	// ErrTitleNotFound covers both "no such id" and "owned by another
	// user": the two are deliberately indistinguishable.
	ErrTitleNotFound = errors.New("job title not found")

	ErrPortalNotFound      = errors.New("portal does not exist")
	ErrDescriptionNotFound = errors.New("job description does not exist")
)
