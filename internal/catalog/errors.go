package catalog

import "errors"

// Service errors.
var (
	ErrPortalNotFound      = errors.New("portal not found")
	ErrDescriptionNotFound = errors.New("job description not found")
	ErrPortalInUse         = errors.New("portal is referenced by existing job titles")
	ErrDescriptionInUse    = errors.New("job description is referenced by existing job titles")
)
