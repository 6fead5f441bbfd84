package errs

import "errors"

// ForbiddenMessage is sent verbatim as the body message of every 403.
const ForbiddenMessage = "Forbidden: you don't have permission to access"

var (
	Unauthenticated = errors.New("unauthenticated")
	Forbidden       = errors.New("forbidden")
	Validation      = errors.New("missing required fields")
	BadReference    = errors.New("referenced entity does not exist")
	NotFound        = errors.New("not found")
)
