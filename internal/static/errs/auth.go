package errs

import "errors"

var InvalidCredentials = errors.New("invalid credentials")

var (
	GeneratingToken    = errors.New("error generating token")
	EmailRequired      = errors.New("email is required")
	EmailDomainDenied  = errors.New("please use an email from the allowed domain")
	FailedToCreateUser = errors.New("failed to create user")
)
