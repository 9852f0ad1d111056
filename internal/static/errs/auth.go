package errs

import "errors"

var InvalidCredentials = errors.New("invalid credentials")

var (
	InternalError   = errors.New("internal error")
	GeneratingToken = errors.New("error generating token")
	MissingIDToken  = errors.New("id token missing from token response")
	MissingOCId     = errors.New("id token carries no OCId")
	OCIdMismatch    = errors.New("OCId does not match the authenticated user")
)
