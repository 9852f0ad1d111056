package errs

import "errors"

var (
	OCIdRequired       = errors.New("OCId is required")
	CourseIDRequired   = errors.New("Course ID is required")
	CourseNotCompleted = errors.New("course has not been completed")
	AlreadyMinted      = errors.New("You have already received an NFT certificate")
	MintFailed         = errors.New("failed to mint certificate")
)
