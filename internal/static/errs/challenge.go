package errs

import "errors"

var (
	ChallengeNotFound    = errors.New("challenge not found")
	ChainUnavailable     = errors.New("chain access is not configured")
	WalletUnavailable    = errors.New("no signing wallet configured")
	TransactionFailed    = errors.New("transaction reverted")
	ValidatorUnavailable = errors.New("validation service unavailable")
	ValidationRequired   = errors.New("solution must pass validation before submission")
	SubmissionFailed     = errors.New("failed to submit solution")
	ChallengeCreateFail  = errors.New("failed to create challenge")
	InvalidChallenge     = errors.New("title and requirements must contain text")
)
