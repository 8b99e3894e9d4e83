package util

import "errors"

var (
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrTestNotFound         = errors.New("test not found")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrQuestionNotFound     = errors.New("question not found in this test")
	ErrRevisionNotFound     = errors.New("revision mark not found")
	ErrMalformedSubmission  = errors.New("submission does not match the test's question set")
	ErrInvalidTiming        = errors.New("implausible time taken for this test")
	ErrTestNotAvailable     = errors.New("test is not available at this time")
	ErrAttemptWriteConflict = errors.New("concurrent attempt write conflict, retry the submission")
	ErrTestHasAttempts      = errors.New("questions cannot change once the test has attempts")
)
