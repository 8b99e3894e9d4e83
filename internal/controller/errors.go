package controller

import (
	"errors"
	"net/http"
	"test_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses and stable error codes.
// Anything unmapped is logged and reported as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrEmailRegistered):
		util.Fail(ctx, http.StatusConflict, "EMAIL_REGISTERED", "Email is already registered")
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Fail(ctx, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, util.ErrUserNotFound):
		util.Fail(ctx, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, util.ErrTestNotFound):
		util.Fail(ctx, http.StatusNotFound, "TEST_NOT_FOUND", "Test not found")
	case errors.Is(err, util.ErrQuestionNotFound):
		util.Fail(ctx, http.StatusNotFound, "QUESTION_NOT_FOUND", "Question not found in this test")
	case errors.Is(err, util.ErrAttemptNotFound):
		util.Fail(ctx, http.StatusNotFound, "ATTEMPT_NOT_FOUND", "Attempt not found")
	case errors.Is(err, util.ErrRevisionNotFound):
		util.Fail(ctx, http.StatusNotFound, "REVISION_NOT_FOUND", "Revision mark not found")
	case errors.Is(err, util.ErrMalformedSubmission):
		util.Fail(ctx, http.StatusBadRequest, "MALFORMED_SUBMISSION", err.Error())
	case errors.Is(err, util.ErrInvalidTiming):
		util.Fail(ctx, http.StatusBadRequest, "INVALID_TIMING", "Time taken is not plausible for this test")
	case errors.Is(err, util.ErrTestNotAvailable):
		util.Fail(ctx, http.StatusForbidden, "TEST_NOT_AVAILABLE", "Test is not available at this time")
	case errors.Is(err, util.ErrAttemptWriteConflict):
		util.Fail(ctx, http.StatusConflict, "ATTEMPT_WRITE_CONFLICT", "Submission conflicted with a concurrent attempt, please retry")
	case errors.Is(err, util.ErrTestHasAttempts):
		util.Fail(ctx, http.StatusConflict, "TEST_HAS_ATTEMPTS", "Questions cannot change once the test has attempts")
	default:
		util.LogInternalError(ctx, err)
	}
}
