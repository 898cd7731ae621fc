package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureFromStatusClassifies(t *testing.T) {
	cases := []struct {
		status int
		kind   FailureKind
	}{
		{http.StatusBadRequest, FailureServerValidation},
		{http.StatusUnprocessableEntity, FailureServerValidation},
		{http.StatusUnauthorized, FailureAuthorization},
		{http.StatusForbidden, FailureAuthorization},
		{http.StatusNotFound, FailureNotFound},
		{http.StatusConflict, FailureConflict},
		{http.StatusInternalServerError, FailureServer},
		{http.StatusBadGateway, FailureServer},
	}
	for _, tc := range cases {
		failure := FailureFromStatus("employees.list", tc.status, "")
		assert.Equal(t, tc.kind, failure.Kind, "status %d", tc.status)
		assert.Equal(t, http.StatusText(tc.status), failure.Message)
	}
}

func TestFailureMatchesSentinelsByKind(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewFailure(FailureConflict, "departments.delete", "Cannot delete department with existing employees. Reassign employees first."))

	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, FailureConflict, KindOf(wrapped))
	assert.Equal(t, "Cannot delete department with existing employees. Reassign employees first.", MessageOf(wrapped))
}

func TestAsFailureClassifiesPlainErrors(t *testing.T) {
	assert.Equal(t, FailureNetwork, AsFailure("op", context.DeadlineExceeded).Kind)
	assert.Equal(t, FailureNetwork, AsFailure("op", context.Canceled).Kind)
	assert.Equal(t, FailureServer, AsFailure("op", errors.New("boom")).Kind)
	assert.Nil(t, AsFailure("op", nil))
	assert.Equal(t, FailureKind(""), KindOf(nil))
}

func TestFailureOutcomeCarriesMessageVerbatim(t *testing.T) {
	failure := FailureFromStatus("users.create", http.StatusConflict, "Username already exists")
	outcome := FailureOutcome("users", ActionCreate, "", failure, testTime)

	assert.Equal(t, OutcomeError, outcome.Level)
	assert.Equal(t, FailureConflict, outcome.Kind)
	assert.Equal(t, "Username already exists", outcome.Message)
	assert.NotEmpty(t, outcome.ID)
}
