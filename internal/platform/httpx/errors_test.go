package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		title  string
	}{
		{"not found", ErrNotFound, http.StatusNotFound, "Not Found"},
		{"duplicate", ErrDuplicate, http.StatusConflict, "Duplicate"},
		{"validation", ErrValidation, http.StatusBadRequest, "Validation Failed"},
		{"wrapped validation", fmt.Errorf("%w: name is required", ErrValidation), http.StatusBadRequest, "Validation Failed"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Internal Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)

			require.Equal(t, tc.status, rec.Code)

			var problem ProblemDetail
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
			require.Equal(t, tc.title, problem.Title)
			require.Equal(t, tc.status, problem.Status)
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: relation does not exist"))

	var problem ProblemDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
	require.Empty(t, problem.Detail)
}
