package leadstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-intake/internal/entity"
)

func testSubmission() entity.Submission {
	return entity.Submission{ID: "s1", FormType: entity.FormContact, Email: "ada@example.com", FirstName: "Ada"}
}

func TestRecordPostsSubmissionWithSecret(t *testing.T) {
	var got entity.Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "s3cret", r.Header.Get(SecretHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true,"sheet":"Contact Submissions","urgency":"New","submissionCount":1}`))
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, "s3cret").Record(context.Background(), testSubmission())

	require.NoError(t, err)
	assert.Equal(t, "Contact Submissions", out.Sheet)
	assert.Equal(t, 1, out.SubmissionCount)
	assert.Equal(t, entity.FormContact, got.FormType)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestRecordAcceptsOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Record(context.Background(), testSubmission())

	assert.NoError(t, err)
}

func TestRecordFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{"server error", http.StatusInternalServerError, `{"success":false}`, "returned 500"},
		{"malformed body", http.StatusOK, `<html>`, "malformed JSON"},
		{"not confirmed", http.StatusOK, `{"success":false,"error":"sheet locked"}`, "sheet locked"},
		{"no flag", http.StatusOK, `{}`, "did not confirm"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "s").Record(context.Background(), testSubmission())

			assert.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestRecordTimesOutOnHangingStore(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewClient(srv.URL, "s", WithTimeout(50*time.Millisecond)).Record(context.Background(), testSubmission())

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	c := NewClient("http://store.test", "", WithTimeout(0))
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	c = NewClient("http://store.test", "", WithTimeout(time.Second))
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}

func TestRecordNotConfigured(t *testing.T) {
	_, err := NewClient("", "").Record(context.Background(), testSubmission())

	assert.ErrorIs(t, err, ErrNotConfigured)
}
