package evaluator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuispeak/internal/model"
)

func TestEvaluatePostsPayload(t *testing.T) {
	var got model.EvaluateRequest
	var gotSession string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EvaluatePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotSession = r.Header.Get("X-Session-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"score":85,"pronunciation_score":80,"fluency_score":90,"feedback":"Good"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 0, nil)
	res, err := c.Evaluate(context.Background(), "abc", model.EvaluateRequest{Audio: "UklGRg==", Text: "hi", Topic: "travel"})
	require.NoError(t, err)
	assert.Equal(t, model.ScoreResult{Success: true, Score: 85, PronunciationScore: 80, FluencyScore: 90, Feedback: "Good"}, res)
	assert.Equal(t, model.EvaluateRequest{Audio: "UklGRg==", Text: "hi", Topic: "travel"}, got)
	assert.Equal(t, "abc", gotSession)
}

func TestEvaluateServerFailureDecodesAsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"error":"forbidden"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, 0, nil).Evaluate(context.Background(), "", model.EvaluateRequest{Audio: "AA=="})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "forbidden", res.Error)
}

func TestEvaluateNonJSONIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0, nil).Evaluate(context.Background(), "", model.EvaluateRequest{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestEvaluateTransportErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 50*time.Millisecond, nil).Evaluate(context.Background(), "", model.EvaluateRequest{})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRecordsPassesQuery(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, RecordsPath, r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "travel", r.URL.Query().Get("topic"))
		assert.Equal(t, "2026-03-01T00:00:00Z", r.URL.Query().Get("since"))
		_ = json.NewEncoder(w).Encode(model.RecordsResponse{
			Success: true,
			Records: []model.PracticeRecord{{ID: 1, Topic: "travel", Score: 88}},
		})
	}))
	defer srv.Close()

	recs, err := New(srv.URL, 0, nil).Records(context.Background(), RecordsQuery{Limit: 5, Topic: "travel", Since: &since})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 88.0, recs[0].Score)
}

func TestRecordsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"invalid limit"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0, nil).Records(context.Background(), RecordsQuery{Limit: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid limit")
}
