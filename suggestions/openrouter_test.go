package suggestions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"cadet_app_backend/quiz"
	"cadet_app_backend/scoring"
)

func helperDataset(t *testing.T) *quiz.Dataset {
	t.Helper()

	ds, err := quiz.NewStaticProvider(quiz.DefaultTestID).Dataset(context.Background(), quiz.DefaultTestID)
	require.NoError(t, err)

	return ds
}

func TestSuggestDisabledWithoutKey(t *testing.T) {
	c := NewOpenRouterClient("http://127.0.0.1:1", "", "")

	_, err := c.Suggest(context.Background(), helperDataset(t), nil)
	require.ErrorIs(t, err, ErrDisabled)
}

func TestSuggest(t *testing.T) {
	var got chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" || json.NewDecoder(r.Body).Decode(&got) != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"1. combat_officer: лідер"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenRouterClient(srv.URL, "key", "")
	text, err := c.Suggest(context.Background(), helperDataset(t), []scoring.Answer{{QuestionID: "1", OptionID: "3"}})
	require.NoError(t, err)
	require.Equal(t, "1. combat_officer: лідер", text)

	require.Equal(t, "Bearer key", auth)
	require.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, systemPrompt, got.Messages[0].Content)
	prompt := got.Messages[1].Content
	require.Contains(t, prompt, "Шукаю можливості допомогти іншим")
	require.Contains(t, prompt, "medical_officer: Військовий медик")
	require.Contains(t, prompt, "Respond in Ukrainian language.")
}

func TestSuggestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenRouterClient(srv.URL, "key", "m").Suggest(context.Background(), helperDataset(t), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}

func TestSuggestEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenRouterClient(srv.URL, "key", "m").Suggest(context.Background(), helperDataset(t), nil)
	require.ErrorIs(t, err, ErrEmptyResponse)
}
