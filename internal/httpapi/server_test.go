package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deimos993/qprep/internal/bank"
	"github.com/deimos993/qprep/internal/grading"
)

func testLibrary() *bank.Library {
	return &bank.Library{
		Banks: []bank.Bank{{
			ID:   "fl-a",
			Name: "FL A",
			Questions: []bank.Question{
				{
					Text: "First?",
					Options: []bank.Option{
						{Key: "A", Text: "one"},
						{Key: "B", Text: "two"},
					},
					CorrectKeys: []string{"A"},
					Objective:   "FL-1.1.1",
				},
				{
					Text: "Second?",
					Options: []bank.Option{
						{Key: "A", Text: "one"},
						{Key: "B", Text: "two"},
						{Key: "C", Text: "three"},
					},
					CorrectKeys: []string{"B", "C"},
				},
			},
		}},
		Diagnostics: []string{"old.json: question 3: at \"/question_text\": missing"},
	}
}

func testServer() http.Handler {
	return New(testLibrary(), grading.NewEngine())
}

func TestListBanks(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().ServeHTTP(rec, httptest.NewRequest("GET", "/api/banks", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var listings []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Questions int    `json:"questions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listings))
	require.Len(t, listings, 1)
	require.Equal(t, "fl-a", listings[0].ID)
	require.Equal(t, 2, listings[0].Questions)
}

func TestGetBankStripsAnswers(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().ServeHTTP(rec, httptest.NewRequest("GET", "/api/banks/fl-a", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.NotContains(t, body, "correctKeys")
	require.Contains(t, body, "\"multi\":true")
}

func TestGetBankNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().ServeHTTP(rec, httptest.NewRequest("GET", "/api/banks/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGrade(t *testing.T) {
	reqBody := `{"answers": {"0": ["a"], "1": ["C", "B"]}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/banks/fl-a/grade", strings.NewReader(reqBody))
	testServer().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res grading.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.Equal(t, 2, res.Score)
	require.Equal(t, 2, res.Total)
	require.False(t, res.Passed)
	require.Equal(t, grading.ObjectiveStat{Correct: 1, Total: 1}, res.ObjectiveStats["FL-1.1.1"])
}

func TestGradeRejectsBadIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/banks/fl-a/grade", strings.NewReader(`{"answers": {"9": ["A"]}}`))
	testServer().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiagnostics(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().ServeHTTP(rec, httptest.NewRequest("GET", "/api/diagnostics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var diags []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&diags))
	require.Len(t, diags, 1)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
