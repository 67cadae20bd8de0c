package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"watchly/internal/model"
	"watchly/internal/recommend"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

func newRecommendationRouter(service Recommender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewRecommendationHandler(service)
	r.POST("/functions/v1/get-mood-recommendations", h.GetMoodRecommendations)
	return r
}

func postMood(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/functions/v1/get-mood-recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func threeRecs() []model.Recommendation {
	id := int64(13)
	return []model.Recommendation{
		{Title: "Paddington 2", Explanation: "Warm.", TMDBID: &id},
		{Title: "Amelie", Explanation: "Whimsical."},
		{Title: "Chef", Explanation: "Comforting."},
	}
}

func TestGetMoodRecommendations_OK(t *testing.T) {
	service := &fakeRecommender{result: &recommend.Result{Recommendations: threeRecs()}}

	w := postMood(newRecommendationRouter(service), `{"mood":"cozy"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"cozy"}, service.moods)

	var res map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &res)
	_, hasDegraded := res["degraded"]
	assert.Equal(t, false, hasDegraded)

	var body RecommendationsResponse
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, 3, len(body.Recommendations))
	assert.Equal(t, int64(13), *body.Recommendations[0].TMDBID)
	assert.Equal(t, true, body.Recommendations[1].PosterURL == nil)
}

func TestGetMoodRecommendations_OmitsMissingEnrichment(t *testing.T) {
	service := &fakeRecommender{result: &recommend.Result{Recommendations: threeRecs()[1:2]}}

	w := postMood(newRecommendationRouter(service), `{"mood":"cozy"}`)

	assert.Equal(t, `{"recommendations":[{"title":"Amelie","explanation":"Whimsical."}]}`, w.Body.String())
}

func TestGetMoodRecommendations_Degraded(t *testing.T) {
	service := &fakeRecommender{result: &recommend.Result{Recommendations: recommend.Fallback(), Degraded: true}}

	w := postMood(newRecommendationRouter(service), `{"mood":"cozy"}`)

	var body RecommendationsResponse
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body.Degraded)
	assert.Equal(t, "The Shawshank Redemption", body.Recommendations[0].Title)
}

func TestGetMoodRecommendations_MoodRequired(t *testing.T) {
	for _, body := range []string{`{"mood":""}`, `{"mood":"   "}`, `{}`, ``} {
		w := postMood(newRecommendationRouter(&fakeRecommender{}), body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, `{"error":"Mood is required"}`, w.Body.String())
	}
}

func TestGetMoodRecommendations_MalformedBody(t *testing.T) {
	service := &fakeRecommender{}

	w := postMood(newRecommendationRouter(service), `{"mood":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, len(service.moods))
}

func TestGetMoodRecommendations_MissingCredential(t *testing.T) {
	service := recommend.NewService(nil, "OpenAI", nil)

	w := postMood(newRecommendationRouter(service), `{"mood":"cozy"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `{"error":"OpenAI API key not configured"}`, w.Body.String())
}

func TestGetMoodRecommendations_UpstreamFailure(t *testing.T) {
	service := &fakeRecommender{err: errors.New("openai: 502")}

	w := postMood(newRecommendationRouter(service), `{"mood":"cozy"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `{"error":"Failed to get recommendations"}`, w.Body.String())
}
