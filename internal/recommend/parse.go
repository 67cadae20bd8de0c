package recommend

import (
	"encoding/json"
	"errors"
	"strings"

	"watchly/internal/model"
	"watchly/pkg/llm"
)

const (
	placeholderTitle       = "Unknown Movie"
	placeholderExplanation = "A great movie to watch!"
)

var errEmptyList = errors.New("recommendation list is empty")

var fallbackRecommendations = []model.Recommendation{
	{Title: "The Shawshank Redemption", Explanation: "A hopeful story that matches your current vibe"},
	{Title: "Spirited Away", Explanation: "A magical adventure to lift your spirits"},
	{Title: "Her", Explanation: "A thoughtful film that resonates with your mood"},
}

// Fallback returns a fresh copy of the fixed list used when the model
// reply cannot be read.
func Fallback() []model.Recommendation {
	out := make([]model.Recommendation, len(fallbackRecommendations))
	copy(out, fallbackRecommendations)
	return out
}

type rawRecommendation struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}

// decodeRecommendations reads a bare array or an object wrapping one under
// "recommendations". Elements that are not objects decode as blanks.
func decodeRecommendations(content string) ([]rawRecommendation, error) {
	cleaned := llm.CleanJSONResponse(content)

	var list []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
		var wrapped struct {
			Recommendations []json.RawMessage `json:"recommendations"`
		}
		if werr := json.Unmarshal([]byte(cleaned), &wrapped); werr != nil {
			return nil, err
		}
		list = wrapped.Recommendations
	}

	if len(list) == 0 {
		return nil, errEmptyList
	}

	out := make([]rawRecommendation, len(list))
	for i, item := range list {
		// a non-object element keeps its zero value and gets placeholders
		_ = json.Unmarshal(item, &out[i])
	}
	return out, nil
}

func normalize(raw []rawRecommendation) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(raw))
	for _, r := range raw {
		rec := model.Recommendation{
			Title:       strings.TrimSpace(r.Title),
			Explanation: strings.TrimSpace(r.Explanation),
		}
		if rec.Title == "" {
			rec.Title = placeholderTitle
		}
		if rec.Explanation == "" {
			rec.Explanation = placeholderExplanation
		}
		out = append(out, rec)
	}
	return out
}

// fitCount truncates to n, or pads from the fallback list skipping titles
// already present. The bool reports whether padding happened.
func fitCount(recs []model.Recommendation, n int) ([]model.Recommendation, bool) {
	if len(recs) >= n {
		return recs[:n], false
	}

	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		seen[strings.ToLower(r.Title)] = true
	}

	for _, f := range fallbackRecommendations {
		if len(recs) == n {
			break
		}
		if seen[strings.ToLower(f.Title)] {
			continue
		}
		recs = append(recs, f)
	}
	// only reached when n exceeds the fallback list
	for len(recs) < n {
		recs = append(recs, fallbackRecommendations[len(recs)%len(fallbackRecommendations)])
	}
	return recs, true
}

// ParseRecommendations turns a model reply into exactly n records. The
// bool is true when the reply was unusable or short and fallback titles
// were substituted.
func ParseRecommendations(content string, n int) ([]model.Recommendation, bool) {
	raw, err := decodeRecommendations(content)
	if err != nil {
		return fitFallback(n), true
	}
	recs, padded := fitCount(normalize(raw), n)
	return recs, padded
}

func fitFallback(n int) []model.Recommendation {
	recs, _ := fitCount(nil, n)
	return recs
}
