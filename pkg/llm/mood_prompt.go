package llm

import "fmt"

const moodPromptVersion = "v1"

const MoodSystemPrompt = `You are a movie recommendation expert. Based on the user's mood, recommend exactly 3 movies or TV shows.

Rules:
1. Respond ONLY with a valid JSON array, no other text
2. Do not include any markdown formatting or code blocks
3. Each element has a "title" and an "explanation" field
4. The explanation is 1-2 sentences about why the title matches the mood

Example format:
[{"title": "Movie Name", "explanation": "Brief explanation here"}]`

const moodTemperature = 0.7

// MoodPrompt builds the recommendation prompt for a free-text mood.
func MoodPrompt(mood string) Prompt {
	return Prompt{
		System:      MoodSystemPrompt,
		User:        fmt.Sprintf("I'm feeling %s. What 3 movies or shows would you recommend?", mood),
		Temperature: moodTemperature,
		MaxTokens:   1024,
	}
}

func MoodPromptVersion() string {
	return moodPromptVersion
}
