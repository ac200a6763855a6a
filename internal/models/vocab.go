package models

import "time"

// VocabItem is a single vocabulary entry in one of the learning collections
// (numbers, animals, body parts, people, days, household items).
type VocabItem struct {
	ID          string     `json:"id"`
	Word        string     `json:"word"`
	Translation string     `json:"translation"`
	Phonetic    string     `json:"phonetic,omitempty"`
	Example     string     `json:"example,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	AudioURL    string     `json:"audioUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// VocabItemRequest is the request body for creating or updating a vocab item.
type VocabItemRequest struct {
	Word        string `json:"word" validate:"required"`
	Translation string `json:"translation" validate:"required"`
	Phonetic    string `json:"phonetic"`
	Example     string `json:"example"`
	ImageURL    string `json:"imageUrl"`
	AudioURL    string `json:"audioUrl"`
}

// QuizQuestion is a generated multiple-choice question. Options holds the
// translations to choose from; Answer is the index of the correct one.
type QuizQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}
