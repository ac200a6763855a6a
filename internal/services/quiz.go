package services

import (
	"fmt"
	"math/rand"

	"github.com/samber/lo"

	"github.com/linguachat/server/internal/models"
	"github.com/linguachat/server/internal/store"
)

// quizOptions is the number of choices per generated question.
const quizOptions = 4

// QuizService generates multiple-choice questions from a vocabulary
// collection: the prompt is a word, the options are translations.
type QuizService struct {
	store *store.Store
	rng   *rand.Rand
}

// NewQuizService creates a new QuizService instance.
func NewQuizService(st *store.Store, seed int64) *QuizService {
	return &QuizService{
		store: st,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Generate builds count questions from the collection. The collection
// needs at least quizOptions items to produce distractors.
func (s *QuizService) Generate(collection string, count int) ([]models.QuizQuestion, error) {
	items, err := s.store.ListVocabItems(collection)
	if err != nil {
		return nil, err
	}
	if len(items) < quizOptions {
		return nil, fmt.Errorf("collection %s has only %d items, need at least %d", collection, len(items), quizOptions)
	}

	questions := make([]models.QuizQuestion, 0, count)
	for i := 0; i < count; i++ {
		subject := items[s.rng.Intn(len(items))]
		distractors := lo.Filter(items, func(it models.VocabItem, _ int) bool {
			return it.ID != subject.ID
		})
		s.rng.Shuffle(len(distractors), func(a, b int) {
			distractors[a], distractors[b] = distractors[b], distractors[a]
		})

		options := []string{subject.Translation}
		for _, d := range distractors[:quizOptions-1] {
			options = append(options, d.Translation)
		}
		s.rng.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})

		answer := lo.IndexOf(options, subject.Translation)
		questions = append(questions, models.QuizQuestion{
			Prompt:  subject.Word,
			Options: options,
			Answer:  answer,
		})
	}
	return questions, nil
}
