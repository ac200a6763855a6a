package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linguachat/server/internal/services"
)

// QuizHandler serves generated quiz questions.
type QuizHandler struct {
	quiz *services.QuizService
	log  *zap.Logger
}

// NewQuizHandler creates a new QuizHandler instance.
func NewQuizHandler(quiz *services.QuizService, log *zap.Logger) *QuizHandler {
	return &QuizHandler{quiz: quiz, log: log}
}

// Generate handles GET /api/quiz/{collection}?count=N (default 5, max 20).
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}
	count := queryInt(r, "count", 5)
	if count < 1 || count > 20 {
		count = 5
	}

	questions, err := h.quiz.Generate(collection, count)
	if err != nil {
		h.log.Warn("quiz generation failed", zap.String("collection", collection), zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, questions)
}
