package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"cadet_app_backend/models"
	"cadet_app_backend/quiz"
	"cadet_app_backend/scoring"
	"cadet_app_backend/suggestions"

	"github.com/gin-gonic/gin"
)

const suggestionDeadline = 45 * time.Second

// ResultStore persists completed quizzes.
type ResultStore interface {
	SaveResult(ctx context.Context, result *models.ProfessionTestResult) error
	ListResults(ctx context.Context, userID int) ([]models.ProfessionTestResult, error)
}

type ProfessionTestHandler struct {
	sessions  *quiz.Store
	provider  quiz.Provider
	results   ResultStore
	suggester suggestions.Client
	engine    *scoring.Engine
	// claims hands out the negative ResultID that marks a save in flight.
	claims    atomic.Int64
}

func NewProfessionTestHandler(sessions *quiz.Store, provider quiz.Provider, results ResultStore, suggester suggestions.Client) *ProfessionTestHandler {
	return &ProfessionTestHandler{
		sessions:  sessions,
		provider:  provider,
		results:   results,
		suggester: suggester,
		engine:    scoring.Default,
	}
}

// GetProfessions lists the profession catalogue of a test.
func (h *ProfessionTestHandler) GetProfessions(c *gin.Context) {
	ds, err := h.provider.Dataset(callerContext(c), c.Query("test_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	professions := make([]models.ProfessionResponse, 0, len(h.engine.Professions()))
	for _, p := range h.engine.Professions() {
		desc := ds.Descriptions[p]
		professions = append(professions, models.ProfessionResponse{
			Profession:  p,
			Title:       desc.Title,
			Description: desc.Description,
		})
	}

	c.JSON(http.StatusOK, professions)
}

func (h *ProfessionTestHandler) StartSession(c *gin.Context) {
	userID := c.GetInt("userID")

	var req models.StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ds, err := h.provider.Dataset(callerContext(c), req.TestID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var response models.SessionResponse
	_ = h.sessions.Create(userID, ds, func(s *quiz.Session) error {
		response = sessionResponse(s)
		return nil
	})

	c.JSON(http.StatusCreated, response)
}

func (h *ProfessionTestHandler) GetSession(c *gin.Context) {
	h.withSession(c, http.StatusOK, func(*quiz.Session) error { return nil })
}

// AnswerQuestion records or replaces the answer to the current question.
func (h *ProfessionTestHandler) AnswerQuestion(c *gin.Context) {
	var req models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.withSession(c, http.StatusOK, func(s *quiz.Session) error {
		return s.Answer(req.OptionID)
	})
}

func (h *ProfessionTestHandler) NextQuestion(c *gin.Context) {
	h.withSession(c, http.StatusOK, (*quiz.Session).Next)
}

func (h *ProfessionTestHandler) PreviousQuestion(c *gin.Context) {
	h.withSession(c, http.StatusOK, (*quiz.Session).Previous)
}

// ResetSession restarts the quiz from the first question with no answers.
func (h *ProfessionTestHandler) ResetSession(c *gin.Context) {
	h.withSession(c, http.StatusOK, func(s *quiz.Session) error {
		s.Reset()
		return nil
	})
}

// GetResults scores a completed session. The first call persists the result;
// suggestions are optional and never fail the request.
func (h *ProfessionTestHandler) GetResults(c *gin.Context) {
	userID := c.GetInt("userID")
	sessionID := c.Param("id")
	ctx := c.Request.Context()

	var (
		ranked  []scoring.Ranking
		answers []scoring.Answer
		ds      *quiz.Dataset
		stored  int
		claim   int
	)
	err := h.sessions.Do(sessionID, userID, func(s *quiz.Session) error {
		var err error
		if ranked, err = s.Results(h.engine); err != nil {
			return err
		}
		answers, ds, stored = s.Answers(), s.Dataset(), s.ResultID
		if s.ResultID == 0 && h.results != nil {
			claim = -int(h.claims.Add(1))
			s.ResultID = claim
		}
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if claim != 0 {
		result := &models.ProfessionTestResult{
			UserID:   userID,
			TestID:   ds.TestID,
			Rankings: ranked,
			Answers:  answers,
		}
		saveErr := h.results.SaveResult(ctx, result)
		if saveErr != nil {
			log.Printf("Error saving profession test result: %v", saveErr)
		} else {
			stored = result.ID
		}
		_ = h.sessions.Do(sessionID, userID, func(s *quiz.Session) error {
			// a reset and a newer claim may have replaced ours
			if s.ResultID != claim {
				return nil
			}
			if saveErr != nil {
				s.ResultID = 0
			} else {
				s.ResultID = result.ID
			}
			return nil
		})
	}
	if stored < 0 {
		stored = 0
	}

	response := models.ResultsResponse{
		SessionID: sessionID,
		ResultID:  stored,
		TestID:    ds.TestID,
		Results:   joinDescriptions(ds, ranked),
	}

	if c.Query("suggestions") == "true" && h.suggester != nil {
		suggestCtx, cancel := context.WithTimeout(ctx, suggestionDeadline)
		defer cancel()
		text, err := h.suggester.Suggest(suggestCtx, ds, answers)
		if err != nil {
			log.Printf("Error getting profession suggestions: %v", err)
			response.SuggestionsError = "Suggestions are unavailable"
		} else {
			response.Suggestions = text
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *ProfessionTestHandler) GetUserResults(c *gin.Context) {
	userID := c.GetInt("userID")
	if h.results == nil {
		c.JSON(http.StatusOK, []models.ProfessionTestResult{})
		return
	}

	results, err := h.results.ListResults(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error fetching profession test results: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *ProfessionTestHandler) withSession(c *gin.Context, status int, fn func(*quiz.Session) error) {
	var response models.SessionResponse
	err := h.sessions.Do(c.Param("id"), c.GetInt("userID"), func(s *quiz.Session) error {
		err := fn(s)
		response = sessionResponse(s)
		return err
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(status, response)
}

func (h *ProfessionTestHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, quiz.ErrUnknownTest):
		c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
	case errors.Is(err, quiz.ErrUnknownOption):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Option does not belong to the current question"})
	case errors.Is(err, quiz.ErrUnanswered):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer the current question first"})
	case errors.Is(err, quiz.ErrSessionComplete):
		c.JSON(http.StatusConflict, gin.H{"error": "Test is already complete"})
	case errors.Is(err, quiz.ErrSessionIncomplete):
		c.JSON(http.StatusConflict, gin.H{"error": "Test is not complete yet"})
	default:
		log.Printf("Error handling profession test request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	}
}

// callerContext carries the caller's token on to the test-definition service.
func callerContext(c *gin.Context) context.Context {
	return quiz.WithToken(c.Request.Context(), c.GetString("token"))
}

func sessionResponse(s *quiz.Session) models.SessionResponse {
	ds := s.Dataset()
	response := models.SessionResponse{
		ID:             s.ID,
		TestID:         ds.TestID,
		Title:          ds.Title,
		CurrentIndex:   s.Index,
		TotalQuestions: len(ds.Questions),
		AnsweredCount:  s.AnsweredCount(),
		Complete:       s.Complete,
	}
	if s.Complete {
		return response
	}

	if q, ok := s.CurrentQuestion(); ok {
		question := &models.QuestionResponse{
			ID:      q.ID,
			Number:  s.Index + 1,
			Text:    q.Text,
			Options: make([]models.OptionResponse, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.OptionResponse{ID: o.ID, Text: o.Text})
		}
		response.CurrentQuestion = question
	}
	if optionID, ok := s.SelectedOption(); ok {
		response.SelectedOptionID = optionID
	}

	return response
}

func joinDescriptions(ds *quiz.Dataset, ranked []scoring.Ranking) []models.ProfessionResult {
	results := make([]models.ProfessionResult, 0, len(ranked))
	for _, r := range ranked {
		desc := ds.Descriptions[r.Profession]
		results = append(results, models.ProfessionResult{
			Profession:  r.Profession,
			Title:       desc.Title,
			Description: desc.Description,
			Percentage:  r.Percentage,
		})
	}
	return results
}
