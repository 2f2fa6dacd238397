package quiz

import (
	stdlibtime "time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"cadet_app_backend/scoring"
)

var (
	ErrUnknownOption     = errors.New("option does not belong to the current question")
	ErrUnanswered        = errors.New("current question is not answered")
	ErrSessionComplete   = errors.New("session is already complete")
	ErrSessionIncomplete = errors.New("session is not complete")
)

// Session tracks one pass through a quiz: which question is shown and the
// answers given so far.
type Session struct {
	ID        string
	UserID    int
	Index     int
	Complete  bool
	StartedAt stdlibtime.Time
	UpdatedAt stdlibtime.Time
	// ResultID is set once the completed session has been persisted.
	ResultID int

	dataset *Dataset
	answers *scoring.AnswerSet
}

func NewSession(userID int, ds *Dataset, now stdlibtime.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: now,
		UpdatedAt: now,
		dataset:   ds,
		answers:   scoring.NewAnswerSet(),
	}
}

func (s *Session) Dataset() *Dataset {
	return s.dataset
}

func (s *Session) TestID() string {
	return s.dataset.TestID
}

func (s *Session) CurrentQuestion() (scoring.Question, bool) {
	return s.dataset.Question(s.Index)
}

// SelectedOption returns the option chosen for the current question.
func (s *Session) SelectedOption() (string, bool) {
	q, ok := s.CurrentQuestion()
	if !ok {
		return "", false
	}
	return s.answers.Get(q.ID)
}

// Answer records the option for the current question, replacing any earlier choice.
func (s *Session) Answer(optionID string) error {
	if s.Complete {
		return ErrSessionComplete
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return ErrUnknownOption
	}
	for _, o := range q.Options {
		if o.ID == optionID {
			s.answers.Record(q.ID, optionID)
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownOption, "question %v, option %v", q.ID, optionID)
}

// Next advances to the following question, completing the session after the
// last one. The current question must be answered first.
func (s *Session) Next() error {
	if s.Complete {
		return ErrSessionComplete
	}
	if len(s.dataset.Questions) > 0 {
		if _, ok := s.SelectedOption(); !ok {
			return ErrUnanswered
		}
	}
	if s.Index < len(s.dataset.Questions)-1 {
		s.Index++
	} else {
		s.Complete = true
	}
	return nil
}

// Previous steps back one question; it does nothing on the first question.
func (s *Session) Previous() error {
	if s.Complete {
		return ErrSessionComplete
	}
	if s.Index > 0 {
		s.Index--
	}
	return nil
}

func (s *Session) Reset() {
	s.Index = 0
	s.Complete = false
	s.ResultID = 0
	s.answers.Reset()
}

func (s *Session) Answers() []scoring.Answer {
	return s.answers.Answers()
}

func (s *Session) AnsweredCount() int {
	return s.answers.Len()
}

// Results scores the full answer set. Only a completed session has results.
func (s *Session) Results(engine *scoring.Engine) ([]scoring.Ranking, error) {
	if !s.Complete {
		return nil, ErrSessionIncomplete
	}
	return engine.Rank(engine.Score(s.dataset.Questions, s.answers.Answers())), nil
}
