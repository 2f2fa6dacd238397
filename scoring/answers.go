package scoring

// AnswerSet holds at most one answer per question. Recording an answer for a
// question that already has one replaces it in place.
type AnswerSet struct {
	order []string
	byID  map[string]string
}

func NewAnswerSet() *AnswerSet {
	return &AnswerSet{byID: make(map[string]string)}
}

func (s *AnswerSet) Record(questionID, optionID string) {
	if s.byID == nil {
		s.byID = make(map[string]string)
	}
	if _, ok := s.byID[questionID]; !ok {
		s.order = append(s.order, questionID)
	}
	s.byID[questionID] = optionID
}

// Get returns the selected option for a question.
func (s *AnswerSet) Get(questionID string) (string, bool) {
	optionID, ok := s.byID[questionID]
	return optionID, ok
}

// Answers returns a snapshot in the order questions were first answered.
func (s *AnswerSet) Answers() []Answer {
	out := make([]Answer, 0, len(s.order))
	for _, qID := range s.order {
		out = append(out, Answer{QuestionID: qID, OptionID: s.byID[qID]})
	}
	return out
}

func (s *AnswerSet) Len() int {
	return len(s.order)
}

func (s *AnswerSet) Reset() {
	s.order = nil
	s.byID = make(map[string]string)
}
