package scoring

import "sort"

type Profession string

const (
	CombatOfficer       Profession = "combat_officer"
	LogisticsOfficer    Profession = "logistics_officer"
	IntelligenceOfficer Profession = "intelligence_officer"
	MedicalOfficer      Profession = "medical_officer"
	EngineeringOfficer  Profession = "engineering_officer"
)

// Option is a selectable answer carrying a weight for every profession.
type Option struct {
	ID     string
	Text   string
	Scores map[Profession]int
}

type Question struct {
	ID      string
	Text    string
	Options []Option
}

type Answer struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// Distribution maps each profession to a percentage in 0..100.
type Distribution map[Profession]int

type Ranking struct {
	Profession Profession `json:"profession"`
	Percentage int        `json:"percentage"`
}

// Engine scores answers against a fixed, ordered set of professions.
// The order is used to break ties when ranking.
type Engine struct {
	professions []Profession
}

// Default is the engine for the military profession test.
var Default = New(CombatOfficer, LogisticsOfficer, IntelligenceOfficer, MedicalOfficer, EngineeringOfficer)

func New(professions ...Profession) *Engine {
	seen := make(map[Profession]bool, len(professions))
	ordered := make([]Profession, 0, len(professions))
	for _, p := range professions {
		if seen[p] {
			continue
		}
		seen[p] = true
		ordered = append(ordered, p)
	}
	return &Engine{professions: ordered}
}

// Professions returns a copy of the engine's category set in enumeration order.
func (e *Engine) Professions() []Profession {
	out := make([]Profession, len(e.professions))
	copy(out, e.professions)
	return out
}

// Score sums the weights of every answered option and converts the totals to
// percentages. Answers repeating a question id replace the earlier answer.
// Answers that reference an unknown question or option are skipped.
func (e *Engine) Score(questions []Question, answers []Answer) Distribution {
	raw := make(map[Profession]int, len(e.professions))
	for _, p := range e.professions {
		raw[p] = 0
	}

	set := NewAnswerSet()
	for _, a := range answers {
		set.Record(a.QuestionID, a.OptionID)
	}

	for _, a := range set.Answers() {
		option, ok := findOption(questions, a)
		if !ok {
			continue
		}
		for _, p := range e.professions {
			raw[p] += option.Scores[p]
		}
	}

	total := 0
	for _, p := range e.professions {
		total += raw[p]
	}

	dist := make(Distribution, len(e.professions))
	for _, p := range e.professions {
		if total == 0 {
			dist[p] = 0
			continue
		}
		dist[p] = percentage(raw[p], total)
	}
	return dist
}

// Rank orders the engine's professions by percentage, highest first.
// Equal percentages keep enumeration order.
func (e *Engine) Rank(dist Distribution) []Ranking {
	ranked := make([]Ranking, 0, len(e.professions))
	for _, p := range e.professions {
		ranked = append(ranked, Ranking{Profession: p, Percentage: dist[p]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})
	return ranked
}

func Score(questions []Question, answers []Answer) Distribution {
	return Default.Score(questions, answers)
}

func Rank(dist Distribution) []Ranking {
	return Default.Rank(dist)
}

func findOption(questions []Question, a Answer) (Option, bool) {
	for _, q := range questions {
		if q.ID != a.QuestionID {
			continue
		}
		for _, o := range q.Options {
			if o.ID == a.OptionID {
				return o, true
			}
		}
		return Option{}, false
	}
	return Option{}, false
}

// percentage is round-half-up of score*100/total in integer arithmetic:
// floor((200*score + total) / (2*total)).
func percentage(score, total int) int {
	n, d := score*200+total, 2*total
	q := n / d
	if (n%d != 0) && ((n < 0) != (d < 0)) {
		q--
	}
	return q
}
