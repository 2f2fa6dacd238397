package quiz

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"cadet_app_backend/scoring"
)

var (
	ErrUnknownTest    = errors.New("unknown test")
	ErrInvalidDataset = errors.New("invalid dataset")
)

// Provider supplies the question set for a test.
type Provider interface {
	Dataset(ctx context.Context, testID string) (*Dataset, error)
}

type Description struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Dataset is the read-only reference data of one quiz.
type Dataset struct {
	TestID       string
	Title        string
	Questions    []scoring.Question
	Descriptions map[scoring.Profession]Description
}

type (
	datasetPayload struct {
		TestID      string              `json:"test_id"`
		Title       string              `json:"title"`
		Professions []professionPayload `json:"professions"`
		Questions   []questionPayload   `json:"questions"`
	}
	professionPayload struct {
		Profession  scoring.Profession `json:"profession"`
		Title       string             `json:"title"`
		Description string             `json:"description"`
	}
	questionPayload struct {
		ID      string          `json:"id"`
		Text    string          `json:"text"`
		Options []optionPayload `json:"options"`
	}
	optionPayload struct {
		ID     string         `json:"id"`
		Text   string         `json:"text"`
		Scores []scorePayload `json:"scores"`
	}
	scorePayload struct {
		Profession scoring.Profession `json:"profession"`
		Score      int                `json:"score"`
	}
)

// ParseDataset decodes the wire form of a test definition. Score records are
// folded into per-option maps; a repeated profession keeps its last score.
func ParseDataset(data []byte) (*Dataset, error) {
	var p datasetPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "failed to decode dataset")
	}

	ds := &Dataset{
		TestID:       p.TestID,
		Title:        p.Title,
		Questions:    make([]scoring.Question, 0, len(p.Questions)),
		Descriptions: make(map[scoring.Profession]Description, len(p.Professions)),
	}
	for _, pr := range p.Professions {
		ds.Descriptions[pr.Profession] = Description{Title: pr.Title, Description: pr.Description}
	}
	for _, q := range p.Questions {
		question := scoring.Question{ID: q.ID, Text: q.Text, Options: make([]scoring.Option, 0, len(q.Options))}
		for _, o := range q.Options {
			option := scoring.Option{ID: o.ID, Text: o.Text, Scores: make(map[scoring.Profession]int, len(o.Scores))}
			for _, s := range o.Scores {
				option.Scores[s.Profession] = s.Score
			}
			question.Options = append(question.Options, option)
		}
		ds.Questions = append(ds.Questions, question)
	}

	return ds, nil
}

// Encode is the inverse of ParseDataset. Professions are emitted in the order given.
func (d *Dataset) Encode(professions []scoring.Profession) ([]byte, error) {
	p := datasetPayload{TestID: d.TestID, Title: d.Title}
	for _, pr := range professions {
		desc, ok := d.Descriptions[pr]
		if !ok {
			continue
		}
		p.Professions = append(p.Professions, professionPayload{Profession: pr, Title: desc.Title, Description: desc.Description})
	}
	for _, q := range d.Questions {
		qp := questionPayload{ID: q.ID, Text: q.Text}
		for _, o := range q.Options {
			op := optionPayload{ID: o.ID, Text: o.Text}
			for _, pr := range professions {
				if score, ok := o.Scores[pr]; ok {
					op.Scores = append(op.Scores, scorePayload{Profession: pr, Score: score})
				}
			}
			qp.Options = append(qp.Options, op)
		}
		p.Questions = append(p.Questions, qp)
	}

	data, err := json.Marshal(p)
	return data, errors.Wrapf(err, "failed to encode dataset %v", d.TestID)
}

// Validate reports every structural problem at once. A dataset that passes
// guarantees each option carries a non-negative weight for every profession.
func (d *Dataset) Validate(professions []scoring.Profession) error {
	var result *multierror.Error
	known := make(map[scoring.Profession]bool, len(professions))
	for _, p := range professions {
		known[p] = true
		if _, ok := d.Descriptions[p]; !ok {
			result = multierror.Append(result, fmt.Errorf("missing description for %v", p))
		}
	}
	for p := range d.Descriptions {
		if !known[p] {
			result = multierror.Append(result, fmt.Errorf("description for unknown profession %v", p))
		}
	}
	if len(d.Questions) == 0 {
		result = multierror.Append(result, errors.New("no questions"))
	}

	questionIDs := make(map[string]bool, len(d.Questions))
	for _, q := range d.Questions {
		if questionIDs[q.ID] {
			result = multierror.Append(result, fmt.Errorf("duplicate question id %q", q.ID))
		}
		questionIDs[q.ID] = true
		if len(q.Options) == 0 {
			result = multierror.Append(result, fmt.Errorf("question %q has no options", q.ID))
		}

		optionIDs := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if optionIDs[o.ID] {
				result = multierror.Append(result, fmt.Errorf("question %q: duplicate option id %q", q.ID, o.ID))
			}
			optionIDs[o.ID] = true
			for _, p := range professions {
				score, ok := o.Scores[p]
				switch {
				case !ok:
					result = multierror.Append(result, fmt.Errorf("question %q option %q: missing score for %v", q.ID, o.ID, p))
				case score < 0:
					result = multierror.Append(result, fmt.Errorf("question %q option %q: negative score for %v", q.ID, o.ID, p))
				}
			}
			for p := range o.Scores {
				if !known[p] {
					result = multierror.Append(result, fmt.Errorf("question %q option %q: unknown profession %v", q.ID, o.ID, p))
				}
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrapf(ErrInvalidDataset, "test %v: %v", d.TestID, err)
	}

	return nil
}

// Question returns the question at index i.
func (d *Dataset) Question(i int) (scoring.Question, bool) {
	if i < 0 || i >= len(d.Questions) {
		return scoring.Question{}, false
	}
	return d.Questions[i], true
}
