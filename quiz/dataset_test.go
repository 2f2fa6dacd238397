package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cadet_app_backend/scoring"
)

const twoProfessionDataset = `{
	"test_id": "ab",
	"title": "A or B",
	"professions": [
		{"profession": "A", "title": "Alpha", "description": "first"},
		{"profession": "B", "title": "Bravo", "description": "second"}
	],
	"questions": [
		{"id": "q1", "text": "pick", "options": [
			{"id": "o1", "text": "alpha", "scores": [{"profession": "A", "score": 10}, {"profession": "B", "score": 0}]},
			{"id": "o2", "text": "bravo", "scores": [{"profession": "A", "score": 0}, {"profession": "B", "score": 10}]}
		]},
		{"id": "q2", "text": "again", "options": [
			{"id": "o1", "text": "alpha", "scores": [{"profession": "A", "score": 3}, {"profession": "B", "score": 1}]}
		]}
	]
}`

var abProfessions = []scoring.Profession{"A", "B"}

func helperDataset(t *testing.T) *Dataset {
	t.Helper()

	ds, err := ParseDataset([]byte(twoProfessionDataset))
	require.NoError(t, err)
	require.NoError(t, ds.Validate(abProfessions))

	return ds
}

func TestParseDataset(t *testing.T) {
	ds := helperDataset(t)

	require.Equal(t, "ab", ds.TestID)
	require.Equal(t, "A or B", ds.Title)
	require.Len(t, ds.Questions, 2)
	require.Equal(t, map[scoring.Profession]int{"A": 10, "B": 0}, ds.Questions[0].Options[0].Scores)
	require.Equal(t, Description{Title: "Bravo", Description: "second"}, ds.Descriptions["B"])

	q, ok := ds.Question(1)
	require.True(t, ok)
	require.Equal(t, "q2", q.ID)
	_, ok = ds.Question(2)
	require.False(t, ok)
	_, ok = ds.Question(-1)
	require.False(t, ok)
}

func TestParseDatasetMalformed(t *testing.T) {
	_, err := ParseDataset([]byte(`{"questions": [`))
	require.Error(t, err)
}

func TestEncodeParsesBack(t *testing.T) {
	ds := helperDataset(t)

	data, err := ds.Encode(abProfessions)
	require.NoError(t, err)
	decoded, err := ParseDataset(data)
	require.NoError(t, err)
	require.Equal(t, ds, decoded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Dataset)
		want   string
	}{
		{
			name:   "no questions",
			mutate: func(d *Dataset) { d.Questions = nil },
			want:   "no questions",
		},
		{
			name:   "duplicate question",
			mutate: func(d *Dataset) { d.Questions[1].ID = "q1" },
			want:   `duplicate question id "q1"`,
		},
		{
			name:   "no options",
			mutate: func(d *Dataset) { d.Questions[1].Options = nil },
			want:   `question "q2" has no options`,
		},
		{
			name: "duplicate option",
			mutate: func(d *Dataset) {
				d.Questions[0].Options[1].ID = "o1"
			},
			want: `question "q1": duplicate option id "o1"`,
		},
		{
			name:   "missing score",
			mutate: func(d *Dataset) { delete(d.Questions[0].Options[0].Scores, "B") },
			want:   `question "q1" option "o1": missing score for B`,
		},
		{
			name:   "negative score",
			mutate: func(d *Dataset) { d.Questions[1].Options[0].Scores["A"] = -1 },
			want:   `question "q2" option "o1": negative score for A`,
		},
		{
			name:   "unknown profession",
			mutate: func(d *Dataset) { d.Questions[1].Options[0].Scores["C"] = 1 },
			want:   `question "q2" option "o1": unknown profession C`,
		},
		{
			name:   "missing description",
			mutate: func(d *Dataset) { delete(d.Descriptions, "A") },
			want:   "missing description for A",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := helperDataset(t)
			tt.mutate(ds)

			err := ds.Validate(abProfessions)
			require.ErrorIs(t, err, ErrInvalidDataset)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	ds := helperDataset(t)
	ds.Questions[0].Options[0].Scores["A"] = -5
	ds.Questions[1].Options = nil

	err := ds.Validate(abProfessions)
	require.ErrorIs(t, err, ErrInvalidDataset)
	require.Contains(t, err.Error(), "negative score for A")
	require.Contains(t, err.Error(), `question "q2" has no options`)
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(DefaultTestID)

	ds, err := p.Dataset(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultTestID, ds.TestID)
	require.Len(t, ds.Questions, 2)
	for _, q := range ds.Questions {
		require.Len(t, q.Options, 5)
	}
	require.Equal(t, "Бойовий офіцер", ds.Descriptions[scoring.CombatOfficer].Title)

	same, err := p.Dataset(context.Background(), DefaultTestID)
	require.NoError(t, err)
	require.Same(t, ds, same)

	_, err = p.Dataset(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownTest)
}

func TestStaticProviderDefaultTestID(t *testing.T) {
	ds, err := NewStaticProvider("").Dataset(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultTestID, ds.TestID)

	p := NewStaticProvider("officer-2027")
	_, err = p.Dataset(context.Background(), "")
	require.ErrorIs(t, err, ErrUnknownTest)

	ds, err = p.Dataset(context.Background(), DefaultTestID)
	require.NoError(t, err)
	require.Equal(t, DefaultTestID, ds.TestID)
}

func TestStaticDatasetScores(t *testing.T) {
	ds, err := NewStaticProvider(DefaultTestID).Dataset(context.Background(), DefaultTestID)
	require.NoError(t, err)

	// "Швидко приймаю рішення та дію" then "Можливість керувати підрозділом".
	dist := scoring.Score(ds.Questions, []scoring.Answer{
		{QuestionID: "1", OptionID: "1"},
		{QuestionID: "2", OptionID: "1"},
	})
	ranked := scoring.Rank(dist)

	require.Equal(t, scoring.CombatOfficer, ranked[0].Profession)
	require.Equal(t, 31, ranked[0].Percentage)
}
