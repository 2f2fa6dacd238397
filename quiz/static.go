package quiz

import (
	"context"
	_ "embed"

	"github.com/pkg/errors"

	"cadet_app_backend/scoring"
)

const DefaultTestID = "military-professions"

//go:embed data/military_professions.json
var militaryProfessions []byte

// StaticProvider serves the compiled-in datasets.
type StaticProvider struct {
	datasets      map[string]*Dataset
	defaultTestID string
}

// NewStaticProvider loads and validates the bundled dataset. It panics on a
// broken build since the data is compiled in. An empty defaultTestID means
// DefaultTestID.
func NewStaticProvider(defaultTestID string) *StaticProvider {
	ds, err := ParseDataset(militaryProfessions)
	if err == nil {
		err = ds.Validate(scoring.Default.Professions())
	}
	if err != nil {
		panic(err)
	}

	if defaultTestID == "" {
		defaultTestID = DefaultTestID
	}

	return &StaticProvider{datasets: map[string]*Dataset{ds.TestID: ds}, defaultTestID: defaultTestID}
}

func (p *StaticProvider) Dataset(_ context.Context, testID string) (*Dataset, error) {
	if testID == "" {
		testID = p.defaultTestID
	}
	ds, ok := p.datasets[testID]
	if !ok {
		return nil, errors.Wrap(ErrUnknownTest, testID)
	}

	return ds, nil
}
