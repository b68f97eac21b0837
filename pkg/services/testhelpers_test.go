package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"workoutvibes-api/pkg/diet"
)

// stubGenerator は常に同じ文章を返す生成AIです。release が設定されていれば閉じられるまで待ちます。
type stubGenerator struct {
	text    string
	started chan struct{}
	release chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, _ string) (string, error) {
	if g.started != nil {
		select {
		case g.started <- struct{}{}:
		default:
		}
	}
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, nil
}

func testProfile() diet.Profile {
	return diet.Profile{
		Name:              "Asha",
		Age:               28,
		Height:            170,
		Weight:            65,
		CaloriesIntake:    2000,
		CaloriesBurn:      400,
		Country:           "India",
		DietaryPreference: "vegetarian",
		Goal:              "weight loss",
		Exercises:         "regular yoga and walking",
	}
}

func newTestPipeline(t *testing.T, gen diet.TextGenerator, obs diet.Observer) *diet.Pipeline {
	t.Helper()
	p, err := diet.NewPipeline(gen, diet.Options{Observer: obs})
	require.NoError(t, err)
	return p
}
