package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-apply-agent/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CosineSimilarity(tc.a, tc.b)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestCosineSimilarityErrors(t *testing.T) {
	_, err := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})
	assert.Error(t, err)

	_, err = CosineSimilarity(nil, nil)
	assert.Error(t, err)

	_, err = CosineSimilarity([]float64{0, 0}, []float64{1, 2})
	assert.Error(t, err)
}

func TestJobText(t *testing.T) {
	job := &models.Job{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Description: "Build Go services.",
	}
	text := jobText(job)
	assert.Contains(t, text, "Backend Engineer at Acme")
	assert.Contains(t, text, "Remote")
	assert.Contains(t, text, "Build Go services.")
}
