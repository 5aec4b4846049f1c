package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageForMood(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"clearly positive", 0.8, StageBloom},
		{"just above bloom cutoff", 0.31, StageBloom},
		{"exactly at bloom cutoff", 0.3, StageSprout},
		{"neutral", 0.0, StageSprout},
		{"exactly at sprout cutoff", -0.1, StageSeed},
		{"clearly negative", -0.7, StageSeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StageForMood(tt.score))
		})
	}
}
