package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampWellness(t *testing.T) {
	assert.Equal(t, 0, ClampWellness(-5))
	assert.Equal(t, 0, ClampWellness(0))
	assert.Equal(t, 55, ClampWellness(55))
	assert.Equal(t, 100, ClampWellness(100))
	assert.Equal(t, 100, ClampWellness(130))
}

func TestClampMood(t *testing.T) {
	assert.Equal(t, -1.0, ClampMood(-1.4))
	assert.Equal(t, -0.3, ClampMood(-0.3))
	assert.Equal(t, 1.0, ClampMood(2.0))
}
