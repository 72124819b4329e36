package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "¥150,000", Format(150000))
	assert.Equal(t, "¥0", Format(0))
	assert.Equal(t, "-¥1,200", Format(-1200))
	assert.Equal(t, "1,234,567", Number(1234567))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "66.7%", Percent(200.0/3))
	assert.Equal(t, "100.0%", Percent(100))
}
