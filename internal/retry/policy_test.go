package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())
	assert.Equal(t, ModeLinear, p.Mode)
	assert.Equal(t, time.Duration(0), p.Delay(0))
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 3*time.Second, p.Delay(3))
}

func TestNewPolicy_InvalidFallsBack(t *testing.T) {
	p := NewPolicy("bogus", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestNewPolicy_InitialClampedToMax(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Minute, 10*time.Second, 1)
	assert.Equal(t, 10*time.Second, p.Initial)
	assert.Equal(t, 10*time.Second, p.Delay(5))
}

func TestExponential_Caps(t *testing.T) {
	p := NewPolicy(ModeExponential, time.Second, 5*time.Second, 10)
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))
	assert.Equal(t, 5*time.Second, p.Delay(4))
	assert.Equal(t, 5*time.Second, p.Delay(80))
}

func TestDelayWithHint(t *testing.T) {
	p := NewPolicy(ModeLinear, time.Second, 10*time.Second, 3)
	assert.Equal(t, 2*time.Second, p.DelayWithHint(1, "2"))
	assert.Equal(t, 10*time.Second, p.DelayWithHint(1, "600"))
	assert.Equal(t, 2*time.Second, p.DelayWithHint(2, "soon"))
	assert.Equal(t, time.Second, p.DelayWithHint(1, ""))
}
