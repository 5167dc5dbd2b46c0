package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTerminal(t *testing.T) {
	term, err := NewTerminal("North Gate", 12, 12, 57.70, 11.96)
	require.NoError(t, err)

	assert.Equal(t, "North Gate", term.Name())
	assert.Equal(t, StatusActive, term.Status())
	assert.True(t, term.IsActive())
	assert.Equal(t, 12, term.MaxSlots())
	assert.Equal(t, 12, term.AvailableSlots())
}

func TestNewTerminal_Validation(t *testing.T) {
	_, err := NewTerminal("", 10, 10, 0, 0)
	assert.Error(t, err)

	_, err = NewTerminal("Gate", 0, 0, 0, 0)
	assert.Error(t, err)

	_, err = NewTerminal("Gate", 10, 11, 0, 0)
	assert.Error(t, err, "available_slots cannot exceed max_slots")

	_, err = NewTerminal("Gate", 10, -1, 0, 0)
	assert.Error(t, err)
}

func TestSetCapacity(t *testing.T) {
	term, err := NewTerminal("Gate", 10, 10, 0, 0)
	require.NoError(t, err)

	require.NoError(t, term.SetCapacity(20, 15))
	assert.Equal(t, 20, term.MaxSlots())
	assert.Equal(t, 15, term.AvailableSlots())

	assert.Error(t, term.SetCapacity(0, 0))
	assert.Error(t, term.SetCapacity(5, 6))
}

func TestSetStatus(t *testing.T) {
	term, err := NewTerminal("Gate", 10, 10, 0, 0)
	require.NoError(t, err)

	require.NoError(t, term.SetStatus(StatusSuspended))
	assert.False(t, term.IsActive())

	require.NoError(t, term.SetStatus(StatusActive))
	assert.True(t, term.IsActive())

	assert.Error(t, term.SetStatus("CLOSED"))
}

func TestRename(t *testing.T) {
	term, err := NewTerminal("Gate", 10, 10, 0, 0)
	require.NoError(t, err)

	require.NoError(t, term.Rename("South Gate"))
	assert.Equal(t, "South Gate", term.Name())
	assert.Error(t, term.Rename(""))
}
