package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_String(t *testing.T) {
	assert.Equal(t, `ADD_WAYPOINT("WK6    WPT1 ", 1, false)`, InsertWaypoint("WK6    WPT1 ", 1).String())
	assert.Equal(t, "CLEAR_CURRENT_FLIGHT_PLAN", ClearPlan().String())
	assert.Equal(t, "SET_CRUISE_ALTITUDE(35000)", SetCruiseAltitude(35000).String())
}

func TestCommand_Args(t *testing.T) {
	cmd := InsertWaypoint("WK6    WPT1 ", 2)

	id, err := cmd.Str(0)
	require.NoError(t, err)
	assert.Equal(t, "WK6    WPT1 ", id)

	idx, err := cmd.Int(1)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = cmd.Int(0)
	assert.Error(t, err)
	_, err = cmd.Str(5)
	assert.Error(t, err)
}
