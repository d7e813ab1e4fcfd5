package spectrum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventsHasBitmask(t *testing.T) {
	e := EventEndOfFrame | EventBreakpointHit
	require.True(t, e.Has(EventEndOfFrame))
	require.True(t, e.Has(EventBreakpointHit))
	require.False(t, e.Has(EventMachineStopped))
	require.True(t, e.Has(EventMachineStopped|EventBreakpointHit))
}

func TestEventsZeroValueHasNothing(t *testing.T) {
	var e Events
	require.False(t, e.Has(EventTicksLimitHit))
}
