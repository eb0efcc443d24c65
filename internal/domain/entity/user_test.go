package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Empty(t, u.SessionID)
}

func TestUser_BindUnbindSession(t *testing.T) {
	u := NewUser(1, 10)

	u.BindSession("s-1")
	require.Equal(t, StateInspecting, u.State)
	require.Equal(t, "s-1", u.SessionID)

	u.UnbindSession()
	require.Equal(t, StateMainMenu, u.State)
	require.Empty(t, u.SessionID)
}
