package core_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notesync/pkg/core"
)

func TestResult_Err(t *testing.T) {
	t.Run("OK has no error", func(t *testing.T) {
		r := core.Result{Op: "notes.load", Outcome: core.OutcomeOK}
		assert.True(t, r.OK())
		assert.NoError(t, r.Err())
	})

	t.Run("AuthMissing maps to sentinel", func(t *testing.T) {
		r := core.Result{Op: "notes.create", Outcome: core.OutcomeAuthMissing}
		assert.ErrorIs(t, r.Err(), core.ErrAuthMissing)
	})

	t.Run("Rejected keeps messages", func(t *testing.T) {
		r := core.Result{
			Op:       "session.register",
			Outcome:  core.OutcomeRejected,
			Status:   400,
			Messages: []string{"email taken", "password too short"},
		}

		var rejected *core.RejectedError
		require.True(t, errors.As(r.Err(), &rejected))
		assert.Equal(t, 400, rejected.Status)
		assert.Equal(t, []string{"email taken", "password too short"}, rejected.Messages)
		assert.Contains(t, rejected.Error(), "email taken; password too short")
	})

	t.Run("Transport unwraps cause", func(t *testing.T) {
		r := core.Result{Op: "notes.delete", Outcome: core.OutcomeTransport, Cause: io.ErrUnexpectedEOF}
		assert.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
	})
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "CREATE 7", core.Event{Type: core.EventCreate, ID: 7}.String())
	assert.Equal(t, "REPLACE 2 notes", core.Event{Type: core.EventReplace, Count: 2}.String())
	assert.Equal(t, "LOGOUT", core.Event{Type: core.EventLogout}.String())
}

func TestReplaced_NilBecomesEmpty(t *testing.T) {
	c := core.Replaced(nil)
	assert.Equal(t, core.ChangeReplaced, c.Kind)
	assert.NotNil(t, c.Notes)
	assert.Empty(t, c.Notes)
}
