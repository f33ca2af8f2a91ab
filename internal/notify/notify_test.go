package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHub_ShowWithoutDisplayIsDropped(t *testing.T) {
	t.Parallel()

	h := NewHub()

	// Без зарегистрированного колбэка уведомление молча отбрасывается.
	require.NotPanics(t, func() {
		h.Error("Service unavailable", "network is unavailable")
	})
}

func TestHub_AttachReceives(t *testing.T) {
	t.Parallel()

	h := NewHub()

	var got []Notification
	h.Attach(func(n Notification) { got = append(got, n) })

	h.Success("Done", "Password changed")
	h.Error("Oops", "request failed")

	require.Len(t, got, 2)
	require.Equal(t, KindSuccess, got[0].Kind)
	require.Equal(t, "Done", got[0].Title)
	require.Equal(t, KindError, got[1].Kind)
}

func TestHub_DefaultButtons(t *testing.T) {
	t.Parallel()

	h := NewHub()

	var got Notification
	h.Attach(func(n Notification) { got = n })

	h.Success("Done", "ok")
	require.Equal(t, "OK", got.ConfirmText)
	require.Empty(t, got.CancelText)

	h.Confirm("Retry?", "Connection failed", nil, nil)
	require.Equal(t, "OK", got.ConfirmText)
	require.Equal(t, "Cancel", got.CancelText)

	h.Warning("Sign out?", "Unsaved changes", nil, nil)
	require.Equal(t, "Cancel", got.CancelText)

	// Явно заданные подписи кнопок не перетираются.
	h.Show(Notification{Kind: KindConfirm, ConfirmText: "Retry", CancelText: "Later"})
	require.Equal(t, "Retry", got.ConfirmText)
	require.Equal(t, "Later", got.CancelText)
}

func TestHub_AttachReplacesPrevious(t *testing.T) {
	t.Parallel()

	h := NewHub()

	var first, second int
	h.Attach(func(Notification) { first++ })
	h.Attach(func(Notification) { second++ })

	h.Error("x", "y")

	require.Zero(t, first)
	require.Equal(t, 1, second)
}

func TestHub_Detach(t *testing.T) {
	t.Parallel()

	h := NewHub()

	var calls int
	h.Attach(func(Notification) { calls++ })
	h.Detach()

	h.Error("x", "y")
	require.Zero(t, calls)
}

func TestHub_ConfirmCallbacks(t *testing.T) {
	t.Parallel()

	h := NewHub()

	var confirmed, cancelled bool
	h.Attach(func(n Notification) {
		// Хост решает, какую кнопку «нажать».
		n.OnConfirm()
	})

	h.Confirm("Retry?", "Connection failed",
		func() { confirmed = true },
		func() { cancelled = true },
	)

	require.True(t, confirmed)
	require.False(t, cancelled)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "success", KindSuccess.String())
	require.Equal(t, "error", KindError.String())
	require.Equal(t, "warning", KindWarning.String())
	require.Equal(t, "confirm", KindConfirm.String())
	require.Equal(t, "unknown", Kind(9).String())
}
