package view

import "time"

// ToastKind selects the toast styling.
type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastWarning ToastKind = "warning"
	ToastError   ToastKind = "error"
)

// Toast timeline.
const (
	ToastShowDelay       = 10 * time.Millisecond
	ToastDisplayDuration = 3 * time.Second
	ToastRemoveDelay     = 300 * time.Millisecond
)

// Toast is a transient notification. Every toast is an independent node:
// two toasts with the same message are both shown.
type Toast struct {
	Message     string
	Kind        ToastKind
	ShowDelay   time.Duration
	DisplayFor  time.Duration
	RemoveDelay time.Duration
}

// NewToast creates a toast with the standard timeline. An empty kind is info.
func NewToast(message string, kind ToastKind) Toast {
	if kind == "" {
		kind = ToastInfo
	}
	return Toast{
		Message:     message,
		Kind:        kind,
		ShowDelay:   ToastShowDelay,
		DisplayFor:  ToastDisplayDuration,
		RemoveDelay: ToastRemoveDelay,
	}
}

// Class returns the CSS classes of the toast node before it is shown.
func (t Toast) Class() string {
	return "toast toast-" + string(t.Kind)
}

// HideAt is the offset from creation at which the toast loses "show".
func (t Toast) HideAt() time.Duration {
	return t.DisplayFor
}

// RemoveAt is the offset from creation at which the node is removed.
func (t Toast) RemoveAt() time.Duration {
	return t.DisplayFor + t.RemoveDelay
}
