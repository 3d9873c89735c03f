package ports

import "context"

// Notifier delivers rendered report text to the journal owner's chat.
// The scheduled risk report is pushed through this interface; the core only
// guarantees the shape of the report data, never its rendering.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
