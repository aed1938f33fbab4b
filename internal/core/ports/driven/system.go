package driven

import "context"

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Opener opens a file in the default application.
type Opener interface {
	Open(ctx context.Context, path string) error
}
