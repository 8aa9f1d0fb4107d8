package ports

import "context"

// RulesProvider serves static rules reference content (action catalogue,
// dice notation) published alongside the API.
type RulesProvider interface {
	Index(ctx context.Context) ([]byte, error)
	File(ctx context.Context, path string) ([]byte, error)
}
