package llm

import "context"

// Purpose labels recorded with each request event.
const (
	PurposeMCQ           = "mcq"
	PurposeBinary        = "binary"
	PurposeExplain       = "explain"
	PurposePrerequisites = "prerequisites"
	PurposeSimilar       = "similar"

	purposeUnknown = "unknown"
)

type purposeCtxKey struct{}

// WithPurpose tags ctx so the logging decorator can attribute the call.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeCtxKey{}, purpose)
}

// PurposeFrom returns the purpose set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeCtxKey{}).(string); ok && p != "" {
		return p
	}
	return purposeUnknown
}
