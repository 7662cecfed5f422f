package llm

import "context"

type purposeKey struct{}

// UnknownPurpose labels requests made without WithPurpose.
const UnknownPurpose = "unknown"

// WithPurpose tags requests made with ctx so the journal can group them.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return UnknownPurpose
}
