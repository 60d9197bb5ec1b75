package auth

import "context"

type subjectKey struct{}

// WithSubject stores the authenticated operator's name.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(subjectKey{}).(string); ok {
		return s
	}
	return ""
}
