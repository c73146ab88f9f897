package internal

import "context"

type actorKey struct{}

// ContextWithUserID records the authenticated caller. Services read it back
// to stamp the actor on the events they publish.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// UserIDFromContext returns "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	userID, _ := ctx.Value(actorKey{}).(string)
	return userID
}
