package gate

import "context"

// Policy defines resource-level authorization rules (typically ownership).
// U is the user/subject type. For list/create, resource may be nil.
type Policy[U any] interface {
	// Can returns true if user is authorized to perform action on resource.
	Can(ctx context.Context, user U, action Action, resource any) bool
}
