package photos

import "time"

// Photo is one archived meal image. The bytes live in object storage under
// ObjectKey; this row is only the per-account index.
type Photo struct {
	ID          int64
	UserID      int64
	ObjectKey   string
	ContentType string
	CreatedAt   time.Time
}
