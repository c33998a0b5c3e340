package domain

import "time"

// NoticeDateLayout is the display date stored with a notice when none is given.
const NoticeDateLayout = "Mon Jan 02 2006"

// Notice is a campus announcement. UpvoteCount is only ever changed by the
// engagement reconciler.
type Notice struct {
	ID          int64
	Title       string
	Date        string
	Description string
	AuthorID    int64
	UpvoteCount int64
	CreatedAt   time.Time
}

// UpvoteResult is returned by a toggle so callers can render without refetching.
type UpvoteResult struct {
	UpvoteCount int64 `json:"upvoteCount"`
	Upvoted     bool  `json:"upvoted"`
}

// EngagementState lists the notices a user has read and upvoted.
type EngagementState struct {
	Read    []int64 `json:"read"`
	Upvoted []int64 `json:"upvoted"`
}
