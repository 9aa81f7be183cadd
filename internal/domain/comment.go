package domain

import "time"

// Author is the snapshot of the posting user taken when the comment was created.
// It is not refreshed when the user's profile changes later.
type Author struct {
	ID              string
	FirstName       string
	LastName        string
	UserName        string
	ProfileImageURL string
}

// DisplayName returns the best human-readable name for the author
func (a Author) DisplayName() string {
	full := a.FirstName
	if a.LastName != "" {
		if full != "" {
			full += " "
		}
		full += a.LastName
	}
	switch {
	case full != "":
		return full
	case a.UserName != "":
		return a.UserName
	default:
		return "anonymous"
	}
}

// CommentNode is one comment or reply of a route's thread.
// Top-level comments have an empty ParentID.
type CommentNode struct {
	ID        string
	RouteID   string
	AuthorID  string
	Author    Author
	Content   string
	CreatedAt time.Time
	ParentID  string
	Children  []*CommentNode
}

// IsTopLevel reports whether the node is attached directly to the route
func (n *CommentNode) IsTopLevel() bool {
	return n.ParentID == ""
}
