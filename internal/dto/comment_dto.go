package dto

// CommentBasicDto is a reply as nested inside a thread payload.
// Replies may carry their own replies to any depth.
type CommentBasicDto struct {
	ID              string            `json:"id"`
	RouteID         string            `json:"routeId,omitempty"`
	UserID          string            `json:"userId,omitempty"`
	ParentCommentID *string           `json:"parentCommentId,omitempty"`
	Content         string            `json:"content"`
	CreatedDate     Time              `json:"createdDate"`
	User            *UserBasicDto     `json:"user,omitempty"`
	Replies         []CommentBasicDto `json:"replies,omitempty"`
}

// CommentDetailDto is a top-level comment returned by GET /comments/route/{routeId}
type CommentDetailDto struct {
	ID              string            `json:"id"`
	RouteID         string            `json:"routeId"`
	UserID          string            `json:"userId"`
	ParentCommentID *string           `json:"parentCommentId,omitempty"`
	Content         string            `json:"content"`
	CreatedDate     Time              `json:"createdDate"`
	User            *UserBasicDto     `json:"user,omitempty"`
	Replies         []CommentBasicDto `json:"replies,omitempty"`
}

// AsBasic returns the detail DTO in the uniform nested shape
func (d CommentDetailDto) AsBasic() CommentBasicDto {
	return CommentBasicDto{
		ID:              d.ID,
		RouteID:         d.RouteID,
		UserID:          d.UserID,
		ParentCommentID: d.ParentCommentID,
		Content:         d.Content,
		CreatedDate:     d.CreatedDate,
		User:            d.User,
		Replies:         d.Replies,
	}
}

// CreateCommentRequest is the body of POST /comments
type CreateCommentRequest struct {
	RouteID         string  `json:"routeId" binding:"required"`
	UserID          string  `json:"userId,omitempty"`
	Content         string  `json:"content" binding:"required,min=3"`
	ParentCommentID *string `json:"parentCommentId,omitempty"`
}

// UpdateCommentRequest is the body of PUT /comments
type UpdateCommentRequest struct {
	ID      string `json:"id" binding:"required"`
	Content string `json:"content" binding:"required,min=3"`
}

// CreatedDto is the payload some endpoints return after a create
type CreatedDto struct {
	ID string `json:"id"`
}
