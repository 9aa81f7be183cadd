package devapi

import (
	"routehub-client/internal/dto"
)

func toUserBasic(u *User) *dto.UserBasicDto {
	if u == nil || u.ID == "" {
		return nil
	}
	return &dto.UserBasicDto{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		UserName:        u.UserName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

func toUserProfile(u *User) dto.UserProfile {
	return dto.UserProfile{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		UserName:        u.UserName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

func toCategoryDto(c Category) dto.CategoryDto {
	return dto.CategoryDto{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Icon:        c.Icon,
		CreatedDate: dto.NewTime(c.CreatedAt),
	}
}

func toRouteDto(r *Route, stopCount, commentCount int) dto.RouteDto {
	out := dto.RouteDto{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		RouteLink:    r.RouteLink,
		IsPublic:     r.IsPublic,
		ViewCount:    r.ViewCount,
		ThumbnailURL: r.ThumbnailURL,
		Status:       r.Status,
		StopCount:    stopCount,
		CommentCount: commentCount,
		CreatedDate:  dto.NewTime(r.CreatedAt),
		User:         toUserBasic(&r.User),
	}
	for _, c := range r.Categories {
		out.Categories = append(out.Categories, dto.CategoryBasicDto{
			ID:   c.ID,
			Name: c.Name,
			Slug: c.Slug,
			Icon: c.Icon,
		})
	}
	return out
}

func toStopDto(s Stop) dto.StopDto {
	return dto.StopDto{
		ID:          s.ID,
		RouteID:     s.RouteID,
		Title:       s.Title,
		Description: s.Description,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		Address:     s.Address,
		OrderNumber: s.OrderNumber,
		ImageURL:    s.ImageURL,
		Duration:    s.Duration,
		CreatedDate: dto.NewTime(s.CreatedAt),
	}
}

func toCommentBasic(c *Comment) dto.CommentBasicDto {
	return dto.CommentBasicDto{
		ID:              c.ID,
		RouteID:         c.RouteID,
		UserID:          c.UserID,
		ParentCommentID: c.ParentCommentID,
		Content:         c.Content,
		CreatedDate:     dto.NewTime(c.CreatedAt),
		User:            toUserBasic(&c.User),
	}
}

func toCommentDetail(b dto.CommentBasicDto) dto.CommentDetailDto {
	return dto.CommentDetailDto{
		ID:              b.ID,
		RouteID:         b.RouteID,
		UserID:          b.UserID,
		ParentCommentID: b.ParentCommentID,
		Content:         b.Content,
		CreatedDate:     b.CreatedDate,
		User:            b.User,
		Replies:         b.Replies,
	}
}

// nestComments arranges the flat rows of one route into reply trees.
// A comment whose parent is missing from rows becomes top-level and loses its parent id.
// Rows keep their relative order at every level.
func nestComments(rows []Comment) []dto.CommentBasicDto {
	present := make(map[string]bool, len(rows))
	for i := range rows {
		present[rows[i].ID] = true
	}

	children := make(map[string][]*Comment, len(rows))
	var roots []*Comment
	for i := range rows {
		c := &rows[i]
		if c.ParentCommentID != nil && *c.ParentCommentID != c.ID && present[*c.ParentCommentID] {
			children[*c.ParentCommentID] = append(children[*c.ParentCommentID], c)
			continue
		}
		roots = append(roots, c)
	}

	visited := make(map[string]bool, len(rows))
	var build func(c *Comment) dto.CommentBasicDto
	build = func(c *Comment) dto.CommentBasicDto {
		visited[c.ID] = true
		node := toCommentBasic(c)
		for _, child := range children[c.ID] {
			if visited[child.ID] {
				continue
			}
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	out := make([]dto.CommentBasicDto, 0, len(roots))
	for _, c := range roots {
		node := build(c)
		node.ParentCommentID = nil
		out = append(out, node)
	}
	return out
}
