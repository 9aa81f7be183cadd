package dto

// UserBasicDto is the author summary embedded in routes and comments
type UserBasicDto struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	UserName        string `json:"userName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	FullName        string `json:"fullName,omitempty"`
}

// CategoryBasicDto is the category summary embedded in routes
type CategoryBasicDto struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

// CategoryDto is returned by the categories endpoints
type CategoryDto struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Icon        string `json:"icon,omitempty"`
	CreatedDate Time   `json:"createdDate"`
}

// CreateCategoryRequest is the body of POST /categories
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
	Icon string `json:"icon,omitempty"`
}

// RouteDto is a route as listed by the routes endpoints
type RouteDto struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	RouteLink    string             `json:"routeLink"`
	IsPublic     bool               `json:"isPublic"`
	ViewCount    int                `json:"viewCount"`
	ThumbnailURL string             `json:"thumbnailUrl,omitempty"`
	Status       int                `json:"status"`
	StopCount    int                `json:"stopCount"`
	CommentCount int                `json:"commentCount"`
	CreatedDate  Time               `json:"createdDate"`
	User         *UserBasicDto      `json:"user,omitempty"`
	Categories   []CategoryBasicDto `json:"categories,omitempty"`
}

// RouteDetailDto is a route with its stops and comment thread
type RouteDetailDto struct {
	RouteDto
	Stops    []StopDto         `json:"stops,omitempty"`
	Comments []CommentBasicDto `json:"comments,omitempty"`
}

// CreateRouteRequest is the body of POST /routes
type CreateRouteRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description,omitempty"`
	RouteLink    string   `json:"routeLink" binding:"required"`
	IsPublic     bool     `json:"isPublic"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	CategoryIDs  []string `json:"categoryIds,omitempty"`
}

// StopDto is a stop of a route
type StopDto struct {
	ID          string  `json:"id"`
	RouteID     string  `json:"routeId,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address,omitempty"`
	OrderNumber int     `json:"orderNumber"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Duration    int     `json:"duration,omitempty"`
	CreatedDate Time    `json:"createdDate"`
}

// CreateStopRequest is the body of POST /stops
type CreateStopRequest struct {
	RouteID     string  `json:"routeId" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address,omitempty"`
	OrderNumber int     `json:"orderNumber"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Duration    int     `json:"duration,omitempty"`
}
