package sdk

// User is the authenticated account profile returned by the API.
type User struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	Credits     int64   `json:"credits"`
}

// Session is the token pair plus profile handed out by the auth endpoints.
// It is owned by the session store; the transport only reads tokens from it
// through the SessionBridge.
type Session struct {
	User            User   `json:"user"`
	AccessToken     string `json:"accessToken"`
	RefreshToken    string `json:"refreshToken"`
	AccessExpiresIn int64  `json:"accessExpiresIn"`
}

// CursorPage is one page of a cursor-paginated collection.
type CursorPage[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor,omitempty"`
	// HasMore may be omitted by the server; use More to read it.
	HasMore *bool `json:"hasMore,omitempty"`
}

// More reports whether another page exists. When the server omits hasMore
// it defaults to the presence of a next cursor.
func (p CursorPage[T]) More() bool {
	if p.HasMore != nil {
		return *p.HasMore
	}
	return p.NextCursor != nil
}

// Cursor returns the next cursor or "" when exhausted.
func (p CursorPage[T]) Cursor() string {
	if p.NextCursor == nil {
		return ""
	}
	return *p.NextCursor
}

// FlattenPages concatenates page items in order, the way feed views render
// an infinite list.
func FlattenPages[T any](pages []CursorPage[T]) []T {
	var items []T
	for _, page := range pages {
		items = append(items, page.Items...)
	}
	return items
}

// PageRequest carries cursor pagination inputs for list endpoints.
type PageRequest struct {
	Cursor string
	Limit  int
}
