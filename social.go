package sdk

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fitroom/fitroom-go/routes"
)

// LookVisibility controls who can see a published look.
type LookVisibility string

const (
	LookVisibilityPublic    LookVisibility = "public"
	LookVisibilityFollowers LookVisibility = "followers"
	LookVisibilityPrivate   LookVisibility = "private"
)

// SocialUser is the compact author representation embedded in looks and comments.
type SocialUser struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// SocialProfile is a user's public profile with follow state.
type SocialProfile struct {
	SocialUser
	Bio            *string `json:"bio,omitempty"`
	FollowersCount int     `json:"followersCount"`
	FollowingCount int     `json:"followingCount"`
	LooksCount     int     `json:"looksCount"`
	IsFollowing    bool    `json:"isFollowing"`
	IsMe           bool    `json:"isMe"`
}

// Look is a published try-on look in the social feed.
type Look struct {
	ID            string         `json:"id"`
	Author        SocialUser     `json:"author"`
	ImageURL      string         `json:"imageUrl"`
	Title         string         `json:"title"`
	Description   *string        `json:"description,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Style         *string        `json:"style,omitempty"`
	Visibility    LookVisibility `json:"visibility"`
	LikesCount    int            `json:"likesCount"`
	CommentsCount int            `json:"commentsCount"`
	IsLikedByMe   bool           `json:"isLikedByMe"`
	CreatedAt     string         `json:"createdAt"`
}

// LookDraft is the server-side draft of an unpublished look.
type LookDraft struct {
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Style        *string         `json:"style,omitempty"`
	Visibility   *LookVisibility `json:"visibility,omitempty"`
	ImageURL     *string         `json:"imageUrl,omitempty"`
	ImageDataURI *string         `json:"imageDataUri,omitempty"`
	UpdatedAt    string          `json:"updatedAt"`
}

// Comment is a single comment on a look.
type Comment struct {
	ID           string     `json:"id"`
	LookID       string     `json:"lookId"`
	Author       SocialUser `json:"author"`
	Body         string     `json:"body"`
	ParentID     *string    `json:"parentId,omitempty"`
	CreatedAt    string     `json:"createdAt"`
	RepliesCount int        `json:"repliesCount"`
	IsLikedByMe  bool       `json:"isLikedByMe"`
	LikesCount   int        `json:"likesCount"`
	CanDelete    bool       `json:"canDelete"`
}

// FollowRelation is the authoritative follow state returned by the
// follow/unfollow endpoints.
type FollowRelation struct {
	UserID         string `json:"userId"`
	IsFollowing    bool   `json:"isFollowing"`
	FollowersCount int    `json:"followersCount"`
}

// CreateLookRequest contains the fields to publish a look.
type CreateLookRequest struct {
	// Image is the rendered look image; the bytes are sent as-is.
	Image       io.Reader
	Title       string
	Description string
	Style       string
	Visibility  LookVisibility
	Tags        []string
}

// UpsertLookDraftRequest is the autosave payload for the server-side draft.
// Image is attached only when the local image changed since the last saved
// revision; ClearImage removes it server-side.
type UpsertLookDraftRequest struct {
	Title       string
	Description string
	Style       string
	Visibility  LookVisibility
	Tags        []string
	Image       io.Reader
	ClearImage  bool
}

// UpdateMyProfileRequest patches the caller's social profile.
type UpdateMyProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// ListCommentsRequest carries pagination plus optional thread parent.
type ListCommentsRequest struct {
	PageRequest
	// ParentID selects a reply thread; nil lists top-level comments.
	ParentID *string
}

// SocialClient provides methods for the looks feed, profiles, follows,
// likes, comments, and the server-side look draft.
type SocialClient struct {
	client *Client
}

// ensureInitialized returns an error if the client is not properly initialized.
func (c *SocialClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("sdk: social client not initialized")
	}
	return nil
}

func cursorQuery(page PageRequest) url.Values {
	params := url.Values{}
	if page.Cursor != "" {
		params.Set("cursor", page.Cursor)
	}
	if page.Limit > 0 {
		params.Set("limit", strconv.Itoa(page.Limit))
	}
	return params
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// PublishedLooks returns one page of the published-looks feed.
func (c *SocialClient) PublishedLooks(ctx context.Context, page PageRequest) (CursorPage[Look], error) {
	if err := c.ensureInitialized(); err != nil {
		return CursorPage[Look]{}, err
	}
	var resp CursorPage[Look]
	if err := c.client.sendAndDecode(ctx, http.MethodGet, withQuery(routes.SocialLooks, cursorQuery(page)), nil, &resp); err != nil {
		return CursorPage[Look]{}, err
	}
	return resp, nil
}

// MyProfile returns the caller's own social profile.
func (c *SocialClient) MyProfile(ctx context.Context) (SocialProfile, error) {
	if err := c.ensureInitialized(); err != nil {
		return SocialProfile{}, err
	}
	var resp SocialProfile
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.SocialProfileMe, nil, &resp); err != nil {
		return SocialProfile{}, err
	}
	return resp, nil
}

// Profile returns another user's social profile.
func (c *SocialClient) Profile(ctx context.Context, userID string) (SocialProfile, error) {
	if err := c.ensureInitialized(); err != nil {
		return SocialProfile{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return SocialProfile{}, ConfigError{Reason: "user id required"}
	}
	var resp SocialProfile
	path := fmt.Sprintf("%s/%s", routes.SocialProfiles, url.PathEscape(userID))
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return SocialProfile{}, err
	}
	return resp, nil
}

// UpdateMyProfile patches the caller's social profile.
func (c *SocialClient) UpdateMyProfile(ctx context.Context, req UpdateMyProfileRequest) (SocialProfile, error) {
	if err := c.ensureInitialized(); err != nil {
		return SocialProfile{}, err
	}
	var resp SocialProfile
	if err := c.client.sendAndDecode(ctx, http.MethodPatch, routes.SocialProfileMe, req, &resp); err != nil {
		return SocialProfile{}, err
	}
	return resp, nil
}

// ProfileLooks returns one page of a user's published looks.
func (c *SocialClient) ProfileLooks(ctx context.Context, userID string, page PageRequest) (CursorPage[Look], error) {
	if err := c.ensureInitialized(); err != nil {
		return CursorPage[Look]{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return CursorPage[Look]{}, ConfigError{Reason: "user id required"}
	}
	var resp CursorPage[Look]
	path := fmt.Sprintf("%s/%s/looks", routes.SocialProfiles, url.PathEscape(userID))
	if err := c.client.sendAndDecode(ctx, http.MethodGet, withQuery(path, cursorQuery(page)), nil, &resp); err != nil {
		return CursorPage[Look]{}, err
	}
	return resp, nil
}

// Followers returns one page of a user's followers.
func (c *SocialClient) Followers(ctx context.Context, userID string, page PageRequest) (CursorPage[SocialProfile], error) {
	return c.listProfiles(ctx, userID, "followers", page)
}

// Following returns one page of the users a user follows.
func (c *SocialClient) Following(ctx context.Context, userID string, page PageRequest) (CursorPage[SocialProfile], error) {
	return c.listProfiles(ctx, userID, "following", page)
}

func (c *SocialClient) listProfiles(ctx context.Context, userID, relation string, page PageRequest) (CursorPage[SocialProfile], error) {
	if err := c.ensureInitialized(); err != nil {
		return CursorPage[SocialProfile]{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return CursorPage[SocialProfile]{}, ConfigError{Reason: "user id required"}
	}
	var resp CursorPage[SocialProfile]
	path := fmt.Sprintf("%s/%s/%s", routes.SocialProfiles, url.PathEscape(userID), relation)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, withQuery(path, cursorQuery(page)), nil, &resp); err != nil {
		return CursorPage[SocialProfile]{}, err
	}
	return resp, nil
}

// Look fetches a single look by id.
func (c *SocialClient) Look(ctx context.Context, lookID string) (Look, error) {
	if err := c.ensureInitialized(); err != nil {
		return Look{}, err
	}
	if strings.TrimSpace(lookID) == "" {
		return Look{}, ConfigError{Reason: "look id required"}
	}
	var resp Look
	path := fmt.Sprintf("%s/%s", routes.SocialLooks, url.PathEscape(lookID))
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return Look{}, err
	}
	return resp, nil
}

// CreateLook publishes a look from the supplied image and metadata.
func (c *SocialClient) CreateLook(ctx context.Context, req CreateLookRequest) (Look, error) {
	if err := c.ensureInitialized(); err != nil {
		return Look{}, err
	}
	if req.Image == nil {
		return Look{}, ConfigError{Reason: "look image required"}
	}
	if strings.TrimSpace(req.Title) == "" {
		return Look{}, ConfigError{Reason: "look title required"}
	}
	httpReq, err := c.client.newFormRequest(ctx, http.MethodPost, routes.SocialLooks, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("image", "look.jpg")
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, req.Image); err != nil {
			return err
		}
		if err := w.WriteField("title", strings.TrimSpace(req.Title)); err != nil {
			return err
		}
		if err := w.WriteField("description", strings.TrimSpace(req.Description)); err != nil {
			return err
		}
		if err := w.WriteField("style", req.Style); err != nil {
			return err
		}
		if err := w.WriteField("visibility", string(req.Visibility)); err != nil {
			return err
		}
		for _, tag := range req.Tags {
			if err := w.WriteField("tags[]", tag); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Look{}, err
	}
	resp, err := c.client.send(httpReq)
	if err != nil {
		return Look{}, err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	var look Look
	if err := decodeJSON(resp.Body, &look); err != nil {
		return Look{}, err
	}
	return look, nil
}

// Like marks a look as liked and returns the authoritative look state.
func (c *SocialClient) Like(ctx context.Context, lookID string) (Look, error) {
	return c.setLike(ctx, lookID, http.MethodPost)
}

// Unlike removes a like and returns the authoritative look state.
func (c *SocialClient) Unlike(ctx context.Context, lookID string) (Look, error) {
	return c.setLike(ctx, lookID, http.MethodDelete)
}

func (c *SocialClient) setLike(ctx context.Context, lookID, method string) (Look, error) {
	if err := c.ensureInitialized(); err != nil {
		return Look{}, err
	}
	if strings.TrimSpace(lookID) == "" {
		return Look{}, ConfigError{Reason: "look id required"}
	}
	var resp Look
	path := fmt.Sprintf("%s/%s/likes", routes.SocialLooks, url.PathEscape(lookID))
	if err := c.client.sendAndDecode(ctx, method, path, nil, &resp); err != nil {
		return Look{}, err
	}
	return resp, nil
}

// Follow subscribes the caller to a user and returns the authoritative
// follow state.
func (c *SocialClient) Follow(ctx context.Context, userID string) (FollowRelation, error) {
	return c.setFollow(ctx, userID, http.MethodPost)
}

// Unfollow removes the subscription and returns the authoritative state.
func (c *SocialClient) Unfollow(ctx context.Context, userID string) (FollowRelation, error) {
	return c.setFollow(ctx, userID, http.MethodDelete)
}

func (c *SocialClient) setFollow(ctx context.Context, userID, method string) (FollowRelation, error) {
	if err := c.ensureInitialized(); err != nil {
		return FollowRelation{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return FollowRelation{}, ConfigError{Reason: "user id required"}
	}
	var resp FollowRelation
	path := fmt.Sprintf("/social/follows/%s", url.PathEscape(userID))
	if err := c.client.sendAndDecode(ctx, method, path, nil, &resp); err != nil {
		return FollowRelation{}, err
	}
	return resp, nil
}

// Comments returns one page of a look's comments, optionally scoped to a
// reply thread.
func (c *SocialClient) Comments(ctx context.Context, lookID string, req ListCommentsRequest) (CursorPage[Comment], error) {
	if err := c.ensureInitialized(); err != nil {
		return CursorPage[Comment]{}, err
	}
	if strings.TrimSpace(lookID) == "" {
		return CursorPage[Comment]{}, ConfigError{Reason: "look id required"}
	}
	params := cursorQuery(req.PageRequest)
	if req.ParentID != nil {
		params.Set("parentId", *req.ParentID)
	}
	var resp CursorPage[Comment]
	path := fmt.Sprintf("%s/%s/comments", routes.SocialLooks, url.PathEscape(lookID))
	if err := c.client.sendAndDecode(ctx, http.MethodGet, withQuery(path, params), nil, &resp); err != nil {
		return CursorPage[Comment]{}, err
	}
	return resp, nil
}

// CreateComment posts a comment (or a reply when parentID is non-nil).
func (c *SocialClient) CreateComment(ctx context.Context, lookID, body string, parentID *string) (Comment, error) {
	if err := c.ensureInitialized(); err != nil {
		return Comment{}, err
	}
	if strings.TrimSpace(lookID) == "" {
		return Comment{}, ConfigError{Reason: "look id required"}
	}
	if strings.TrimSpace(body) == "" {
		return Comment{}, ConfigError{Reason: "comment body required"}
	}
	payload := struct {
		Body     string  `json:"body"`
		ParentID *string `json:"parentId"`
	}{Body: body, ParentID: parentID}
	var resp Comment
	path := fmt.Sprintf("%s/%s/comments", routes.SocialLooks, url.PathEscape(lookID))
	if err := c.client.sendAndDecode(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return Comment{}, err
	}
	return resp, nil
}

// DeleteComment removes the caller's own comment.
func (c *SocialClient) DeleteComment(ctx context.Context, commentID string) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if strings.TrimSpace(commentID) == "" {
		return ConfigError{Reason: "comment id required"}
	}
	path := fmt.Sprintf("/social/comments/%s", url.PathEscape(commentID))
	return c.client.sendAndDecode(ctx, http.MethodDelete, path, nil, nil)
}

// LookDraft fetches the caller's server-side draft. A missing draft (404
// or empty body) is reported as nil, not an error.
func (c *SocialClient) LookDraft(ctx context.Context) (*LookDraft, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var resp *LookDraft
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.SocialLookDraftMe, nil, &resp); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return resp, nil
}

// UpsertLookDraft saves the draft as multipart form data. The server may
// answer with the updated draft or an empty body; the latter yields nil.
func (c *SocialClient) UpsertLookDraft(ctx context.Context, req UpsertLookDraftRequest) (*LookDraft, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	httpReq, err := c.client.newFormRequest(ctx, http.MethodPut, routes.SocialLookDraftMe, func(w *multipart.Writer) error {
		if err := w.WriteField("title", req.Title); err != nil {
			return err
		}
		if err := w.WriteField("description", req.Description); err != nil {
			return err
		}
		if err := w.WriteField("style", req.Style); err != nil {
			return err
		}
		if err := w.WriteField("visibility", string(req.Visibility)); err != nil {
			return err
		}
		for _, tag := range req.Tags {
			if err := w.WriteField("tags[]", tag); err != nil {
				return err
			}
		}
		if req.Image != nil {
			part, err := w.CreateFormFile("image", "draft-look.jpg")
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, req.Image); err != nil {
				return err
			}
		}
		if req.ClearImage {
			if err := w.WriteField("clearImage", "true"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp, err := c.client.send(httpReq)
	if err != nil {
		return nil, err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	var draft *LookDraft
	if err := decodeJSON(resp.Body, &draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// DeleteLookDraft discards the caller's server-side draft.
func (c *SocialClient) DeleteLookDraft(ctx context.Context) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	return c.client.sendAndDecode(ctx, http.MethodDelete, routes.SocialLookDraftMe, nil, nil)
}
