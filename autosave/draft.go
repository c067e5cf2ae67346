package autosave

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"

	sdk "github.com/fitroom/fitroom-go"
)

// DraftPayload is one autosave snapshot of the look being composed.
// ImageData carries the rendered image bytes only when the image changed
// since the last saved revision; nil leaves the server-side image alone.
type DraftPayload struct {
	Title       string
	Description string
	Style       string
	Visibility  sdk.LookVisibility
	Tags        []string
	ImageData   []byte
	ClearImage  bool
}

// NewDraftCoordinator returns a coordinator that autosaves the caller's
// server-side look draft.
func NewDraftCoordinator(social *sdk.SocialClient, logger zerolog.Logger) *Coordinator[DraftPayload] {
	return New(Config[DraftPayload]{
		Save: func(ctx context.Context, p DraftPayload) error {
			req := sdk.UpsertLookDraftRequest{
				Title:       p.Title,
				Description: p.Description,
				Style:       p.Style,
				Visibility:  p.Visibility,
				Tags:        p.Tags,
				ClearImage:  p.ClearImage,
			}
			if len(p.ImageData) > 0 {
				req.Image = bytes.NewReader(p.ImageData)
			}
			_, err := social.UpsertLookDraft(ctx, req)
			return err
		},
		Logger: logger,
	})
}
