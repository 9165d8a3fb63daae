package domain

import (
	"strings"

	"tourism_booking/internal/i18n"
)

const SettingHero = "hero"

type HeroSettings struct {
	Type           string    `json:"type"` // video | image
	VideoURL       string    `json:"video_url,omitempty"`
	PosterURL      string    `json:"poster_url,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	Title          i18n.Text `json:"title"`
	Subtitle       i18n.Text `json:"subtitle"`
	OverlayOpacity float64   `json:"overlay_opacity"`
}

func (h HeroSettings) Validate() error {
	switch h.Type {
	case "video":
		if strings.TrimSpace(h.VideoURL) == "" {
			return Invalid("video_url", "required for video hero")
		}
	case "image":
		if strings.TrimSpace(h.ImageURL) == "" {
			return Invalid("image_url", "required for image hero")
		}
	default:
		return Invalid("type", "must be video or image")
	}
	if h.OverlayOpacity < 0 || h.OverlayOpacity > 1 {
		return Invalid("overlay_opacity", "must be between 0 and 1")
	}
	return nil
}
