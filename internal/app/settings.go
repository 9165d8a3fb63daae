package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

// DefaultHero is served until an admin stores hero settings.
func DefaultHero() domain.HeroSettings {
	return domain.HeroSettings{
		Type:      "video",
		VideoURL:  "/static/hero/alanya.mp4",
		PosterURL: "/static/hero/alanya.jpg",
		Title: i18n.Text{
			TR: "Alanya'da Tatilinizi Planlayın",
			EN: "Plan Your Holiday in Alanya",
			RU: "Спланируйте отдых в Алании",
			AR: "خطط لعطلتك في ألانيا",
		},
		Subtitle: i18n.Text{
			TR: "Araç, tekne, villa ve transfer tek adreste",
			EN: "Cars, boats, villas and transfers in one place",
			RU: "Автомобили, яхты, виллы и трансферы в одном месте",
			AR: "السيارات والقوارب والفلل والنقل في مكان واحد",
		},
		OverlayOpacity: 0.4,
	}
}

type SettingsService struct {
	repo     domain.SettingsRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSettingsService(r domain.SettingsRepository, c domain.Cache, ttl time.Duration) *SettingsService {
	if c == nil {
		c = NopCache{}
	}
	return &SettingsService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *SettingsService) Hero(ctx context.Context) (domain.HeroSettings, error) {
	key := prefixSettings + domain.SettingHero
	var h domain.HeroSettings
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	raw, err := s.repo.GetSetting(ctx, domain.SettingHero)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return DefaultHero(), nil
	case err != nil:
		return domain.HeroSettings{}, err
	}
	if err := json.Unmarshal(raw, &h); err != nil {
		log.Warn().Err(err).Msg("stored hero settings unreadable, serving defaults")
		return DefaultHero(), nil
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func (s *SettingsService) PutHero(ctx context.Context, h domain.HeroSettings) (domain.HeroSettings, error) {
	if err := h.Validate(); err != nil {
		return domain.HeroSettings{}, err
	}
	b, err := json.Marshal(h)
	if err != nil {
		return domain.HeroSettings{}, err
	}
	if err := s.repo.PutSetting(ctx, domain.SettingHero, b); err != nil {
		return domain.HeroSettings{}, err
	}
	_ = s.cache.Del(ctx, prefixSettings+domain.SettingHero)
	return h, nil
}
