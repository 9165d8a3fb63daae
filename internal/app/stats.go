package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"tourism_booking/internal/domain"
)

type StatsService struct {
	repo domain.StatsRepository
	loc  *time.Location
	now  func() time.Time
}

func NewStatsService(r domain.StatsRepository, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{repo: r, loc: loc, now: time.Now}
}

// Dashboard runs the independent counts concurrently.
func (s *StatsService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var st domain.DashboardStats
	today := domain.DateOf(s.now().In(s.loc))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.ListingsByService, err = s.repo.CountListingsByService(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.ReservationsByStatus, err = s.repo.CountReservationsByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.UpcomingReservations, err = s.repo.CountUpcomingReservations(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		st.PublishedBlogPosts, err = s.repo.CountPublished(ctx, "blog_posts")
		return err
	})
	g.Go(func() (err error) {
		st.ActiveCampaigns, err = s.repo.CountPublished(ctx, "campaigns")
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}
	return st, nil
}
