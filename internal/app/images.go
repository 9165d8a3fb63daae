package app

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tourism_booking/internal/domain"
)

// ImageMigrator moves listing images that point at our own storage from the
// plain URL list into bucket-relative storage paths.
type ImageMigrator struct {
	repo   domain.CatalogRepository
	urls   URLBuilder
	bucket string
}

type MigrationReport struct {
	Scanned  int
	Changed  int
	Moved    int
	Failures int
}

func NewImageMigrator(r domain.CatalogRepository, urls URLBuilder, bucket string) *ImageMigrator {
	return &ImageMigrator{repo: r, urls: urls, bucket: bucket}
}

// Split returns the new image lists for l and how many URLs moved. Foreign
// URLs stay in images; paths already present are not duplicated.
func (m *ImageMigrator) Split(l domain.Listing) (images, paths []string, bucket string, moved int) {
	bucket = l.StorageBucket
	if bucket == "" {
		bucket = m.bucket
	}
	prefix := m.urls.PublicURL(bucket, "")
	seen := make(map[string]bool, len(l.StoragePaths))
	paths = append([]string{}, l.StoragePaths...)
	for _, p := range paths {
		seen[p] = true
	}
	images = []string{}
	for _, u := range l.Images {
		if !strings.HasPrefix(u, prefix) {
			images = append(images, u)
			continue
		}
		p := StoragePath(u, bucket)
		if p == "" {
			images = append(images, u)
			continue
		}
		moved++
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return images, paths, bucket, moved
}

// Run walks every listing with at most workers concurrent writes.
func (m *ImageMigrator) Run(ctx context.Context, workers int, dryRun bool) (MigrationReport, error) {
	all, err := m.repo.ListAllListings(ctx)
	if err != nil {
		return MigrationReport{}, err
	}
	if workers < 1 {
		workers = 1
	}

	var changed, moved, failures atomic.Int64
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, l := range all {
		images, paths, bucket, n := m.Split(l)
		if n == 0 {
			continue
		}
		changed.Add(1)
		moved.Add(int64(n))
		if dryRun {
			log.Info().Int64("listing_id", l.ID).Int("moved", n).Strs("paths", paths).Msg("would migrate images")
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := m.repo.UpdateListingImages(ctx, id, images, paths, bucket); err != nil {
				failures.Add(1)
				log.Warn().Int64("listing_id", id).Err(err).Msg("image migration failed")
				return
			}
			log.Info().Int64("listing_id", id).Int("moved", n).Msg("images migrated")
		}(l.ID)
	}
	wg.Wait()

	return MigrationReport{
		Scanned:  len(all),
		Changed:  int(changed.Load()),
		Moved:    int(moved.Load()),
		Failures: int(failures.Load()),
	}, ctx.Err()
}
