// Package summary reads aggregate registration counts.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/ccj16/regdesk/internal/api"
	"github.com/ccj16/regdesk/internal/cachemanager"
)

// PackSummary totals the estimated attendance across all registrations.
type PackSummary struct {
	YouthCount  int `json:"youthCount"`
	LeaderCount int `json:"leaderCount"`
}

// Total is youth plus leaders.
func (p PackSummary) Total() int {
	return p.YouthCount + p.LeaderCount
}

const packKey = "pack"

// Service reads summaries from the backend.
type Service struct {
	pack *cachemanager.ReadThroughCache[string, PackSummary, struct{}]
}

// NewService creates a Service. A positive ttl caches results in memory.
func NewService(client *api.Client, ttl time.Duration) *Service {
	cache := cachemanager.NewInMemoryCacheManager[string, PackSummary]("summary", ttl, cachemanager.DefaultCleanupInterval)

	return &Service{
		pack: cachemanager.NewReadThroughCache[string, PackSummary, struct{}](
			cache,
			func(ctx context.Context, _ struct{}) (PackSummary, error) {
				return api.GetJSON[PackSummary](ctx, client, api.PathPackSummary, nil)
			},
			ttl,
		),
	}
}

// GetPack fetches the pack summary.
func (s *Service) GetPack(ctx context.Context) (PackSummary, error) {
	p, err := s.pack.Get(ctx, packKey, struct{}{})
	if err != nil {
		return PackSummary{}, fmt.Errorf("fetching pack summary: %w", err)
	}
	return p, nil
}

// Refresh drops any cached pack summary.
func (s *Service) Refresh(ctx context.Context) {
	s.pack.Invalidate(ctx, packKey)
}

// Markdown renders p for the summary view.
func Markdown(p PackSummary) string {
	return fmt.Sprintf("# Pack summary\n\n| | Count |\n|---|--:|\n| Youth | %d |\n| Leaders | %d |\n| **Total** | **%d** |\n",
		p.YouthCount, p.LeaderCount, p.Total())
}
