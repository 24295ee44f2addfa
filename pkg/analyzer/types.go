package analyzer

import (
	"fmt"
	"time"
)

// Stats holds the raw engagement counters of one video snapshot.
type Stats struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

// Author identifies the creator of a video.
type Author struct {
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Followers int64  `json:"follower_count"`
}

// Metrics holds derived virality indicators computed by the analyzer.
type Metrics struct {
	ViralityScore  float64 `json:"virality_score"`
	EngagementRate float64 `json:"engagement_rate"`
}

// VideoSummary is one video as returned by the analyzer. Each fetch
// yields a fresh snapshot; summaries are never mutated in place.
type VideoSummary struct {
	PlatformID  string     `json:"video_platform_id"`
	InternalID  string     `json:"_id,omitempty"`
	Source      string     `json:"source"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at"`
	Author      Author     `json:"author"`
	Stats       Stats      `json:"stats"`
	Metrics     Metrics    `json:"metrics"`
}

// Validate checks the fields the gateway requires to be present.
func (v *VideoSummary) Validate() error {
	if v.PlatformID == "" {
		return fmt.Errorf("video summary missing video_platform_id")
	}
	return nil
}

// Pagination echoes the caller's page/limit plus the upstream-known
// total. The gateway never computes totals itself.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// Validate checks pagination invariants.
func (p *Pagination) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("pagination page %d out of range", p.Page)
	}
	if p.Limit < 1 {
		return fmt.Errorf("pagination limit %d out of range", p.Limit)
	}
	if p.Total < 0 {
		return fmt.Errorf("pagination total %d out of range", p.Total)
	}
	return nil
}

// TrendingPage is one page of the trending listing.
type TrendingPage struct {
	Data       []VideoSummary `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Validate checks the page and every contained summary.
func (t *TrendingPage) Validate() error {
	if err := t.Pagination.Validate(); err != nil {
		return err
	}
	for i := range t.Data {
		if err := t.Data[i].Validate(); err != nil {
			return fmt.Errorf("data[%d]: %w", i, err)
		}
	}
	return nil
}

// TrajectoryPoint is one timestamped statistics snapshot of a video.
// Points are ordered chronologically by the analyzer; the gateway
// never re-sorts them.
type TrajectoryPoint struct {
	SnapshotTime time.Time `json:"snapshot_time"`
	Stats        Stats     `json:"stats"`
}

// Validate checks the snapshot timestamp is present.
func (p *TrajectoryPoint) Validate() error {
	if p.SnapshotTime.IsZero() {
		return fmt.Errorf("trajectory point missing snapshot_time")
	}
	return nil
}

// DashboardStats holds the analyzer's aggregate counters.
type DashboardStats struct {
	TotalAssets int64  `json:"total_assets"`
	Status      string `json:"status"`
}

// Validate checks the aggregate block.
func (s *DashboardStats) Validate() error {
	if s.Status == "" {
		return fmt.Errorf("dashboard stats missing status")
	}
	if s.TotalAssets < 0 {
		return fmt.Errorf("dashboard total_assets %d out of range", s.TotalAssets)
	}
	return nil
}

// DashboardBundle merges the two independent dashboard fetches. It has
// no identity of its own beyond the cache entry built from it.
type DashboardBundle struct {
	Stats       DashboardStats `json:"stats"`
	Leaderboard []VideoSummary `json:"leaderboard"`
}

// Validate checks both halves of the bundle.
func (b *DashboardBundle) Validate() error {
	if err := b.Stats.Validate(); err != nil {
		return err
	}
	for i := range b.Leaderboard {
		if err := b.Leaderboard[i].Validate(); err != nil {
			return fmt.Errorf("leaderboard[%d]: %w", i, err)
		}
	}
	return nil
}
