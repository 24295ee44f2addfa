package cache

import "fmt"

// DashboardKey is the fixed key for the cached dashboard bundle.
// The operation takes no parameters, so a single entry suffices.
const DashboardKey = "dashboard_data"

// PlatformAll is the canonical token for an absent platform filter.
// Serializing the default to a stable token keeps keys deterministic:
// "no filter" must always produce the same key, never an omitted segment.
const PlatformAll = "all"

// TrendingKey generates the cache key for one trending page.
// Format: trending:{sortBy}:{platform}:{page}:{limit}
//
// Every significant parameter participates in the key, so two
// differently sorted or filtered views can never contaminate each
// other while each view is still cached independently.
func TrendingKey(sortBy, platform string, page, limit int) string {
	if platform == "" {
		platform = PlatformAll
	}
	return fmt.Sprintf("trending:%s:%s:%d:%d", sortBy, platform, page, limit)
}

// TrajectoryKey generates the cache key for one video's snapshot history.
// Format: trajectory:{videoID}
func TrajectoryKey(videoID string) string {
	return fmt.Sprintf("trajectory:%s", videoID)
}
