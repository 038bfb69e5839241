package stats

import (
	"fmt"
	"time"
)

// HumanizeLastUpdated 将LastUpdated距今的时长格式化为四个档位之一：
// 一分钟内、一小时内、一天内，以及更早的绝对时间；从未更新过时返回"never"。
func HumanizeLastUpdated(s *PlatformStats) string {
	return humanizeSince(s, time.Now())
}

// humanizeSince 以now为基准做格式化，便于测试固定时间点。
func humanizeSince(s *PlatformStats, now time.Time) string {
	if s == nil || s.LastUpdated == nil {
		return "never"
	}

	diff := now.Sub(*s.LastUpdated)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return s.LastUpdated.Format("02.01.2006 15:04")
	}
}
