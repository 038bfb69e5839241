package stats

import (
	"fmt"
	"time"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
	"github.com/SlpAus/lost-and-found-backend/pkg/lifecycle"
)

// StartRefresher 启动后台的定期全量重算。
// 自增路径只改动found_items一个字段，定期重算把其余计数
// （以及删除启事造成的偏差）重新对齐到权威表。
func StartRefresher(handle *lifecycle.Handle, interval time.Duration) {
	go func() {
		defer handle.Close()
		fmt.Printf("统计重算器已启动，周期 %v。\n", interval)
		for {
			if err := handle.Sleep(interval); err != nil {
				return
			}
			if _, err := Recompute(database.DB); err != nil {
				fmt.Printf("统计重算器错误: %v\n", err)
			}
		}
	}()
}
