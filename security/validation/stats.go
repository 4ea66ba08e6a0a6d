package validation

import "sync"

// Stats 校验计数，供管理端观测
type Stats struct {
	Total          int64            `json:"total"`
	Passed         int64            `json:"passed"`
	Failed         int64            `json:"failed"`
	FailedByEntity map[string]int64 `json:"failed_by_entity"`
}

var (
	statsMu        sync.Mutex
	statsTotal     int64
	statsPassed    int64
	statsFailed    int64
	failedByEntity = make(map[string]int64)
)

func recordOutcome(entityKind string, ok bool) {
	statsMu.Lock()
	defer statsMu.Unlock()
	statsTotal++
	if ok {
		statsPassed++
		return
	}
	statsFailed++
	failedByEntity[entityKind]++
}

// GetStats 返回当前计数的快照
func GetStats() Stats {
	statsMu.Lock()
	defer statsMu.Unlock()
	byEntity := make(map[string]int64, len(failedByEntity))
	for k, v := range failedByEntity {
		byEntity[k] = v
	}
	return Stats{
		Total:          statsTotal,
		Passed:         statsPassed,
		Failed:         statsFailed,
		FailedByEntity: byEntity,
	}
}

// ResetStats 清零计数（定时任务每日调用）
func ResetStats() {
	statsMu.Lock()
	defer statsMu.Unlock()
	statsTotal, statsPassed, statsFailed = 0, 0, 0
	failedByEntity = make(map[string]int64)
}
