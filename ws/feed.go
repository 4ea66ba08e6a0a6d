package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/komerce-shop/komerce/security/faults"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: CheckOrigin,
}

var (
	mu             sync.RWMutex
	connectedFeeds = make(map[*websocket.Conn]struct{})
)

// FailureEvent 推送给管理端的错误事件
type FailureEvent struct {
	Kind      string `json:"kind"`
	Severity  string `json:"severity"`
	Category  string `json:"category"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}

// Subscribe 管理端错误实时流。GET /api/admin/errors/feed
func Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	mu.Lock()
	connectedFeeds[conn] = struct{}{}
	mu.Unlock()

	// 读循环只为感知断开，订阅端不发消息
	go func() {
		defer func() {
			mu.Lock()
			delete(connectedFeeds, conn)
			mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// PublishFailure 向所有订阅端广播一个已分类的失败。
// 单个连接的写入错误忽略，由其读循环负责清理
func PublishFailure(f *faults.Failure, cls faults.Classified, requestID, path string) {
	event := FailureEvent{
		Kind:      string(f.Kind),
		Severity:  string(cls.Severity),
		Category:  string(cls.Category),
		Code:      cls.Code,
		Message:   faults.RedactMessage(f.Message),
		RequestID: requestID,
		Path:      path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	for conn := range connectedFeeds {
		if conn.WriteMessage(websocket.TextMessage, payload) != nil {
			continue
		}
	}
}

// SubscriberCount 当前订阅连接数
func SubscriberCount() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(connectedFeeds)
}
