package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const flashCookie = "komerce_flash"

// 闪存消息：一次性提示文案，重定向回跳后由下一个页面消费
var flashStore = gocache.New(time.Minute, 5*time.Minute)

// SetFlash 暂存消息并在响应上种下一次性 cookie
func SetFlash(c *gin.Context, message string) {
	id := uuid.NewString()
	flashStore.Set(id, message, gocache.DefaultExpiration)
	c.SetCookie(flashCookie, id, 60, "/", "", false, true)
}

// GET /api/flash
// 回跳后的页面取走一次性提示
func Flash(c *gin.Context) {
	message, ok := TakeFlash(c)
	RespondSuccess(c, gin.H{"message": message, "present": ok})
}

// TakeFlash 取出并清除当前请求携带的闪存消息
func TakeFlash(c *gin.Context) (string, bool) {
	id, err := c.Cookie(flashCookie)
	if err != nil || id == "" {
		return "", false
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	v, ok := flashStore.Get(id)
	if !ok {
		return "", false
	}
	flashStore.Delete(id)
	message, ok := v.(string)
	return message, ok
}
