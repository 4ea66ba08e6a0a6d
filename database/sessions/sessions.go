package sessions

import (
	"time"

	"github.com/komerce-shop/komerce/database/dbcore"
	"github.com/komerce-shop/komerce/database/models"
	"github.com/komerce-shop/komerce/security/faults"
	"github.com/komerce-shop/komerce/utils"
)

// Create 为用户签发一个会话令牌
func Create(userID uint, ttl time.Duration) (string, error) {
	db := dbcore.GetDBInstance()
	session := models.Session{
		Token:     utils.GenerateRandomString(32),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.Create(&session).Error; err != nil {
		return "", dbcore.Translate(err, "session")
	}
	return session.Token, nil
}

// GetUser 按令牌取回用户，过期会话视为不存在并顺手删除
func GetUser(token string) (*models.User, error) {
	db := dbcore.GetDBInstance()
	var session models.Session
	if err := db.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, dbcore.Translate(err, "session")
	}
	if time.Now().After(session.ExpiresAt) {
		db.Delete(&session)
		return nil, faults.AuthTokenExpired()
	}
	var user models.User
	if err := db.First(&user, session.UserID).Error; err != nil {
		return nil, dbcore.Translate(err, "user")
	}
	return &user, nil
}

// Delete 删除单个会话（登出）
func Delete(token string) error {
	db := dbcore.GetDBInstance()
	if err := db.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return dbcore.Translate(err, "session")
	}
	return nil
}

// DeleteExpired 清理过期会话，返回删除数量，由定时任务周期调用
func DeleteExpired() (int64, error) {
	db := dbcore.GetDBInstance()
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, dbcore.Translate(result.Error, "session")
	}
	return result.RowsAffected, nil
}
