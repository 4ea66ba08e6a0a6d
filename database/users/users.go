package users

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/komerce-shop/komerce/database/dbcore"
	"github.com/komerce-shop/komerce/database/models"
	"github.com/komerce-shop/komerce/security/faults"
)

// Create 注册用户。唯一性先行查重，以便携带冲突列名构造 duplicate 失败
func Create(username, email, passwordPlain, firstName, lastName, phone, address string) (*models.User, error) {
	db := dbcore.GetDBInstance()
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, dbcore.Translate(err, "user")
	}
	if count > 0 {
		return nil, faults.Duplicate(map[string]string{"username": username})
	}
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, dbcore.Translate(err, "user")
	}
	if count > 0 {
		return nil, faults.Duplicate(map[string]string{"email": email})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwordPlain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		Address:      address,
		Role:         "customer",
	}
	if err := db.Create(user).Error; err != nil {
		// 并发注册撞唯一索引时兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, faults.Duplicate(map[string]string{"email": email})
		}
		return nil, dbcore.Translate(err, "user")
	}
	return user, nil
}

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticate 校验邮箱与密码，失败统一返回 ErrInvalidCredentials
func Authenticate(email, passwordPlain string) (*models.User, error) {
	db := dbcore.GetDBInstance()
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, dbcore.Translate(err, "user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(passwordPlain)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func GetByID(id uint) (*models.User, error) {
	db := dbcore.GetDBInstance()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, dbcore.Translate(err, "user")
	}
	return &user, nil
}
