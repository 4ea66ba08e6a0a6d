package models

import "time"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(64);uniqueIndex"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128)"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(64)"`
	LastName     string    `json:"last_name" gorm:"type:varchar(64)"`
	Phone        string    `json:"phone" gorm:"type:varchar(32)"`
	Address      string    `json:"address" gorm:"type:varchar(255)"`
	Role         string    `json:"role" gorm:"type:varchar(16);default:customer"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string      `json:"name" gorm:"type:varchar(255);index"`
	Description string      `json:"description" gorm:"type:longtext"`
	Price       float64     `json:"price"`
	Category    string      `json:"category" gorm:"type:varchar(64);index"`
	Stock       int         `json:"stock"`
	Images      StringArray `json:"images" gorm:"type:longtext"`
	Active      bool        `json:"active" gorm:"default:true"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Order struct {
	ID              uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	Number          string        `json:"number" gorm:"type:varchar(40);uniqueIndex"`
	UserID          uint          `json:"user_id" gorm:"index"`
	Items           OrderItemList `json:"items" gorm:"type:longtext"`
	Total           float64       `json:"total"`
	ShippingAddress string        `json:"shipping_address" gorm:"type:varchar(255)"`
	City            string        `json:"city" gorm:"type:varchar(64)"`
	State           string        `json:"state" gorm:"type:varchar(64)"`
	ZipCode         string        `json:"zip_code" gorm:"type:varchar(16)"`
	Phone           string        `json:"phone" gorm:"type:varchar(32)"`
	PaymentMethod   string        `json:"payment_method" gorm:"type:varchar(32)"`
	Status          string        `json:"status" gorm:"type:varchar(16);default:pending"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type Session struct {
	Token     string    `json:"token" gorm:"type:varchar(40);primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID uint      `json:"product_id" gorm:"index;uniqueIndex:idx_review_product_user"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_review_product_user"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title" gorm:"type:varchar(128)"`
	Comment   string    `json:"comment" gorm:"type:longtext"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
