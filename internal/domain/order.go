package domain

import "time"

// MenuItem Model
type MenuItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"size:1024" json:"description"`
	Image       string  `gorm:"size:255" json:"image"`
	Price       float64 `gorm:"not null" json:"price"`
}

// Order Model. Immutable once the factory call completes.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	DinerID     uint        `gorm:"index;not null" json:"-"`
	FranchiseID uint        `gorm:"not null" json:"franchiseId"`
	StoreID     uint        `gorm:"not null" json:"storeId"`
	Date        time.Time   `gorm:"index;not null" json:"date"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem Model. Description and price are taken from the submitted cart.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	OrderID     uint    `gorm:"index;not null" json:"-"`
	MenuID      uint    `gorm:"not null" json:"menuId"`
	Description string  `gorm:"size:1024" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
}
