package domain

// Franchise Model. Admins are derived from franchisee role assignments.
type Franchise struct {
	ID     uint             `gorm:"primaryKey" json:"id"`
	Name   string           `gorm:"size:191;uniqueIndex;not null" json:"name"`
	Admins []FranchiseAdmin `gorm:"-" json:"admins,omitempty"`
	Stores []Store          `gorm:"foreignKey:FranchiseID;constraint:OnDelete:CASCADE" json:"stores"`
}

// Store Model
type Store struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FranchiseID uint   `gorm:"index;not null" json:"-"`
	Name        string `gorm:"size:255;not null" json:"name"`
}

// FranchiseAdmin is the public view of a user holding a franchisee role
type FranchiseAdmin struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
