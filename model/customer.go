package model

type CustomerGroup struct {
	DTO
	Name        string `gorm:"not null;unique" json:"name"`
	Description string `json:"description"`
}

type Customer struct {
	DTO
	Name    string         `gorm:"not null" json:"name"`
	Phone   string         `gorm:"index" json:"phone"`
	Email   string         `json:"email"`
	GroupID *uint          `gorm:"index" json:"groupId,omitempty"`
	Group   *CustomerGroup `gorm:"foreignKey:GroupID" json:"group,omitempty"`

	IsActive bool `gorm:"default:true" json:"isActive"`
}

type Customers []Customer
