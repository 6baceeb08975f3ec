package model

type DiningTable struct {
	DTO
	Name     string `gorm:"not null" json:"name"`
	Area     string `json:"area"`
	Capacity int    `gorm:"default:4" json:"capacity"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (DiningTable) TableName() string {
	return "dining_tables"
}

type DiningTables []DiningTable
