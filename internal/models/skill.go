package models

import "gorm.io/gorm"

// Skill is a catalog entry users attach to their profiles.
type Skill struct {
	gorm.Model
	Name     string `gorm:"column:name;size:100;unique;not null" json:"name"`
	Category string `gorm:"column:category;size:100" json:"category"`
	IsActive bool   `gorm:"column:is_active;not null;default:true" json:"isActive"`
}

// TableName specifies the table name
func (Skill) TableName() string {
	return "skills"
}
