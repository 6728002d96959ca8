package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project represents one disaster-resilience case study. Title is the only
// required field; everything else may be absent and is normalized to its
// zero value when read back.
type Project struct {
	ID              uint                        `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title           string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description     string                      `json:"description" db:"description" gorm:"type:text"`
	Location        string                      `json:"location" db:"location" gorm:"type:text"`
	StartDate       *Date                       `json:"start_date,omitempty" db:"start_date" gorm:"type:date"`
	EndDate         *Date                       `json:"end_date,omitempty" db:"end_date" gorm:"type:date"`
	CommunitySize   int                         `json:"community_size" db:"community_size"`
	HazardTypes     datatypes.JSONSlice[string] `json:"hazard_types" db:"hazard_types"`
	ImplementingOrg string                      `json:"implementing_org" db:"implementing_org" gorm:"type:text"`
	Author          string                      `json:"author" db:"author" gorm:"type:text"`
	Source          string                      `json:"source" db:"source" gorm:"type:text"`
	CreatedAt       time.Time                   `json:"created_at" db:"created_at" gorm:"autoCreateTime"`

	Outcomes []Outcome    `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Files    []FileRecord `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}
