package models

import (
	"time"

	"gorm.io/datatypes"
)

type Code struct {
	ID          string                      `json:"id" gorm:"primaryKey;type:text"`
	Code        string                      `json:"code" gorm:"type:text;index:code_token,unique;not null"`
	Title       string                      `json:"title" gorm:"type:text;not null"`
	Description string                      `json:"desc" gorm:"type:text"`
	Heroes      datatypes.JSONSlice[string] `json:"heroes"`
	Maps        datatypes.JSONSlice[string] `json:"maps"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Role        string                      `json:"role" gorm:"type:text;not null"`
	Mode        string                      `json:"mode" gorm:"type:text;not null"`
	Author      string                      `json:"author" gorm:"type:text"`
	Updated     string                      `json:"updated" gorm:"type:text;index"`
	OwnerID     *string                     `json:"ownerId" gorm:"type:text;index"`
	CDate       time.Time                   `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Like struct {
	UserID string    `json:"userId" gorm:"type:text;primaryKey"`
	CodeID string    `json:"codeId" gorm:"type:text;primaryKey;index"`
	Code   Code      `json:"-" gorm:"foreignKey:CodeID;references:ID;constraint:OnDelete:CASCADE;"`
	CDate  time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Profile struct {
	UserID      string    `json:"userId" gorm:"primaryKey;type:text"`
	DisplayName string    `json:"displayName" gorm:"type:text;not null"`
	MDate       time.Time `json:"mdate" gorm:"autoUpdateTime"`
}

type User struct {
	ID    string    `json:"id" gorm:"primaryKey;type:text"`
	Email string    `json:"email" gorm:"type:text;index:user_email,unique;not null"`
	CDate time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
