package model

// Goal is a monthly objective.
type Goal struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	CreatedAt   Timestamp `json:"createdAt" gorm:"autoCreateTime:false"`
	IsCompleted bool      `json:"isCompleted" gorm:"default:false"`
}

// Note is free text pinned to the month it was written in.
type Note struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"createdAt" gorm:"autoCreateTime:false"`
}
