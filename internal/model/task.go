package model

// Task represents a single daily item in the planner, bucketed by its deadline.
type Task struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    Timestamp `json:"deadline"`
	IsCompleted bool      `json:"isCompleted" gorm:"default:false"`
}

// WeeklyTask is a task planned for the week it was created in.
type WeeklyTask struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"createdAt" gorm:"autoCreateTime:false"`
	IsCompleted bool      `json:"isCompleted" gorm:"default:false"`
}

// MonthlyTask is a task planned for the month it was created in.
type MonthlyTask struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"createdAt" gorm:"autoCreateTime:false"`
	IsCompleted bool      `json:"isCompleted" gorm:"default:false"`
}
