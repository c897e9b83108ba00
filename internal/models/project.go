package models

import (
	"time"

	"gorm.io/gorm"
)

// Default kanban column names created with every project. These columns
// cannot be deleted.
var DefaultColumns = []string{"To Do", "In Progress", "Done"}

// Project owns ordered kanban columns. Exactly one project per account is
// active at a time.
type Project struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AccountID string `gorm:"index;not null" json:"account_id"`
	Name      string `gorm:"not null" json:"name"`
	IsActive  bool   `gorm:"default:false" json:"is_active"`

	// Relationships
	Columns []KanbanColumn `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"columns,omitempty"`
}

// KanbanColumn owns ordered tasks. Order is a dense 0-based sequence per
// project.
type KanbanColumn struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID uint   `gorm:"index;not null" json:"project_id"`
	Name      string `gorm:"not null" json:"name"`
	Order     int    `gorm:"column:sort_order;not null" json:"order"`

	IsDefault bool `gorm:"default:false" json:"is_default"`

	// Tasks moved into a complete column get a completion timestamp.
	IsCompleteColumn bool `gorm:"default:false" json:"is_complete_column"`

	// Relationships
	Tasks []Task `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE;" json:"tasks,omitempty"`
}

// Task is one kanban card.
type Task struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProjectID uint `gorm:"index;not null" json:"project_id"`
	ColumnID  uint `gorm:"index;not null" json:"column_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Position    int    `gorm:"not null" json:"position"`

	CompletedAt *time.Time `json:"completed_at"`
}

// Done reports whether the task carries a completion timestamp.
func (t *Task) Done() bool {
	return t.CompletedAt != nil
}
