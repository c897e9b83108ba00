package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/colinswan/sentinel/internal/models"
)

// CreateTask appends a task at the bottom of a column.
func CreateTask(columnID uint, title, description string) (*models.Task, error) {
	var col models.KanbanColumn
	if err := DB.First(&col, columnID).Error; err != nil {
		return nil, fmt.Errorf("column #%d: %w", columnID, ErrNotFound)
	}

	var count int64
	if err := DB.Model(&models.Task{}).Where("column_id = ?", columnID).Count(&count).Error; err != nil {
		return nil, err
	}

	task := models.Task{
		ProjectID:   col.ProjectID,
		ColumnID:    columnID,
		Title:       title,
		Description: description,
		Position:    int(count),
	}

	if err := DB.Create(&task).Error; err != nil {
		return nil, err
	}

	if col.IsCompleteColumn {
		now := time.Now()
		if err := DB.Model(&task).Update("completed_at", &now).Error; err != nil {
			return nil, err
		}
		task.CompletedAt = &now
	}

	return &task, nil
}

// GetTaskByID retrieves a task by id.
func GetTaskByID(taskID uint) (*models.Task, error) {
	var task models.Task
	if err := DB.First(&task, taskID).Error; err != nil {
		return nil, fmt.Errorf("task #%d: %w", taskID, ErrNotFound)
	}
	return &task, nil
}

// UpdateTask changes title and/or description. Nil pointers leave the
// stored value alone.
func UpdateTask(taskID uint, title, description *string) (*models.Task, error) {
	task, err := GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) > 0 {
		if err := DB.Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return GetTaskByID(taskID)
}

// MoveTask places a task at the given position in a column, shifting
// neighbors. Crossing a complete-column boundary sets or clears the
// completion timestamp.
func MoveTask(taskID, toColumnID uint, position int) (*models.Task, error) {
	task, err := GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	var dest models.KanbanColumn
	if err := DB.First(&dest, toColumnID).Error; err != nil {
		return nil, fmt.Errorf("column #%d: %w", toColumnID, ErrNotFound)
	}
	if dest.ProjectID != task.ProjectID {
		return nil, fmt.Errorf("column belongs to another project: %w", ErrInvalidState)
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		// Close the gap in the source column.
		err := tx.Model(&models.Task{}).
			Where("column_id = ? AND position > ?", task.ColumnID, task.Position).
			Update("position", gorm.Expr("position - 1")).Error
		if err != nil {
			return err
		}

		var destCount int64
		query := tx.Model(&models.Task{}).Where("column_id = ?", dest.ID)
		if dest.ID == task.ColumnID {
			query = query.Where("id != ?", task.ID)
		}
		if err := query.Count(&destCount).Error; err != nil {
			return err
		}
		if position < 0 {
			position = 0
		}
		if position > int(destCount) {
			position = int(destCount)
		}

		// Open a slot at the destination.
		shift := tx.Model(&models.Task{}).
			Where("column_id = ? AND position >= ?", dest.ID, position)
		if dest.ID == task.ColumnID {
			shift = shift.Where("id != ?", task.ID)
		}
		if err := shift.Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"column_id": dest.ID,
			"position":  position,
		}
		applyCompletionOnMove(updates, task, &dest)

		return tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return GetTaskByID(taskID)
}

// applyCompletionOnMove stamps or clears completed_at when a task crosses
// a complete-column boundary. A timestamp set by an earlier move into a
// complete column is cleared on the way back out; nothing else touches it.
func applyCompletionOnMove(updates map[string]interface{}, task *models.Task, dest *models.KanbanColumn) {
	if dest.IsCompleteColumn && task.CompletedAt == nil {
		now := time.Now()
		updates["completed_at"] = &now
	}
	if !dest.IsCompleteColumn && task.CompletedAt != nil {
		updates["completed_at"] = nil
	}
}

// DeleteTask removes a task and closes the position gap it leaves.
func DeleteTask(taskID uint) error {
	task, err := GetTaskByID(taskID)
	if err != nil {
		return err
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(task).Error; err != nil {
			return err
		}
		return tx.Model(&models.Task{}).
			Where("column_id = ? AND position > ?", task.ColumnID, task.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}
