package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/colinswan/sentinel/internal/models"
)

// CreateProject creates a project with the default To Do / In Progress /
// Done columns. The first project on an account becomes active.
func CreateProject(accountID, name string) (*models.Project, error) {
	if _, err := GetAccount(accountID); err != nil {
		return nil, err
	}

	var project models.Project
	err := DB.Transaction(func(tx *gorm.DB) error {
		var activeCount int64
		err := tx.Model(&models.Project{}).
			Where("account_id = ? AND is_active = ?", accountID, true).
			Count(&activeCount).Error
		if err != nil {
			return err
		}

		project = models.Project{
			AccountID: accountID,
			Name:      name,
			IsActive:  activeCount == 0,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		for i, colName := range models.DefaultColumns {
			col := models.KanbanColumn{
				ProjectID:        project.ID,
				Name:             colName,
				Order:            i,
				IsDefault:        true,
				IsCompleteColumn: colName == "Done",
			}
			if err := tx.Create(&col).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetProject(project.ID)
}

// GetProject retrieves a project with its columns and tasks, ordered.
func GetProject(projectID uint) (*models.Project, error) {
	var project models.Project
	err := DB.Preload("Columns", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("Columns.Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&project, projectID).Error
	if err != nil {
		return nil, fmt.Errorf("project #%d: %w", projectID, ErrNotFound)
	}
	return &project, nil
}

// ListProjects returns all projects for an account.
func ListProjects(accountID string) ([]models.Project, error) {
	var projects []models.Project
	err := DB.Where("account_id = ?", accountID).Order("created_at ASC").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// SetActiveProject makes this the account's single active project. The
// previous active flag is unset in the same transaction.
func SetActiveProject(projectID uint) (*models.Project, error) {
	var project models.Project
	if err := DB.First(&project, projectID).Error; err != nil {
		return nil, fmt.Errorf("project #%d: %w", projectID, ErrNotFound)
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Project{}).
			Where("account_id = ? AND is_active = ?", project.AccountID, true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		return tx.Model(&project).Update("is_active", true).Error
	})
	if err != nil {
		return nil, err
	}

	return GetProject(projectID)
}

// GetActiveProject returns the account's active project, if one exists.
func GetActiveProject(accountID string) (*models.Project, error) {
	var project models.Project
	err := DB.Where("account_id = ? AND is_active = ?", accountID, true).First(&project).Error
	if err != nil {
		return nil, fmt.Errorf("no active project for account %s: %w", accountID, ErrNotFound)
	}
	return GetProject(project.ID)
}

// DeleteProject removes a project with its columns, tasks, and sessions.
func DeleteProject(projectID uint) error {
	project, err := GetProject(projectID)
	if err != nil {
		return err
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.KanbanColumn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
}

// AddColumn appends a column at the end of the project's board.
func AddColumn(projectID uint, name string, isCompleteColumn bool) (*models.KanbanColumn, error) {
	if _, err := GetProject(projectID); err != nil {
		return nil, err
	}

	var count int64
	if err := DB.Model(&models.KanbanColumn{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}

	col := models.KanbanColumn{
		ProjectID:        projectID,
		Name:             name,
		Order:            int(count),
		IsCompleteColumn: isCompleteColumn,
	}
	if err := DB.Create(&col).Error; err != nil {
		return nil, err
	}
	return &col, nil
}

// ReorderColumns assigns order 0..N-1 following the given id sequence. The
// sequence must name every column of the project exactly once. Prior gaps
// in the order values are healed by the rewrite.
func ReorderColumns(projectID uint, orderedIDs []uint) error {
	var cols []models.KanbanColumn
	if err := DB.Where("project_id = ?", projectID).Find(&cols).Error; err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("project #%d: %w", projectID, ErrNotFound)
	}

	known := make(map[uint]bool, len(cols))
	for _, c := range cols {
		known[c.ID] = true
	}
	if len(orderedIDs) != len(cols) {
		return fmt.Errorf("reorder needs all %d columns: %w", len(cols), ErrInvalidState)
	}
	seen := make(map[uint]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] || seen[id] {
			return fmt.Errorf("column #%d not reorderable: %w", id, ErrInvalidState)
		}
		seen[id] = true
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			err := tx.Model(&models.KanbanColumn{}).Where("id = ?", id).
				Update("sort_order", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteColumn removes a non-default column. Tasks move to the given
// destination column, or are deleted when none is given. Remaining columns
// renumber densely from 0.
func DeleteColumn(columnID uint, moveTasksToColumnID *uint) error {
	var col models.KanbanColumn
	if err := DB.First(&col, columnID).Error; err != nil {
		return fmt.Errorf("column #%d: %w", columnID, ErrNotFound)
	}
	if col.IsDefault {
		return fmt.Errorf("default column %q cannot be deleted: %w", col.Name, ErrInvalidState)
	}

	var dest *models.KanbanColumn
	if moveTasksToColumnID != nil {
		var d models.KanbanColumn
		if err := DB.First(&d, *moveTasksToColumnID).Error; err != nil {
			return fmt.Errorf("destination column #%d: %w", *moveTasksToColumnID, ErrNotFound)
		}
		if d.ProjectID != col.ProjectID {
			return fmt.Errorf("destination column belongs to another project: %w", ErrInvalidState)
		}
		dest = &d
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		if dest != nil {
			var destCount int64
			err := tx.Model(&models.Task{}).Where("column_id = ?", dest.ID).Count(&destCount).Error
			if err != nil {
				return err
			}

			var moving []models.Task
			err = tx.Where("column_id = ?", col.ID).Order("position ASC").Find(&moving).Error
			if err != nil {
				return err
			}
			for i, task := range moving {
				updates := map[string]interface{}{
					"column_id": dest.ID,
					"position":  int(destCount) + i,
				}
				applyCompletionOnMove(updates, &task, dest)
				if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
					return err
				}
			}
		} else {
			if err := tx.Where("column_id = ?", col.ID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&col).Error; err != nil {
			return err
		}

		// Renumber the survivors densely.
		var rest []models.KanbanColumn
		err := tx.Where("project_id = ?", col.ProjectID).Order("sort_order ASC").Find(&rest).Error
		if err != nil {
			return err
		}
		for i, c := range rest {
			if c.Order != i {
				err := tx.Model(&models.KanbanColumn{}).Where("id = ?", c.ID).
					Update("sort_order", i).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}
