package db

import (
	"errors"
	"testing"

	"github.com/colinswan/sentinel/internal/models"
)

func TestCreateProjectDefaults(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	project, err := CreateProject(account.ID, "Thesis")
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}
	if !project.IsActive {
		t.Error("first project should be active")
	}
	if len(project.Columns) != 3 {
		t.Fatalf("got %d default columns, want 3", len(project.Columns))
	}
	for i, want := range models.DefaultColumns {
		col := project.Columns[i]
		if col.Name != want {
			t.Errorf("column %d = %q, want %q", i, col.Name, want)
		}
		if col.Order != i {
			t.Errorf("column %q order = %d, want %d", col.Name, col.Order, i)
		}
		if !col.IsDefault {
			t.Errorf("column %q not marked default", col.Name)
		}
	}
	if !project.Columns[2].IsCompleteColumn {
		t.Error("Done column should be the complete column")
	}

	// A second project does not steal the active flag.
	second, err := CreateProject(account.ID, "Side Quest")
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}
	if second.IsActive {
		t.Error("second project should not be active")
	}
}

func TestSetActiveProjectIsExclusive(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	first, _ := CreateProject(account.ID, "First")
	second, _ := CreateProject(account.ID, "Second")

	if _, err := SetActiveProject(second.ID); err != nil {
		t.Fatalf("activating: %v", err)
	}

	var activeCount int64
	DB.Model(&models.Project{}).Where("account_id = ? AND is_active = ?", account.ID, true).Count(&activeCount)
	if activeCount != 1 {
		t.Errorf("active projects = %d, want exactly 1", activeCount)
	}

	active, err := GetActiveProject(account.ID)
	if err != nil {
		t.Fatalf("reading active: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active = #%d, want #%d", active.ID, second.ID)
	}

	fresh, _ := GetProject(first.ID)
	if fresh.IsActive {
		t.Error("previous active flag not unset")
	}
}

func TestReorderColumnsDense(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	project, _ := CreateProject(account.ID, "Board")
	extra, err := AddColumn(project.ID, "Review", false)
	if err != nil {
		t.Fatalf("adding column: %v", err)
	}
	if extra.Order != 3 {
		t.Errorf("appended column order = %d, want 3", extra.Order)
	}

	// Introduce gaps, then reorder; the rewrite must heal them.
	if err := DB.Model(&models.KanbanColumn{}).Where("id = ?", extra.ID).
		Update("sort_order", 9).Error; err != nil {
		t.Fatalf("creating gap: %v", err)
	}

	cols := projectColumns(t, project.ID)
	sequence := []uint{extra.ID, cols[2].ID, cols[0].ID, cols[1].ID}
	if err := ReorderColumns(project.ID, sequence); err != nil {
		t.Fatalf("reordering: %v", err)
	}

	reordered := projectColumns(t, project.ID)
	for i, id := range sequence {
		if reordered[i].ID != id {
			t.Errorf("slot %d holds column #%d, want #%d", i, reordered[i].ID, id)
		}
		if reordered[i].Order != i {
			t.Errorf("slot %d order = %d, want %d", i, reordered[i].Order, i)
		}
	}
}

func TestReorderColumnsRejectsPartialSequence(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	project, _ := CreateProject(account.ID, "Board")
	cols := projectColumns(t, project.ID)

	err := ReorderColumns(project.ID, []uint{cols[0].ID, cols[1].ID})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestDeleteColumnMovesTasksAndRenumbers(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	project, _ := CreateProject(account.ID, "Board")
	cols := projectColumns(t, project.ID)
	todo := cols[0]

	doomed, err := AddColumn(project.ID, "Doomed", false)
	if err != nil {
		t.Fatalf("adding column: %v", err)
	}

	if _, err := CreateTask(todo.ID, "existing", ""); err != nil {
		t.Fatalf("creating task: %v", err)
	}
	for _, title := range []string{"a", "b", "c"} {
		if _, err := CreateTask(doomed.ID, title, ""); err != nil {
			t.Fatalf("creating task: %v", err)
		}
	}

	if err := DeleteColumn(doomed.ID, &todo.ID); err != nil {
		t.Fatalf("deleting column: %v", err)
	}

	var moved []models.Task
	if err := DB.Where("column_id = ?", todo.ID).Order("position ASC").Find(&moved).Error; err != nil {
		t.Fatalf("loading tasks: %v", err)
	}
	if len(moved) != 4 {
		t.Fatalf("destination has %d tasks, want prior 1 + moved 3", len(moved))
	}
	for i, task := range moved {
		if task.Position != i {
			t.Errorf("task %q position = %d, want %d", task.Title, task.Position, i)
		}
	}

	var gone models.KanbanColumn
	if err := DB.First(&gone, doomed.ID).Error; err == nil {
		t.Error("deleted column still present")
	}

	for i, col := range projectColumns(t, project.ID) {
		if col.Order != i {
			t.Errorf("column %q order = %d, want %d", col.Name, col.Order, i)
		}
	}
}

func TestDeleteDefaultColumnRefused(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	project, _ := CreateProject(account.ID, "Board")
	cols := projectColumns(t, project.ID)

	err := DeleteColumn(cols[0].ID, nil)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState deleting a default column, got %v", err)
	}
}

func TestMoveTaskCompletionTimestamps(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	project, _ := CreateProject(account.ID, "Board")
	cols := projectColumns(t, project.ID)
	todo, done := cols[0], cols[2]

	task, err := CreateTask(todo.ID, "finish it", "")
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	if task.CompletedAt != nil {
		t.Fatal("fresh task already completed")
	}

	moved, err := MoveTask(task.ID, done.ID, 0)
	if err != nil {
		t.Fatalf("moving into Done: %v", err)
	}
	if moved.CompletedAt == nil {
		t.Fatal("move into complete column did not stamp completion")
	}

	back, err := MoveTask(task.ID, todo.ID, 0)
	if err != nil {
		t.Fatalf("moving out of Done: %v", err)
	}
	if back.CompletedAt != nil {
		t.Error("move out of complete column did not clear completion")
	}
}

func TestMoveTaskRepositionsNeighbors(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	project, _ := CreateProject(account.ID, "Board")
	cols := projectColumns(t, project.ID)
	todo := cols[0]

	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		task, err := CreateTask(todo.ID, title, "")
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}
		ids = append(ids, task.ID)
	}

	// Move "c" to the front of the same column.
	if _, err := MoveTask(ids[2], todo.ID, 0); err != nil {
		t.Fatalf("moving: %v", err)
	}

	var tasks []models.Task
	if err := DB.Where("column_id = ?", todo.ID).Order("position ASC").Find(&tasks).Error; err != nil {
		t.Fatalf("loading tasks: %v", err)
	}
	wantOrder := []string{"c", "a", "b"}
	for i, task := range tasks {
		if task.Title != wantOrder[i] {
			t.Errorf("position %d = %q, want %q", i, task.Title, wantOrder[i])
		}
		if task.Position != i {
			t.Errorf("task %q position = %d, want %d", task.Title, task.Position, i)
		}
	}
}

func TestDeleteTaskClosesGap(t *testing.T) {
	setupTestDB(t)
	account, _ := newAccountAndPrimary(t)

	project, _ := CreateProject(account.ID, "Board")
	cols := projectColumns(t, project.ID)
	todo := cols[0]

	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		task, _ := CreateTask(todo.ID, title, "")
		ids = append(ids, task.ID)
	}

	if err := DeleteTask(ids[1]); err != nil {
		t.Fatalf("deleting: %v", err)
	}

	var tasks []models.Task
	DB.Where("column_id = ?", todo.ID).Order("position ASC").Find(&tasks)
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	for i, task := range tasks {
		if task.Position != i {
			t.Errorf("task %q position = %d, want %d", task.Title, task.Position, i)
		}
	}
}

// projectColumns loads a project's columns in board order.
func projectColumns(t *testing.T, projectID uint) []models.KanbanColumn {
	t.Helper()
	var cols []models.KanbanColumn
	if err := DB.Where("project_id = ?", projectID).Order("sort_order ASC").Find(&cols).Error; err != nil {
		t.Fatalf("loading columns: %v", err)
	}
	return cols
}
