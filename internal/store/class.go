package store

import (
	"database/sql"
	"fmt"

	"github.com/dugsihub/dugsi/internal/model"
)

type ClassStore struct {
	db *sql.DB
}

func NewClassStore(db *sql.DB) *ClassStore {
	return &ClassStore{db: db}
}

const classCols = `id, name, teacher_name, shift, capacity, created_at, updated_at`

func scanClass(scanner interface{ Scan(...any) error }) (*model.Class, error) {
	var c model.Class
	err := scanner.Scan(&c.ID, &c.Name, &c.TeacherName, &c.Shift, &c.Capacity, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClassStore) Create(name, teacherName, shift string, capacity int) (*model.Class, error) {
	result, err := s.db.Exec(
		`INSERT INTO classes (name, teacher_name, shift, capacity) VALUES (?, ?, ?, ?)`,
		name, teacherName, shift, capacity,
	)
	if err != nil {
		return nil, fmt.Errorf("insert class: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ClassStore) GetByID(id int64) (*model.Class, error) {
	row := s.db.QueryRow(`SELECT `+classCols+` FROM classes WHERE id = ?`, id)
	c, err := scanClass(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}

func (s *ClassStore) List() ([]model.Class, error) {
	rows, err := s.db.Query(`SELECT ` + classCols + ` FROM classes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

func (s *ClassStore) Update(id int64, name, teacherName, shift string, capacity int) (*model.Class, error) {
	_, err := s.db.Exec(
		`UPDATE classes SET name = ?, teacher_name = ?, shift = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, teacherName, shift, capacity, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update class: %w", err)
	}
	return s.GetByID(id)
}

func (s *ClassStore) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM classes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// NameExists checks for another class with the same name, excluding excludeID.
func (s *ClassStore) NameExists(name string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM classes WHERE name = ? AND id != ?`,
		name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check class name: %w", err)
	}
	return count > 0, nil
}

// RosterCount returns the number of non-withdrawn registrations assigned to
// the class.
func (s *ClassStore) RosterCount(id int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM registrations WHERE class_id = ? AND status != ?`,
		id, model.LifecycleWithdrawn,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count roster: %w", err)
	}
	return count, nil
}
