package model

import "time"

type Class struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TeacherName string    `json:"teacher_name"`
	Shift       string    `json:"shift"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
