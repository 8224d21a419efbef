package store

import (
	"testing"

	"github.com/dugsihub/dugsi/internal/database"
	"github.com/dugsihub/dugsi/internal/model"
)

func setupClassTestDB(t *testing.T) (*ClassStore, *RegistrationStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewClassStore(db), NewRegistrationStore(db)
}

func TestClassCRUD(t *testing.T) {
	cs, _ := setupClassTestDB(t)

	class, err := cs.Create("Quran Level 1", "Ustadh Yusuf", "morning", 20)
	if err != nil {
		t.Fatalf("create class: %v", err)
	}
	if class.Name != "Quran Level 1" || class.Capacity != 20 {
		t.Errorf("created = %+v", class)
	}

	updated, err := cs.Update(class.ID, "Quran Level 1", "Ustadha Fatima", "afternoon", 25)
	if err != nil {
		t.Fatalf("update class: %v", err)
	}
	if updated.TeacherName != "Ustadha Fatima" || updated.Shift != "afternoon" {
		t.Errorf("updated = %+v", updated)
	}

	if err := cs.Delete(class.ID); err != nil {
		t.Fatalf("delete class: %v", err)
	}
	got, err := cs.GetByID(class.ID)
	if err != nil {
		t.Fatalf("get deleted class: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted class")
	}
}

func TestClassNameExists(t *testing.T) {
	cs, _ := setupClassTestDB(t)

	class, err := cs.Create("Arabic Beginners", "Ustadh Yusuf", "weekend", 15)
	if err != nil {
		t.Fatalf("create class: %v", err)
	}

	exists, err := cs.NameExists("Arabic Beginners", 0)
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if !exists {
		t.Error("expected name collision")
	}

	// Excluding the class itself reports no collision.
	exists, err = cs.NameExists("Arabic Beginners", class.ID)
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if exists {
		t.Error("class should not collide with itself")
	}
}

func TestClassRosterCountSkipsWithdrawn(t *testing.T) {
	cs, rs := setupClassTestDB(t)

	class, err := cs.Create("Quran Level 2", "Ustadh Yusuf", "morning", 20)
	if err != nil {
		t.Fatalf("create class: %v", err)
	}

	a, err := rs.Create(testParams("Sagal", "a@example.com"))
	if err != nil {
		t.Fatalf("create registration: %v", err)
	}
	b, err := rs.Create(testParams("Khalid", "b@example.com"))
	if err != nil {
		t.Fatalf("create registration: %v", err)
	}
	for _, id := range []string{a.ID, b.ID} {
		if err := rs.AssignClass(id, &class.ID); err != nil {
			t.Fatalf("assign class: %v", err)
		}
	}
	if err := rs.SetLifecycle(b.ID, model.LifecycleWithdrawn); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	count, err := cs.RosterCount(class.ID)
	if err != nil {
		t.Fatalf("roster count: %v", err)
	}
	if count != 1 {
		t.Errorf("roster count = %d, want 1", count)
	}
}
