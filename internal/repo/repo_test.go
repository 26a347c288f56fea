package repo

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var (
	testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	listColumns = []string{
		"id", "asset_tag", "name", "category", "manufacturer", "model", "serial_number",
		"location", "description", "purchase_date", "purchase_cost", "warranty_expiry",
		"status", "assigned_to", "created_at", "updated_at", "name", "email",
	}
	detailColumns = append(append([]string{}, listColumns...), "department", "phone")
	userColumns   = []string{"id", "name", "email", "role", "department", "phone", "password_hash", "created_at"}
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func row(id uuid.UUID, status string, assignee *uuid.UUID, detail bool) []driver.Value {
	var assignedTo, name, email driver.Value
	if assignee != nil {
		assignedTo, name, email = assignee.String(), "Jane Doe", "jane@example.com"
	}
	v := []driver.Value{
		id.String(), "LT-001", "ThinkPad", "laptop", nil, nil, nil,
		"HQ", nil, "2023-05-04", 999.5, nil,
		status, assignedTo, testNow, testNow, name, email,
	}
	if detail {
		var dept driver.Value
		if assignee != nil {
			dept = "IT"
		}
		v = append(v, dept, nil)
	}
	return v
}
