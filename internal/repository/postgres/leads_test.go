package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ignite/outreach-analytics/internal/service/leads"
)

var leadCols = []string{
	"id", "email", "name", "company", "snippet",
	"status", "campaign_id", "received_at", "updated_at",
}

func TestLeadRepo_List_WithFilters(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("qualified", "%acme%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM leads").
		WithArgs("qualified", "%acme%", 25, 0).
		WillReturnRows(sqlmock.NewRows(leadCols).
			AddRow("l-1", "jo@acme.com", "Jo", "Acme", "interested, send times", "qualified", "c-1", now, now))

	repo := NewLeadRepo(db)
	out, total, err := repo.List(context.Background(), leads.ListFilter{
		Status: "qualified",
		Search: "acme",
		Limit:  25,
	})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 1 || len(out) != 1 {
		t.Fatalf("List() total=%d rows=%d, want 1/1", total, len(out))
	}
	if out[0].Email != "jo@acme.com" {
		t.Errorf("List() first lead = %+v", out[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLeadRepo_Get_NotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("FROM leads").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(leadCols))

	repo := NewLeadRepo(db)
	_, err := repo.Get(context.Background(), "missing")
	if err != leads.ErrNotFound {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestLeadRepo_Unmapped(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("campaign_id IS NULL").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(leadCols).
			AddRow("l-2", "sam@beta.io", "Sam", "Beta", "re: pricing", "new", nil, now, now))

	repo := NewLeadRepo(db)
	out, err := repo.Unmapped(context.Background(), 50)
	if err != nil {
		t.Fatalf("Unmapped() error: %v", err)
	}
	if len(out) != 1 || !out[0].Unmapped() {
		t.Errorf("Unmapped() = %+v", out)
	}
}

func TestLeadRepo_AssignCampaign(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("UPDATE leads").
		WithArgs("c-9", "l-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewLeadRepo(db)
	if err := repo.AssignCampaign(context.Background(), "l-2", "c-9"); err != nil {
		t.Fatalf("AssignCampaign() error: %v", err)
	}

	mock.ExpectExec("UPDATE leads").
		WithArgs("c-9", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.AssignCampaign(context.Background(), "ghost", "c-9"); err != leads.ErrNotFound {
		t.Errorf("AssignCampaign() error = %v, want ErrNotFound", err)
	}
}
