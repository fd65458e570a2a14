// internal/guest/guest_test.go
//
// Unit-tests for the rsvps and messages repositories using sqlmock.

package guest

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func mockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestListRSVPs(t *testing.T) {
	repo, mock := mockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM(.+)rsvps").
		WithArgs("client-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "client_id", "guest_name", "attending", "guest_count", "note", "created_at"}).
			AddRow("rsvp-1", "client-1", "Tía Rosa", true, 2, "", now))

	got, err := repo.ListRSVPs(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("ListRSVPs: %v", err)
	}
	if len(got) != 1 || got[0].GuestName != "Tía Rosa" || got[0].GuestCount != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsertRSVP_MintsIdentity(t *testing.T) {
	repo, mock := mockRepo(t)
	mock.ExpectExec("INSERT INTO rsvps").WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.InsertRSVP(context.Background(), RSVP{
		ClientID:   "client-1",
		GuestName:  "Pedro",
		Attending:  true,
		GuestCount: 1,
	})
	if err != nil {
		t.Fatalf("InsertRSVP: %v", err)
	}
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("identity not minted: %+v", got)
	}
}

func TestInsertMessage(t *testing.T) {
	repo, mock := mockRepo(t)
	mock.ExpectExec("INSERT INTO messages").WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.InsertMessage(context.Background(), Message{
		ClientID:  "client-1",
		GuestName: "Lucía",
		Text:      "¡Felicidades!",
	})
	if err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}
	if got.ID == "" {
		t.Fatal("message id not minted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
