package services

import (
	"errors"
	"testing"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
)

func TestOpenRejectsSecondBox(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)

	if _, err := svc.Open(mustDec(t, "100.00"), 1); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := svc.Open(mustDec(t, "50.00"), 2); !errors.Is(err, ErrCashBoxAlreadyOpen) {
		t.Fatalf("second open: got %v, want ErrCashBoxAlreadyOpen", err)
	}
	var count int64
	db.Model(&models.CashBox{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one box, got %d", count)
	}
}

func TestOpenRejectsNegativeStartingAmount(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)
	if _, err := svc.Open(mustDec(t, "-1.00"), 1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}
}

func TestCurrentReturnsNilWhenClosed(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)
	box, err := svc.Current()
	if err != nil {
		t.Fatal(err)
	}
	if box != nil {
		t.Fatalf("expected nil box, got %+v", box)
	}
}

func TestAddMovementValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)
	svc.Open(mustDec(t, "0.00"), 1)

	if _, err := svc.AddMovement(models.MovementIn, mustDec(t, "0.00"), "", 1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: got %v", err)
	}
	if _, err := svc.AddMovement(models.MovementIn, mustDec(t, "-5.00"), "", 1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative amount: got %v", err)
	}
	if _, err := svc.AddMovement("transferencia", mustDec(t, "5.00"), "", 1); !errors.Is(err, ErrUnknownMovement) {
		t.Fatalf("unknown kind: got %v", err)
	}
}

func TestAddMovementRequiresOpenBox(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)
	if _, err := svc.AddMovement(models.MovementIn, mustDec(t, "10.00"), "", 1); !errors.Is(err, ErrNoCashBoxOpen) {
		t.Fatalf("got %v, want ErrNoCashBoxOpen", err)
	}
}

func TestSummaryAndClosePersistAmount(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)

	box, err := svc.Open(mustDec(t, "100.00"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddMovement(models.MovementIn, mustDec(t, "50.00"), "vendas", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddMovement(models.MovementOut, mustDec(t, "20.00"), "troco", 1); err != nil {
		t.Fatal(err)
	}

	sum, err := svc.Summary(box.ID)
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, sum.Initial, "100.00", "initial")
	decEq(t, sum.Entries, "50.00", "entries")
	decEq(t, sum.Exits, "20.00", "exits")
	decEq(t, sum.Total, "130.00", "total")

	closed, err := svc.Close(1)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.ClosedAt == nil {
		t.Fatal("closed_at not set")
	}
	if !closed.ClosedAmount.Valid {
		t.Fatal("closed_amount not persisted")
	}
	decEq(t, closed.ClosedAmount.Decimal, "130.00", "closed amount")

	// A fresh session starts with a zero movement delta.
	fresh, err := svc.Open(mustDec(t, "130.00"), 1)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	sum, err = svc.Summary(fresh.ID)
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, sum.Entries, "0", "fresh entries")
	decEq(t, sum.Exits, "0", "fresh exits")
	decEq(t, sum.Total, "130.00", "fresh total")
}

func TestDeleteMovementOnlyWhileOpen(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)
	svc.Open(mustDec(t, "10.00"), 1)
	mov, err := svc.AddMovement(models.MovementIn, mustDec(t, "5.00"), "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Close(1); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteMovement(mov.ID); !errors.Is(err, ErrCashBoxClosed) {
		t.Fatalf("got %v, want ErrCashBoxClosed", err)
	}
}

func TestCloseWithoutOpenBox(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)
	if _, err := svc.Close(1); !errors.Is(err, ErrNoCashBoxOpen) {
		t.Fatalf("got %v, want ErrNoCashBoxOpen", err)
	}
}

func TestHistoryListsClosedBoxes(t *testing.T) {
	db := setupDB(t)
	svc := NewCashBoxService(db, nil)
	svc.Open(mustDec(t, "10.00"), 1)
	svc.Close(1)
	svc.Open(mustDec(t, "20.00"), 1)
	svc.Close(1)

	boxes, err := svc.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(boxes) != 2 {
		t.Fatalf("expected 2 closed boxes, got %d", len(boxes))
	}
}
