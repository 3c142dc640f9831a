package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "corebank/internal/domain/transaction"
	"corebank/pkg/id"
)

func makeTxn(txnID string, typ domain.Type, status domain.Status, from, to *string) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: txnID,
		Reference:     id.NewReference(),
		Type:          typ,
		Status:        status,
		Amount:        dec("50.00"),
		Currency:      "USD",
		FromAccountID: from,
		ToAccountID:   to,
		Channel:       "API",
	}
}

func strptr(s string) *string { return &s }

func TestTransactionCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	txnID := id.NewID32()
	acc := id.NewID32()
	if err := repo.Create(ctx, makeTxn(txnID, domain.TypeDeposit, domain.StatusPending, nil, strptr(acc))); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByTransactionID(ctx, txnID)
	if err != nil {
		t.Fatalf("GetByTransactionID: %v", err)
	}
	if got.Type != domain.TypeDeposit || got.Status != domain.StatusPending {
		t.Errorf("unexpected transaction: %+v", got)
	}
	if got.ToAccountID == nil || *got.ToAccountID != acc {
		t.Errorf("to_account_id not persisted: %v", got.ToAccountID)
	}
}

func TestTransactionGet_NotFoundTranslated(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)

	_, err := repo.GetByTransactionID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected domain.ErrNotFound, got %v", err)
	}
}

func TestTransactionSave_PersistsTransition(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	txnID := id.NewID32()
	txn := makeTxn(txnID, domain.TypeWithdrawal, domain.StatusPending, strptr(id.NewID32()), nil)
	if err := repo.Create(ctx, txn); err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now().UTC()
	txn.Status = domain.StatusCompleted
	txn.ProcessedAt = &now
	txn.CompletedAt = &now
	if err := repo.Save(ctx, txn); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByTransactionID(ctx, txnID)
	if err != nil {
		t.Fatalf("GetByTransactionID: %v", err)
	}
	if got.Status != domain.StatusCompleted || got.CompletedAt == nil {
		t.Errorf("transition not persisted: %+v", got)
	}
}

func TestTransactionListByAccountIDs_MatchesEitherLeg(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	mine := id.NewID32()
	other := id.NewID32()

	// credit leg, debit leg, and one unrelated
	if err := repo.Create(ctx, makeTxn(id.NewID32(), domain.TypeDeposit, domain.StatusCompleted, nil, strptr(mine))); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, makeTxn(id.NewID32(), domain.TypeTransfer, domain.StatusCompleted, strptr(mine), strptr(other))); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, makeTxn(id.NewID32(), domain.TypeDeposit, domain.StatusCompleted, nil, strptr(other))); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListByAccountIDs(ctx, []string{mine})
	if err != nil {
		t.Fatalf("ListByAccountIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 transactions touching the account, got %d", len(got))
	}
	for _, txn := range got {
		if !txn.Touches(mine) {
			t.Errorf("listed transaction does not touch the account: %+v", txn)
		}
	}
}

func TestTransactionListCompletedSince_Filters(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	acc := id.NewID32()
	now := time.Now().UTC()

	recent := makeTxn(id.NewID32(), domain.TypeDeposit, domain.StatusCompleted, nil, strptr(acc))
	if err := repo.Create(ctx, recent); err != nil {
		t.Fatal(err)
	}
	pending := makeTxn(id.NewID32(), domain.TypeDeposit, domain.StatusPending, nil, strptr(acc))
	if err := repo.Create(ctx, pending); err != nil {
		t.Fatal(err)
	}
	old := makeTxn(id.NewID32(), domain.TypeDeposit, domain.StatusCompleted, nil, strptr(acc))
	if err := repo.Create(ctx, old); err != nil {
		t.Fatal(err)
	}
	// backdate the old row past the cutoff
	if err := db.Model(&transactionSQLite{}).
		Where("transaction_id = ?", old.TransactionID).
		Update("created_at", now.AddDate(-2, 0, 0)).Error; err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListCompletedByAccountIDsSince(ctx, []string{acc}, now.AddDate(0, -6, 0))
	if err != nil {
		t.Fatalf("ListCompletedByAccountIDsSince: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want only the recent completed transaction, got %d", len(got))
	}
	if got[0].TransactionID != recent.TransactionID {
		t.Errorf("unexpected transaction: %+v", got[0])
	}
}
