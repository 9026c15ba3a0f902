package service

import (
	"context"
	"testing"

	"github.com/srouini/SmartStore/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaisseDepositIncreasesBalance(t *testing.T) {
	svc, repo := buildCaisseSvc()
	c := seedCaisse(repo, "Front desk", "100.00")

	op, err := svc.Deposit(context.Background(), c.ID, dto.CaisseMovementRequest{
		Amount: dec("50.00"),
		Reason: "morning float",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "deposit", op.Kind)
	assert.True(t, op.Amount.Equal(dec("50.00")))
	assert.True(t, op.BalanceAfter.Equal(dec("150.00")))
	assert.True(t, repo.caisses[c.ID].Balance.Equal(dec("150.00")))
}

func TestCaisseWithdrawRejectsOverdraw(t *testing.T) {
	svc, repo := buildCaisseSvc()
	c := seedCaisse(repo, "Front desk", "100.00")

	_, err := svc.Withdraw(context.Background(), c.ID, dto.CaisseMovementRequest{
		Amount: dec("200.00"),
		Reason: "supplier payment",
	}, nil)

	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "200.00", insufficient.Requested)
	assert.Equal(t, "100.00", insufficient.Available)
	// Nothing was appended beyond the opening entry and the balance did not move.
	assert.Len(t, repo.operations, 1)
	assert.True(t, repo.caisses[c.ID].Balance.Equal(dec("100.00")))
}

func TestCaisseWithdrawToExactlyZero(t *testing.T) {
	svc, repo := buildCaisseSvc()
	c := seedCaisse(repo, "Front desk", "100.00")

	_, err := svc.Deposit(context.Background(), c.ID, dto.CaisseMovementRequest{
		Amount: dec("50.00"),
		Reason: "cash sale settled later",
	}, nil)
	require.NoError(t, err)

	op, err := svc.Withdraw(context.Background(), c.ID, dto.CaisseMovementRequest{
		Amount: dec("150.00"),
		Reason: "end of day pickup",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "withdrawal", op.Kind)
	assert.True(t, op.Amount.Equal(dec("-150.00")))
	assert.True(t, op.BalanceAfter.IsZero())
	assert.True(t, repo.caisses[c.ID].Balance.IsZero())
}

func TestCaisseOperationNotFound(t *testing.T) {
	svc, _ := buildCaisseSvc()

	_, err := svc.Deposit(context.Background(), uuid.New(), dto.CaisseMovementRequest{
		Amount: dec("10.00"),
		Reason: "morning float",
	}, nil)
	require.ErrorIs(t, err, ErrCaisseNotFound)
}

func TestCaisseReconcileConsistentJournal(t *testing.T) {
	svc, repo := buildCaisseSvc()
	c := seedCaisse(repo, "Front desk", "100.00")
	ctx := context.Background()

	_, err := svc.Deposit(ctx, c.ID, dto.CaisseMovementRequest{Amount: dec("40.00"), Reason: "morning float"}, nil)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, c.ID, dto.CaisseMovementRequest{Amount: dec("25.00"), Reason: "courier fee"}, nil)
	require.NoError(t, err)

	resp, err := svc.Reconcile(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, resp.Consistent)
	// Opening balance + deposit + withdrawal.
	assert.Equal(t, 3, resp.OperationCount)
	assert.True(t, resp.ComputedBalance.Equal(dec("115.00")))
	assert.True(t, resp.RecordedBalance.Equal(dec("115.00")))
	assert.Nil(t, resp.FirstMismatchID)
}

func TestCaisseReconcileDetectsTamperedSnapshot(t *testing.T) {
	svc, repo := buildCaisseSvc()
	c := seedCaisse(repo, "Front desk", "100.00")
	ctx := context.Background()

	_, err := svc.Deposit(ctx, c.ID, dto.CaisseMovementRequest{Amount: dec("40.00"), Reason: "morning float"}, nil)
	require.NoError(t, err)

	// Corrupt the stored snapshot so the replay no longer matches.
	repo.operations[0].BalanceAfter = dec("999.00")

	resp, err := svc.Reconcile(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistent)
	require.NotNil(t, resp.FirstMismatchID)
	assert.Equal(t, repo.operations[0].ID.String(), *resp.FirstMismatchID)
}

func TestCaisseReconcileDetectsDriftedBalance(t *testing.T) {
	svc, repo := buildCaisseSvc()
	c := seedCaisse(repo, "Front desk", "100.00")
	ctx := context.Background()

	_, err := svc.Deposit(ctx, c.ID, dto.CaisseMovementRequest{Amount: dec("40.00"), Reason: "morning float"}, nil)
	require.NoError(t, err)

	// Materialized balance drifts without a matching journal entry.
	repo.caisses[c.ID].Balance = dec("500.00")

	resp, err := svc.Reconcile(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistent)
	assert.Nil(t, resp.FirstMismatchID)
	assert.True(t, resp.ComputedBalance.Equal(dec("140.00")))
	assert.True(t, resp.RecordedBalance.Equal(dec("500.00")))
}

func TestCaisseCreateStartsAtInitialBalance(t *testing.T) {
	svc, repo := buildCaisseSvc()

	resp, err := svc.Create(context.Background(), dto.CreateCaisseRequest{
		Name:           "Back office",
		InitialBalance: dec("250.00"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Balance.Equal(dec("250.00")))
	assert.True(t, resp.InitialBalance.Equal(dec("250.00")))
	assert.True(t, resp.Active)
	assert.Len(t, repo.caisses, 1)

	// The opening balance is itself a journal entry.
	require.Len(t, repo.operations, 1)
	opening := repo.operations[0]
	assert.Equal(t, "deposit", opening.Kind)
	assert.True(t, opening.Amount.Equal(dec("250.00")))
	assert.True(t, opening.BalanceAfter.Equal(dec("250.00")))
}

func TestCaisseCreateZeroBalanceHasEmptyJournal(t *testing.T) {
	svc, repo := buildCaisseSvc()

	_, err := svc.Create(context.Background(), dto.CreateCaisseRequest{Name: "Spare drawer"})
	require.NoError(t, err)
	assert.Empty(t, repo.operations)
}

func TestCaisseReconcileReplaysFromZero(t *testing.T) {
	svc, repo := buildCaisseSvc()
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateCaisseRequest{
		Name:           "Front desk",
		InitialBalance: dec("100.00"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.Withdraw(ctx, id, dto.CaisseMovementRequest{Amount: dec("60.00"), Reason: "change fund"}, nil)
	require.NoError(t, err)

	// The journal alone, summed from zero, reproduces the balance.
	resp, err := svc.Reconcile(ctx, id)
	require.NoError(t, err)
	assert.True(t, resp.Consistent)
	assert.Equal(t, 2, resp.OperationCount)
	assert.True(t, resp.ComputedBalance.Equal(dec("40.00")))
	assert.True(t, resp.RecordedBalance.Equal(dec("40.00")))

	// Without the opening entry the replay must not balance.
	repo.operations = repo.operations[1:]
	resp, err = svc.Reconcile(ctx, id)
	require.NoError(t, err)
	assert.False(t, resp.Consistent)
}

func TestCaisseRejectsNonPositiveAmount(t *testing.T) {
	svc, repo := buildCaisseSvc()
	c := seedCaisse(repo, "Front desk", "100.00")
	ctx := context.Background()

	_, err := svc.Deposit(ctx, c.ID, dto.CaisseMovementRequest{Amount: dec("0"), Reason: "no-op"}, nil)
	require.ErrorIs(t, err, ErrInvalidAmount)

	// A negative withdrawal must not sneak a deposit in.
	_, err = svc.Withdraw(ctx, c.ID, dto.CaisseMovementRequest{Amount: dec("-50.00"), Reason: "reversed sign"}, nil)
	require.ErrorIs(t, err, ErrInvalidAmount)

	assert.Len(t, repo.operations, 1)
	assert.True(t, repo.caisses[c.ID].Balance.Equal(dec("100.00")))
}
