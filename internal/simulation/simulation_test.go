package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jptremblay/patrimoine/internal/entity"
	"github.com/jptremblay/patrimoine/internal/portfolio"
	"github.com/jptremblay/patrimoine/pkg/datetime"
	"github.com/jptremblay/patrimoine/pkg/mathutil"
)

// buildPortfolio wires a bank account plus the given cash-flow entities the
// way configuration does: everything feeds cash flow, the bank carries net
// worth.
func buildPortfolio(t *testing.T, bank *entity.BankAccount, items ...entity.Entity) *portfolio.Portfolio {
	t.Helper()

	cashFlow := portfolio.NewRegistry(nil)
	netWorth := portfolio.NewRegistry(nil)

	for _, item := range items {
		if err := cashFlow.Add(item); err != nil {
			t.Fatalf("Add(%s) error = %v", item.Name(), err)
		}
	}
	if err := cashFlow.Add(bank); err != nil {
		t.Fatalf("Add(bank) error = %v", err)
	}
	if err := netWorth.Add(bank); err != nil {
		t.Fatalf("Add(bank) error = %v", err)
	}

	return &portfolio.Portfolio{CashFlow: cashFlow, NetWorth: netWorth, Bank: bank}
}

func TestRunBankBalanceScenario(t *testing.T) {
	// Bank at 1000 with 0% rate, two periods with net cash flow +100 then
	// -50, yields balances [1100, 1050].
	start := datetime.MustParseDate("2024-01-01")
	bank := entity.NewBankAccount("Bank Account", 1000.0, 0.0, start)

	p := buildPortfolio(t, bank,
		entity.NewOneShot("Bonus", 100.0, start),
		entity.NewOneShot("Repair", -50.0, datetime.AddMonths(start, 1)),
	)

	sim, err := New(nil, p, start, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	snapshots, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, expected 2", len(snapshots))
	}
	expected := []float64{1100.0, 1050.0}
	for i, want := range expected {
		got := snapshots[i].NetWorth.Entities["Bank Account"]
		if !mathutil.WithinTolerance(got, want, 0.01) {
			t.Errorf("period %d bank balance = %.2f, expected %.2f", i, got, want)
		}
	}
	if sim.State() != Completed {
		t.Errorf("State() = %s, expected completed", sim.State())
	}
}

func TestRunCompoundsBeforeApplyingDelta(t *testing.T) {
	// The bank grows at 12% (1% monthly). The old balance must be
	// compounded to the new date before the period's cash flow is added.
	start := datetime.MustParseDate("2024-01-01")
	bank := entity.NewBankAccount("Bank Account", 10000.0, 12.0, start)

	p := buildPortfolio(t, bank,
		entity.NewRecurringItem("Salary", 100.0, 0.0, start, time.Time{}),
	)

	sim, err := New(nil, p, start, 3)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	snapshots, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Period 0: balance as of start, no compounding yet: 10000 + 100.
	// Period 1: 10100 * 1.01 + 100 = 10301.
	// Period 2: 10301 * 1.01 + 100 = 10504.01.
	expected := []float64{10100.0, 10301.0, 10504.01}
	for i, want := range expected {
		got := snapshots[i].NetWorth.Entities["Bank Account"]
		if !mathutil.WithinTolerance(got, want, 0.01) {
			t.Errorf("period %d bank balance = %.4f, expected %.2f", i, got, want)
		}
	}
}

func TestRunSnapshotDatesMonotone(t *testing.T) {
	start := datetime.MustParseDate("2023-10-01")
	bank := entity.NewBankAccount("Bank Account", 1000.0, 0.0, start)
	p := buildPortfolio(t, bank)

	sim, err := New(nil, p, start, 24)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	snapshots, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(snapshots) != 24 {
		t.Fatalf("got %d snapshots, expected 24", len(snapshots))
	}
	for i := 1; i < len(snapshots); i++ {
		if !snapshots[i].Date.After(snapshots[i-1].Date) {
			t.Errorf("snapshot dates not strictly increasing at index %d", i)
		}
		if months := datetime.MonthsBetween(snapshots[i-1].Date, snapshots[i].Date); months != 1 {
			t.Errorf("snapshots %d and %d are %d months apart, expected 1", i-1, i, months)
		}
	}
}

func TestRunNegativeBalanceIsFatal(t *testing.T) {
	// Expenses permanently exceed income; the driver must stop at the
	// first negative date with all prior snapshots intact.
	start := datetime.MustParseDate("2024-01-01")
	bank := entity.NewBankAccount("Bank Account", 250.0, 0.0, start)

	p := buildPortfolio(t, bank,
		entity.NewRecurringItem("Groceries", -100.0, 0.0, start, time.Time{}),
	)

	sim, err := New(nil, p, start, 12)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	snapshots, err := sim.Run(context.Background())
	if err == nil {
		t.Fatalf("Run() succeeded, expected negative balance error")
	}

	var negErr *NegativeBalanceError
	if !errors.As(err, &negErr) {
		t.Fatalf("Run() error = %v, expected *NegativeBalanceError", err)
	}
	// 250 -> 150 -> 50 -> -50 on the third period.
	if got := datetime.FormatDate(negErr.Date); got != "2024-03-01" {
		t.Errorf("failure date = %s, expected 2024-03-01", got)
	}
	if !mathutil.WithinTolerance(negErr.Balance, -50.0, 0.01) {
		t.Errorf("failure balance = %.2f, expected -50", negErr.Balance)
	}
	if len(snapshots) != 2 {
		t.Errorf("got %d prior snapshots, expected 2", len(snapshots))
	}
	if sim.State() != Failed {
		t.Errorf("State() = %s, expected failed", sim.State())
	}
}

func TestRunOnlyOnce(t *testing.T) {
	start := datetime.MustParseDate("2024-01-01")
	bank := entity.NewBankAccount("Bank Account", 1000.0, 0.0, start)
	p := buildPortfolio(t, bank)

	sim, err := New(nil, p, start, 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := sim.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if _, err := sim.Run(context.Background()); err == nil {
		t.Fatalf("second Run() succeeded, expected error")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	start := datetime.MustParseDate("2024-01-01")
	bank := entity.NewBankAccount("Bank Account", 1000.0, 0.0, start)
	p := buildPortfolio(t, bank)

	sim, err := New(nil, p, start, 1200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
}

func TestNewValidation(t *testing.T) {
	start := datetime.MustParseDate("2024-01-01")
	bank := entity.NewBankAccount("Bank Account", 1000.0, 0.0, start)

	t.Run("Non-positive duration", func(t *testing.T) {
		p := buildPortfolio(t, bank)
		if _, err := New(nil, p, start, 0); err == nil {
			t.Errorf("New() accepted zero duration")
		}
	})

	t.Run("Missing bank account", func(t *testing.T) {
		p := &portfolio.Portfolio{
			CashFlow: portfolio.NewRegistry(nil),
			NetWorth: portfolio.NewRegistry(nil),
			Bank:     bank,
		}
		if _, err := New(nil, p, start, 12); err == nil {
			t.Errorf("New() accepted a portfolio without the bank in net worth")
		}
	})

	t.Run("Nil portfolio", func(t *testing.T) {
		if _, err := New(nil, nil, start, 12); err == nil {
			t.Errorf("New() accepted a nil portfolio")
		}
	})
}

func TestRunNetWorthSeesUpdatedBank(t *testing.T) {
	// Net worth for a period must be computed against the registry that
	// already contains the replaced bank account.
	start := datetime.MustParseDate("2024-01-01")
	bank := entity.NewBankAccount("Bank Account", 1000.0, 0.0, start)

	p := buildPortfolio(t, bank,
		entity.NewRecurringItem("Salary", 500.0, 0.0, start, time.Time{}),
	)

	sim, err := New(nil, p, start, 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	snapshots, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := snapshots[0].NetWorth.Total; !mathutil.WithinTolerance(got, 1500.0, 0.01) {
		t.Errorf("NetWorth.Total = %.2f, expected 1500 (updated bank)", got)
	}
}
