// Package simulation drives the month-by-month evolution of a portfolio:
// it owns the time cursor, feeds realized cash flow back into the bank
// account, aggregates net worth, and records one snapshot per period.
package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/jptremblay/patrimoine/internal/portfolio"
	"github.com/jptremblay/patrimoine/pkg/datetime"
	"github.com/jptremblay/patrimoine/pkg/mathutil"
	"go.uber.org/zap"
)

// State tracks the driver's lifecycle. A simulation runs exactly once.
type State int

const (
	// Pending means constructed but not yet run.
	Pending State = iota
	// Running means inside the period loop.
	Running
	// Completed means the loop exhausted its configured duration.
	Completed
	// Failed means the run aborted on a fatal condition.
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot records one period's results.
type Snapshot struct {
	Date     time.Time
	CashFlow portfolio.Breakdown
	NetWorth portfolio.Breakdown
}

// NegativeBalanceError reports the modeled financial impossibility the tool
// exists to warn about: the bank balance went below zero after a period
// update. The run is not recoverable past this point; snapshots for prior
// periods remain valid.
type NegativeBalanceError struct {
	Date    time.Time
	Balance float64
}

func (e *NegativeBalanceError) Error() string {
	return fmt.Sprintf("bank balance went negative on %s: %.2f",
		datetime.FormatDate(e.Date), e.Balance)
}

// Simulation is the driver. It is the sole writer against the registries;
// the aggregations themselves are read-only.
type Simulation struct {
	logger    *zap.Logger
	portfolio *portfolio.Portfolio
	startDate time.Time
	duration  int
	state     State
	snapshots []Snapshot
}

// New constructs a simulation over the given portfolio, starting at
// startDate and running for duration monthly periods.
func New(logger *zap.Logger, p *portfolio.Portfolio, startDate time.Time, duration int) (*Simulation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p == nil || p.Bank == nil {
		return nil, fmt.Errorf("simulation requires a portfolio with a bank account")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be a positive number of months, got %d", duration)
	}
	if !p.NetWorth.Has(p.Bank.Name()) {
		return nil, fmt.Errorf("bank account %q is not registered for net worth", p.Bank.Name())
	}

	return &Simulation{
		logger:    logger,
		portfolio: p,
		startDate: startDate,
		duration:  duration,
		state:     Pending,
	}, nil
}

// State returns the driver's lifecycle state.
func (s *Simulation) State() State {
	return s.state
}

// Snapshots returns the recorded history, ordered by date.
func (s *Simulation) Snapshots() []Snapshot {
	return s.snapshots
}

// Run executes the period loop. On a fatal condition the snapshots recorded
// for prior periods are returned alongside the error. The context is
// checked once per period boundary.
//
// Each period at date D: realize cash flow, replace the bank account with
// its compounded old balance plus the period's net cash flow, then
// aggregate net worth against the updated registry and record a snapshot.
// Compounding the old balance before applying the delta is load-bearing:
// adding the delta to the stale balance silently drops accrued interest.
func (s *Simulation) Run(ctx context.Context) ([]Snapshot, error) {
	if s.state != Pending {
		return s.snapshots, fmt.Errorf("simulation already ran (state %s)", s.state)
	}
	s.state = Running

	date := s.startDate
	for period := 0; period < s.duration; period++ {
		if err := ctx.Err(); err != nil {
			s.state = Failed
			return s.snapshots, err
		}

		cashFlow := s.portfolio.CashFlow.MonthlyCashFlow(date)

		bank := s.portfolio.Bank
		newBalance := bank.FutureValueAt(date) + cashFlow.Total
		if mathutil.Round(newBalance) < 0 {
			s.state = Failed
			s.logger.Error("aborting run on negative bank balance",
				zap.String("op", "simulation.Run"),
				zap.String("date", datetime.FormatDate(date)),
				zap.Float64("balance", newBalance),
			)
			return s.snapshots, &NegativeBalanceError{Date: date, Balance: newBalance}
		}

		updated := bank.WithBalance(newBalance, date)
		if err := s.portfolio.NetWorth.Replace(updated); err != nil {
			s.state = Failed
			return s.snapshots, err
		}
		if s.portfolio.CashFlow.Has(updated.Name()) {
			if err := s.portfolio.CashFlow.Replace(updated); err != nil {
				s.state = Failed
				return s.snapshots, err
			}
		}
		s.portfolio.Bank = updated

		netWorth := s.portfolio.NetWorth.NetWorth(date)

		s.snapshots = append(s.snapshots, Snapshot{
			Date:     date,
			CashFlow: cashFlow,
			NetWorth: netWorth,
		})
		s.logger.Debug("recorded period snapshot",
			zap.String("op", "simulation.Run"),
			zap.String("date", datetime.FormatDate(date)),
			zap.Float64("cashflow", cashFlow.Total),
			zap.Float64("netWorth", netWorth.Total),
		)

		date = datetime.AddMonths(date, 1)
	}

	s.state = Completed
	return s.snapshots, nil
}
