// Package portfolio holds the entity registries and the two aggregations
// computed over them: monthly cash flow and net worth.
package portfolio

import (
	"fmt"
	"sort"
	"time"

	"github.com/jptremblay/patrimoine/internal/entity"
	"github.com/jptremblay/patrimoine/pkg/datetime"
	"go.uber.org/zap"
)

// Registry maps entity names to entities. Registration rejects duplicate
// names: silently overwriting an entity is a configuration defect, not a
// merge.
type Registry struct {
	logger   *zap.Logger
	entities map[string]entity.Entity
}

// NewRegistry creates an empty registry. A nil logger is replaced with a
// no-op logger.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger:   logger,
		entities: make(map[string]entity.Entity),
	}
}

// Add registers an entity by name. A duplicate name is a configuration
// error.
func (r *Registry) Add(e entity.Entity) error {
	if _, exists := r.entities[e.Name()]; exists {
		return fmt.Errorf("entity %q is already registered", e.Name())
	}
	r.entities[e.Name()] = e
	return nil
}

// Replace swaps the entity registered under the same name. Replacing an
// unknown name is an error; the driver only ever replaces the bank account
// it was constructed with.
func (r *Registry) Replace(e entity.Entity) error {
	if _, exists := r.entities[e.Name()]; !exists {
		return fmt.Errorf("cannot replace unknown entity %q", e.Name())
	}
	r.entities[e.Name()] = e
	return nil
}

// Has reports whether a name is registered.
func (r *Registry) Has(name string) bool {
	_, exists := r.entities[name]
	return exists
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Breakdown is an aggregation result: the scalar total plus the per-entity
// contributions it sums.
type Breakdown struct {
	Total    float64
	Entities map[string]float64
}

// MonthlyCashFlow sums the monthly cash flow of every registered entity at
// the date. Read-only; no side effects beyond logging.
func (r *Registry) MonthlyCashFlow(date time.Time) Breakdown {
	breakdown := Breakdown{Entities: make(map[string]float64, len(r.entities))}
	for name, e := range r.entities {
		amount := e.MonthlyCashFlowAt(date)
		breakdown.Entities[name] = amount
		breakdown.Total += amount
	}
	r.logger.Debug("computed monthly cash flow",
		zap.String("op", "portfolio.MonthlyCashFlow"),
		zap.String("date", datetime.FormatDate(date)),
		zap.Float64("total", breakdown.Total),
	)
	return breakdown
}

// NetWorth sums the future value of every registered entity at the date.
// Assets contribute positive values and liabilities negative ones, so no
// separate partition is needed.
func (r *Registry) NetWorth(date time.Time) Breakdown {
	breakdown := Breakdown{Entities: make(map[string]float64, len(r.entities))}
	for name, e := range r.entities {
		value := e.FutureValueAt(date)
		breakdown.Entities[name] = value
		breakdown.Total += value
	}
	r.logger.Debug("computed net worth",
		zap.String("op", "portfolio.NetWorth"),
		zap.String("date", datetime.FormatDate(date)),
		zap.Float64("total", breakdown.Total),
	)
	return breakdown
}

// Portfolio bundles the two registries a simulation runs against plus the
// bank account the driver advances each period.
type Portfolio struct {
	CashFlow *Registry
	NetWorth *Registry
	Bank     *entity.BankAccount
}
