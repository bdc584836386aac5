package config

import (
	"fmt"
	"time"

	"github.com/jptremblay/patrimoine/internal/entity"
	"github.com/jptremblay/patrimoine/internal/portfolio"
	"github.com/jptremblay/patrimoine/pkg/datetime"
	"go.uber.org/zap"
)

// DefaultBankAccountName is used when the config leaves the account unnamed.
const DefaultBankAccountName = "Bank Account"

// StartDate parses the configured simulation start date.
func (conf *Configuration) StartDate() (time.Time, error) {
	start, err := datetime.ParseDate(conf.Simulation.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid simulation start date %q: %w", conf.Simulation.StartDate, err)
	}
	return start, nil
}

// BuildPortfolio turns the configuration into the two registries a
// simulation runs against. Cash flow covers every entity (recurring items,
// properties, and the bank account); net worth covers the assets and
// liabilities (properties and the bank account). Any duplicate name is a
// configuration error.
func (conf *Configuration) BuildPortfolio(logger *zap.Logger) (*portfolio.Portfolio, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	startDate, err := conf.StartDate()
	if err != nil {
		return nil, err
	}
	if conf.Simulation.DurationMonths <= 0 {
		return nil, fmt.Errorf("simulation duration must be a positive number of months, got %d", conf.Simulation.DurationMonths)
	}
	if conf.BankAccount.Balance < 0 {
		return nil, fmt.Errorf("bank account cannot start with a negative balance (%.2f)", conf.BankAccount.Balance)
	}

	bankName := conf.BankAccount.Name
	if bankName == "" {
		bankName = DefaultBankAccountName
	}
	bank := entity.NewBankAccount(bankName, conf.BankAccount.Balance, conf.BankAccount.AnnualInterestRate, startDate)

	cashFlow := portfolio.NewRegistry(logger)
	netWorth := portfolio.NewRegistry(logger)

	for _, itemConf := range append(append([]ItemConfig{}, conf.Incomes...), conf.Expenses...) {
		item, err := buildItem(itemConf, startDate)
		if err != nil {
			return nil, err
		}
		if err := cashFlow.Add(item); err != nil {
			return nil, err
		}
	}

	for _, propertyConf := range conf.RealEstate {
		property, err := buildRealEstate(propertyConf)
		if err != nil {
			return nil, err
		}
		if err := cashFlow.Add(property); err != nil {
			return nil, err
		}
		if err := netWorth.Add(property); err != nil {
			return nil, err
		}
	}

	if err := cashFlow.Add(bank); err != nil {
		return nil, err
	}
	if err := netWorth.Add(bank); err != nil {
		return nil, err
	}

	logger.Debug("built portfolio",
		zap.String("op", "config.BuildPortfolio"),
		zap.Int("cashFlowEntities", cashFlow.Len()),
		zap.Int("netWorthEntities", netWorth.Len()),
	)

	return &portfolio.Portfolio{CashFlow: cashFlow, NetWorth: netWorth, Bank: bank}, nil
}

// buildItem constructs a recurring item, defaulting an empty start date to
// defaultStart and an empty end date to open-ended.
func buildItem(conf ItemConfig, defaultStart time.Time) (*entity.RecurringItem, error) {
	if conf.Name == "" {
		return nil, fmt.Errorf("every income/expense item requires a name")
	}

	start := defaultStart
	if conf.StartDate != "" {
		parsed, err := datetime.ParseDate(conf.StartDate)
		if err != nil {
			return nil, fmt.Errorf("item %s: invalid start date %q: %w", conf.Name, conf.StartDate, err)
		}
		start = parsed
	}

	var end time.Time
	if conf.EndDate != "" {
		parsed, err := datetime.ParseDate(conf.EndDate)
		if err != nil {
			return nil, fmt.Errorf("item %s: invalid end date %q: %w", conf.Name, conf.EndDate, err)
		}
		end = parsed
	}

	return entity.NewRecurringItem(conf.Name, conf.Amount, conf.AnnualGrowthRate, start, end), nil
}

// buildRealEstate wires a property composite: its loan, its cashdown and
// acquisition costs as one-shot items in the acquisition month, and its
// recurring items.
func buildRealEstate(conf RealEstateConfig) (*entity.RealEstate, error) {
	if conf.Name == "" {
		return nil, fmt.Errorf("every real estate entry requires a name")
	}
	acquisition, err := datetime.ParseDate(conf.AcquisitionDate)
	if err != nil {
		return nil, fmt.Errorf("real estate %s: invalid acquisition date %q: %w", conf.Name, conf.AcquisitionDate, err)
	}

	var loan *entity.Loan
	if conf.Loan != nil {
		loanName := conf.Loan.Name
		if loanName == "" {
			loanName = conf.Name + " Loan"
		}
		loanStart := acquisition
		if conf.Loan.StartDate != "" {
			parsed, err := datetime.ParseDate(conf.Loan.StartDate)
			if err != nil {
				return nil, fmt.Errorf("loan %s: invalid start date %q: %w", loanName, conf.Loan.StartDate, err)
			}
			loanStart = parsed
		}
		loan, err = entity.NewLoan(loanName, conf.Loan.Principal, conf.Loan.AnnualInterestRate,
			conf.Loan.TermMonths, conf.Loan.AnnualInflationRate, loanStart, time.Time{})
		if err != nil {
			return nil, err
		}
	}

	var items []entity.Entity
	if conf.Cashdown > 0 {
		items = append(items, entity.NewOneShot(conf.Name+" Cashdown", -conf.Cashdown, acquisition))
	}
	for _, costConf := range conf.AcquisitionCosts {
		if costConf.StartDate == "" {
			costConf.StartDate = conf.AcquisitionDate
		}
		if costConf.EndDate == "" {
			costConf.EndDate = costConf.StartDate
		}
		cost, err := buildItem(costConf, acquisition)
		if err != nil {
			return nil, err
		}
		items = append(items, cost)
	}
	for _, recurringConf := range conf.Recurring {
		item, err := buildItem(recurringConf, acquisition)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return entity.NewRealEstate(conf.Name, conf.AcquisitionValue, conf.AnnualExpectedReturn,
		conf.Cashdown, acquisition, loan, items...)
}
