// Package config defines the data structures related to configuration and
// includes functions for loading, validating, and turning the configuration
// into a portfolio of entities.
package config

import (
	"fmt"
	"time"

	"github.com/jptremblay/patrimoine/pkg/constants"
	"github.com/jptremblay/patrimoine/pkg/datetime"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DateTimeLayout is the format expected in config files and is also the
// output date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for patrimoine.
type Configuration struct {
	Simulation  SimulationConfig   `yaml:"simulation"`
	BankAccount BankAccountConfig  `yaml:"bankAccount"`
	Incomes     []ItemConfig       `yaml:"incomes,omitempty"`
	Expenses    []ItemConfig       `yaml:"expenses,omitempty"`
	RealEstate  []RealEstateConfig `yaml:"realEstate,omitempty"`
	Logging     LoggingConfig      `yaml:"logging,omitempty"`
	Output      OutputConfig       `yaml:"output,omitempty"`
	Server      ServerConfig       `yaml:"server,omitempty"`
}

// SimulationConfig holds the time parameters of a run.
type SimulationConfig struct {
	StartDate      string `yaml:"startDate"`
	DurationMonths int    `yaml:"durationMonths"`
}

// BankAccountConfig describes the liquidity buffer at simulation start.
type BankAccountConfig struct {
	Name               string  `yaml:"name,omitempty"`
	Balance            float64 `yaml:"balance"`
	AnnualInterestRate float64 `yaml:"annualInterestRate,omitempty"`
}

// ItemConfig describes a recurring income or expense. Amounts are signed:
// income positive, expenses negative. An empty start date defaults to the
// simulation start; an empty end date means open-ended.
type ItemConfig struct {
	Name             string  `yaml:"name"`
	Amount           float64 `yaml:"amount"`
	AnnualGrowthRate float64 `yaml:"annualGrowthRate,omitempty"`
	StartDate        string  `yaml:"startDate,omitempty"`
	EndDate          string  `yaml:"endDate,omitempty"`
}

// LoanConfig describes an amortizing loan.
type LoanConfig struct {
	Name                string  `yaml:"name,omitempty"`
	Principal           float64 `yaml:"principal"`
	AnnualInterestRate  float64 `yaml:"annualInterestRate"`
	TermMonths          int     `yaml:"termMonths"`
	AnnualInflationRate float64 `yaml:"annualInflationRate,omitempty"`
	StartDate           string  `yaml:"startDate,omitempty"`
}

// RealEstateConfig describes a property with its loan, acquisition costs,
// and recurring income/expense items.
type RealEstateConfig struct {
	Name                 string       `yaml:"name"`
	AcquisitionValue     float64      `yaml:"acquisitionValue"`
	AnnualExpectedReturn float64      `yaml:"annualExpectedReturn,omitempty"`
	Cashdown             float64      `yaml:"cashdown,omitempty"`
	AcquisitionDate      string       `yaml:"acquisitionDate"`
	Loan                 *LoanConfig  `yaml:"loan,omitempty"`
	AcquisitionCosts     []ItemConfig `yaml:"acquisitionCosts,omitempty"`
	Recurring            []ItemConfig `yaml:"recurring,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, xlsx
	File   string `yaml:"file,omitempty"`   // destination for xlsx output
}

// ServerConfig holds HTTP API configuration options
type ServerConfig struct {
	Address            string `yaml:"address,omitempty"`
	MaxUploadSizeBytes int64  `yaml:"maxUploadSizeBytes,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ParseConfiguration decodes a YAML document, e.g. one uploaded to the HTTP
// API.
func ParseConfiguration(data []byte) (*Configuration, error) {
	var configuration Configuration
	if err := yaml.Unmarshal(data, &configuration); err != nil {
		return nil, fmt.Errorf("unable to decode configuration, %s", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Conditions that make a run impossible surface as errors
// from BuildPortfolio instead.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	for _, item := range conf.Incomes {
		if item.Amount < 0 {
			warnings = append(warnings, fmt.Sprintf("Income '%s' has a negative amount (%.2f)", item.Name, item.Amount))
		}
	}
	for _, item := range conf.Expenses {
		if item.Amount > 0 {
			warnings = append(warnings, fmt.Sprintf("Expense '%s' has a positive amount (%.2f)", item.Name, item.Amount))
		}
	}

	horizon := conf.horizonDate()
	for _, property := range conf.RealEstate {
		if property.Loan == nil {
			continue
		}
		if property.Loan.AnnualInflationRate != 0 {
			warnings = append(warnings, fmt.Sprintf("Loan for '%s' sets annualInflationRate, which does not affect the reported balance", property.Name))
		}
		if !horizon.IsZero() {
			loanStart, err := datetime.ParseDate(loanStartDate(property))
			if err == nil && datetime.AddMonths(loanStart, property.Loan.TermMonths).After(horizon) {
				warnings = append(warnings, fmt.Sprintf("Loan for '%s' matures after the simulation horizon - it will have an outstanding balance", property.Name))
			}
		}
	}

	return warnings
}

// horizonDate returns the last simulated date, or the zero time when the
// simulation parameters do not parse (their errors surface elsewhere).
func (conf *Configuration) horizonDate() time.Time {
	start, err := datetime.ParseDate(conf.Simulation.StartDate)
	if err != nil || conf.Simulation.DurationMonths <= 0 {
		return time.Time{}
	}
	return datetime.AddMonths(start, conf.Simulation.DurationMonths-1)
}

func loanStartDate(property RealEstateConfig) string {
	if property.Loan != nil && property.Loan.StartDate != "" {
		return property.Loan.StartDate
	}
	return property.AcquisitionDate
}
