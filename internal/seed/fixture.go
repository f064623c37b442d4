package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"utility-billing/internal/catalog"
	customers "utility-billing/internal/customers/domain"
	ledger "utility-billing/internal/ledger/application"
	trades "utility-billing/internal/trades/domain"
)

// Fixture is a hand-written data set loaded instead of generated data.
type Fixture struct {
	Customers []FixtureCustomer `yaml:"customers"`
	Trades    []FixtureTrade    `yaml:"trades"`
}

// FixtureCustomer describes one customer and its history.
type FixtureCustomer struct {
	ID          int                  `yaml:"id"`
	Name        string               `yaml:"name"`
	Province    string               `yaml:"province"`
	Email       string               `yaml:"email"`
	Address     string               `yaml:"address"`
	Kind        string               `yaml:"kind"`
	Allocated   string               `yaml:"allocated"`
	Used        string               `yaml:"used"`
	Bills       []FixtureBill        `yaml:"bills"`
	Maintenance []FixtureMaintenance `yaml:"maintenance"`
}

// FixtureBill is a historical bill. Age is applied relative to load time when IssuedAt is unset.
type FixtureBill struct {
	Amount   string    `yaml:"amount"`
	IssuedAt time.Time `yaml:"issued_at"`
	AgeDays  int       `yaml:"age_days"`
	Paid     bool      `yaml:"paid"`
}

// FixtureMaintenance is a historical maintenance entry.
type FixtureMaintenance struct {
	At          time.Time `yaml:"at"`
	Description string    `yaml:"description"`
	Cost        string    `yaml:"cost"`
}

// FixtureTrade is one trade record.
type FixtureTrade struct {
	Kind      string    `yaml:"kind"`
	Quantity  string    `yaml:"quantity"`
	UnitPrice string    `yaml:"unit_price"`
	Flow      string    `yaml:"flow"`
	At        time.Time `yaml:"at"`
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes YAML fixture data.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: parse fixture: %w", err)
	}
	return &f, nil
}

// Apply loads every fixture customer and trade into dir.
func (f *Fixture) Apply(dir *ledger.Directory, clock customers.Clock) (Population, error) {
	var pop Population
	if clock == nil {
		clock = customers.SystemClock{}
	}
	for _, fc := range f.Customers {
		c, err := fc.build(clock)
		if err != nil {
			return pop, fmt.Errorf("seed: fixture customer %d: %w", fc.ID, err)
		}
		if err := dir.AddCustomer(c); err != nil {
			return pop, fmt.Errorf("seed: fixture customer %d: %w", fc.ID, err)
		}
		pop.Customers++
	}
	for i, ft := range f.Trades {
		r, err := ft.build(clock)
		if err != nil {
			return pop, fmt.Errorf("seed: fixture trade %d: %w", i, err)
		}
		dir.AddTrade(r)
		pop.Trades++
	}
	return pop, nil
}

func (fc FixtureCustomer) build(clock customers.Clock) (*customers.Customer, error) {
	kind, err := catalog.ParseKind(fc.Kind)
	if err != nil {
		return nil, err
	}
	allocated, err := parseDecimal("allocated", fc.Allocated)
	if err != nil {
		return nil, err
	}
	c, err := customers.NewCustomer(customers.Params{
		ID:        fc.ID,
		Name:      fc.Name,
		Province:  fc.Province,
		Email:     fc.Email,
		Address:   fc.Address,
		Kind:      kind,
		Allocated: allocated,
	}, customers.WithClock(clock))
	if err != nil {
		return nil, err
	}
	now := clock.Now()
	for _, b := range fc.Bills {
		amount, err := parseDecimal("bill amount", b.Amount)
		if err != nil {
			return nil, err
		}
		issuedAt := b.IssuedAt
		if issuedAt.IsZero() {
			issuedAt = now.AddDate(0, 0, -b.AgeDays)
		}
		if err := c.ImportBill(amount, issuedAt, b.Paid); err != nil {
			return nil, err
		}
	}
	for _, m := range fc.Maintenance {
		cost, err := parseDecimal("maintenance cost", m.Cost)
		if err != nil {
			return nil, err
		}
		at := m.At
		if at.IsZero() {
			at = now
		}
		if err := c.ImportMaintenance(at, m.Description, cost); err != nil {
			return nil, err
		}
	}
	if fc.Used != "" {
		used, err := parseDecimal("used", fc.Used)
		if err != nil {
			return nil, err
		}
		if err := c.RecordUsage(used); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (ft FixtureTrade) build(clock customers.Clock) (trades.Record, error) {
	kind, err := catalog.ParseKind(ft.Kind)
	if err != nil {
		return trades.Record{}, err
	}
	quantity, err := parseDecimal("quantity", ft.Quantity)
	if err != nil {
		return trades.Record{}, err
	}
	unitPrice, err := parseDecimal("unit_price", ft.UnitPrice)
	if err != nil {
		return trades.Record{}, err
	}
	at := ft.At
	if at.IsZero() {
		at = clock.Now()
	}
	return trades.NewRecord(kind, quantity, unitPrice, trades.Flow(ft.Flow), at)
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, value, err)
	}
	return d, nil
}
