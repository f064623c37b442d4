package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"utility-billing/internal/catalog"
	customers "utility-billing/internal/customers/domain"
	ledger "utility-billing/internal/ledger/application"
	trades "utility-billing/internal/trades/domain"
)

// FirstID is the id given to the first generated customer.
const FirstID = 1001

const tradeCount = 30

var (
	defaultProvinces = []string{"Ontario", "Quebec", "Alberta", "British Columbia", "Manitoba"}
	firstNames       = []string{"John", "Jane", "Mike", "Emily", "Dave"}
	lastNames        = []string{"Smith", "Johnson", "Williams", "Jones", "Brown"}
	streets          = []string{"Howard Ave", "Dougall Ave", "Walker Rd", "Ouellette Ave", "Lauzon Rd"}
)

// Population counts what a seeding pass added.
type Population struct {
	Customers int
	Trades    int
}

// Generator produces pseudo-random demo data from an injected source.
type Generator struct {
	rng       *rand.Rand
	catalog   *catalog.Catalog
	clock     customers.Clock
	provinces []string
	backdate  time.Duration
	firstID   int
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the default clock.
func WithClock(clock customers.Clock) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// WithProvinces overrides the provinces customers are spread across.
func WithProvinces(provinces ...string) Option {
	return func(g *Generator) {
		if len(provinces) > 0 {
			g.provinces = provinces
		}
	}
}

// WithBackdate issues generated bills the given number of days in the past.
func WithBackdate(days int) Option {
	return func(g *Generator) {
		if days > 0 {
			g.backdate = time.Duration(days) * 24 * time.Hour
		}
	}
}

// WithFirstID overrides the first customer id.
func WithFirstID(id int) Option {
	return func(g *Generator) {
		if id > 0 {
			g.firstID = id
		}
	}
}

// NewGenerator constructs a generator. The same seed on rng yields the same data.
func NewGenerator(rng *rand.Rand, cat *catalog.Catalog, opts ...Option) (*Generator, error) {
	if rng == nil {
		return nil, errors.New("seed: nil rng")
	}
	if cat == nil {
		return nil, errors.New("seed: nil catalog")
	}
	g := &Generator{
		rng:       rng,
		catalog:   cat,
		clock:     customers.SystemClock{},
		provinces: defaultProvinces,
		firstID:   FirstID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Populate adds perProvince customers to each province and a batch of trades.
// Every third customer per province is billed; of those, every ninth is left unpaid.
func (g *Generator) Populate(dir *ledger.Directory, perProvince int) (Population, error) {
	var pop Population
	if dir == nil {
		return pop, errors.New("seed: nil directory")
	}
	id := g.firstID
	for _, province := range g.provinces {
		for i := 0; i < perProvince; i++ {
			c, err := g.customer(id, i, province)
			if err != nil {
				return pop, fmt.Errorf("seed: customer %d: %w", id, err)
			}
			if err := dir.AddCustomer(c); err != nil {
				return pop, fmt.Errorf("seed: customer %d: %w", id, err)
			}
			id++
			pop.Customers++
		}
	}
	for i := 0; i < tradeCount; i++ {
		r, err := g.trade(i)
		if err != nil {
			return pop, fmt.Errorf("seed: trade %d: %w", i, err)
		}
		dir.AddTrade(r)
		pop.Trades++
	}
	return pop, nil
}

func (g *Generator) customer(id, i int, province string) (*customers.Customer, error) {
	first := pick(g.rng, firstNames)
	last := pick(g.rng, lastNames)
	street := pick(g.rng, streets)
	number := 100 + g.rng.Intn(9900)
	kind := g.kind()
	allocated := g.between(250, 1000)

	c, err := customers.NewCustomer(customers.Params{
		ID:        id,
		Name:      first + " " + last,
		Province:  province,
		Email:     strings.ToLower(first[:1]+last) + "@email.com",
		Address:   strconv.Itoa(number) + " " + street + ", " + province,
		Kind:      kind,
		Allocated: allocated,
	}, customers.WithClock(g.clock))
	if err != nil {
		return nil, err
	}

	usage := g.between(50, allocated.InexactFloat64()*0.8)
	if i%3 == 0 {
		rate, err := g.catalog.Price(kind)
		if err != nil {
			return nil, err
		}
		issuedAt := g.clock.Now().Add(-g.backdate)
		if err := c.ImportBill(usage.Mul(rate), issuedAt, i%9 != 0); err != nil {
			return nil, err
		}
	} else if err := c.RecordUsage(usage); err != nil {
		return nil, err
	}

	if i%15 == 0 {
		if err := c.AddMaintenance("Equipment check", g.between(50, 200)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (g *Generator) trade(i int) (trades.Record, error) {
	kind := g.kind()
	price, err := g.catalog.Price(kind)
	if err != nil {
		return trades.Record{}, err
	}
	base := price.InexactFloat64()
	quantity := g.between(1000, 10000)
	unitPrice := g.between(base*0.7, base*1.3)
	flow := trades.FlowImport
	if i%3 == 0 {
		flow = trades.FlowExport
	}
	return trades.NewRecord(kind, quantity, unitPrice, flow, g.clock.Now())
}

func (g *Generator) kind() catalog.Kind {
	kinds := catalog.Kinds()
	return kinds[g.rng.Intn(len(kinds))]
}

// between returns a value uniformly drawn from [lo, hi), rounded to cents.
func (g *Generator) between(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + g.rng.Float64()*(hi-lo)).Round(2)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
