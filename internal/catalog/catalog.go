package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies an energy type sold to customers and traded on the ledger.
type Kind int

const (
	CrudeOil Kind = iota
	Solar
	Nuclear
	NaturalGas
)

var (
	ErrUnknownKind      = errors.New("catalog: unknown energy kind")
	ErrMissingPrice     = errors.New("catalog: missing price")
	ErrNonPositivePrice = errors.New("catalog: price must be positive")
)

var allKinds = []Kind{CrudeOil, Solar, Nuclear, NaturalGas}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k >= CrudeOil && k <= NaturalGas
}

// String returns the display name used in reports.
func (k Kind) String() string {
	switch k {
	case CrudeOil:
		return "Crude Oil"
	case Solar:
		return "Solar"
	case Nuclear:
		return "Nuclear"
	case NaturalGas:
		return "Natural Gas"
	default:
		return "Unknown"
	}
}

// Key returns the machine name used in config files and payloads.
func (k Kind) Key() string {
	switch k {
	case CrudeOil:
		return "crude_oil"
	case Solar:
		return "solar"
	case Nuclear:
		return "nuclear"
	case NaturalGas:
		return "natural_gas"
	default:
		return ""
	}
}

// ParseKind accepts either a key ("natural_gas") or a display name ("Natural Gas").
func ParseKind(value string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, k := range allKinds {
		if k.Key() == normalized {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, value)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, ErrUnknownKind
	}
	return []byte(k.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
