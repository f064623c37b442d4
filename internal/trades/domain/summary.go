package trades

import (
	"github.com/shopspring/decimal"

	"utility-billing/internal/catalog"
)

// KindTotal is the traded value of one kind.
type KindTotal struct {
	Kind  catalog.Kind    `json:"kind"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Summary aggregates trade values by direction.
type Summary struct {
	Count         int             `json:"count"`
	TotalImports  decimal.Decimal `json:"total_imports"`
	TotalExports  decimal.Decimal `json:"total_exports"`
	NetBalance    decimal.Decimal `json:"net_balance"`
	ImportsByKind []KindTotal     `json:"imports_by_kind"`
	ExportsByKind []KindTotal     `json:"exports_by_kind"`
}

// Summarize totals records. NetBalance is imports minus exports.
// Per-kind lists follow kind order and omit kinds with no trades in that direction.
func Summarize(records []Record) Summary {
	imports := make(map[catalog.Kind]decimal.Decimal)
	exports := make(map[catalog.Kind]decimal.Decimal)
	summary := Summary{
		Count:        len(records),
		TotalImports: decimal.Zero,
		TotalExports: decimal.Zero,
	}
	for _, r := range records {
		value := r.Value()
		switch r.flow {
		case FlowImport:
			summary.TotalImports = summary.TotalImports.Add(value)
			imports[r.kind] = imports[r.kind].Add(value)
		case FlowExport:
			summary.TotalExports = summary.TotalExports.Add(value)
			exports[r.kind] = exports[r.kind].Add(value)
		}
	}
	summary.NetBalance = summary.TotalImports.Sub(summary.TotalExports)
	summary.ImportsByKind = byKind(imports)
	summary.ExportsByKind = byKind(exports)
	return summary
}

func byKind(totals map[catalog.Kind]decimal.Decimal) []KindTotal {
	out := make([]KindTotal, 0, len(totals))
	for _, kind := range catalog.Kinds() {
		value, ok := totals[kind]
		if !ok {
			continue
		}
		out = append(out, KindTotal{Kind: kind, Name: kind.String(), Value: value})
	}
	return out
}
