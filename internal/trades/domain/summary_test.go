package trades

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utility-billing/internal/catalog"
)

var tradeTime = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func mustRecord(t *testing.T, kind catalog.Kind, qty, price string, flow Flow) Record {
	t.Helper()
	r, err := NewRecord(kind, decimal.RequireFromString(qty), decimal.RequireFromString(price), flow, tradeTime)
	require.NoError(t, err)
	return r
}

func TestNewRecordValidation(t *testing.T) {
	one := decimal.NewFromInt(1)
	tests := []struct {
		name    string
		kind    catalog.Kind
		qty     decimal.Decimal
		price   decimal.Decimal
		flow    Flow
		at      time.Time
		wantErr error
	}{
		{"unknown kind", catalog.Kind(11), one, one, FlowImport, tradeTime, catalog.ErrUnknownKind},
		{"zero quantity", catalog.Solar, decimal.Zero, one, FlowImport, tradeTime, ErrNonPositiveQuantity},
		{"negative price", catalog.Solar, one, decimal.NewFromInt(-1), FlowExport, tradeTime, ErrNonPositivePrice},
		{"bad flow", catalog.Solar, one, one, Flow("swap"), tradeTime, ErrInvalidFlow},
		{"no timestamp", catalog.Solar, one, one, FlowExport, time.Time{}, ErrMissingTimestamp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord(tt.kind, tt.qty, tt.price, tt.flow, tt.at)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	r := mustRecord(t, catalog.Nuclear, "250", "0.5", FlowExport)
	assert.NotEqual(t, [16]byte{}, [16]byte(r.ID()))
	assert.Equal(t, "125", r.Value().String())
	assert.Equal(t, FlowExport, r.Flow())
	assert.Equal(t, tradeTime, r.At())
}

func TestSummarizeNetBalance(t *testing.T) {
	records := []Record{
		mustRecord(t, catalog.CrudeOil, "1000", "1", FlowImport),
		mustRecord(t, catalog.Solar, "500", "1", FlowExport),
	}

	summary := Summarize(records)

	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, "1000", summary.TotalImports.String())
	assert.Equal(t, "500", summary.TotalExports.String())
	assert.Equal(t, "500", summary.NetBalance.String())
	require.Len(t, summary.ImportsByKind, 1)
	assert.Equal(t, "Crude Oil", summary.ImportsByKind[0].Name)
	require.Len(t, summary.ExportsByKind, 1)
	assert.Equal(t, catalog.Solar, summary.ExportsByKind[0].Kind)
}

func TestSummarizeGroupsInKindOrder(t *testing.T) {
	records := []Record{
		mustRecord(t, catalog.NaturalGas, "10", "2", FlowImport),
		mustRecord(t, catalog.CrudeOil, "5", "3", FlowImport),
		mustRecord(t, catalog.NaturalGas, "1", "2", FlowImport),
		mustRecord(t, catalog.Nuclear, "100", "0.25", FlowExport),
	}

	summary := Summarize(records)

	require.Len(t, summary.ImportsByKind, 2)
	assert.Equal(t, catalog.CrudeOil, summary.ImportsByKind[0].Kind)
	assert.Equal(t, "15", summary.ImportsByKind[0].Value.String())
	assert.Equal(t, catalog.NaturalGas, summary.ImportsByKind[1].Kind)
	assert.Equal(t, "22", summary.ImportsByKind[1].Value.String())
	assert.Equal(t, "12", summary.NetBalance.String())
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.True(t, summary.TotalImports.IsZero())
	assert.True(t, summary.NetBalance.IsZero())
	assert.Empty(t, summary.ImportsByKind)
	assert.NotNil(t, summary.ExportsByKind)
}
