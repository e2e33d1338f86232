package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/ledger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestHasValidScale(t *testing.T) {
	assert.True(t, ledger.HasValidScale(d("10")))
	assert.True(t, ledger.HasValidScale(d("10.125")))
	assert.False(t, ledger.HasValidScale(d("10.1255")))
	assert.False(t, ledger.IsPositiveQuantity(d("0")))
	assert.False(t, ledger.IsPositiveQuantity(d("-1")))
	assert.True(t, ledger.IsPositiveQuantity(d("0.001")))
}

func TestReceiptStatus_ParcialYLuegoCompleto(t *testing.T) {
	ordered := map[int64]decimal.Decimal{1: d("100")}

	st := ledger.ReceiptStatus(entity.POStatusSent, ordered, map[int64]decimal.Decimal{1: d("60")})
	assert.Equal(t, entity.POStatusPartiallyReceived, st)

	st = ledger.ReceiptStatus(st, ordered, map[int64]decimal.Decimal{1: d("100")})
	assert.Equal(t, entity.POStatusReceived, st)
}

func TestReceiptStatus_UnaLineaCompletaOtraSinRecibirConservaEstado(t *testing.T) {
	ordered := map[int64]decimal.Decimal{1: d("10"), 2: d("5")}

	st := ledger.ReceiptStatus(entity.POStatusSent, ordered, map[int64]decimal.Decimal{1: d("10")})
	assert.Equal(t, entity.POStatusSent, st)

	st = ledger.ReceiptStatus(entity.POStatusPartiallyReceived, ordered, map[int64]decimal.Decimal{1: d("10")})
	assert.Equal(t, entity.POStatusPartiallyReceived, st)
}

func TestReceiptStatus_LineaParcialJuntoALineaCompleta(t *testing.T) {
	ordered := map[int64]decimal.Decimal{1: d("10"), 2: d("5")}
	st := ledger.ReceiptStatus(entity.POStatusSent, ordered, map[int64]decimal.Decimal{1: d("10"), 2: d("2.5")})
	assert.Equal(t, entity.POStatusPartiallyReceived, st)
}

func TestReceiptStatus_NuncaRetrocede(t *testing.T) {
	ordered := map[int64]decimal.Decimal{1: d("10")}
	st := ledger.ReceiptStatus(entity.POStatusReceived, ordered, map[int64]decimal.Decimal{})
	assert.Equal(t, entity.POStatusReceived, st)

	st = ledger.ReceiptStatus(entity.POStatusSent, ordered, nil)
	assert.Equal(t, entity.POStatusSent, st)
}

func TestInspectionResult(t *testing.T) {
	assert.Equal(t, entity.InspectionResultFullyAccepted, ledger.InspectionResult(d("100"), d("100")))
	assert.Equal(t, entity.InspectionResultPartiallyAccepted, ledger.InspectionResult(d("70"), d("100")))
	assert.Equal(t, entity.InspectionResultFullyRejected, ledger.InspectionResult(d("0"), d("100")))
}

func TestPending_NoNegativo(t *testing.T) {
	assert.True(t, ledger.Pending(d("100"), d("80")).Equal(d("20")))
	assert.True(t, ledger.Pending(d("100"), d("120")).IsZero())
}

func TestReplayBalance_DespachoYCancelacionConservan(t *testing.T) {
	txns := []entity.InventoryTransaction{
		{TransactionType: entity.TransactionTypeIN, Quantity: d("50")},
		{TransactionType: entity.TransactionTypeOUT, Quantity: d("50")},
		{TransactionType: entity.TransactionTypeREVERSAL, Quantity: d("50")},
	}
	assert.True(t, ledger.ReplayBalance(txns).Equal(d("50")))
	assert.True(t, ledger.ReplayBalance(nil).IsZero())
}
