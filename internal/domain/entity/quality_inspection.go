package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resultados de inspección de calidad.
const (
	InspectionResultPending           = "PENDING"
	InspectionResultFullyAccepted     = "FULLY_ACCEPTED"
	InspectionResultPartiallyAccepted = "PARTIALLY_ACCEPTED"
	InspectionResultFullyRejected     = "FULLY_REJECTED"
)

// QualityInspection una sola inspección por recepción de material.
type QualityInspection struct {
	ID          int64
	MRID        int64
	InspectedBy string
	Remarks     string
	Result      string
	InspectedAt time.Time
	Lines       []QualityInspectionLine
}

// QualityInspectionLine Accepted + Rejected == MaterialReceiptLine.ReceivedQuantity.
type QualityInspectionLine struct {
	ID               int64
	InspectionID     int64
	MRLineID         int64
	AcceptedQuantity decimal.Decimal
	RejectedQuantity decimal.Decimal
}
