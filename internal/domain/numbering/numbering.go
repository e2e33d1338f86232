// Package numbering genera los números de documento legibles (PO, MR, GP, MD).
// La unicidad final la garantiza el índice UNIQUE de cada tabla.
package numbering

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const stampLayout = "20060102150405"

// PurchaseOrder PO-{YYYYMMDDhhmmss}-{6 alfanuméricos}.
func PurchaseOrder(now time.Time) string {
	return "PO-" + now.UTC().Format(stampLayout) + "-" + Random(6)
}

// MaterialReceipt MR-{unix}-{4 alfanuméricos}.
func MaterialReceipt(now time.Time) string {
	return fmt.Sprintf("MR-%d-%s", now.Unix(), Random(4))
}

// GatePass GP-{unix}-{4 alfanuméricos}. El sufijo evita colisiones dentro del mismo segundo.
func GatePass(now time.Time) string {
	return fmt.Sprintf("GP-%d-%s", now.Unix(), Random(4))
}

// MaterialDispatch MD-{YYYYMMDDhhmmss}-{4 alfanuméricos}.
func MaterialDispatch(now time.Time) string {
	return "MD-" + now.UTC().Format(stampLayout) + "-" + Random(4)
}

// Random n caracteres de [A-Z0-9].
func Random(n int) string {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(alphabet)))
	for i := range b {
		k, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand no falla en plataformas soportadas
			panic(fmt.Sprintf("numbering: %v", err))
		}
		b[i] = alphabet[k.Int64()]
	}
	return string(b)
}
