package entity

// Estados conocidos de un proveedor en el directorio externo.
const (
	VendorStatusActive  = "ACTIVE"
	VendorStatusUnknown = "UNKNOWN"
)

// Vendor proveedor tal como lo entrega el directorio externo (no se persiste aquí).
type Vendor struct {
	ID      int64
	Name    string
	Contact string
	Status  string
}
