package ports

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// VendorDirectory puerto de salida hacia el directorio externo de proveedores.
// Nunca devuelve error: ante cualquier falla entrega un proveedor "Unknown Vendor".
type VendorDirectory interface {
	GetVendor(ctx context.Context, vendorID int64) entity.Vendor
}
