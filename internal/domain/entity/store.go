package entity

import "time"

// Store bodega física de una planta.
type Store struct {
	ID             int64
	Code           string
	Name           string
	PlantName      string
	InChargeName   string
	InChargeMobile string
	InChargeEmail  string
	CreatedAt      time.Time
}

// Bin ubicación dentro de una bodega.
type Bin struct {
	ID               int64
	StoreID          int64
	BinNo            string
	ComponentDetails string
	CreatedAt        time.Time
}
