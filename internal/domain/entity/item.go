package entity

import "time"

// Item representa un material del maestro de ítems (lo que se compra, recibe y despacha).
type Item struct {
	ID          int64
	Code        string // único
	Name        string
	Unit        string
	Description string
	CreatedAt   time.Time
}
