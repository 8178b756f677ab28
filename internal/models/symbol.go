package models

// Symbol is one currency the exchange-rate API supports.
type Symbol struct {
	Code        string
	Description string
}
