package phone

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// Normalize valida number para la región dada (ISO 3166 alfa-2, ej. "IN") y lo devuelve en E.164.
// Un número con prefijo internacional (+NN) se valida contra su propio país.
func Normalize(number, region string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", fmt.Errorf("phone number is empty")
	}
	p, err := libphonenumber.Parse(number, strings.ToUpper(region))
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number is not valid")
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}
