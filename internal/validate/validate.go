// Package validate holds the field validation rules shared by the checkout
// and the admin product forms. Validation is collect-all: callers get every
// failing field at once, keyed by field name.
package validate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

var vld = validator.New()

// nameRe allows letters (including accented ones), spaces, hyphens and apostrophes.
var nameRe = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\-']+$`)

// FieldErrors maps a field name to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// PersonName validates a first or last name. Returns "" when valid.
func PersonName(name, label string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return label + " est requis"
	case len([]rune(name)) < 2:
		return label + " doit contenir au moins 2 caractères"
	case len([]rune(name)) > 50:
		return label + " ne peut pas dépasser 50 caractères"
	case !nameRe.MatchString(name):
		return label + " ne peut contenir que des lettres"
	}
	return ""
}

func Email(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "L'email est requis"
	}
	if err := vld.Var(email, "email"); err != nil {
		return "Format d'email invalide"
	}
	return ""
}

// Phone checks that the number parses as a real phone number.
// region is the default region for numbers without a country prefix.
func Phone(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "Le numéro de téléphone est requis"
	}
	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return "Format de téléphone invalide"
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "Numéro de téléphone invalide"
	}
	return ""
}

func Address(address string) string {
	address = strings.TrimSpace(address)
	switch {
	case address == "":
		return "L'adresse est requise"
	case len([]rune(address)) < 10:
		return "L'adresse semble trop courte (minimum 10 caractères)"
	case len([]rune(address)) > 200:
		return "L'adresse ne peut pas dépasser 200 caractères"
	}
	return ""
}

func ProductName(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "Le nom du produit est requis"
	case len([]rune(name)) < 3:
		return "Le nom doit contenir au moins 3 caractères"
	case len([]rune(name)) > 100:
		return "Le nom ne peut pas dépasser 100 caractères"
	}
	return ""
}

func Price(price int64) string {
	switch {
	case price < 0:
		return "Le prix ne peut pas être négatif"
	case price > 1_000_000:
		return "Le prix semble anormalement élevé"
	}
	return ""
}

func Stock(stock int) string {
	switch {
	case stock < 0:
		return "Le stock ne peut pas être négatif"
	case stock > 10_000:
		return "Le stock semble anormalement élevé"
	}
	return ""
}

func Description(description string) string {
	if len([]rune(description)) > 1000 {
		return "La description ne peut pas dépasser 1000 caractères"
	}
	return ""
}
