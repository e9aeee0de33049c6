package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonName(t *testing.T) {
	assert.Empty(t, PersonName("Awa", "Le prénom"))
	assert.Empty(t, PersonName("Jean-Pièrre", "Le prénom"))
	assert.Empty(t, PersonName("N'Guema", "Le nom"))

	assert.Equal(t, "Le prénom est requis", PersonName("  ", "Le prénom"))
	assert.Contains(t, PersonName("A", "Le prénom"), "au moins 2")
	assert.Contains(t, PersonName(strings.Repeat("a", 51), "Le nom"), "50")
	assert.Contains(t, PersonName("Awa3", "Le prénom"), "lettres")
}

func TestEmail(t *testing.T) {
	assert.Empty(t, Email("awa.ndong@example.com"))
	assert.Empty(t, Email("  awa@example.com  "), "surrounding spaces are tolerated")

	assert.Equal(t, "L'email est requis", Email(""))
	assert.Equal(t, "Format d'email invalide", Email("pas-un-email"))
	assert.Equal(t, "Format d'email invalide", Email("a@b"))
}

func TestPhone(t *testing.T) {
	assert.Empty(t, Phone("+24106031234", "GA"))
	assert.Empty(t, Phone("06 03 12 34", "GA"), "local format uses the default region")

	assert.Equal(t, "Le numéro de téléphone est requis", Phone("", "GA"))
	assert.NotEmpty(t, Phone("12", "GA"))
	assert.NotEmpty(t, Phone("abcdef", "GA"))
}

func TestAddress(t *testing.T) {
	assert.Empty(t, Address("Quartier Glass, Libreville"))

	assert.Equal(t, "L'adresse est requise", Address(""))
	assert.Contains(t, Address("court"), "trop courte")
	assert.Contains(t, Address(strings.Repeat("a", 201)), "200")
}

func TestProductName(t *testing.T) {
	assert.Empty(t, ProductName("Oud Royal"))

	assert.Equal(t, "Le nom du produit est requis", ProductName(" "))
	assert.Contains(t, ProductName("ab"), "au moins 3")
	assert.Contains(t, ProductName(strings.Repeat("a", 101)), "100")
}

func TestPrice(t *testing.T) {
	assert.Empty(t, Price(0))
	assert.Empty(t, Price(2000))
	assert.Empty(t, Price(1_000_000))

	assert.NotEmpty(t, Price(-1))
	assert.NotEmpty(t, Price(1_000_001))
}

func TestStock(t *testing.T) {
	assert.Empty(t, Stock(0))
	assert.Empty(t, Stock(10_000))

	assert.NotEmpty(t, Stock(-1))
	assert.NotEmpty(t, Stock(10_001))
}

func TestDescription(t *testing.T) {
	assert.Empty(t, Description(""))
	assert.Empty(t, Description(strings.Repeat("a", 1000)))
	assert.NotEmpty(t, Description(strings.Repeat("a", 1001)))
}

func TestFieldErrorsError(t *testing.T) {
	errs := FieldErrors{"email": "Format d'email invalide", "address": "L'adresse est requise"}
	// keys come out sorted for a stable message
	assert.Equal(t, "address: L'adresse est requise; email: Format d'email invalide", errs.Error())
}
