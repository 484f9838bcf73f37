package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryHerb      Category = "herb"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryVegetable, CategoryFruit, CategoryHerb:
		return true
	}
	return false
}

// Unit is the unit a product price is quoted in. UnitGram means
// "per 100 g"; stock and cart quantities are always kg.
type Unit string

const (
	UnitKg   Unit = "kg"
	UnitGram Unit = "g"
)

func (u Unit) Valid() bool {
	return u == UnitKg || u == UnitGram
}

// Availability holds one flag per delivery zone.
type Availability struct {
	Margao bool `json:"margao"`
	Panjim bool `json:"panjim"`
	Vasco  bool `json:"vasco"`
}

func (a Availability) At(l Location) bool {
	switch l {
	case LocationMargao:
		return a.Margao
	case LocationPanjim:
		return a.Panjim
	case LocationVasco:
		return a.Vasco
	}
	return false
}

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Category     Category        `json:"category"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	UnitType     Unit            `json:"unit_type"`
	Stock        float64         `json:"stock_quantity"`
	Availability Availability    `json:"availability"`
	ImagePath    string          `json:"image_path"`
}

var ErrInvalidProduct = errors.New("invalid product")

// Validate checks the fields an admin can set. It fills a placeholder
// image path when none was given.
func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return errors.Join(ErrInvalidProduct, errors.New("name is required"))
	case !p.Category.Valid():
		return errors.Join(ErrInvalidProduct, errors.New("category must be vegetable, fruit or herb"))
	case !p.UnitType.Valid():
		return errors.Join(ErrInvalidProduct, errors.New("unit_type must be kg or g"))
	case p.PricePerUnit.IsNegative():
		return errors.Join(ErrInvalidProduct, errors.New("price_per_unit must not be negative"))
	case p.Stock < 0:
		return errors.Join(ErrInvalidProduct, errors.New("stock_quantity must not be negative"))
	}
	if p.ImagePath == "" {
		p.ImagePath = "placeholders/" + string(p.Category) + ".png"
	}
	return nil
}

// ProductFilter narrows a catalog listing. Zero values match everything.
type ProductFilter struct {
	Category Category
	Search   string
}
