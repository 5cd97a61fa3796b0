package service

import (
	"fmt"

	"goldloan/internal/model"

	"github.com/shopspring/decimal"
)

// Shared request payload shapes for the three transaction recorders. Monetary
// and weight fields travel as decimal strings, parsed with shopspring/decimal
// so no float rounding ever touches money.

type CustomerPayload struct {
	Name    string `json:"name" binding:"required"`
	Mobile  string `json:"mobile" binding:"required"`
	Aadhar  string `json:"aadhar"`
	Pan     string `json:"pan"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}

type GoldDetailsPayload struct {
	Weight       string `json:"weight" binding:"required"`
	StoneWeight  string `json:"stone_weight"`
	PurityIndex  string `json:"purity_index" binding:"required"`
	PurityLabel  string `json:"purity_label" binding:"required"`
	OrnamentType string `json:"ornament_type" binding:"required"`
	KdmType      string `json:"kdm_type"`
}

func toCustomer(p CustomerPayload) model.Customer {
	return model.Customer{
		Name:    p.Name,
		Mobile:  p.Mobile,
		Aadhar:  p.Aadhar,
		Pan:     p.Pan,
		Gender:  p.Gender,
		Address: p.Address,
	}
}

func toGoldDetails(p GoldDetailsPayload) (model.GoldDetails, error) {
	weight, err := parseAmount("weight", p.Weight)
	if err != nil {
		return model.GoldDetails{}, err
	}
	stoneWeight, err := parseOptionalAmount("stone_weight", p.StoneWeight)
	if err != nil {
		return model.GoldDetails{}, err
	}
	purityIndex, err := parseAmount("purity_index", p.PurityIndex)
	if err != nil {
		return model.GoldDetails{}, err
	}

	kdmType := p.KdmType
	if kdmType == "" {
		kdmType = model.KdmTypeKDM
	}
	if kdmType != model.KdmTypeKDM && kdmType != model.KdmTypeNonKDM {
		return model.GoldDetails{}, fmt.Errorf("kdm_type must be %q or %q", model.KdmTypeKDM, model.KdmTypeNonKDM)
	}

	return model.GoldDetails{
		Weight:       weight,
		StoneWeight:  stoneWeight,
		PurityIndex:  purityIndex,
		PurityLabel:  p.PurityLabel,
		OrnamentType: p.OrnamentType,
		KdmType:      kdmType,
	}, nil
}

// parseAmount parses a required decimal-string field.
func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d, nil
}

// parseOptionalAmount parses an optional decimal-string field, empty means 0.
func parseOptionalAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return parseAmount(field, value)
}
