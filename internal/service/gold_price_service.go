package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"goldloan/internal/model"
	"goldloan/internal/repository"
	ws "goldloan/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// UpdateGoldPriceRequest carries per-karat rates as optional decimal strings;
// omitted karats keep their current value.
type UpdateGoldPriceRequest struct {
	Karat24 *string `json:"24K"`
	Karat22 *string `json:"22K"`
	Karat20 *string `json:"20K"`
	Karat18 *string `json:"18K"`
}

type GoldPriceResponse struct {
	Karat24   string  `json:"24K"`
	Karat22   string  `json:"22K"`
	Karat20   string  `json:"20K"`
	Karat18   string  `json:"18K"`
	UpdatedBy *string `json:"updated_by,omitempty"`
	UpdatedAt string  `json:"updated_at"`
}

// --- Interface ---

// GoldPriceService exposes the single shared per-karat rate board. Get never
// fails on an empty table; it returns zero rates until an admin sets them.
type GoldPriceService interface {
	Get(ctx context.Context) (GoldPriceResponse, error)
	Update(ctx context.Context, userID string, req UpdateGoldPriceRequest) (GoldPriceResponse, error)
}

type goldPriceService struct {
	goldPriceRepo repository.GoldPriceRepository
	hub           *ws.Hub
}

func NewGoldPriceService(goldPriceRepo repository.GoldPriceRepository, hub *ws.Hub) GoldPriceService {
	return &goldPriceService{goldPriceRepo: goldPriceRepo, hub: hub}
}

// --- Implementation ---

func (s *goldPriceService) Get(ctx context.Context) (GoldPriceResponse, error) {
	price, err := s.goldPriceRepo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GoldPriceResponse{
				Karat24:   decimal.Zero.StringFixed(4),
				Karat22:   decimal.Zero.StringFixed(4),
				Karat20:   decimal.Zero.StringFixed(4),
				Karat18:   decimal.Zero.StringFixed(4),
				UpdatedAt: time.Time{}.Format(time.RFC3339),
			}, nil
		}
		return GoldPriceResponse{}, fmt.Errorf("failed to fetch gold price: %w", err)
	}
	return toGoldPriceResponse(*price), nil
}

func (s *goldPriceService) Update(ctx context.Context, userID string, req UpdateGoldPriceRequest) (GoldPriceResponse, error) {
	updatedBy, err := uuid.Parse(userID)
	if err != nil {
		return GoldPriceResponse{}, fmt.Errorf("invalid user id: %w", err)
	}
	if req.Karat24 == nil && req.Karat22 == nil && req.Karat20 == nil && req.Karat18 == nil {
		return GoldPriceResponse{}, fmt.Errorf("at least one karat rate is required")
	}

	price, err := s.goldPriceRepo.Latest(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return GoldPriceResponse{}, fmt.Errorf("failed to fetch gold price: %w", err)
		}
		price = &model.GoldPrice{}
	}

	if err := applyKarat(&price.Karat24, "24K", req.Karat24); err != nil {
		return GoldPriceResponse{}, err
	}
	if err := applyKarat(&price.Karat22, "22K", req.Karat22); err != nil {
		return GoldPriceResponse{}, err
	}
	if err := applyKarat(&price.Karat20, "20K", req.Karat20); err != nil {
		return GoldPriceResponse{}, err
	}
	if err := applyKarat(&price.Karat18, "18K", req.Karat18); err != nil {
		return GoldPriceResponse{}, err
	}
	price.UpdatedByID = updatedBy
	price.UpdatedBy = nil

	if price.ID == uuid.Nil {
		err = s.goldPriceRepo.Create(ctx, price)
	} else {
		err = s.goldPriceRepo.Save(ctx, price)
	}
	if err != nil {
		return GoldPriceResponse{}, fmt.Errorf("failed to save gold price: %w", err)
	}

	resp := toGoldPriceResponse(*price)
	s.broadcast(resp)
	return resp, nil
}

// broadcast pushes the new rate board to every connected dashboard.
func (s *goldPriceService) broadcast(resp GoldPriceResponse) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"event": "gold_price_updated",
		"data":  resp,
	})
	if err != nil {
		log.Printf("failed to marshal gold price broadcast: %v", err)
		return
	}
	s.hub.Broadcast <- payload
}

func applyKarat(dst *decimal.Decimal, field string, value *string) error {
	if value == nil {
		return nil
	}
	rate, err := parseAmount(field, *value)
	if err != nil {
		return err
	}
	if rate.IsNegative() {
		return fmt.Errorf("%s rate cannot be negative", field)
	}
	*dst = rate
	return nil
}

// --- Mapping ---

func toGoldPriceResponse(p model.GoldPrice) GoldPriceResponse {
	resp := GoldPriceResponse{
		Karat24:   p.Karat24.StringFixed(4),
		Karat22:   p.Karat22.StringFixed(4),
		Karat20:   p.Karat20.StringFixed(4),
		Karat18:   p.Karat18.StringFixed(4),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if p.UpdatedBy != nil {
		resp.UpdatedBy = &p.UpdatedBy.Name
	}
	return resp
}
