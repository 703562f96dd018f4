package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/utkarsh9600/zyvo-backend/internal/clock"
	"github.com/utkarsh9600/zyvo-backend/internal/domain"
)

type AdminRepository interface {
	CreateHotel(ctx context.Context, hotel domain.Hotel) error
	GetHotel(ctx context.Context, id string) (domain.Hotel, error)
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	SetHotelActive(ctx context.Context, id string, active bool) error
}

type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:  repo,
		clock: clk,
	}
}

const defaultCommissionPercent = 15

type CreateHotelInput struct {
	Name              string
	City              string
	OwnerID           string
	TotalRooms        int
	BasePrice         int64
	WeekendMultiplier float64
	CommissionPercent float64
}

func (s *AdminService) CreateHotel(ctx context.Context, in CreateHotelInput) (domain.Hotel, error) {
	if in.Name == "" {
		return domain.Hotel{}, domain.ErrHotelNameRequired
	}
	if in.TotalRooms < 1 {
		return domain.Hotel{}, domain.ErrInvalidTotalRooms
	}
	if in.BasePrice <= 0 {
		return domain.Hotel{}, domain.ErrInvalidBasePrice
	}
	if in.CommissionPercent < 0 || in.CommissionPercent > 100 {
		return domain.Hotel{}, domain.ErrInvalidCommission
	}

	commission := in.CommissionPercent
	if commission == 0 {
		commission = defaultCommissionPercent
	}

	hotel := domain.Hotel{
		ID:                uuid.NewString(),
		Name:              in.Name,
		City:              in.City,
		OwnerID:           in.OwnerID,
		Active:            true,
		TotalRooms:        in.TotalRooms,
		AvailableRooms:    in.TotalRooms,
		BasePrice:         in.BasePrice,
		WeekendMultiplier: in.WeekendMultiplier,
		CommissionPercent: commission,
		CreatedAt:         s.clock.Now(),
	}

	if err := s.repo.CreateHotel(ctx, hotel); err != nil {
		return domain.Hotel{}, err
	}
	return hotel, nil
}

func (s *AdminService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	if id == "" {
		return domain.Hotel{}, domain.ErrInvalidID
	}
	return s.repo.GetHotel(ctx, id)
}

func (s *AdminService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.ListHotels(ctx)
}

func (s *AdminService) SetHotelActive(ctx context.Context, id string, active bool) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	return s.repo.SetHotelActive(ctx, id, active)
}
