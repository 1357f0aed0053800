package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Luck-shya/WorkIndia/internal/auth"
	"github.com/Luck-shya/WorkIndia/internal/database"
	"github.com/Luck-shya/WorkIndia/internal/reservation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("role must be admin or user")
	ErrAccessDenied       = errors.New("access denied")
)

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AddTrainRequest is the payload for creating a train
type AddTrainRequest struct {
	TrainNumber string `json:"train_number"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	TotalSeats  int    `json:"total_seats"`
}

// BookingService defines the booking service interface
type BookingService interface {
	Register(ctx context.Context, req *RegisterRequest) (*database.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	AddTrain(ctx context.Context, req *AddTrainRequest) (*database.Train, error)
	SearchTrains(ctx context.Context, source, destination string) ([]database.Train, error)
	BookSeat(ctx context.Context, userID, trainID int64, seatNumber int) (*database.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*database.Booking, error)
}

// bookingServiceImpl implements BookingService
type bookingServiceImpl struct {
	repo   *database.Repository
	engine *reservation.Engine
	tokens *auth.TokenManager
}

// NewBookingService creates a new BookingService
func NewBookingService(repo *database.Repository, engine *reservation.Engine, tokens *auth.TokenManager) BookingService {
	return &bookingServiceImpl{
		repo:   repo,
		engine: engine,
		tokens: tokens,
	}
}

func (s *bookingServiceImpl) Register(ctx context.Context, req *RegisterRequest) (*database.User, error) {
	role := database.Role(req.Role)
	if role != database.RoleAdmin && role != database.RoleUser {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &database.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *bookingServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID, user.Role)
}

func (s *bookingServiceImpl) AddTrain(ctx context.Context, req *AddTrainRequest) (*database.Train, error) {
	train := &database.Train{
		TrainNumber: req.TrainNumber,
		Source:      req.Source,
		Destination: req.Destination,
		TotalSeats:  req.TotalSeats,
	}
	if err := s.repo.CreateTrain(ctx, train); err != nil {
		return nil, err
	}

	return train, nil
}

func (s *bookingServiceImpl) SearchTrains(ctx context.Context, source, destination string) ([]database.Train, error) {
	return s.repo.SearchTrains(ctx, source, destination)
}

func (s *bookingServiceImpl) BookSeat(ctx context.Context, userID, trainID int64, seatNumber int) (*database.Booking, error) {
	return s.engine.Reserve(ctx, userID, trainID, seatNumber)
}

// GetBooking returns a booking, but only to the user who owns it.
func (s *bookingServiceImpl) GetBooking(ctx context.Context, userID, bookingID int64) (*database.Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrAccessDenied
	}
	return booking, nil
}
