package mocks

import (
	"context"

	"github.com/Luck-shya/WorkIndia/internal/database"
	"github.com/Luck-shya/WorkIndia/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockBookingService is a mock implementation of BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Register(ctx context.Context, req *service.RegisterRequest) (*database.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.User), args.Error(1)
}

func (m *MockBookingService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockBookingService) AddTrain(ctx context.Context, req *service.AddTrainRequest) (*database.Train, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Train), args.Error(1)
}

func (m *MockBookingService) SearchTrains(ctx context.Context, source, destination string) ([]database.Train, error) {
	args := m.Called(ctx, source, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Train), args.Error(1)
}

func (m *MockBookingService) BookSeat(ctx context.Context, userID, trainID int64, seatNumber int) (*database.Booking, error) {
	args := m.Called(ctx, userID, trainID, seatNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*database.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Booking), args.Error(1)
}
