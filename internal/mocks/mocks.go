// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/currency-converter-client/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockConverterAPI mocks the ConverterAPI interface
type MockConverterAPI struct {
	mock.Mock
}

func (m *MockConverterAPI) Convert(ctx context.Context, amount float64, from, to string) (*entity.ConversionResult, error) {
	args := m.Called(ctx, amount, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConversionResult), args.Error(1)
}

func (m *MockConverterAPI) ListCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockConverterAPI) SetRate(ctx context.Context, from, to string, rate float64) error {
	args := m.Called(ctx, from, to, rate)
	return args.Error(0)
}

func (m *MockConverterAPI) ResetRates(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
