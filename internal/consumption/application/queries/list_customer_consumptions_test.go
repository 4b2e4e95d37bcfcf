package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comanda-app/comanda/internal/consumption/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockSummaryReader is a mock implementation of domain.SummaryReader.
type mockSummaryReader struct {
	mock.Mock
}

func (m *mockSummaryReader) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]domain.Summary, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Summary), args.Error(1)
}

// mockDetailsReader is a mock implementation of domain.DetailsReader.
type mockDetailsReader struct {
	mock.Mock
}

func (m *mockDetailsReader) FindDetailsByID(ctx context.Context, id uuid.UUID) (*domain.Details, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Details), args.Error(1)
}

func testSummary(customerID uuid.UUID, status domain.Status, amount int64) domain.Summary {
	return domain.Summary{
		ID:          uuid.New(),
		CustomerID:  customerID,
		TotalAmount: amount,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestListCustomerConsumptionsHandler_Handle(t *testing.T) {
	customerID := uuid.New()

	t.Run("lists every tab of the customer", func(t *testing.T) {
		summaries := new(mockSummaryReader)
		handler := NewListCustomerConsumptionsHandler(summaries)

		pending := testSummary(customerID, domain.StatusPending, 4200)
		paid := testSummary(customerID, domain.StatusPaid, 1500)
		summaries.On("FindByCustomerID", mock.Anything, customerID).
			Return([]domain.Summary{pending, paid}, nil)

		result, err := handler.Handle(context.Background(), ListCustomerConsumptionsQuery{CustomerID: customerID})

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, pending.ID, result[0].ID)
		assert.Equal(t, "PENDING", result[0].Status)
		assert.Equal(t, int64(4200), result[0].TotalAmount)
		assert.Equal(t, paid.ID, result[1].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		summaries := new(mockSummaryReader)
		handler := NewListCustomerConsumptionsHandler(summaries)

		summaries.On("FindByCustomerID", mock.Anything, customerID).Return([]domain.Summary{
			testSummary(customerID, domain.StatusPending, 100),
			testSummary(customerID, domain.StatusPaid, 200),
			testSummary(customerID, domain.StatusPending, 300),
		}, nil)

		result, err := handler.Handle(context.Background(), ListCustomerConsumptionsQuery{
			CustomerID: customerID,
			Status:     "PENDING",
		})

		require.NoError(t, err)
		require.Len(t, result, 2)
		for _, dto := range result {
			assert.Equal(t, "PENDING", dto.Status)
		}
	})

	t.Run("filters payable tabs", func(t *testing.T) {
		summaries := new(mockSummaryReader)
		handler := NewListCustomerConsumptionsHandler(summaries)

		summaries.On("FindByCustomerID", mock.Anything, customerID).Return([]domain.Summary{
			testSummary(customerID, domain.StatusDraft, 100),
			testSummary(customerID, domain.StatusPending, 200),
			testSummary(customerID, domain.StatusOverdue, 300),
			testSummary(customerID, domain.StatusPaid, 400),
		}, nil)

		result, err := handler.Handle(context.Background(), ListCustomerConsumptionsQuery{
			CustomerID: customerID,
			Payable:    true,
		})

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "PENDING", result[0].Status)
		assert.Equal(t, "OVERDUE", result[1].Status)
	})

	t.Run("returns empty list for a customer without tabs", func(t *testing.T) {
		summaries := new(mockSummaryReader)
		handler := NewListCustomerConsumptionsHandler(summaries)

		summaries.On("FindByCustomerID", mock.Anything, customerID).Return([]domain.Summary{}, nil)

		result, err := handler.Handle(context.Background(), ListCustomerConsumptionsQuery{CustomerID: customerID})

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("propagates reader failures", func(t *testing.T) {
		summaries := new(mockSummaryReader)
		handler := NewListCustomerConsumptionsHandler(summaries)

		summaries.On("FindByCustomerID", mock.Anything, customerID).Return(nil, errors.New("database error"))

		result, err := handler.Handle(context.Background(), ListCustomerConsumptionsQuery{CustomerID: customerID})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
