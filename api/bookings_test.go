package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nvoronina/flightbooking/internal/domain"
	"github.com/nvoronina/flightbooking/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Create(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Confirm(ctx context.Context, id int64, paymentID string) (*domain.Booking, error) {
	args := m.Called(ctx, id, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestRouter(service booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(service).Register(router.Group("/api/bookings"))
	return router
}

func storedBooking(id int64, status domain.BookingStatus) *domain.Booking {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &domain.Booking{
		ID:                 id,
		CustomerID:         1,
		FlightID:           100,
		NumberOfPassengers: 2,
		TotalPrice:         500.00,
		Status:             status,
		BookingDate:        now,
		SeatNumbers:        "12A,12B",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	body := []byte(`{"customerId":1,"flightId":100,"numberOfPassengers":2,"totalPrice":500.00,"seatNumbers":"12A,12B"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	created := storedBooking(42, domain.BookingStatusPending)
	mockService.On("Create", mock.Anything, booking.CreateBookingInput{
		CustomerID:         1,
		FlightID:           100,
		NumberOfPassengers: 2,
		TotalPrice:         500.00,
		SeatNumbers:        "12A,12B",
	}).Return(created, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(42), response.ID)
	assert.Equal(t, string(domain.BookingStatusPending), response.Status)
	assert.Equal(t, 2, response.NumberOfPassengers)
	assert.Equal(t, 500.00, response.TotalPrice)
	assert.Equal(t, "12A,12B", response.SeatNumbers)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_ValidationReportsAllFields(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.ElementsMatch(t, []string{
		"customerId is required",
		"flightId is required",
		"numberOfPassengers is required",
		"totalPrice is required",
	}, response.Details)

	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingHandler_create_ValidationBounds(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	body := []byte(`{"customerId":1,"flightId":100,"numberOfPassengers":0,"totalPrice":-1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.ElementsMatch(t, []string{
		"numberOfPassengers must be at least 1",
		"totalPrice must not be negative",
	}, response.Details)
}

func TestBookingHandler_getByID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	existing := storedBooking(5, domain.BookingStatusConfirmed)
	existing.PaymentID = "PAY-12345"
	mockService.On("GetByID", mock.Anything, int64(5)).Return(existing, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/5", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(5), response.ID)
	assert.Equal(t, "PAY-12345", response.PaymentID)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_getByID_NotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrBookingNotFound).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_getByID_InvalidID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	all := []domain.Booking{*storedBooking(1, domain.BookingStatusPending), *storedBooking(2, domain.BookingStatusConfirmed)}
	mockService.On("List", mock.Anything).Return(all, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2)
}

func TestBookingHandler_listByCustomer(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mine := []domain.Booking{*storedBooking(1, domain.BookingStatusPending)}
	mockService.On("ListByCustomer", mock.Anything, int64(7)).Return(mine, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/customer/7", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_listByFlight(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	onFlight := []domain.Booking{*storedBooking(1, domain.BookingStatusPending)}
	mockService.On("ListByFlight", mock.Anything, int64(100)).Return(onFlight, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/flight/100", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_updateStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	updated := storedBooking(5, domain.BookingStatusCompleted)
	mockService.On("UpdateStatus", mock.Anything, int64(5), domain.BookingStatusCompleted).Return(updated, nil).Once()

	body := []byte(`{"status":"COMPLETED"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/bookings/5/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusCompleted), response.Status)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_updateStatus_UnknownValue(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	body := []byte(`{"status":"ON_HOLD"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/bookings/5/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_confirm(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	confirmed := storedBooking(5, domain.BookingStatusConfirmed)
	confirmed.PaymentID = "PAY-12345"
	mockService.On("Confirm", mock.Anything, int64(5), "PAY-12345").Return(confirmed, nil).Once()

	body := []byte(`{"paymentId":"PAY-12345"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/5/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusConfirmed), response.Status)
	assert.Equal(t, "PAY-12345", response.PaymentID)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	cancelled := storedBooking(5, domain.BookingStatusCancelled)
	mockService.On("Cancel", mock.Anything, int64(5)).Return(cancelled, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings/5/cancel", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_AlreadyCancelled(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Cancel", mock.Anything, int64(5)).Return(nil, domain.ErrBookingAlreadyCancelled).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings/5/cancel", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_delete(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/bookings/5", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
	mockService.AssertExpectations(t)
}

func TestBookingHandler_delete_NotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("Delete", mock.Anything, int64(99)).Return(domain.ErrBookingNotFound).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/bookings/99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Every stored attribute is echoed into the response even when unset: empty
// strings stay as empty strings and a missing departure date is null.
func TestBookingHandler_responseIncludesAllFields(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	existing := storedBooking(5, domain.BookingStatusPending)
	existing.SeatNumbers = ""
	mockService.On("GetByID", mock.Anything, int64(5)).Return(existing, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings/5", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, field := range []string{
		"id", "customerId", "flightId", "numberOfPassengers", "status", "totalPrice",
		"bookingDate", "departureDate", "seatNumbers", "paymentId", "notes",
		"createdAt", "updatedAt",
	} {
		assert.Contains(t, raw, field)
	}
	assert.Nil(t, raw["departureDate"])
	assert.Equal(t, "", raw["seatNumbers"])
	assert.Equal(t, "", raw["paymentId"])
	assert.Equal(t, "", raw["notes"])
}
