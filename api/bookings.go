package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nvoronina/flightbooking/internal/domain"
	"github.com/nvoronina/flightbooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

// Required fields are pointers so a missing field is distinguishable from a
// zero value during validation.
type createBookingRequest struct {
	CustomerID         *int64     `json:"customerId"`
	FlightID           *int64     `json:"flightId"`
	NumberOfPassengers *int       `json:"numberOfPassengers"`
	TotalPrice         *float64   `json:"totalPrice"`
	DepartureDate      *time.Time `json:"departureDate"`
	SeatNumbers        string     `json:"seatNumbers"`
	Notes              string     `json:"notes"`
}

func (r *createBookingRequest) validate() error {
	var violations []string
	if r.CustomerID == nil {
		violations = append(violations, "customerId is required")
	}
	if r.FlightID == nil {
		violations = append(violations, "flightId is required")
	}
	switch {
	case r.NumberOfPassengers == nil:
		violations = append(violations, "numberOfPassengers is required")
	case *r.NumberOfPassengers < 1:
		violations = append(violations, "numberOfPassengers must be at least 1")
	}
	switch {
	case r.TotalPrice == nil:
		violations = append(violations, "totalPrice is required")
	case *r.TotalPrice < 0:
		violations = append(violations, "totalPrice must not be negative")
	}
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type confirmBookingRequest struct {
	PaymentID string `json:"paymentId"`
}

// Every stored attribute appears in the response, so optional strings stay
// plain (empty when unset) and the optional date marshals to null.
type bookingResponse struct {
	ID                 int64   `json:"id"`
	CustomerID         int64   `json:"customerId"`
	FlightID           int64   `json:"flightId"`
	NumberOfPassengers int     `json:"numberOfPassengers"`
	Status             string  `json:"status"`
	TotalPrice         float64 `json:"totalPrice"`
	BookingDate        string  `json:"bookingDate"`
	DepartureDate      *string `json:"departureDate"`
	SeatNumbers        string  `json:"seatNumbers"`
	PaymentID          string  `json:"paymentId"`
	Notes              string  `json:"notes"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.getByID)
	router.GET("/customer/:customerId", h.listByCustomer)
	router.GET("/flight/:flightId", h.listByFlight)
	router.PATCH("/:id/status", h.updateStatus)
	router.POST("/:id/confirm", h.confirm)
	router.POST("/:id/cancel", h.cancel)
	router.DELETE("/:id", h.delete)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		writeError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), booking.CreateBookingInput{
		CustomerID:         *req.CustomerID,
		FlightID:           *req.FlightID,
		NumberOfPassengers: *req.NumberOfPassengers,
		TotalPrice:         *req.TotalPrice,
		DepartureDate:      req.DepartureDate,
		SeatNumbers:        req.SeatNumbers,
		Notes:              req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) getByID(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) listByCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	bookings, err := h.service.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) listByFlight(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("flightId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	bookings, err := h.service.ListByFlight(c.Request.Context(), flightID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmed, err := h.service.Confirm(c.Request.Context(), id, req.PaymentID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": validationErr.Violations})
	case errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBookingAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Every stored attribute is echoed verbatim into the response.
func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		FlightID:           b.FlightID,
		NumberOfPassengers: b.NumberOfPassengers,
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice,
		BookingDate:        b.BookingDate.Format(time.RFC3339),
		SeatNumbers:        b.SeatNumbers,
		PaymentID:          b.PaymentID,
		Notes:              b.Notes,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
	if b.DepartureDate != nil {
		departure := b.DepartureDate.Format(time.RFC3339)
		resp.DepartureDate = &departure
	}
	return resp
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	responses := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, toBookingResponse(&bookings[i]))
	}
	return responses
}
