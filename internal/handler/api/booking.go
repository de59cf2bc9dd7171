package api

import (
	"net/http"

	reqdto "rental-booking/internal/handler/dto/request"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds    commands.BookingCommands
	queries queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, queries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		cmds:    cmds,
		queries: queries,
	}
}

// @Summary Book a property
// @Description Book a rental property for a half-open date range. Client supplied amounts are ignored; the server prices the stay.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param propertyId path string true "Property ID"
// @Param Idempotency-Key header string false "Idempotency key (uuid) for safe retries"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingEnvelope
// @Success 200 {object} resdto.BookingEnvelope "Replayed response for a completed idempotency key"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /booking/book/{propertyId} [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	propertyID, ok := pathUUID(c, "propertyId")
	if !ok {
		return
	}
	key, ok := idempotencyKey(c)
	if !ok {
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), propertyID, userID, req, key)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromBookingView(result.Booking)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map booking"))
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		c.Header(headerIdempotentReplayed, "true")
		status = http.StatusOK
	}
	c.JSON(status, resdto.BookingEnvelope{Booking: body})
}

// @Summary Confirm booking payment
// @Description Record a payment intent and advance the payment status. Status only moves forward.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmBookingRequest true "Payment confirmation"
// @Success 200 {object} resdto.BookingEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /booking/confirm/{id} [put]
func (h *BookingHandler) Confirm(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	view, err := h.cmds.ConfirmPayment(c.Request.Context(), bookingID, userID, req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map booking"))
		return
	}
	c.JSON(http.StatusOK, resdto.BookingEnvelope{Booking: body})
}

// @Summary Reschedule a booking
// @Description Move a booking to new dates. The booked price is kept.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Param request body reqdto.UpdateBookingRequest true "New dates"
// @Success 200 {object} resdto.BookingUpdatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /booking/update/{bookingId} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(c, "bookingId")
	if !ok {
		return
	}

	var req reqdto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	view, err := h.cmds.Reschedule(c.Request.Context(), bookingID, userID, req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map booking"))
		return
	}
	c.JSON(http.StatusOK, resdto.BookingUpdatedResponse{
		Message: "Booking updated successfully",
		Booking: body,
	})
}

// @Summary Cancel a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} resdto.MessageResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /booking/cancel/{bookingId} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(c, "bookingId")
	if !ok {
		return
	}

	if err := h.cmds.Cancel(c.Request.Context(), bookingID, userID); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.MessageResponse{Message: "Booking cancelled successfully"})
}

// @Summary Booked date ranges of a property
// @Description Public. Ranges are half-open: endDate is the checkout day and is free for a new check-in.
// @Tags bookings
// @Produce json
// @Param propertyId path string true "Property ID"
// @Success 200 {object} resdto.BookedDatesResponse
// @Failure 400 {object} httperr.Response
// @Router /booking/booked-dates/{propertyId} [get]
func (h *BookingHandler) BookedDates(c *gin.Context) {
	propertyID, ok := pathUUID(c, "propertyId")
	if !ok {
		return
	}

	ranges, err := h.queries.BookedDates(c.Request.Context(), propertyID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromBookedRanges(ranges)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map booked dates"))
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BookingListResponse
// @Failure 401 {object} httperr.Response
// @Router /booking/my-bookings [get]
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := h.queries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromBookingViews(views)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map bookings"))
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} resdto.BookingEnvelope
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /booking/{bookingId} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(c, "bookingId")
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), bookingID, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map booking"))
		return
	}
	c.JSON(http.StatusOK, resdto.BookingEnvelope{Booking: body})
}

// @Summary Price a stay
// @Description Public. Returns the total, deposit and remaining balance the server would charge.
// @Tags bookings
// @Produce json
// @Param propertyId path string true "Property ID"
// @Param startDate query string true "Check-in (YYYY-MM-DD)"
// @Param endDate query string true "Checkout (YYYY-MM-DD)"
// @Param paymentType query string false "pay_full, pay_deposit or pay_later"
// @Success 200 {object} resdto.QuoteEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /booking/quote/{propertyId} [get]
func (h *BookingHandler) Quote(c *gin.Context) {
	propertyID, ok := pathUUID(c, "propertyId")
	if !ok {
		return
	}

	var query reqdto.QuoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	stay, paymentType, err := query.ToDomain()
	if err != nil {
		httperr.Respond(c, errs.Mark(err, errs.ErrValidation))
		return
	}

	view, err := h.queries.Quote(c.Request.Context(), propertyID, stay, paymentType)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromQuoteView(view)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map quote"))
		return
	}
	c.JSON(http.StatusOK, resdto.QuoteEnvelope{Quote: body})
}
