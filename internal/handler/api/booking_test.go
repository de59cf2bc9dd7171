//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/user"
	"rental-booking/internal/handler/api"
	reqdto "rental-booking/internal/handler/dto/request"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/handler/validation"
	commandsmock "rental-booking/internal/mock/commands"
	queriesmock "rental-booking/internal/mock/queries"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/testutil"
	"rental-booking/internal/testutil/builder"
	"rental-booking/internal/testutil/httptest"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeAuth stands in for RequireAuth: any Authorization header maps to userID.
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized", "code": httperr.CodeUnauthorized}})
			return
		}
		c.Set("user_id", userID)
		c.Set("user_role", user.RoleUser)
		c.Next()
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	userID       uuid.UUID
	b            *builder.BookingBuilder
}

func (s *BookingHandlerTestSuite) SetupSuite() {
	s.Require().NoError(validation.Register())
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.userID = uuid.New()
	s.b = builder.NewBookingBuilder().WithUser(s.userID)

	h := api.NewBookingHandler(s.mockCommands, s.mockQueries)
	auth := fakeAuth(s.userID)

	s.router.POST("/booking/book/:propertyId", auth, h.Create)
	s.router.PUT("/booking/confirm/:id", auth, h.Confirm)
	s.router.PUT("/booking/update/:bookingId", auth, h.Update)
	s.router.DELETE("/booking/cancel/:bookingId", auth, h.Cancel)
	s.router.GET("/booking/booked-dates/:propertyId", h.BookedDates)
	s.router.GET("/booking/quote/:propertyId", h.Quote)
	s.router.GET("/booking/my-bookings", auth, h.MyBookings)
	s.router.GET("/booking/:bookingId", auth, h.Get)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// Create
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/booking/book/" + s.b.PropertyID.String()
	reqBody := s.b.BuildCreateRequestDTO()
	view := s.b.BuildView()

	s.Run("success: 201 with the priced booking", func() {
		s.mockCommands.EXPECT().
			Create(gomock.Any(), s.b.PropertyID, s.userID, reqBody, (*uuid.UUID)(nil)).
			Return(&commands.CreateBookingResult{Booking: view}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var body resdto.BookingEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID, body.Booking.ID)
		s.Equal(s.b.PropertyTitle, body.Booking.Property.Title)
		s.InDelta(500.0, body.Booking.TotalPrice, 0.001)
		s.Empty(rec.Header().Get("Idempotent-Replayed"))
	})

	s.Run("success: replay answers 200 and flags the header", func() {
		key := uuid.New()
		s.mockCommands.EXPECT().
			Create(gomock.Any(), s.b.PropertyID, s.userID, reqBody, &key).
			Return(&commands.CreateBookingResult{Booking: view, IsReplayed: true}, nil)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "token",
			map[string]string{"Idempotency-Key": key.String()})

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.BookingEnvelope{})
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Idempotent-Replayed": "true"})
	})

	s.Run("client amounts are accepted and passed through untouched", func() {
		withAmounts := testutil.DtoMap(s.T(), reqBody,
			testutil.Field("paidAmount", 1.0),
			testutil.Field("depositAmount", 0.5),
			testutil.Field("remainingBalance", 0.5),
		)
		s.mockCommands.EXPECT().
			Create(gomock.Any(), s.b.PropertyID, s.userID, gomock.Any(), gomock.Any()).
			Return(&commands.CreateBookingResult{Booking: view}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, withAmounts, "token")
		s.Equal(http.StatusCreated, rec.Code)
	})

	invalid := []testCaseBooking{
		{name: "missing startDate", mutate: testutil.Field("startDate", nil), expectCode: http.StatusBadRequest},
		{name: "missing endDate", mutate: testutil.Field("endDate", nil), expectCode: http.StatusBadRequest},
		{name: "missing paymentType", mutate: testutil.Field("paymentType", nil), expectCode: http.StatusBadRequest},
		{name: "non calendar date", mutate: testutil.Field("startDate", "03/01/2030"), expectCode: http.StatusBadRequest},
		{name: "unknown payment type", mutate: testutil.Field("paymentType", "installments"), expectCode: http.StatusBadRequest},
		{name: "negative paid amount", mutate: testutil.Field("paidAmount", -1), expectCode: http.StatusBadRequest},
	}
	for _, tc := range invalid {
		s.Run("error: 400 on "+tc.name, func() {
			requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "token")
			httptest.AssertErrorCode(s.T(), rec, tc.expectCode, httperr.CodeValidationFailed)
		})
	}

	s.Run("error: 400 on malformed property id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/booking/book/not-a-uuid", reqBody, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})

	s.Run("error: 400 on malformed idempotency key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "token",
			map[string]string{"Idempotency-Key": "abc"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key")
	})

	s.Run("error: 401 without credentials", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"overlapping dates", errs.ErrDateConflict, http.StatusBadRequest, httperr.CodeDatesUnavailable},
		{"availability unknown", errs.ErrAvailabilityUnknown, http.StatusServiceUnavailable, httperr.CodeServiceUnavailable},
		{"property missing", errs.ErrPropertyNotFound, http.StatusNotFound, httperr.CodeNotFound},
		{"domain validation", errs.Mark(errs.New("sale listing"), errs.ErrValidation), http.StatusBadRequest, httperr.CodeValidationFailed},
		{"idempotency mismatch", errs.ErrIdempotencyMismatch, http.StatusConflict, httperr.CodeConflict},
		{"storage down", errs.ErrStorageUnavailable, http.StatusInternalServerError, httperr.CodeInternal},
	}
	for _, tc := range errorCases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().
				Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
			httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
		})
	}

	s.Run("error: conflict message is stable", func() {
		s.mockCommands.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrDateConflict)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "dates unavailable")
	})
}

// ================================================================================
// Confirm / Update / Cancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestConfirm() {
	url := "/booking/confirm/" + s.b.ID.String()
	req := reqdto.ConfirmBookingRequest{PaymentIntentID: "pi_123", Status: "paid"}

	s.Run("success", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), s.b.ID, s.userID, req).Return(s.b.BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, req, "token")
		var body resdto.BookingEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(s.b.ID, body.Booking.ID)
	})

	s.Run("error: 400 on unknown status", func() {
		bad := testutil.DtoMap(s.T(), req, testutil.Field("status", "refunded"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, bad, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})

	s.Run("error: 409 on backwards transition", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), s.b.ID, s.userID, req).Return(nil, booking.ErrInvalidTransition)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, req, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, httperr.CodeConflict)
	})

	s.Run("error: 403 for a foreign booking", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), s.b.ID, s.userID, req).Return(nil, errs.ErrNotBookingOwner)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, req, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, httperr.MsgNotOwner)
	})
}

func (s *BookingHandlerTestSuite) TestUpdate() {
	url := "/booking/update/" + s.b.ID.String()
	req := s.b.BuildUpdateRequestDTO()

	s.Run("success: message and booking", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), s.b.ID, s.userID, req).Return(s.b.BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, req, "token")
		var body resdto.BookingUpdatedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("Booking updated successfully", body.Message)
		s.Equal(s.b.ID, body.Booking.ID)
	})

	s.Run("error: 400 when the new dates are taken", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), s.b.ID, s.userID, req).Return(nil, errs.ErrDateConflict)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, req, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeDatesUnavailable)
	})

	s.Run("error: 404 when the booking is gone", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), s.b.ID, s.userID, req).Return(nil, errs.ErrBookingNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, req, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	url := "/booking/cancel/" + s.b.ID.String()

	s.Run("success", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.b.ID, s.userID).Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		var body resdto.MessageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("Booking cancelled successfully", body.Message)
	})

	s.Run("error: 403 for a foreign booking", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.b.ID, s.userID).Return(errs.ErrNotBookingOwner)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, httperr.CodeForbidden)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/booking/cancel/123", nil, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})
}

// ================================================================================
// Reads
// ================================================================================

func (s *BookingHandlerTestSuite) TestBookedDates() {
	url := "/booking/booked-dates/" + s.b.PropertyID.String()

	s.Run("public and half-open", func() {
		s.mockQueries.EXPECT().BookedDates(gomock.Any(), s.b.PropertyID).Return([]queries.BookedRange{
			{StartDate: builder.BaseDate, EndDate: builder.BaseDate.AddDate(0, 0, 3)},
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		var body resdto.BookedDatesResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal([]resdto.BookedRangeResponse{{StartDate: "2030-01-10", EndDate: "2030-01-13"}}, body.BookedDates)
	})

	s.Run("empty list renders as []", func() {
		s.mockQueries.EXPECT().BookedDates(gomock.Any(), s.b.PropertyID).Return([]queries.BookedRange{}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"bookedDates":[]}`, rec.Body.String())
	})
}

func (s *BookingHandlerTestSuite) TestMyBookings() {
	s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID).Return([]*queries.BookingView{s.b.BuildView()}, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/booking/my-bookings", nil, "token")
	var body resdto.BookingListResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Require().Len(body.Bookings, 1)
	s.Equal(s.b.PropertyID, body.Bookings[0].Property.ID)
}

func (s *BookingHandlerTestSuite) TestGet() {
	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.b.ID, s.userID).Return(s.b.BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/booking/"+s.b.ID.String(), nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.BookingEnvelope{})
	})

	s.Run("error: 404", func() {
		missing := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), missing, s.userID).Return(nil, errs.ErrBookingNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/booking/"+missing.String(), nil, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})
}

func (s *BookingHandlerTestSuite) TestQuote() {
	base := "/booking/quote/" + s.b.PropertyID.String()

	s.Run("success", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), s.b.PropertyID, gomock.Any(), gomock.Any()).
			Return(&queries.QuoteView{
				PropertyID:            s.b.PropertyID,
				StartDate:             builder.BaseDate,
				EndDate:               builder.BaseDate.AddDate(0, 0, 2),
				Nights:                2,
				PaymentType:           "pay_deposit",
				TotalPriceCents:       20000,
				DepositAmountCents:    10000,
				RemainingBalanceCents: 10000,
				PaidAmountCents:       10000,
			}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			base+"?startDate=2030-01-10&endDate=2030-01-12&paymentType=pay_deposit", nil, "")
		var body resdto.QuoteEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.InDelta(200.0, body.Quote.TotalPrice, 0.001)
		s.InDelta(100.0, body.Quote.DepositAmount, 0.001)
	})

	s.Run("error: 400 when endDate is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?startDate=2030-01-10", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})

	s.Run("error: 400 on an inverted range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			base+"?startDate=2030-01-12&endDate=2030-01-10", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})
}
