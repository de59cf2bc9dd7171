//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"rental-booking/internal/handler/api"
	reqdto "rental-booking/internal/handler/dto/request"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/handler/validation"
	commandsmock "rental-booking/internal/mock/commands"
	queriesmock "rental-booking/internal/mock/queries"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/testutil"
	"rental-booking/internal/testutil/httptest"
	"rental-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PropertyHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPropertyCommands
	mockQueries  *queriesmock.MockPropertyQueries
	userID       uuid.UUID
}

func (s *PropertyHandlerTestSuite) SetupSuite() {
	s.Require().NoError(validation.Register())
}

func (s *PropertyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPropertyCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPropertyQueries(s.mockCtrl)
	s.userID = uuid.New()

	h := api.NewPropertyHandler(s.mockCommands, s.mockQueries)
	s.router.POST("/properties", fakeAuth(s.userID), h.Create)
	s.router.GET("/properties", h.List)
	s.router.GET("/properties/:id", h.Get)
}

func (s *PropertyHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPropertyHandlerSuite(t *testing.T) {
	suite.Run(t, new(PropertyHandlerTestSuite))
}

func propertyView(ownerID uuid.UUID) *queries.PropertyView {
	now := time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)
	return &queries.PropertyView{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "Lake House",
		ListingType: "rent",
		PriceCents:  12050,
		PricingUnit: "Per Day",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *PropertyHandlerTestSuite) TestCreate() {
	req := reqdto.CreatePropertyRequest{Title: "Lake House", ListingType: "rent", Price: 120.5, PricingUnit: "Per Day"}

	s.Run("success: 201 in major units", func() {
		view := propertyView(s.userID)
		s.mockCommands.EXPECT().Create(gomock.Any(), s.userID, req).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/properties", req, "token")
		var body resdto.PropertyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID, body.ID)
		s.InDelta(120.5, body.Price, 0.001)
		s.Nil(body.TotalPrice)
	})

	s.Run("error: 400 on unknown listing type", func() {
		bad := testutil.DtoMap(s.T(), req, testutil.Field("listingType", "Lease"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/properties", bad, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})

	s.Run("error: 400 on a price beyond the listing cap", func() {
		for _, field := range []string{"price", "totalPrice"} {
			bad := testutil.DtoMap(s.T(), req, testutil.Field(field, 9e13))
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/properties", bad, "token")
			httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
		}
	})

	s.Run("error: 400 when the domain rejects the listing", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.userID, req).
			Return(nil, errs.Mark(errs.New("sale listing needs a total price"), errs.ErrValidation))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/properties", req, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})
}

func (s *PropertyHandlerTestSuite) TestGet() {
	s.Run("success", func() {
		view := propertyView(uuid.New())
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/properties/"+view.ID.String(), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.PropertyResponse{})
	})

	s.Run("error: 404", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).Return(nil, errs.ErrPropertyNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/properties/"+id.String(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})
}

func (s *PropertyHandlerTestSuite) TestList() {
	s.Run("success: forwards limit and cursor", func() {
		page := &queries.PropertyPage{Items: []*queries.PropertyView{propertyView(uuid.New())}, NextCursor: "next"}
		s.mockQueries.EXPECT().List(gomock.Any(), 5, "abc").Return(page, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/properties?limit=5&after=abc", nil, "")
		var body resdto.PropertyListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Properties, 1)
		s.Equal("next", body.NextCursor)
	})

	s.Run("error: 400 when limit is out of range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/properties?limit=500", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})

	s.Run("error: 400 on a garbage cursor", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), 0, "%%%").
			Return(nil, errs.Mark(queries.ErrInvalidCursor, errs.ErrValidation))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/properties?after=%25%25%25", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidationFailed)
	})
}
