//go:build e2e

package property_test

import (
	"fmt"
	"net/http"
	"testing"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/e2e"
	reqdto "rental-booking/internal/handler/dto/request"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/testutil/authtest"
	"rental-booking/internal/testutil/httptest"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const propertiesURL = "/api/properties"

type PropertySuite struct {
	e2e.SharedSuite
}

func TestPropertySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PropertySuite))
}

func (s *PropertySuite) TestCreateAndGet() {
	s.Run("rent listing round trip in major units", func() {
		t := s.T()
		ownerID, token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		req := reqdto.CreatePropertyRequest{Title: "Cabin", ListingType: "rent", Price: 89.99, PricingUnit: "Per Week"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, propertiesURL, req, token)
		var created resdto.PropertyResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.Equal(t, ownerID, created.OwnerID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, propertiesURL+"/"+created.ID.String(), nil, "")
		var got resdto.PropertyResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		require.InDelta(t, 89.99, got.Price, 0.001)
		require.Equal(t, "Per Week", got.PricingUnit)
	})

	s.Run("rent listing without a pricing unit is rejected", func() {
		t := s.T()
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		req := reqdto.CreatePropertyRequest{Title: "Cabin", ListingType: "rent", Price: 50}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, propertiesURL, req, token)
		httptest.AssertErrorCode(t, w, http.StatusBadRequest, httperr.CodeValidationFailed)
	})
}

func (s *PropertySuite) TestListPagination() {
	s.Run("cursor walks every listing once", func() {
		t := s.T()
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		for i := range 5 {
			req := reqdto.CreatePropertyRequest{Title: fmt.Sprintf("Home %d", i), ListingType: "rent", Price: 10, PricingUnit: "Per Day"}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, propertiesURL, req, token)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}

		seen := map[string]bool{}
		url := propertiesURL + "?limit=2"
		for pages := 0; ; pages++ {
			require.Less(t, pages, 5, "pagination did not terminate")

			w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, "")
			var page resdto.PropertyListResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
			for _, p := range page.Properties {
				require.False(t, seen[p.ID.String()], "duplicate %s", p.ID)
				seen[p.ID.String()] = true
			}
			if page.NextCursor == "" {
				break
			}
			url = propertiesURL + "?limit=2&after=" + page.NextCursor
		}
		require.Len(t, seen, 5)
	})
}
