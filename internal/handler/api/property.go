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

type PropertyHandler struct {
	cmds    commands.PropertyCommands
	queries queries.PropertyQueries
}

func NewPropertyHandler(cmds commands.PropertyCommands, queries queries.PropertyQueries) *PropertyHandler {
	return &PropertyHandler{
		cmds:    cmds,
		queries: queries,
	}
}

// @Summary List a property
// @Description Prices are in major units. Rent listings need a pricing unit; sale listings need a total price.
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreatePropertyRequest true "Property"
// @Success 201 {object} resdto.PropertyResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req reqdto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), userID, req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromPropertyView(view)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map property"))
		return
	}
	c.JSON(http.StatusCreated, body)
}

// @Summary Get a property
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} resdto.PropertyResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromPropertyView(view)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map property"))
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary List properties
// @Description Newest first, keyset paginated. Pass nextCursor back as after.
// @Tags properties
// @Produce json
// @Param limit query int false "Page size (1-200)"
// @Param after query string false "Cursor from the previous page"
// @Success 200 {object} resdto.PropertyListResponse
// @Failure 400 {object} httperr.Response
// @Router /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	var query reqdto.ListPropertiesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	page, err := h.queries.List(c.Request.Context(), query.Limit, query.After)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body, err := resdto.FromPropertyPage(page)
	if err != nil {
		httperr.Respond(c, errs.Wrap(err, "map properties"))
		return
	}
	c.JSON(http.StatusOK, body)
}
