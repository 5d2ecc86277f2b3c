package api

import (
	"net/http"

	"barber-booking/internal/domain/calendar"
	reqdto "barber-booking/internal/handler/dto/request"
	resdto "barber-booking/internal/handler/dto/response"
	"barber-booking/internal/handler/httperr"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/commands"
	"barber-booking/internal/usecase/queries"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Day view
// @Description Bookings of one date grouped by barber
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.DayViewResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) DayView(c *gin.Context) {
	var query reqdto.DayViewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithField(c, http.StatusBadRequest, err, "date", "Date is required")
		return
	}
	d, err := civil.ParseDate(query.Date)
	if err != nil {
		httperr.AbortWithField(c, http.StatusBadRequest, err, "date", "Invalid date, expected YYYY-MM-DD")
		return
	}

	view, err := h.q.DayView(c.Request.Context(), d)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load bookings", nil)
		return
	}
	res, err := resdto.FromDayView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary User bookings
// @Description Bookings of one user, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Chat user id"
// @Param page query int false "Page, starting at 1"
// @Success 200 {object} resdto.BookingPageResponse
// @Failure 400 {object} httperr.Response
// @Router /users/{userId}/bookings [get]
func (h *BookingHandler) UserBookings(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	var query reqdto.UserBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithField(c, http.StatusBadRequest, err, "page", "Page must be a positive number")
		return
	}

	page, err := h.q.UserBookings(c.Request.Context(), userID, query.Page)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load bookings", nil)
		return
	}
	res, err := resdto.FromBookingPage(page)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Cancel booking
// @Description Cancel a booking. Cancelling twice is not an error.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.CancelBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithField(c, http.StatusBadRequest, err, "id", "Invalid booking id")
		return
	}

	result, err := h.cmds.CancelBooking(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.CancelBookingResponse{ID: id, Result: string(result)})
}

// @Summary Calendar
// @Description Month grid for picking a date. Past days are not selectable.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} resdto.CalendarResponse
// @Failure 400 {object} httperr.Response
// @Router /calendar [get]
func (h *BookingHandler) Calendar(c *gin.Context) {
	var query reqdto.CalendarQuery
	_ = c.ShouldBindQuery(&query)

	var month calendar.YearMonth
	if query.Month != "" {
		m, err := calendar.ParseYearMonth(query.Month)
		if err != nil {
			httperr.AbortWithField(c, http.StatusBadRequest, err, "month", "Invalid month, expected YYYY-MM")
			return
		}
		month = m
	}

	grid := h.q.Calendar(c.Request.Context(), month)
	c.JSON(http.StatusOK, resdto.FromGrid(grid))
}
