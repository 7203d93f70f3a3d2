package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-listing/internal/middleware"
	"github.com/iliyamo/event-listing/internal/model"
	"github.com/iliyamo/event-listing/internal/service"
	"github.com/iliyamo/event-listing/internal/upload"
)

// multipartOverhead is the allowance for form fields and part headers on top
// of the flyer itself.
const multipartOverhead = 1 << 20

// EventHandler serves the /events routes.
type EventHandler struct {
	Events         *service.EventService
	UploadMaxBytes int64
	Logger         zerolog.Logger
}

func NewEventHandler(events *service.EventService, uploadMaxBytes int64, logger zerolog.Logger) *EventHandler {
	return &EventHandler{Events: events, UploadMaxBytes: uploadMaxBytes, Logger: logger}
}

// queryInt64 reads an optional non-negative integer query parameter.
func queryInt64(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

// List handles GET /events?title=&description=&limit=&skip=.
func (h *EventHandler) List(c echo.Context) error {
	limit, err := queryInt64(c, "limit")
	if err != nil {
		return badRequest(c, err.Error())
	}
	skip, err := queryInt64(c, "skip")
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.Events.List(c.Request().Context(), service.ListQuery{
		Title:       c.QueryParam("title"),
		Description: c.QueryParam("description"),
		Limit:       limit,
		Skip:        skip,
	})
	if err != nil {
		return fail(c, h.Logger, err, http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// Get handles GET /events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	ev, err := h.Events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, h.Logger, err, http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": ev})
}

// eventForm is the multipart body shared by create and replace.  close
// releases the opened flyer.
type eventForm struct {
	input service.EventInput
	flyer upload.File
	close func()
}

var errFlyerMissing = errors.New("flyer is required")

func (h *EventHandler) readForm(c echo.Context) (eventForm, error) {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.UploadMaxBytes+multipartOverhead)

	fh, err := c.FormFile("flyer")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return eventForm{}, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return eventForm{}, errFlyerMissing
	}
	if fh.Size == 0 {
		return eventForm{}, errFlyerMissing
	}
	if fh.Size > h.UploadMaxBytes {
		return eventForm{}, fmt.Errorf("flyer exceeds %d bytes", h.UploadMaxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return eventForm{}, errFlyerMissing
	}
	return eventForm{
		input: service.EventInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
		},
		flyer: upload.File{Name: fh.Filename, Size: fh.Size, Body: f},
		close: func() { _ = f.Close() },
	}, nil
}

// Create handles POST /events.  The caller becomes the owner.
func (h *EventHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	form, err := h.readForm(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer form.close()

	id, err := h.Events.Register(c.Request().Context(), uid, form.input, form.flyer)
	if err != nil {
		return fail(c, h.Logger, err, http.StatusNotFound)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Event added successfully", "id": id.Hex()})
}

// Replace handles PUT /events/:id.  Only the owner may replace an event.
func (h *EventHandler) Replace(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	// A malformed id is reported before the form is parsed.
	if _, err := model.ParseID(c.Param("id")); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "Invalid mongo id received!"})
	}
	form, err := h.readForm(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	defer form.close()

	if err := h.Events.Replace(c.Request().Context(), c.Param("id"), uid, form.input, form.flyer); err != nil {
		return fail(c, h.Logger, err, http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Event replaced successfully"})
}

// Delete handles DELETE /events/:id.  A missing event answers 422.
func (h *EventHandler) Delete(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Events.Delete(c.Request().Context(), c.Param("id"), uid); err != nil {
		return fail(c, h.Logger, err, http.StatusUnprocessableEntity)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Event deleted successfully!"})
}
