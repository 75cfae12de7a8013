package slot

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/handler"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/service/slot"
)

type Handler struct {
	service *slot.Service
}

func NewHandler(service *slot.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	slots := r.Group("/slots")
	{
		slots.GET("", h.ListSlots)
		slots.GET("/doctor/:doctorId", h.ListByDoctor)
		slots.GET("/doctor/:doctorId/date/:date", h.ListAvailable)
		slots.GET("/specialty/:specialtyId/date/:date", h.ListAvailableBySpecialty)
		slots.GET("/:id", h.GetSlot)
		slots.POST("", h.CreateSlot)
		slots.POST("/recurring", h.CreateRecurringSlots)
		slots.PUT("/:id", h.UpdateSlot)
		slots.PUT("/:id/unavailable", h.MarkUnavailable)
		slots.DELETE("/:id", h.DeleteSlot)
	}
}

func (h *Handler) CreateSlot(c *gin.Context) {
	var req model.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, _ := time.Parse(model.DateOnly, req.Date)
	created, err := h.service.CreateSlot(c.Request.Context(), req.DoctorID, date, req.StartTime, req.EndTime)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) CreateRecurringSlots(c *gin.Context) {
	var req model.CreateRecurringSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	startDate, _ := time.Parse(model.DateOnly, req.StartDate)
	endDate, _ := time.Parse(model.DateOnly, req.EndDate)

	weekdays := make([]time.Weekday, 0, len(req.Weekdays))
	for _, d := range req.Weekdays {
		weekdays = append(weekdays, time.Weekday(d))
	}

	created, err := h.service.CreateRecurringSlots(c.Request.Context(),
		req.DoctorID, startDate, endDate, req.StartTime, req.EndTime, weekdays)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetSlot(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetSlot(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(s))
}

func (h *Handler) ListSlots(c *gin.Context) {
	slots, err := h.service.ListSlots(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}

func (h *Handler) ListByDoctor(c *gin.Context) {
	doctorID, ok := handler.ParseID(c, "doctorId")
	if !ok {
		return
	}

	slots, err := h.service.ListSlotsByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}

func (h *Handler) ListAvailable(c *gin.Context) {
	doctorID, ok := handler.ParseID(c, "doctorId")
	if !ok {
		return
	}
	date, ok := handler.ParseDate(c, "date")
	if !ok {
		return
	}

	slots, err := h.service.ListAvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}

func (h *Handler) ListAvailableBySpecialty(c *gin.Context) {
	specialtyID, ok := handler.ParseID(c, "specialtyId")
	if !ok {
		return
	}
	date, ok := handler.ParseDate(c, "date")
	if !ok {
		return
	}

	slots, err := h.service.ListAvailableSlotsBySpecialty(c.Request.Context(), specialtyID, date)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}

func (h *Handler) UpdateSlot(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, _ := time.Parse(model.DateOnly, req.Date)
	updated, err := h.service.UpdateSlot(c.Request.Context(), id, date, req.StartTime, req.EndTime, *req.Available)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) MarkUnavailable(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.MarkUnavailable(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("slot not found"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"available": false}))
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.DeleteSlot(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("slot not found"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
