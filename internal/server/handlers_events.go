package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

type createEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Category    string `json:"category"`
}

type attendRequest struct {
	Status models.AttendanceStatus `json:"status"`
}

func (s *Server) handleListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Events())
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		detail(c, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		detail(c, http.StatusBadRequest, "invalid end_date")
		return
	}
	if req.Category == "" {
		req.Category = models.EventCategoryGeneral
	}

	user := currentUser(c)
	event := models.Event{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		StartDate:     start,
		EndDate:       end,
		Category:      req.Category,
		CreatedBy:     user.ID,
		CreatedByName: user.Name,
		CreatedAt:     time.Now().UTC(),
	}
	s.store.CreateEvent(event)
	c.JSON(http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	s.store.DeleteEvent(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func (s *Server) handleListAttendances(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Attendances(c.Param("id")))
}

func (s *Server) handleAttend(c *gin.Context) {
	var req attendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Status == "" {
		req.Status = models.StatusAttending
	}
	if !models.ValidAttendanceStatus(req.Status) {
		detail(c, http.StatusBadRequest, "Invalid status")
		return
	}

	user := currentUser(c)
	attendance := s.store.UpsertAttendance(models.Attendance{
		ID:        uuid.New().String(),
		EventID:   c.Param("id"),
		UserID:    user.ID,
		UserName:  user.Name,
		Status:    req.Status,
		CreatedAt: time.Now().UTC(),
	})
	c.JSON(http.StatusOK, attendance)
}
