package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

type createAnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

func (s *Server) handleListAnnouncements(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Announcements())
}

func (s *Server) handleCreateAnnouncement(c *gin.Context) {
	var req createAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Category == "" {
		req.Category = models.AnnouncementCategoryGeneral
	}

	user := currentUser(c)
	announcement := models.Announcement{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Content:       req.Content,
		Category:      req.Category,
		CreatedBy:     user.ID,
		CreatedByName: user.Name,
		CreatedAt:     time.Now().UTC(),
	}
	s.store.CreateAnnouncement(announcement)
	c.JSON(http.StatusOK, announcement)
}

func (s *Server) handleDeleteAnnouncement(c *gin.Context) {
	s.store.DeleteAnnouncement(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted"})
}
