package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

// Fields are pointers so an absent field is left alone while a provided one
// is written even when empty, matching the production backend's update rule.
type updateProfileRequest struct {
	Name     *string `json:"name"`
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
	Position *string `json:"position"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, ok := s.store.UserByID(c.Param("id"))
	if !ok {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	updated, ok := s.store.UpdateUser(currentUser(c).ID, func(u *models.User) {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Avatar != nil {
			u.Avatar = *req.Avatar
		}
		if req.Bio != nil {
			u.Bio = *req.Bio
		}
		if req.Position != nil {
			u.Position = *req.Position
		}
		if req.Phone != nil {
			u.Phone = *req.Phone
		}
		if req.Location != nil {
			u.Location = *req.Location
		}
	})
	if !ok {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}
