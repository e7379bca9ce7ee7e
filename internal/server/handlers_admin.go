package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Counts())
}

func (s *Server) handleListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Users())
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == currentUser(c).ID {
		detail(c, http.StatusBadRequest, "Cannot delete yourself")
		return
	}
	if !s.store.DeleteUser(userID) {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (s *Server) handleUpdateRole(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if !models.ValidRole(role) {
		detail(c, http.StatusBadRequest, "Invalid role")
		return
	}
	if _, ok := s.store.UpdateUser(c.Param("id"), func(u *models.User) { u.Role = role }); !ok {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}
