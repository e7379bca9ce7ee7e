package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := s.createUser(req.Email, req.Password, req.Name, models.RoleMember)
	if err == ErrEmailTaken {
		detail(c, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		detail(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	s.respondWithToken(c, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, hash, ok := s.store.UserByEmail(req.Email)
	if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		detail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.respondWithToken(c, user)
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) respondWithToken(c *gin.Context, user models.User) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		detail(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}
