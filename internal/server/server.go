// Package server is an in-memory implementation of the Comparsa REST API,
// wire-compatible with the production backend. It backs local development and
// the client test suites, so no database or network dependency is needed.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

const contextUser = "current_user"

// Config holds dev server settings.
type Config struct {
	JWTSecret          string
	TokenTTL           time.Duration
	CORSAllowedOrigins string
	AdminEmail         string // seeded admin account; empty disables seeding
	AdminPassword      string
	AdminName          string
}

// Server owns the store, token service and route handlers.
type Server struct {
	store  *Store
	tokens *tokenService
	cfg    Config
	logger *zap.Logger
}

// New creates a server and seeds the admin account when configured.
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}
	s := &Server{
		store:  NewStore(),
		tokens: newTokenService(cfg.JWTSecret, cfg.TokenTTL),
		cfg:    cfg,
		logger: logger,
	}
	if cfg.AdminEmail != "" {
		if _, _, ok := s.store.UserByEmail(cfg.AdminEmail); !ok {
			admin, err := s.createUser(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, models.RoleAdmin)
			if err != nil {
				return nil, err
			}
			logger.Info("admin user seeded", zap.String("email", admin.Email))
		}
	}
	return s, nil
}

// Store exposes the backing store, used by tests to inspect server state.
func (s *Server) Store() *Store {
	return s.store
}

// Router builds the gin engine with all routes under /api.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.cors())
	router.Use(s.requestLogger())

	api := router.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	authed := api.Group("")
	authed.Use(s.requireAuth())
	{
		authed.GET("/auth/me", s.handleMe)

		authed.GET("/users/:id", s.handleGetUser)
		authed.PUT("/users/profile", s.handleUpdateProfile)

		authed.GET("/posts", s.handleListPosts)
		authed.POST("/posts", s.handleCreatePost)
		authed.POST("/posts/:id/like", s.handleLikePost)
		authed.DELETE("/posts/:id", s.handleDeletePost)
		authed.GET("/posts/:id/comments", s.handleListComments)
		authed.POST("/posts/:id/comments", s.handleCreateComment)
		authed.DELETE("/comments/:id", s.handleDeleteComment)

		authed.GET("/announcements", s.handleListAnnouncements)
		authed.POST("/announcements", s.requireAdmin(), s.handleCreateAnnouncement)
		authed.DELETE("/announcements/:id", s.requireAdmin(), s.handleDeleteAnnouncement)

		authed.GET("/events", s.handleListEvents)
		authed.POST("/events", s.handleCreateEvent)
		authed.DELETE("/events/:id", s.requireAdmin(), s.handleDeleteEvent)
		authed.GET("/events/:id/attendances", s.handleListAttendances)
		authed.POST("/events/:id/attend", s.handleAttend)

		authed.GET("/admin/stats", s.requireAdmin(), s.handleStats)
		authed.GET("/admin/users", s.requireAdmin(), s.handleListUsers)
		authed.DELETE("/admin/users/:id", s.requireAdmin(), s.handleDeleteUser)
		authed.PUT("/admin/users/:id/role", s.requireAdmin(), s.handleUpdateRole)
	}

	return router
}

func (s *Server) createUser(email, password, name string, role models.Role) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateUser(user, string(hash)); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// detail writes the production backend's error body shape.
func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			detail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		userID, err := s.tokens.Validate(parts[1])
		if err != nil {
			detail(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		user, ok := s.store.UserByID(userID)
		if !ok {
			detail(c, http.StatusUnauthorized, "User not found")
			return
		}
		c.Set(contextUser, user)
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if !user.IsAdmin() {
			detail(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	u, _ := c.Get(contextUser)
	user, _ := u.(models.User)
	return user
}

func (s *Server) cors() gin.HandlerFunc {
	origins := make(map[string]bool)
	for _, o := range strings.Split(s.cfg.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = true
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allow := ""
		if len(origins) == 0 || origins["*"] {
			allow = "*"
		} else if origin != "" && origins[origin] {
			allow = origin
		}
		if allow != "" {
			c.Header("Access-Control-Allow-Origin", allow)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("request",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("method", method),
			zap.String("path", path),
		)
	}
}
