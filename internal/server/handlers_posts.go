package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

type createPostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) handleListPosts(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Posts(c.Query("category")))
}

func (s *Server) handleCreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Category == "" {
		req.Category = models.PostCategoryGeneral
	}

	user := currentUser(c)
	post := models.Post{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		UserName:   user.Name,
		UserAvatar: user.Avatar,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		Category:   req.Category,
		Likes:      []string{},
		CreatedAt:  time.Now().UTC(),
	}
	s.store.CreatePost(post)
	c.JSON(http.StatusOK, post)
}

func (s *Server) handleLikePost(c *gin.Context) {
	likes, ok := s.store.ToggleLike(c.Param("id"), currentUser(c).ID)
	if !ok {
		detail(c, http.StatusNotFound, "Post not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

func (s *Server) handleDeletePost(c *gin.Context) {
	post, ok := s.store.PostByID(c.Param("id"))
	if !ok {
		detail(c, http.StatusNotFound, "Post not found")
		return
	}
	user := currentUser(c)
	if post.UserID != user.ID && !user.IsAdmin() {
		detail(c, http.StatusForbidden, "Not authorized")
		return
	}
	s.store.DeletePost(post.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (s *Server) handleListComments(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Comments(c.Param("id")))
}

func (s *Server) handleCreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user := currentUser(c)
	comment := models.Comment{
		ID:         uuid.New().String(),
		PostID:     c.Param("id"),
		UserID:     user.ID,
		UserName:   user.Name,
		UserAvatar: user.Avatar,
		Content:    req.Content,
		CreatedAt:  time.Now().UTC(),
	}
	s.store.CreateComment(comment)
	c.JSON(http.StatusOK, comment)
}

func (s *Server) handleDeleteComment(c *gin.Context) {
	comment, ok := s.store.CommentByID(c.Param("id"))
	if !ok {
		detail(c, http.StatusNotFound, "Comment not found")
		return
	}
	user := currentUser(c)
	if comment.UserID != user.ID && !user.IsAdmin() {
		detail(c, http.StatusForbidden, "Not authorized")
		return
	}
	s.store.DeleteComment(comment.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
