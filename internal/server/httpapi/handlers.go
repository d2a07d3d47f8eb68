package httpapi

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/nutrigenie/internal/common"
	"github.com/dkovalev/nutrigenie/internal/genai"
	"github.com/dkovalev/nutrigenie/internal/server/auth"
	"github.com/dkovalev/nutrigenie/internal/server/searches"
	"github.com/dkovalev/nutrigenie/internal/server/users"
)

// maxPhotoBytes caps one uploaded image.
const maxPhotoBytes = 10 << 20

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type askRequest struct {
	Feature       string `json:"feature" binding:"required"`
	Query         string `json:"query" binding:"required"`
	ImageBase64   string `json:"image_base64"`
	ImageMIMEType string `json:"image_mime_type"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type askResponse struct {
	// ModelUsed is null when every configured model failed.
	ModelUsed *string `json:"model_used"`
	Response  string  `json:"response"`
}

type historyEntry struct {
	ID        int64     `json:"id"`
	Feature   string    `json:"feature"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type photoEntry struct {
	ID          int64     `json:"id"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// persistsHistory reports whether answers for the feature are saved. Meal
// photo analysis is transient; its uploads are archived separately.
func persistsHistory(feature searches.Feature) bool {
	return feature != searches.FeatureCalorieTracker
}

func (s *HTTPServer) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": common.ErrAlreadyExists.Error()})
		case errors.Is(err, users.ErrMissingField):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			s.logger.Error(c.Request.Context(), "register failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.sessionValidity)
	if err != nil {
		s.logger.Error(c.Request.Context(), "token generation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.SetCookie(common.SessionCookieName, token, int(s.sessionValidity.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (s *HTTPServer) handleLogout(c *gin.Context) {
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (s *HTTPServer) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feature and query are required"})
		return
	}

	feature := searches.Feature(req.Feature)
	if !feature.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.ErrUnknownFeature.Error()})
		return
	}

	var img *genai.Image
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is not valid base64"})
			return
		}
		mimeType := req.ImageMIMEType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		img = &genai.Image{MIMEType: mimeType, Data: data}
	}

	result, err := s.dispatcher.Dispatch(c.Request.Context(), buildPrompt(feature, req.Query), img)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := askResponse{Response: result.Text}
	if !result.Failed() {
		resp.ModelUsed = &result.Model
	}

	// history is best effort: a storage hiccup must not lose the answer
	if claims := sessionClaims(c); claims != nil && !result.Failed() && persistsHistory(feature) {
		if _, err := s.searches.Save(c.Request.Context(), claims.UserID, feature, req.Query, result.Text); err != nil {
			s.logger.Warn(c.Request.Context(), "saving history failed", "user_id", claims.UserID, "error", err.Error())
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) handleListHistory(c *gin.Context) {
	claims := sessionClaims(c)

	feature := searches.Feature(c.Param("feature"))
	records, err := s.searches.ListRecent(c.Request.Context(), claims.UserID, feature)
	if err != nil {
		if errors.Is(err, common.ErrUnknownFeature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": common.ErrUnknownFeature.Error()})
			return
		}
		s.logger.Error(c.Request.Context(), "listing history failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, historyEntry{
			ID:        r.ID,
			Feature:   string(r.Feature),
			Query:     r.Query,
			Response:  r.Response,
			Timestamp: r.Timestamp,
		})
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *HTTPServer) handleDeleteHistory(c *gin.Context) {
	claims := sessionClaims(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history id"})
		return
	}

	// scope the delete to the caller's own records
	if err := s.searches.DeleteOwned(c.Request.Context(), claims.UserID, id); err != nil {
		s.logger.Error(c.Request.Context(), "deleting history failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *HTTPServer) handleUploadPhoto(c *gin.Context) {
	claims := sessionClaims(c)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read photo"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read photo"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photo, err := s.photos.Upload(c.Request.Context(), claims.UserID, contentType, data)
	if err != nil {
		s.logger.Error(c.Request.Context(), "photo upload failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, photoEntry{
		ID:          photo.ID,
		ContentType: photo.ContentType,
		CreatedAt:   photo.CreatedAt,
	})
}

func (s *HTTPServer) handleListPhotos(c *gin.Context) {
	claims := sessionClaims(c)

	list, err := s.photos.List(c.Request.Context(), claims.UserID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "listing photos failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	entries := make([]photoEntry, 0, len(list))
	for _, p := range list {
		url, err := s.photos.GetPresignedGetUrl(c.Request.Context(), p.ObjectKey)
		if err != nil {
			s.logger.Warn(c.Request.Context(), "presigning photo failed", "photo_id", p.ID, "error", err.Error())
			continue
		}
		entries = append(entries, photoEntry{
			ID:          p.ID,
			ContentType: p.ContentType,
			URL:         url,
			CreatedAt:   p.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"photos": entries})
}
