// Package stubservice is a self-contained Interview Service used for
// offline development and integration tests. It implements the same
// request/response contract as the real backend with in-memory storage
// and canned question and feedback content.
package stubservice

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prepdeck/prepdeck/internal/domain/entity"
	"github.com/prepdeck/prepdeck/pkg/helpers"
)

type user struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

type resume struct {
	ID         string
	UserID     string
	Filename   string
	SizeBytes  int64
	UploadedAt time.Time
}

type response struct {
	QuestionID  string
	Answer      string
	SubmittedAt time.Time
}

type interview struct {
	ID              string
	UserID          string
	JobRole         string
	ExperienceLevel string
	InterviewType   string
	Status          string // in_progress, completed
	Questions       []entity.Question
	Responses       []response
	Feedback        string
	CreatedAt       time.Time
}

// Server holds the in-memory state behind the stub endpoints.
type Server struct {
	jwt    *helpers.JWTManager
	logger *logrus.Logger

	mu         sync.Mutex
	users      map[string]*user // keyed by email
	usersByID  map[string]*user
	resumes    map[string]*resume // latest per user ID
	interviews map[string]*interview
}

func NewServer(jwtManager *helpers.JWTManager, logger *logrus.Logger) *Server {
	return &Server{
		jwt:        jwtManager,
		logger:     logger,
		users:      make(map[string]*user),
		usersByID:  make(map[string]*user),
		resumes:    make(map[string]*resume),
		interviews: make(map[string]*interview),
	}
}

// Router builds the gin engine serving the Interview Service contract.
func (s *Server) Router(httpLog bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if httpLog {
		r.Use(gin.Logger())
	}
	r.Use(cors.Default())

	r.GET("/api/health", s.health)
	r.POST("/api/register", s.register)
	r.POST("/api/login", s.login)

	authed := r.Group("/api", s.auth())
	authed.POST("/upload-resume", s.uploadResume)
	authed.POST("/start-interview", s.startInterview)
	authed.POST("/submit-response", s.submitResponse)
	authed.GET("/interview-history", s.history)
	authed.GET("/interview/:id", s.interviewByID)

	return r
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// auth validates the bearer token and injects the user ID.
func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			detail(c, http.StatusUnauthorized, "Invalid authentication credentials")
			return
		}
		claims, err := s.jwt.ParseToken(token)
		if err != nil {
			detail(c, http.StatusUnauthorized, "Invalid authentication credentials")
			return
		}
		c.Set("userID", claims.UserID)
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid registration payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[req.Email]; exists {
		detail(c, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := helpers.HashPassword(req.Password)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to create account")
		return
	}
	u := &user{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.Email] = u
	s.usersByID[u.ID] = u

	s.grant(c, u)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid login payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Email]
	if !ok || !helpers.VerifyPassword(u.PasswordHash, req.Password) {
		detail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.grant(c, u)
}

// grant issues a token and writes the auth response. Callers hold the
// lock.
func (s *Server) grant(c *gin.Context, u *user) {
	token, _, err := s.jwt.GenerateToken(u.ID)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         gin.H{"id": u.ID, "email": u.Email, "name": u.Name},
	})
}

func (s *Server) uploadResume(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "No file provided")
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		detail(c, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	userID := c.GetString("userID")
	r := &resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Filename:   file.Filename,
		SizeBytes:  file.Size,
		UploadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.resumes[userID] = r
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"user": userID, "file": file.Filename}).Info("resume stored")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Resume uploaded successfully",
		"resume_id":    r.ID,
		"text_preview": fmt.Sprintf("%s (%d bytes)", r.Filename, r.SizeBytes),
	})
}

type startInterviewRequest struct {
	JobRole         string `json:"job_role" binding:"required"`
	ExperienceLevel string `json:"experience_level" binding:"required,oneof=entry mid senior"`
	InterviewType   string `json:"interview_type" binding:"required,oneof=text voice"`
}

func (s *Server) startInterview(c *gin.Context) {
	var req startInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid interview request")
		return
	}
	userID := c.GetString("userID")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resumes[userID]; !ok {
		detail(c, http.StatusBadRequest, "Please upload a resume first")
		return
	}

	iv := &interview{
		ID:              uuid.NewString(),
		UserID:          userID,
		JobRole:         req.JobRole,
		ExperienceLevel: req.ExperienceLevel,
		InterviewType:   req.InterviewType,
		Status:          "in_progress",
		Questions:       cannedQuestions(req.JobRole),
		CreatedAt:       time.Now().UTC(),
	}
	s.interviews[iv.ID] = iv

	c.JSON(http.StatusOK, gin.H{
		"interview_id":    iv.ID,
		"questions":       iv.Questions,
		"total_questions": len(iv.Questions),
	})
}

type submitResponseRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

func (s *Server) submitResponse(c *gin.Context) {
	var req submitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid response payload")
		return
	}
	userID := c.GetString("userID")

	s.mu.Lock()
	defer s.mu.Unlock()

	iv := s.activeInterview(userID)
	if iv == nil {
		detail(c, http.StatusNotFound, "No active interview found")
		return
	}

	iv.Responses = append(iv.Responses, response{
		QuestionID:  req.QuestionID,
		Answer:      req.Answer,
		SubmittedAt: time.Now().UTC(),
	})

	if len(iv.Responses) >= len(iv.Questions) {
		iv.Status = "completed"
		iv.Feedback = cannedFeedback(iv.JobRole, len(iv.Questions))
		c.JSON(http.StatusOK, gin.H{
			"message":   "Interview completed!",
			"feedback":  iv.Feedback,
			"completed": true,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Response recorded",
		"completed":     false,
		"next_question": len(iv.Responses),
	})
}

// activeInterview returns the newest in-progress interview for the user.
// Callers hold the lock.
func (s *Server) activeInterview(userID string) *interview {
	var latest *interview
	for _, iv := range s.interviews {
		if iv.UserID != userID || iv.Status != "in_progress" {
			continue
		}
		if latest == nil || iv.CreatedAt.After(latest.CreatedAt) {
			latest = iv
		}
	}
	return latest
}

func (s *Server) history(c *gin.Context) {
	userID := c.GetString("userID")

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]entity.InterviewRecord, 0)
	for _, iv := range s.interviews {
		if iv.UserID != userID {
			continue
		}
		records = append(records, toRecord(iv))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	c.JSON(http.StatusOK, gin.H{"interviews": records})
}

func (s *Server) interviewByID(c *gin.Context) {
	userID := c.GetString("userID")

	s.mu.Lock()
	defer s.mu.Unlock()

	iv, ok := s.interviews[c.Param("id")]
	if !ok || iv.UserID != userID {
		detail(c, http.StatusNotFound, "Interview not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":               iv.ID,
		"job_role":         iv.JobRole,
		"experience_level": iv.ExperienceLevel,
		"interview_type":   iv.InterviewType,
		"status":           iv.Status,
		"questions":        iv.Questions,
		"feedback":         iv.Feedback,
		"created_at":       iv.CreatedAt,
	})
}

func toRecord(iv *interview) entity.InterviewRecord {
	return entity.InterviewRecord{
		ID:              iv.ID,
		JobRole:         iv.JobRole,
		ExperienceLevel: iv.ExperienceLevel,
		InterviewType:   iv.InterviewType,
		Status:          iv.Status,
		Feedback:        iv.Feedback,
		CreatedAt:       iv.CreatedAt,
	}
}

// cannedQuestions mirrors the fallback question set of the real service.
func cannedQuestions(jobRole string) []entity.Question {
	return []entity.Question{
		{ID: uuid.NewString(), Question: fmt.Sprintf("Tell me about your experience with %s technologies.", jobRole), Type: "technical"},
		{ID: uuid.NewString(), Question: "Walk me through a challenging project you've worked on.", Type: "behavioral"},
		{ID: uuid.NewString(), Question: fmt.Sprintf("How do you stay updated with the latest trends in %s?", jobRole), Type: "behavioral"},
		{ID: uuid.NewString(), Question: "Describe a time when you had to solve a complex technical problem.", Type: "technical"},
		{ID: uuid.NewString(), Question: fmt.Sprintf("What interests you most about working as a %s?", jobRole), Type: "behavioral"},
	}
}

func cannedFeedback(jobRole string, questions int) string {
	return fmt.Sprintf(
		"Thank you for completing your %s interview. You answered %d questions. "+
			"Your responses have been recorded and our team will review them shortly.",
		jobRole, questions)
}
