// Package mockapi is a self-contained implementation of the hostel backend used
// by `hostel mock`, demo mode and end-to-end tests.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hostelhub/hostel/internal/config"
	"github.com/hostelhub/hostel/pkg/domain"
)

// Server is the mock hostel backend.
type Server struct {
	cfg    config.Mock
	auth   *Authenticator
	store  *Store
	engine *gin.Engine
	log    zerolog.Logger
}

// New builds a server with the seeded dataset and the given session registry.
func New(cfg config.Mock, registry Registry, log zerolog.Logger) (*Server, error) {
	log = log.With().Str("component", "mockapi").Logger()
	auth := NewAuthenticator(cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost, registry)
	store, err := NewStore(auth.HashPassword)
	if err != nil {
		return nil, fmt.Errorf("mockapi.New: seed: %w", err)
	}

	s := &Server{cfg: cfg, auth: auth, store: store, log: log}
	s.engine = s.setupRouter(&handlers{store: store, auth: auth, log: log})
	return s, nil
}

// Handler returns the HTTP handler, for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Authenticator exposes token issuing for tests and tooling.
func (s *Server) Authenticator() *Authenticator { return s.auth }

func (s *Server) setupRouter(h *handlers) *gin.Engine {
	if s.cfg.GinMode != "" {
		gin.SetMode(s.cfg.GinMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// The portal sends the cookie, so origins must be explicit when
	// credentials are allowed; an empty list reflects the caller's origin.
	corsConfig := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(RequestIDMiddleware())
	router.Use(RequestLogger(s.log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := RequireAuth(s.auth)
	student := RequireRole(domain.RoleStudent)
	warden := RequireRole(domain.RoleWarden)

	// ─── Auth ───────────────────────────────────────────────────────────
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.GET("/check", authed, h.Check)
	}

	// ─── Rooms ──────────────────────────────────────────────────────────
	rooms := router.Group("/rooms", authed)
	{
		rooms.GET("/rooms-view", h.ListRooms)
		rooms.GET("/:roomNo", h.GetRoom)
		rooms.POST("", warden, h.CreateRoom)
		rooms.DELETE("/:roomNo", warden, h.DeleteRoom)
	}

	// ─── Leaves ─────────────────────────────────────────────────────────
	leaves := router.Group("/leaves", authed)
	{
		leaves.GET("/all", warden, h.ListLeaves)
		leaves.GET("/student/:id", h.ListStudentLeaves)
		leaves.POST("/add", student, h.ApplyLeave)
		leaves.PUT("/:id/status", warden, h.UpdateLeaveStatus)
	}

	// ─── Complaints ─────────────────────────────────────────────────────
	complaints := router.Group("/complaints", authed)
	{
		complaints.GET("/all", h.ListComplaints)
		complaints.GET("/:studentId", h.ListStudentComplaints)
		complaints.POST("/add", student, h.AddComplaint)
		complaints.DELETE("/:id", student, h.DeleteComplaint)
		complaints.PUT("/:id", warden, h.UpdateComplaintStatus)
	}

	// ─── Notices ────────────────────────────────────────────────────────
	notices := router.Group("/notices", authed)
	{
		notices.GET("/all", h.ListNotices)
		notices.GET("/:id", h.GetNotice)
		notices.POST("/create", warden, h.CreateNotice)
		notices.PUT("/update/:id", warden, h.UpdateNotice)
		notices.DELETE("/delete/:id", warden, h.DeleteNotice)
	}

	// ─── Allocations ────────────────────────────────────────────────────
	allocations := router.Group("/api/allocations", authed, warden)
	{
		allocations.GET("/current", h.CurrentAllocations)
		allocations.GET("/currentAll", h.AllAllocations)
		allocations.GET("/history", h.AllocationHistory)
	}

	// ─── Students ───────────────────────────────────────────────────────
	students := router.Group("/students", authed)
	{
		students.GET("/:id/profile", h.GetProfile)
		students.PUT("/:id/profile", student, h.UpdateProfile)
	}

	return router
}

// Serve runs the server on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("mock backend listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mockapi.Serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mockapi.Serve: shutdown: %w", err)
	}
	s.log.Info().Msg("mock backend stopped")
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("mockapi.ListenAndServe: %w", err)
	}
	return s.Serve(ctx, ln)
}
