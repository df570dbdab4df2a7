package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tcupmn/tcup-scrape/internal/logger"
	"github.com/tcupmn/tcup-scrape/internal/store"
)

// Reader is the read side of the store.
type Reader interface {
	ListShows(ctx context.Context, f store.ShowFilter) ([]store.ShowRecord, error)
	GetShow(ctx context.Context, id int64) (*store.ShowRecord, error)
	ListBands(ctx context.Context) ([]store.BandRecord, error)
	GetBand(ctx context.Context, id int64) (*store.BandRecord, error)
	ListVenues(ctx context.Context) ([]store.VenueRecord, error)
}

// Server routes HTTP requests to a Reader.
type Server struct {
	reader Reader
	g      *gin.Engine
}

// New builds the router.
func New(reader Reader) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{reader: reader, g: gin.New()}
	s.g.Use(gin.Recovery(), requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.g.GET("/health", s.handleHealth)
	s.g.GET("/shows", s.handleListShows)
	s.g.GET("/shows/:id", s.handleGetShow)
	s.g.GET("/bands", s.handleListBands)
	s.g.GET("/bands/:id", s.handleGetBand)
	s.g.GET("/venues", s.handleListVenues)
}

// Handler exposes the router for tests and custom servers.
func (s *Server) Handler() http.Handler {
	return s.g
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.g,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Handled request", logger.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func sendError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("API request failed", logger.Fields{"path": c.Request.URL.Path}, err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

// sendStoreError maps store errors to status codes.
func sendStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		sendError(c, http.StatusNotFound, err)
		return
	}
	sendError(c, http.StatusInternalServerError, err)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		sendError(c, http.StatusBadRequest, errors.New("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListShows accepts optional venue, band (id), from (YYYY-MM-DD) and
// limit query parameters.
func (s *Server) handleListShows(c *gin.Context) {
	f := store.ShowFilter{Venue: c.Query("venue")}

	if v := c.Query("band"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			sendError(c, http.StatusBadRequest, errors.New("band must be an integer id"))
			return
		}
		f.BandID = id
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			sendError(c, http.StatusBadRequest, errors.New("from must be a YYYY-MM-DD date"))
			return
		}
		f.From = from
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			sendError(c, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
			return
		}
		f.Limit = limit
	}

	shows, err := s.reader.ListShows(c.Request.Context(), f)
	if err != nil {
		sendStoreError(c, err)
		return
	}
	if shows == nil {
		shows = []store.ShowRecord{}
	}
	c.JSON(http.StatusOK, shows)
}

func (s *Server) handleGetShow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sh, err := s.reader.GetShow(c.Request.Context(), id)
	if err != nil {
		sendStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

func (s *Server) handleListBands(c *gin.Context) {
	bands, err := s.reader.ListBands(c.Request.Context())
	if err != nil {
		sendStoreError(c, err)
		return
	}
	if bands == nil {
		bands = []store.BandRecord{}
	}
	c.JSON(http.StatusOK, bands)
}

func (s *Server) handleGetBand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	band, err := s.reader.GetBand(c.Request.Context(), id)
	if err != nil {
		sendStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, band)
}

func (s *Server) handleListVenues(c *gin.Context) {
	venues, err := s.reader.ListVenues(c.Request.Context())
	if err != nil {
		sendStoreError(c, err)
		return
	}
	if venues == nil {
		venues = []store.VenueRecord{}
	}
	c.JSON(http.StatusOK, venues)
}
