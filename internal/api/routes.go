package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"financial-health/backend/internal/model"
	"financial-health/backend/internal/scoring"
	"financial-health/backend/internal/store"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	ArtifactDir    string
	AllowedOrigins []string
	SilentDB       bool
	// TolerateStoreFailure returns the prediction even when the append
	// fails; the default (strict) fails the whole request instead.
	TolerateStoreFailure bool
}

// Server wires HTTP handlers with persistence and scoring.
type Server struct {
	db                   *store.Database
	engine               *scoring.Engine
	allowedOrigins       []string
	tolerateStoreFailure bool
}

// NewServer constructs the API server. Missing or invalid artifacts do
// not fail construction: the server comes up degraded, rejecting
// predictions while history keeps serving.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	arts := model.Load(cfg.ArtifactDir)
	engine, err := scoring.NewEngine(arts)
	if err != nil {
		logrus.WithError(err).Error("classifier rejected, serving degraded")
		engine, _ = scoring.NewEngine(&model.Artifacts{})
	}
	if !engine.Ready() {
		logrus.Warn("prediction disabled until model artifacts are available")
	}

	return &Server{
		db:                   db,
		engine:               engine,
		allowedOrigins:       cfg.AllowedOrigins,
		tolerateStoreFailure: cfg.TolerateStoreFailure,
	}, nil
}

// Close releases the underlying database handle.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger())
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/", s.handleHome)
	r.POST("/predict", s.handlePredict)
	r.GET("/history", s.handleHistory)

	return r
}

func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "financial health backend is running"})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if c.Request.Body == nil {
		s.renderError(c, http.StatusBadRequest, errEmptyBody)
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("parse request: %w", err))
		return
	}

	features, err := req.Features()
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	result, err := s.engine.Score(features)
	if err != nil {
		if errors.Is(err, scoring.ErrModelUnavailable) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Model not loaded"})
			return
		}
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	record := &store.FinancialRecord{
		MonthlyIncome:   features[model.FeatureMonthlyIncome],
		MonthlyExpenses: features[model.FeatureMonthlyExpenses],
		LoanEMI:         features[model.FeatureLoanEMI],
		Savings:         features[model.FeatureSavings],
		Investments:     features[model.FeatureInvestments],
		FinancialScore:  result.Score,
		RiskCategory:    result.Category,
	}
	if err := s.db.AppendRecord(record); err != nil {
		if !s.tolerateStoreFailure {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("persist record: %w", err))
			return
		}
		logrus.WithError(err).Warn("prediction returned without persisted record")
	}

	c.JSON(http.StatusOK, PredictResponse{
		FinancialScore: result.Score,
		RiskCategory:   result.Category,
		Probabilities:  result.Probabilities,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	rows, err := s.db.ListRecords()
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	dtos := make([]HistoryRow, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, HistoryFromModel(row))
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
