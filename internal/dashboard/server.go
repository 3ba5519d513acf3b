// Package dashboard exposes the wizard over HTTP: currencies and expiries to
// populate the form, and the recommendation endpoint itself.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eddiefleurent/options_wizard/internal/marketdata"
	"github.com/eddiefleurent/options_wizard/internal/models"
	"github.com/eddiefleurent/options_wizard/internal/recommender"
	"github.com/eddiefleurent/options_wizard/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// CurrencyFilter reports whether a currency may be offered to the user.
type CurrencyFilter func(currency string) bool

// Server wires the engine and market-data provider to HTTP handlers.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	provider  marketdata.Provider
	engine    *recommender.Engine
	logger    *logrus.Logger
	allowed   CurrencyFilter
	port      int
	authToken string
}

// Config holds the server settings.
type Config struct {
	Port      int
	AuthToken string
}

// NewServer creates a dashboard server. A nil filter allows every currency the
// feed lists.
func NewServer(cfg Config, provider marketdata.Provider, engine *recommender.Engine,
	allowed CurrencyFilter, logger *logrus.Logger) *Server {
	if allowed == nil {
		allowed = func(string) bool { return true }
	}
	s := &Server{
		router:    chi.NewRouter(),
		provider:  provider,
		engine:    engine,
		logger:    logger,
		allowed:   allowed,
		port:      cfg.Port,
		authToken: cfg.AuthToken,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if s.authToken != "" {
		s.router.Use(s.authMiddleware)
	}

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/currencies", s.handleCurrencies)
	s.router.Get("/api/expiries", s.handleExpiries)
	s.router.Post("/api/recommendation", s.handleRecommendation)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-Auth-Token")
		if token != s.authToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start begins serving. It blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.WithField("port", s.port).Info("dashboard listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type currencyView struct {
	Currency  string  `json:"currency"`
	SpotPrice float64 `json:"spot_price"`
	Display   string  `json:"display"`
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := s.provider.GetCurrencies(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("currency fetch failed")
		http.Error(w, "market data unavailable", http.StatusBadGateway)
		return
	}

	views := make([]currencyView, 0, len(currencies))
	for _, c := range currencies {
		if !s.allowed(c.Currency) {
			continue
		}
		views = append(views, currencyView{
			Currency:  c.Currency,
			SpotPrice: c.SpotPrice,
			Display:   fmt.Sprintf("%s (%s)", c.Currency, util.FormatUSD(c.SpotPrice)),
		})
	}
	s.writeJSON(w, http.StatusOK, views)
}

type expiryView struct {
	Expiry  int64  `json:"expiry"`
	Display string `json:"display"`
}

func (s *Server) handleExpiries(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" || !s.allowed(currency) {
		http.Error(w, "unknown currency", http.StatusBadRequest)
		return
	}

	instruments, err := s.provider.GetInstruments(r.Context(), currency)
	if err != nil {
		s.logger.WithError(err).Error("instrument fetch failed")
		http.Error(w, "market data unavailable", http.StatusBadGateway)
		return
	}

	expiries := models.Expiries(instruments)
	views := make([]expiryView, 0, len(expiries))
	for _, e := range expiries {
		views = append(views, expiryView{Expiry: e, Display: util.FormatExpiry(e)})
	}
	s.writeJSON(w, http.StatusOK, views)
}

type recommendationRequest struct {
	Currency     string              `json:"currency"`
	CurrentPrice float64             `json:"current_price"`
	TargetPrice  float64             `json:"target_price"`
	Expiry       int64               `json:"expiry"`
	Strategy     models.StrategyKind `json:"strategy"`
}

type recommendationResponse struct {
	Status         string                 `json:"status"` // no_candidate | priced | unpriced
	Message        string                 `json:"message,omitempty"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
	Summary        string                 `json:"summary,omitempty"`
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if !s.allowed(req.Currency) {
		http.Error(w, "unknown currency", http.StatusBadRequest)
		return
	}

	instruments, err := s.provider.GetInstruments(r.Context(), req.Currency)
	if err != nil {
		s.logger.WithError(err).Error("instrument fetch failed")
		http.Error(w, "market data unavailable", http.StatusBadGateway)
		return
	}

	forecast := models.Forecast{
		Currency:     req.Currency,
		CurrentPrice: req.CurrentPrice,
		TargetPrice:  req.TargetPrice,
		Expiry:       req.Expiry,
		Strategy:     req.Strategy,
	}

	result, err := s.engine.Recommend(r.Context(), forecast, instruments)
	if err != nil {
		var invalid *recommender.InvalidForecastError
		switch {
		case errors.As(err, &invalid):
			http.Error(w, invalid.Error(), http.StatusBadRequest)
		case errors.Is(err, recommender.ErrSuperseded):
			// A newer request took over; this one's result is moot.
			http.Error(w, "superseded by newer request", http.StatusConflict)
		default:
			s.logger.WithError(err).Error("quote fetch failed")
			http.Error(w, "market data unavailable", http.StatusBadGateway)
		}
		return
	}

	resp := recommendationResponse{}
	switch {
	case result.NoCandidate:
		resp.Status = "no_candidate"
		resp.Message = "No eligible instrument for these inputs. Adjust target price, expiry, or strategy."
	case result.Recommendation.Priced():
		resp.Status = "priced"
		resp.Recommendation = result.Recommendation
		resp.Summary = summarize(result.Recommendation)
	default:
		resp.Status = "unpriced"
		resp.Recommendation = result.Recommendation
		resp.Message = "No market is currently available."
		resp.Summary = summarize(result.Recommendation)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// summarize renders the one-line trade description the UI shows, e.g.
// "Buy BTC $50,000.00 Jun 27, 2025 Call".
func summarize(rec *models.Recommendation) string {
	leg := rec.Candidate.Leg
	kind := "Call"
	if leg.Type == models.OptionTypePut {
		kind = "Put"
	}
	base := fmt.Sprintf("Buy %s %s %s %s", leg.Currency,
		util.FormatUSD(leg.Strike), util.FormatExpiry(leg.Expiry), kind)
	if rec.Candidate.Strategy != models.StrategySpread {
		return base
	}
	return fmt.Sprintf("%s / Sell %s %s", base,
		util.FormatUSD(rec.Candidate.ShortLeg.Strike), kind)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("encoding response")
	}
}
