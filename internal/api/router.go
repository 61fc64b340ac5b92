package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/skip2/go-qrcode"
	"github.com/user/decision-duel/config"
	"github.com/user/decision-duel/internal/game"
	"github.com/user/decision-duel/internal/interfaces"
	"github.com/user/decision-duel/internal/types"
	"go.uber.org/zap"
)

// qrSize is the edge length of share codes in pixels
const qrSize = 256

// Server exposes a game manager over HTTP
type Server struct {
	gameManager interfaces.GameManager
	publicURL   string
	logger      *zap.Logger
}

// NewServer creates the HTTP handlers for a game manager
func NewServer(cfg config.Config, gameManager interfaces.GameManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		gameManager: gameManager,
		publicURL:   strings.TrimRight(cfg.Server.PublicURL, "/"),
		logger:      logger,
	}
}

// Router builds the chi router with every endpoint mounted
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", s.health)

	router.Get("/strategies", s.listStrategies)

	router.Route("/game", func(r chi.Router) {
		r.Post("/", s.startGame)
		r.Get("/", s.getGame)
		r.Delete("/", s.resetGame)
		r.Post("/strategy", s.chooseStrategy)
	})

	router.Route("/analyses/{id}", func(r chi.Router) {
		r.Get("/", s.getAnalysis)
		r.Get("/qr", s.getAnalysisQR)
	})

	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check request received",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr))
	w.Write([]byte("OK"))
}

func (s *Server) listStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gameManager.GetStrategies())
}

func (s *Server) startGame(w http.ResponseWriter, r *http.Request) {
	state := s.gameManager.StartGame()
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	state, ok := s.gameManager.GetState()
	if !ok {
		writeError(w, http.StatusNotFound, "no active game")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) resetGame(w http.ResponseWriter, r *http.Request) {
	s.gameManager.ResetGame()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) chooseStrategy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Strategy string `json:"strategy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	id := types.StrategyID(req.Strategy)
	if parsed, ok := game.ParseStrategy(req.Strategy); ok {
		id = parsed
	}

	result, err := s.gameManager.ChooseStrategy(id)
	if err != nil {
		if errors.Is(err, game.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Failed to play round",
			zap.String("strategy", req.Strategy),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to play round")
		return
	}

	status := http.StatusOK
	if !result.Accepted {
		status = http.StatusAccepted
	}
	writeJSON(w, status, result)
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	analysis, ok := s.gameManager.GetAnalysis(id)
	if !ok {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// getAnalysisQR renders a PNG QR code linking to the analysis
func (s *Server) getAnalysisQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.gameManager.GetAnalysis(id); !ok {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}

	png, err := qrcode.Encode(s.publicURL+"/analyses/"+id, qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("Failed to generate QR code",
			zap.String("game_id", id),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
