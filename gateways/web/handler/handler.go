package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	config "github.com/callsight/backend/config/web"
	"github.com/callsight/backend/pkg/jwt"
	audiousecase "github.com/callsight/backend/services/audio/usecase"
	convusecase "github.com/callsight/backend/services/conversation/usecase"
	"github.com/callsight/backend/services/pipeline"
	"github.com/callsight/backend/services/progress"
)

type handler struct {
	cfg           *config.Config
	conversations convusecase.Usecase
	audio         audiousecase.Usecase
	pipeline      *pipeline.Runner
	tracker       *progress.Tracker
	log           *slog.Logger
}

type Handler interface {
	UploadHandler(w http.ResponseWriter, r *http.Request)
	GetConversationHandler(w http.ResponseWriter, r *http.Request)
	SearchConversationsHandler(w http.ResponseWriter, r *http.Request)
	StatsHandler(w http.ResponseWriter, r *http.Request)
	TaskProgressHandler(w http.ResponseWriter, r *http.Request)
}

func New(
	cfg *config.Config,
	conversations convusecase.Usecase,
	audio audiousecase.Usecase,
	runner *pipeline.Runner,
	tracker *progress.Tracker,
	log *slog.Logger,
) Handler {
	return &handler{
		cfg:           cfg,
		conversations: conversations,
		audio:         audio,
		pipeline:      runner,
		tracker:       tracker,
		log:           log,
	}
}

// ownerID resolves the requesting owner from the bearer token subject.
// With no JWT secret configured (development), the X-Owner-ID header or
// a shared default is used instead.
func (h *handler) ownerID(r *http.Request) (string, error) {
	if h.cfg.JWTSecret == "" {
		if owner := r.Header.Get("X-Owner-ID"); owner != "" {
			return owner, nil
		}
		return "default", nil
	}

	token, err := jwt.ParseTokenFromHeader(r)
	if err != nil {
		return "", fmt.Errorf("access denied")
	}

	owner, err := jwt.ParseOwnerID(r.Context(), token, h.cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("access denied")
	}
	return owner, nil
}
