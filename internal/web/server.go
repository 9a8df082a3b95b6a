package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/willemschots/openidstore/internal/errorz"
)

// TokenRedeemer redeems OpenID tokens.
type TokenRedeemer interface {
	Redeem(ctx context.Context, token string, nowMS int64) (userID string, ok bool, err error)
}

// ProfileResolver resolves profile attributes of users.
type ProfileResolver interface {
	Email(ctx context.Context, userID string) (address string, ok bool, err error)
	DisplayName(ctx context.Context, userID string) (name string, ok bool, err error)
}

// ServerDeps are the dependencies for the server.
type ServerDeps struct {
	Logger   *slog.Logger
	Tokens   TokenRedeemer
	Profiles ProfileResolver
	// NowFunc is used to get the current time, defaults to time.Now.
	NowFunc func() time.Time
}

type Server struct {
	deps   *ServerDeps
	router chi.Router
}

func NewServer(deps *ServerDeps) *Server {
	if deps.NowFunc == nil {
		deps.NowFunc = time.Now
	}

	s := &Server{
		deps:   deps,
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/_matrix/federation/v1/openid/userinfo", s.userInfo)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errcodeUnrecognized, "Unrecognized request")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errcodeUnrecognized, "Unrecognized request")
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidInput errorz.InvalidInput
	if errors.As(err, &invalidInput) {
		writeError(w, http.StatusBadRequest, errcodeInvalidParam, invalidInput.Error())
		return
	}

	s.deps.Logger.Error("internal server error",
		"url", r.URL.Path,
		"requestID", middleware.GetReqID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, errcodeUnknown, "Internal server error")
}
