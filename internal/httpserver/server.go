// Package httpserver exposes the booth pipeline to the kiosk front end
// over a small local HTTP API.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carsonSgit/cusec-photobooth/internal/camera"
	"github.com/carsonSgit/cusec-photobooth/internal/config"
	"github.com/carsonSgit/cusec-photobooth/internal/download"
	"github.com/carsonSgit/cusec-photobooth/internal/email"
	"github.com/carsonSgit/cusec-photobooth/internal/session"
	"github.com/carsonSgit/cusec-photobooth/internal/strip"
	"github.com/carsonSgit/cusec-photobooth/internal/types"
	"github.com/carsonSgit/cusec-photobooth/internal/upload"
	"github.com/carsonSgit/cusec-photobooth/shared/logger"
)

// Server holds dependencies for handling booth requests.
type Server struct {
	cfg      config.Config
	store    *session.Store
	cam      *camera.Session
	uploader *upload.Coordinator
	mailer   *email.Service
	spool    *download.Spool
}

func NewServer(cfg config.Config, store *session.Store, cam *camera.Session, uploader *upload.Coordinator, mailer *email.Service, spool *download.Spool) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		cam:      cam,
		uploader: uploader,
		mailer:   mailer,
		spool:    spool,
	}
}

// Router wires every endpoint behind the request-id middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)

	r.HandleFunc("/healthz", s.HealthzHandler).Methods("GET")

	r.HandleFunc("/api/session", s.BeginSessionHandler).Methods("POST")
	r.HandleFunc("/api/session", s.StateHandler).Methods("GET")
	r.HandleFunc("/api/session/orientation", s.OrientationHandler).Methods("POST")
	r.HandleFunc("/api/session/capture", s.CaptureHandler).Methods("POST")
	r.HandleFunc("/api/session/strip", s.StripHandler).Methods("GET")
	r.HandleFunc("/api/session/retake", s.RetakeHandler).Methods("POST")
	r.HandleFunc("/api/session/reset", s.ResetHandler).Methods("POST")
	r.HandleFunc("/api/session/email", s.EmailHandler).Methods("POST")
	r.HandleFunc("/api/session/download", s.DownloadHandler).Methods("POST")
	r.HandleFunc("/api/camera/switch", s.SwitchCameraHandler).Methods("POST")

	return r
}

func (s *Server) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// BeginSessionHandler ensures a session id exists. Safe to call more
// than once; duplicate initialization never regenerates the id.
func (s *Server) BeginSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := s.store.EnsureSession()
	s.store.SetScreen(types.ScreenSelection)
	writeJSON(w, map[string]any{
		"session_id": id,
		"screen":     s.store.Screen(),
	})
}

func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.Session()
	writeJSON(w, map[string]any{
		"session_id":    snapshot.ID,
		"screen":        s.store.Screen(),
		"orientation":   snapshot.Orientation,
		"photo_count":   len(snapshot.Photos),
		"strip_ready":   snapshot.Strip != nil,
		"upload_status": snapshot.UploadStatus,
		"camera_facing": s.cam.Facing(),
	})
}

func (s *Server) OrientationHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Orientation types.Orientation `json:"orientation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if !s.store.SelectOrientation(body.Orientation) {
		http.Error(w, "orientation must be portrait or landscape", http.StatusBadRequest)
		return
	}

	s.cam.SetOrientation(body.Orientation)
	if err := s.cam.Start(ctx); err != nil {
		// Acquisition failure is user-facing; the front end offers a
		// back/retry action rather than retrying automatically.
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]any{"screen": s.store.Screen()})
}

// CaptureHandler takes one photo. The third capture composes the strip
// and fires the background upload exactly once.
func (s *Server) CaptureHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithSessionID(r.Context(), s.store.SessionID())

	photo, err := s.cam.CapturePhoto(ctx)
	if err != nil {
		if errors.Is(err, camera.ErrNotStreaming) {
			http.Error(w, "camera is not streaming", http.StatusConflict)
			return
		}
		logger.Error(ctx, "capture failed", err)
		http.Error(w, "failed to capture photo", http.StatusInternalServerError)
		return
	}

	count, advanced := s.store.AddPhoto(*photo)
	if !advanced {
		writeJSON(w, map[string]any{
			"photo_count": count,
			"screen":      s.store.Screen(),
		})
		return
	}

	// Three photos: compose now, then hand off to the uploader. The
	// strip in hand is never gated on the upload outcome.
	composed, err := strip.Compose(s.store.Photos(), s.store.Orientation())
	if err != nil {
		logger.Error(ctx, "strip composition failed", err)
		s.store.Retake()
		http.Error(w, "failed to generate photo strip, please retake", http.StatusInternalServerError)
		return
	}
	s.store.SetStrip(composed)
	s.cam.Stop()

	s.triggerUpload(ctx)

	writeJSON(w, map[string]any{
		"photo_count": count,
		"screen":      s.store.Screen(),
		"strip_ready": true,
	})
}

// triggerUpload starts the background upload once per session. The
// forward-only status transition is the structural guard against
// re-entrant invocation; the coordinator carries its own per-id guard
// as well.
func (s *Server) triggerUpload(ctx context.Context) {
	if !s.store.SetUploadStatus(types.UploadUploading) {
		return
	}

	snapshot := s.store.Session()
	go func() {
		// Detach from the request; uploads outlive the response.
		bg := logger.WithSessionID(context.Background(), snapshot.ID)

		_, err := s.uploader.Upload(bg, snapshot)
		switch {
		case err == nil:
			s.store.SetUploadStatus(types.UploadSuccess)
		case errors.Is(err, upload.ErrDuplicateTrigger):
			// Another invocation already owns this session.
		default:
			logger.Error(bg, "background upload failed", err)
			s.store.SetUploadStatus(types.UploadError)
		}
	}()
}

func (s *Server) StripHandler(w http.ResponseWriter, r *http.Request) {
	st := s.store.Strip()
	if st == nil {
		http.Error(w, "photo strip not generated yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", st.Mime)
	_, _ = w.Write(st.Data)
}

func (s *Server) RetakeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.store.Retake()
	if s.store.Orientation().Valid() {
		if err := s.cam.Start(ctx); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, map[string]any{"screen": s.store.Screen()})
}

func (s *Server) ResetHandler(w http.ResponseWriter, r *http.Request) {
	s.cam.Stop()
	s.store.Reset()
	writeJSON(w, map[string]any{"screen": s.store.Screen()})
}

// EmailHandler sends the strip to the attendee and, when the record
// already exists remotely, attaches the address to it.
func (s *Server) EmailHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithSessionID(r.Context(), s.store.SessionID())

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if !email.ValidAddress(body.Email) {
		http.Error(w, "a valid email address is required", http.StatusBadRequest)
		return
	}

	st := s.store.Strip()
	if st == nil {
		http.Error(w, "photo strip not generated yet", http.StatusConflict)
		return
	}

	if err := s.mailer.SendStrip(ctx, body.Email, st); err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			http.Error(w, "email service is not configured", http.StatusServiceUnavailable)
			return
		}
		logger.Error(ctx, "email delivery failed", err)
		http.Error(w, "failed to send email", http.StatusInternalServerError)
		return
	}

	// Best-effort keyed update; the record only exists after a
	// successful upload.
	if s.store.UploadStatus() == types.UploadSuccess {
		if err := s.uploader.AttachEmail(ctx, s.store.SessionID(), body.Email); err != nil {
			logger.Warn(ctx, "could not attach email to session record", logger.Fields{
				"error": err.Error(),
			})
		}
	}

	writeJSON(w, map[string]any{"sent": true})
}

func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	st := s.store.Strip()
	if st == nil {
		http.Error(w, "photo strip not generated yet", http.StatusConflict)
		return
	}
	path, err := s.spool.SaveStrip(st)
	if err != nil {
		logger.Error(r.Context(), "spool save failed", err)
		http.Error(w, "failed to save photo strip", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"path": path})
}

func (s *Server) SwitchCameraHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.cam.SwitchFacing(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{"camera_facing": s.cam.Facing()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
