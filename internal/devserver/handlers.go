package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"github.com/aretw0/notesync/pkg/core"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type noteRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content"`
}

func (s *Server) logger(r *http.Request, op string) *slog.Logger {
	return s.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r, "devserver.login")

	var req credentialsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	u, err := s.data.user(req.Email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password))
	}
	if err != nil {
		log.Warn("invalid credentials", "email", req.Email)
		writeError(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.issueToken(u.Email)
	if err != nil {
		log.Error("failed to issue token", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}

	log.Info("user logged in", "email", req.Email)
	render.JSON(w, r, map[string]string{"accessToken": token})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r, "devserver.register")

	var req registerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to register")
		return
	}

	if err := s.data.addUser(user{Email: req.Email, PasswordHash: hash}); err != nil {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}

	log.Info("user registered", "email", req.Email)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"email": req.Email})
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.data.list(ownerFrom(r.Context())))
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	log := s.logger(r, "devserver.create_note")

	var req noteRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	note := s.data.create(ownerFrom(r.Context()), req.Title, req.Content)
	log.Info("note created", "id", note.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, note)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid note id")
		return
	}

	if err := s.data.remove(ownerFrom(r.Context()), id); err != nil {
		if errors.Is(err, core.ErrNoteNotFound) {
			writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to delete note")
		return
	}

	s.logger(r, "devserver.delete_note").Info("note deleted", "id", id)
	render.JSON(w, r, map[string]int64{"id": id})
}
