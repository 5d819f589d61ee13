// Package http serves the coursewise REST API over HTTP. The adapter owns
// routing and per-endpoint gate composition: mutation endpoints run behind
// authentication and, where a course is targeted, the ownership gate;
// reads go straight to the store.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/auth"
	"github.com/coursewise/coursewise/pkg/auth/password"
	"github.com/coursewise/coursewise/pkg/authz"
	"github.com/coursewise/coursewise/pkg/storage"
	"github.com/coursewise/coursewise/pkg/transport"
)

// Adapter routes API requests to their handlers.
type Adapter struct {
	store   storage.Store
	hasher  *password.Hasher
	chain   *auth.Chain
	failure *transport.FailureHandler
	mux     *http.ServeMux
	config  Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
	}
}

// NewAdapter creates the adapter and registers all routes. Authenticated
// routes are wrapped with the auth middleware; everything else is open.
func NewAdapter(store storage.Store, hasher *password.Hasher, failure *transport.FailureHandler, cfg Config) *Adapter {
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}

	a := &Adapter{
		store:   store,
		hasher:  hasher,
		chain:   &auth.Chain{Authenticators: []auth.Authenticator{auth.NewBasicAuthenticator(store, hasher)}},
		failure: failure,
		mux:     http.NewServeMux(),
		config:  cfg,
	}

	authed := auth.Require(a.chain)

	a.mux.HandleFunc("GET /api/courses", a.handleListCourses)
	a.mux.HandleFunc("GET /api/courses/{id}", a.handleGetCourse)
	a.mux.Handle("POST /api/courses", authed(http.HandlerFunc(a.handleCreateCourse)))
	a.mux.Handle("PUT /api/courses/{id}", authed(http.HandlerFunc(a.handleUpdateCourse)))
	a.mux.Handle("DELETE /api/courses/{id}", authed(http.HandlerFunc(a.handleDeleteCourse)))
	a.mux.Handle("GET /api/users", authed(http.HandlerFunc(a.handleCurrentUser)))
	a.mux.HandleFunc("POST /api/users", a.handleCreateUser)
	a.mux.HandleFunc("/", a.handleNotFound)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

// handleListCourses handles GET /api/courses. No authentication; owners are
// embedded without their password hashes.
func (a *Adapter) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := a.store.ListCourses(r.Context())
	if err != nil {
		a.failure.Handle(w, r, err)
		return
	}
	if courses == nil {
		courses = []*api.Course{}
	}
	transport.WriteJSON(w, http.StatusOK, courses)
}

// handleGetCourse handles GET /api/courses/{id}.
func (a *Adapter) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := a.store.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			transport.WriteMessage(w, http.StatusNotFound, "Course Not Found")
			return
		}
		a.failure.Handle(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, course)
}

// handleCreateCourse handles POST /api/courses. Runs behind authentication;
// the owner is the authenticated principal.
func (a *Adapter) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var payload api.CoursePayload
	if !a.decode(w, r, &payload) {
		return
	}

	if msgs := api.ValidateCoursePayload(&payload); len(msgs) > 0 {
		transport.WriteValidationErrors(w, msgs)
		return
	}

	course := &api.Course{
		ID:              api.NewCourseID(),
		UserID:          identity.PrincipalID,
		Title:           payload.Title,
		Description:     payload.Description,
		EstimatedTime:   payload.EstimatedTime,
		MaterialsNeeded: payload.MaterialsNeeded,
		CreatedAt:       time.Now().UTC(),
	}

	if err := a.store.CreateCourse(r.Context(), course); err != nil {
		a.failure.Handle(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/courses/"+course.ID)
	w.WriteHeader(http.StatusCreated)
}

// handleUpdateCourse handles PUT /api/courses/{id}. The gates run in fixed
// order: not-found before ownership, ownership before payload validation,
// so a non-owner learns nothing about payload handling.
func (a *Adapter) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := a.fetchOwned(w, r)
	if !ok {
		return
	}

	var payload api.CoursePayload
	if !a.decode(w, r, &payload) {
		return
	}

	if msgs := api.ValidateCoursePayload(&payload); len(msgs) > 0 {
		transport.WriteValidationErrors(w, msgs)
		return
	}

	course.Title = payload.Title
	course.Description = payload.Description
	course.EstimatedTime = payload.EstimatedTime
	course.MaterialsNeeded = payload.MaterialsNeeded

	if err := a.store.UpdateCourse(r.Context(), course); err != nil {
		a.failure.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteCourse handles DELETE /api/courses/{id}.
func (a *Adapter) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := a.fetchOwned(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteCourse(r.Context(), course.ID); err != nil {
		a.failure.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleCurrentUser handles GET /api/users: the authenticated principal,
// excluding the password hash.
func (a *Adapter) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	transport.WriteJSON(w, http.StatusOK, api.User{
		ID:           identity.PrincipalID,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		EmailAddress: identity.EmailAddress,
	})
}

// handleCreateUser handles POST /api/users (registration). No
// authentication. The full field-failure batch goes out in one response;
// the password is validated, hashed, and only then does a record exist.
func (a *Adapter) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if !a.decode(w, r, &req) {
		return
	}

	msgs := api.ValidateNewUser(&req)
	if req.Password != "" {
		if ve := password.Validate(req.Password); ve != nil {
			msgs = append(msgs, ve.Messages()...)
		}
	}
	if len(msgs) > 0 {
		transport.WriteValidationErrors(w, msgs)
		return
	}

	hash, err := a.hasher.Hash(r.Context(), req.Password)
	if err != nil {
		a.failure.Handle(w, r, err)
		return
	}

	user := &api.User{
		ID:           api.NewUserID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.EmailAddress,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := a.store.CreateUser(r.Context(), user); err != nil {
		a.failure.Handle(w, r, err)
		return
	}

	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusCreated)
}

// handleNotFound is the catch-all for unmatched routes.
func (a *Adapter) handleNotFound(w http.ResponseWriter, r *http.Request) {
	transport.WriteMessage(w, http.StatusNotFound, "Route Not Found")
}

// fetchOwned fetches the targeted course and runs the ownership gate.
// On NotFound or Forbidden it writes the response and reports false.
func (a *Adapter) fetchOwned(w http.ResponseWriter, r *http.Request) (*api.Course, bool) {
	identity := auth.IdentityFromContext(r.Context())

	course, err := a.store.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			course = nil
		} else {
			a.failure.Handle(w, r, err)
			return nil, false
		}
	}

	switch authz.Decide(identity, course) {
	case authz.NotFound:
		transport.WriteMessage(w, http.StatusNotFound, "Course Not Found")
		return nil, false
	case authz.Forbidden:
		transport.WriteMessage(w, http.StatusForbidden, "Access Denied")
		return nil, false
	}
	return course, true
}

// decode reads a JSON body, enforcing the size limit. On failure it writes
// a 400 and reports false.
func (a *Adapter) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		transport.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
