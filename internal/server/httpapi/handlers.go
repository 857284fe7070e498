package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/ums/internal/common"
	"github.com/dmitrijs2005/ums/internal/server/models"
	"github.com/gorilla/mux"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	StatusID int64    `json:"statusId"`
	Roles    []string `json:"roles"`
}

type updateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	StatusID int64  `json:"statusId"`
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.auth.Login(r.Context(), req.Username, req.Password)

	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) || errors.Is(err, common.ErrorAccountInactive) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info(r.Context(), "Logged in", "username", req.Username)
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {

	users, err := s.users.List(r.Context())

	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.users.Get(r.Context(), id)

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if req.StatusID == 0 {
		req.StatusID = models.StatusActive
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		StatusID: req.StatusID,
	}

	created, err := s.users.Create(r.Context(), user, req.Password, req.Roles)

	if err != nil {
		if errors.Is(err, common.ErrorConstraintViolation) {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusBadRequest, "could not create user")
		return
	}

	s.logger.Info(r.Context(), "Created user", "username", created.Username)
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StatusID == 0 {
		req.StatusID = models.StatusActive
	}

	user := &models.User{
		Email:    req.Email,
		FullName: req.FullName,
		StatusID: req.StatusID,
	}

	updated, err := s.users.Update(r.Context(), id, user)

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusBadRequest, "could not update user")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListRoles(w http.ResponseWriter, r *http.Request) {

	roles, err := s.users.ListRoles(r.Context())

	if err != nil {
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, roles)
}
