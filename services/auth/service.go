// Package auth checks the single configured account and issues opaque bearer tokens.
// Tokens are not verifiable: any non-empty bearer value is accepted downstream.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartstudy/logger"
	"smartstudy/models"
)

const RoleStudent = "student"

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	username string
	password string
	now      func() time.Time
	log      *logger.Logger
}

func NewService(username, password string, log *logger.Logger) *Service {
	return &Service{username: username, password: password, now: time.Now, log: log}
}

// Login returns a token for the configured account and ErrInvalidCredentials otherwise.
func (s *Service) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.password)) == 1
	if !userOK || !passOK {
		s.log.Warn("Login rejected", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	s.log.Info("Login succeeded", "username", req.Username)
	return &models.LoginResponse{
		Success: true,
		Token:   IssueToken(req.Username, s.now()),
		Message: "Login successful",
		User:    &models.User{Username: req.Username, Role: RoleStudent},
	}, nil
}

// IssueToken encodes "username:unix-millis" in standard base64.
func IssueToken(username string, at time.Time) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%d", username, at.UnixMilli())))
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
