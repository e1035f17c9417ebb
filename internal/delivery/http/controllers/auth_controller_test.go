package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	signUpErr error
	loginErr  error
	getErr    error

	lastEmail    string
	lastName     string
	lastPassword string
}

func (f *fakeUserService) SignUp(_ context.Context, email, name, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastName, f.lastPassword = email, name, password
	if f.signUpErr != nil {
		return "", nil, f.signUpErr
	}
	return "token-abc", &domain.User{ID: "user-1", Email: email, Name: name}, nil
}

func (f *fakeUserService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "token-abc", &domain.User{ID: "user-1", Email: email}, nil
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.User{ID: id}, nil
}

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"ana@example.com","password":"s3cretpass","name":"Ana"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing email",
			body:           `{"password":"s3cretpass","name":"Ana"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "email is required",
		},
		{
			name:           "malformed email",
			body:           `{"email":"not-an-email","password":"s3cretpass","name":"Ana"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid email format",
		},
		{
			name:           "short password",
			body:           `{"email":"ana@example.com","password":"short","name":"Ana"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "password must be at least 8 characters",
		},
		{
			name:           "missing name",
			body:           `{"email":"ana@example.com","password":"s3cretpass"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "name is required",
		},
		{
			name:           "duplicate email conflicts",
			body:           `{"email":"ana@example.com","password":"s3cretpass","name":"Ana"}`,
			fakeErr:        domain.ErrDuplicateEmail,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "email already registered",
		},
		{
			name:           "service error",
			body:           `{"email":"ana@example.com","password":"s3cretpass","name":"Ana"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{signUpErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var resp AuthResponse
				require.NoError(t, json.Unmarshal(dataBytes, &resp))
				assert.Equal(t, "token-abc", resp.Token)
				assert.Equal(t, "Bearer", resp.TokenType)
				require.NotNil(t, resp.User)
				assert.Equal(t, "ana@example.com", resp.User.Email)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"ana@example.com","password":"s3cretpass"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "missing password",
			body:           `{"email":"ana@example.com"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "password is required",
		},
		{
			name:           "bad credentials",
			body:           `{"email":"ana@example.com","password":"wrongpass"}`,
			fakeErr:        domain.ErrInvalidCredentials,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "invalid email or password",
		},
		{
			name:           "service error",
			body:           `{"email":"ana@example.com","password":"s3cretpass"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUserService{loginErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var resp AuthResponse
				require.NoError(t, json.Unmarshal(dataBytes, &resp))
				assert.Equal(t, "token-abc", resp.Token)
				assert.Equal(t, "ana@example.com", fake.lastEmail)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}
