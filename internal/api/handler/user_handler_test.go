package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
)

type stubUserService struct {
	listFn   func(ctx context.Context, role domain.Role) ([]*domain.User, error)
	getFn    func(ctx context.Context, id int64) (*domain.User, error)
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubUserService) List(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.listFn(ctx, role)
}

func (s *stubUserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func TestUserHandler_List_RoleFilter(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		listFn: func(ctx context.Context, role domain.Role) ([]*domain.User, error) {
			if role != domain.RoleBuyer {
				t.Fatalf("expected buyer filter, got %q", role)
			}
			return []*domain.User{{ID: 2, Username: "bob", PasswordHash: "$2a$10$hidden", Role: domain.RoleBuyer}}, nil
		},
	})

	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/users?role=buyer", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "hidden") {
		t.Fatalf("credential leaked: %s", rec.Body.String())
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["username"] != "bob" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Create(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			if in.Username != "carol" || in.Password != "pw" || in.Role != domain.RoleManager || in.IsActive != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 3, Username: in.Username, Email: in.Email, Role: in.Role, IsActive: true}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/users", `{"username":"carol","email":"carol@example.com","password":"pw","role":"manager"}`), rec)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pw") {
		t.Fatalf("password echoed back: %s", rec.Body.String())
	}
}

func TestUserHandler_Create_Validation(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{})

	bodies := []string{
		`{"email":"a@example.com","password":"pw"}`,
		`{"username":"a","email":"not-an-email","password":"pw"}`,
		`{"username":"a","email":"a@example.com","password":"pw","role":"owner"}`,
	}
	for _, body := range bodies {
		c := e.NewContext(jsonRequest(http.MethodPost, "/users", body), httptest.NewRecorder())
		if code := httpCode(t, h.Create(c)); code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", body, code)
		}
	}
}

func TestUserHandler_Create_Conflict(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		createFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			return nil, domain.Conflict(domain.MsgUsernameTaken)
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/users", `{"username":"a","email":"a@example.com","password":"pw"}`), httptest.NewRecorder())
	if err := h.Create(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserHandler_Update_Partial(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		updateFn: func(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
			if id != 4 || in.Role == nil || *in.Role != domain.RoleAdmin {
				t.Fatalf("unexpected input: %d %+v", id, in)
			}
			if in.Username != nil || in.Email != nil || in.Password != nil || in.IsActive != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			return &domain.User{ID: id, Username: "dave", Role: *in.Role}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(jsonRequest(http.MethodPut, "/users/4", `{"role":"admin"}`), rec), "4")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_GetAndDelete_NotFound(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		getFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return nil, domain.NotFound("User not found")
		},
		deleteFn: func(ctx context.Context, id int64) error {
			return domain.NotFound("User not found")
		},
	})

	c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/users/8", nil), httptest.NewRecorder()), "8")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c = withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/users/8", nil), httptest.NewRecorder()), "8")
	if err := h.Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	err := NewValidator().Validate(&changePasswordRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "current_password is required") {
		t.Fatalf("unexpected message: %v", err)
	}
}
