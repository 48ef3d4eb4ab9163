package echoapi

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kasanda/chuo/core/user"
	testutil "github.com/kasanda/chuo/tests"
)

func Test_userApi_register(t *testing.T) {
	env := setup(t)

	testutil.CreateUser(t, env.usrRepo, "taken@test.cd", "", user.RoleStudent, true)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte("{}"),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{
				"email": "this field is required",
				"password": "this field is required",
				"role": "this field is required",
				"first_name": "this field is required",
				"last_name": "this field is required"
			}`),
		},
		{
			name: "invalid role",
			body: marchallObj(t, user.NewUser{
				Email: "amani@test.cd", Password: "LeMotDePasse123",
				Role: "headmaster", FirstName: "Amani", LastName: "Kasongo",
			}),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"role": "invalid role"}`),
		},
		{
			name: "email taken",
			body: marchallObj(t, user.NewUser{
				Email: "taken@test.cd", Password: "LeMotDePasse123",
				Role: user.RoleStudent, FirstName: "Amani", LastName: "Kasongo",
			}),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "a user with this email already exists"}`),
		},
		{
			name: "ok",
			body: marchallObj(t, user.NewUser{
				Email: "Amani@test.cd", Password: "LeMotDePasse123",
				Role: user.RoleStudent, FirstName: "Amani", LastName: "Kasongo",
			}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/register"

		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var usr user.User
			unmarchallObj(t, rec.Body.Bytes(), &usr)
			if usr.ID == "" {
				t.Error("created user has no ID")
			}
			if usr.Email != "amani@test.cd" { // lowered
				t.Errorf("email = %q; want %q", usr.Email, "amani@test.cd")
			}
			if !usr.IsActive {
				t.Error("created user is not active")
			}
			if got := rec.Body.String(); strings.Contains(got, "password") {
				t.Errorf("response leaks the password hash: %s", got)
			}
		})
	}
}

func Test_userApi_login(t *testing.T) {
	env := setup(t)

	active := testutil.CreateUser(t, env.usrRepo, "active@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	testutil.CreateUser(t, env.usrRepo, "inactive@test.cd", "LeMotDePasse123", user.RoleStudent, false)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte("{}"),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "this field is required", "password": "this field is required"}`),
		},
		{
			name:     "unknown email",
			body:     marchallObj(t, user.Credentials{Email: "ghost@test.cd", Password: "LeMotDePasse123"}),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, user.Credentials{Email: "active@test.cd", Password: "LeMauvaisMot"}),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "deactivated account",
			body:     marchallObj(t, user.Credentials{Email: "inactive@test.cd", Password: "LeMotDePasse123"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name:     "ok",
			body:     marchallObj(t, user.Credentials{Email: "Active@test.cd", Password: "LeMotDePasse123"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/auth/login"

		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var resp LoginResponse
			unmarchallObj(t, rec.Body.Bytes(), &resp)
			if resp.Token == "" {
				t.Error("login response has no token")
			}
			if resp.User.ID != active.ID {
				t.Errorf("user.ID = %q; want %q", resp.User.ID, active.ID)
			}

			// the token authenticates follow-up requests
			me := env.do(httpTest{method: http.MethodGet, path: "/api/auth/me", token: resp.Token})
			if me.Code != http.StatusOK {
				t.Errorf("GET /auth/me with login token = %v; want %v", me.Code, http.StatusOK)
			}
		})
	}
}

func Test_userApi_me(t *testing.T) {
	env := setup(t)

	usr := testutil.CreateUser(t, env.usrRepo, "moi@test.cd", "LeMotDePasse123", user.RoleTeacher, true)
	token := env.getToken(t, usr)

	expiredClaims := env.tokenSvc.getUserClaims(usr)
	expiredClaims.IssuedAt = time.Now().Add(-2 * time.Hour).Unix()
	expiredClaims.ExpiresAt = time.Now().Add(-time.Hour).Unix()
	expiredToken, err := env.tokenSvc.generateToken(expiredClaims)
	if err != nil {
		t.Fatalf("generateToken() failed: %v", err)
	}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet, path: "/api/auth/me",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "expired token", method: http.MethodGet, path: "/api/auth/me", token: expiredToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "ok", method: http.MethodGet, path: "/api/auth/me", token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, usr),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(tt))
		})
	}
}

func Test_userApi_query(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "admin@test.cd", "LeMotDePasse123", user.RoleAdmin, true)
	student := testutil.CreateUser(t, env.usrRepo, "student@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	adminToken := env.getToken(t, admin)
	studentToken := env.getToken(t, student)

	tests := []httpTest{
		{
			name: "auth required",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "admin only", token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "ok", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, []user.User{admin, student}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/users"

		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(tt))
		})
	}
}

func Test_userApi_updateStatus(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "admin@test.cd", "LeMotDePasse123", user.RoleAdmin, true)
	target := testutil.CreateUser(t, env.usrRepo, "target@test.cd", "LeMotDePasse123", user.RoleStudent, true)
	adminToken := env.getToken(t, admin)
	targetToken := env.getToken(t, target)

	tests := []httpTest{
		{
			name: "admin only", method: http.MethodPatch,
			path: "/api/users/" + admin.ID + "/status?is_active=false", token: targetToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "invalid flag", method: http.MethodPatch,
			path: "/api/users/" + target.ID + "/status?is_active=maybe", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"is_active": "must be a boolean"}`),
		},
		{
			name: "unknown user", method: http.MethodPatch,
			path: "/api/users/nope/status?is_active=false", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "deactivate", method: http.MethodPatch,
			path: "/api/users/" + target.ID + "/status?is_active=false", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "User status updated successfully"}),
		},
		{
			// token stays valid but the live record now gates the request
			name: "deactivated account is locked out", method: http.MethodGet,
			path: "/api/auth/me", token: targetToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "reactivate", method: http.MethodPatch,
			path: "/api/users/" + target.ID + "/status?is_active=true", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "User status updated successfully"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, env.do(tt))
		})
	}
}
