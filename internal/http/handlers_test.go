package http_test

import (
	"encoding/json"
	"net/http"
	"testing"
)

func Test_Register_Login_Status_Logout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/auth/register", `{"email":"a@x.com","password":"StrongP@ss1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register code=%d body=%s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/auth/login", `{"email":"a@x.com","password":"StrongP@ss1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	var lr struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &lr); err != nil || lr.UserID == "" {
		t.Fatalf("login resp parse: %v; body=%s", err, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie on login")
	}

	w = env.do("GET", "/auth/status", "", cookies)
	var st struct {
		LoggedIn bool `json:"loggedIn"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if w.Code != http.StatusOK || !st.LoggedIn {
		t.Fatalf("status after login: code=%d body=%s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/auth/logout", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("logout code=%d body=%s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/auth/status", "", cookies)
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st.LoggedIn {
		t.Fatalf("still logged in after logout: %s", w.Body.String())
	}
}

func Test_Register_ShortPassword_FullFlow(t *testing.T) {
	env := newTestEnv(t)

	// any non-empty password is acceptable at register time
	w := env.do("POST", "/auth/register", `{"email":"a@x.com","password":"pw1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	w = env.do("POST", "/auth/login", `{"email":"a@x.com","password":"pw1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()

	w = env.do("POST", "/api/tasks", `{"title":"HW1","dueDate":"2025-01-01"}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	w = env.do("GET", "/api/tasks", "", cookies)
	var list []struct {
		Title   string `json:"title"`
		DueDate string `json:"dueDate"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 || list[0].Title != "HW1" || list[0].DueDate != "2025-01-01" {
		t.Fatalf("list: %s", w.Body.String())
	}

	// an empty password is still malformed input
	w = env.do("POST", "/auth/register", `{"email":"e@x.com","password":""}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty password register: %d %s", w.Code, w.Body.String())
	}
}

func Test_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/auth/register", `{"email":"dup@x.com","password":"StrongP@ss1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first register: %d %s", w.Code, w.Body.String())
	}
	// different password, same email
	w = env.do("POST", "/auth/register", `{"email":"dup@x.com","password":"OtherP@ss22"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: %d %s", w.Code, w.Body.String())
	}
	var er struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &er)
	if er.Error != "DuplicateEmail" {
		t.Fatalf("want DuplicateEmail, got %q", er.Error)
	}
}

func Test_Login_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_ = env.do("POST", "/auth/register", `{"email":"b@x.com","password":"StrongP@ss1"}`, nil)
	w := env.do("POST", "/auth/login", `{"email":"b@x.com","password":"nope-nope-nope"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong password: %d %s", w.Code, w.Body.String())
	}
	var er struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &er)
	if er.Error != "InvalidCredential" {
		t.Fatalf("want InvalidCredential, got %q", er.Error)
	}

	w = env.do("POST", "/auth/login", `{"email":"ghost@x.com","password":"whatever123"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown email: %d %s", w.Code, w.Body.String())
	}
}

func Test_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t, "cp@x.com", "OldP@ssword1")

	// wrong old password
	w := env.do("POST", "/auth/change-password",
		`{"oldPassword":"wrong-wrong","newPassword":"NewP@ssword2"}`, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong old password: %d %s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/auth/change-password",
		`{"oldPassword":"OldP@ssword1","newPassword":"NewP@ssword2"}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("change password: %d %s", w.Code, w.Body.String())
	}

	// old credential is dead, new one works
	w = env.do("POST", "/auth/login", `{"email":"cp@x.com","password":"OldP@ssword1"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("old password still valid: %d", w.Code)
	}
	w = env.do("POST", "/auth/login", `{"email":"cp@x.com","password":"NewP@ssword2"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new password rejected: %d %s", w.Code, w.Body.String())
	}
}

func Test_ChangePassword_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/auth/change-password",
		`{"oldPassword":"a-password1","newPassword":"b-password2"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d %s", w.Code, w.Body.String())
	}
	var er struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &er)
	if er.Error != "Not authorized" {
		t.Fatalf("want %q, got %q", "Not authorized", er.Error)
	}
}

func Test_Healthz(t *testing.T) {
	env := newTestEnv(t)
	w := env.do("GET", "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: %d %s", w.Code, w.Body.String())
	}
}
