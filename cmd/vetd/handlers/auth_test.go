package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/opst/vettracker/cmd/vetd/handlers"
	httptestutil "github.com/opst/vettracker/internal/testutils/http"
	apiauth "github.com/opst/vettracker/pkg/api/types/auth"
	"github.com/opst/vettracker/pkg/auth/middleware"
	"github.com/opst/vettracker/pkg/auth/password"
	"github.com/opst/vettracker/pkg/auth/resettoken"
	"github.com/opst/vettracker/pkg/domain"
	accountmock "github.com/opst/vettracker/pkg/domain/account/db/mock"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	ownermock "github.com/opst/vettracker/pkg/domain/owner/db/mock"
	vetmock "github.com/opst/vettracker/pkg/domain/veterinarian/db/mock"
	"github.com/opst/vettracker/pkg/utils/try"
)

var sessionConfig = handlers.SessionConfig{
	Admin:    "admin",
	Session:  30 * time.Minute,
	Remember: 30 * 24 * time.Hour,
	APIToken: 30 * 24 * time.Hour,
}

func TestHome(t *testing.T) {
	for role, want := range map[domain.Role]string{
		domain.RoleAdmin:        "/admin",
		domain.RoleVeterinarian: "/veterinarian",
		domain.RoleOwner:        "/owner",
	} {
		if got := handlers.Home(role); got != want {
			t.Errorf("Home(%s): (actual, expected) = (%s, %s)", role, got, want)
		}
	}
}

func TestLoginHandler(t *testing.T) {
	expiry := time.Date(2026, 10, 14, 12, 30, 0, 0, jst)
	hash := try.To(password.Hash("s3cret")).OrFatal(t)

	type when struct {
		body    handlers.LoginRequest
		owner   func(context.Context, string) (domain.Owner, error)
		vet     func(context.Context, string) (domain.Veterinarian, error)
	}
	type then struct {
		principal domain.Principal
		ttl       time.Duration
		redirect  string
		persisted bool
	}

	missingOwner := func(context.Context, string) (domain.Owner, error) {
		return domain.Owner{}, kerr.ErrMissing
	}
	missingVet := func(context.Context, string) (domain.Veterinarian, error) {
		return domain.Veterinarian{}, kerr.ErrMissing
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			owners := ownermock.NewOwnerInterface()
			owners.Impl.FindByLogin = when.owner
			vets := vetmock.NewVeterinarianInterface()
			vets.Impl.FindByLogin = when.vet
			issuer := &fakeIssuer{expiry: expiry}

			e := newEcho()
			c, resp := httptestutil.Post(
				e, "/api/auth/login", httptestutil.JSON(when.body),
				httptestutil.ContentType(echo.MIMEApplicationJSON),
			)
			if err := handlers.LoginHandler(owners, vets, issuer, sessionConfig)(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Code != http.StatusOK {
				t.Errorf("status code: %d", resp.Code)
			}

			want := []issued{{Principal: then.principal, TTL: then.ttl}}
			if diff := cmp.Diff(want, issuer.calls); diff != "" {
				t.Errorf("issued (-want +got):\n%s", diff)
			}

			got := apiauth.Session{}
			if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got.Redirect != then.redirect || got.UserId != then.principal.UserId || got.Role != string(then.principal.Role) {
				t.Errorf("unexpected session: %+v", got)
			}

			cookies := resp.Result().Cookies()
			if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookie {
				t.Fatalf("session cookie is not set: %+v", cookies)
			}
			if persisted := !cookies[0].Expires.IsZero(); persisted != then.persisted {
				t.Errorf("cookie persistence: (actual, expected) = (%v, %v)", persisted, then.persisted)
			}
		}
	}

	t.Run("When an owner logs in with the right password, it should start an owner session", theory(
		when{
			body: handlers.LoginRequest{UserName: "alice", Password: "s3cret"},
			owner: func(context.Context, string) (domain.Owner, error) {
				return domain.Owner{Id: 3, Profile: domain.Profile{UserName: "alice", PasswordHash: hash}}, nil
			},
		},
		then{
			principal: domain.Principal{Role: domain.RoleOwner, UserId: 3, Name: "alice"},
			ttl:       sessionConfig.Session,
			redirect:  "/owner",
		},
	))

	t.Run("When the admin logs in remembering, it should start a long admin session", theory(
		when{
			body: handlers.LoginRequest{UserName: "admin@example.com", Password: "s3cret", RememberMe: true},
			owner: func(context.Context, string) (domain.Owner, error) {
				return domain.Owner{Id: 1, Profile: domain.Profile{UserName: "admin", PasswordHash: hash}}, nil
			},
		},
		then{
			principal: domain.Principal{Role: domain.RoleAdmin, UserId: 1, Name: "admin"},
			ttl:       sessionConfig.Remember,
			redirect:  "/admin",
			persisted: true,
		},
	))

	t.Run("When a verified veterinarian logs in, it should start a veterinarian session", theory(
		when{
			body:  handlers.LoginRequest{UserName: "drbob", Password: "s3cret"},
			owner: missingOwner,
			vet: func(context.Context, string) (domain.Veterinarian, error) {
				return domain.Veterinarian{
					Id: 7, Profile: domain.Profile{UserName: "drbob", PasswordHash: hash},
					Verification: domain.Verified,
				}, nil
			},
		},
		then{
			principal: domain.Principal{Role: domain.RoleVeterinarian, UserId: 7, Name: "drbob"},
			ttl:       sessionConfig.Session,
			redirect:  "/veterinarian",
		},
	))

	t.Run("When an owner has a legacy password, it should log in and upgrade the password", func(t *testing.T) {
		owners := ownermock.NewOwnerInterface()
		owners.Impl.FindByLogin = func(context.Context, string) (domain.Owner, error) {
			return domain.Owner{Id: 3, Profile: domain.Profile{UserName: "alice", PasswordHash: "plain-text"}}, nil
		}
		owners.Impl.UpdatePassword = func(context.Context, int, string, string) error { return nil }
		vets := vetmock.NewVeterinarianInterface()

		e := newEcho()
		c, resp := httptestutil.Post(
			e, "/api/auth/login",
			httptestutil.JSON(handlers.LoginRequest{UserName: "alice", Password: "plain-text"}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		if err := handlers.LoginHandler(owners, vets, &fakeIssuer{expiry: expiry}, sessionConfig)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d", resp.Code)
		}
		if owners.Calls.UpdatePassword.Times() != 1 {
			t.Fatalf("password is not upgraded")
		}
		upd := owners.Calls.UpdatePassword[0]
		if upd.Id != 3 || !strings.HasPrefix(upd.PasswordHash, "$2") {
			t.Errorf("unexpected upgrade: %+v", upd)
		}
		if ok, rehash := password.Verify(upd.PasswordHash, "plain-text"); !ok || rehash {
			t.Errorf("upgraded hash does not verify: ok=%v rehash=%v", ok, rehash)
		}
	})

	for name, testcase := range map[string]struct {
		login handlers.LoginRequest
		owner func(context.Context, string) (domain.Owner, error)
		vet   func(context.Context, string) (domain.Veterinarian, error)
		code  int
	}{
		"the password is wrong": {
			login: handlers.LoginRequest{UserName: "alice", Password: "wrong"},
			owner: func(context.Context, string) (domain.Owner, error) {
				return domain.Owner{Id: 3, Profile: domain.Profile{UserName: "alice", PasswordHash: hash}}, nil
			},
			vet:  missingVet,
			code: http.StatusUnauthorized,
		},
		"the user is unknown": {
			login: handlers.LoginRequest{UserName: "nobody", Password: "s3cret"},
			owner: missingOwner,
			vet:   missingVet,
			code:  http.StatusUnauthorized,
		},
		"the veterinarian is not verified": {
			login: handlers.LoginRequest{UserName: "drbob", Password: "s3cret"},
			owner: missingOwner,
			vet: func(context.Context, string) (domain.Veterinarian, error) {
				return domain.Veterinarian{
					Id: 7, Profile: domain.Profile{UserName: "drbob", PasswordHash: hash},
					Verification: domain.Unverified,
				}, nil
			},
			code: http.StatusForbidden,
		},
	} {
		t.Run("When "+name+", it should not start a session", func(t *testing.T) {
			owners := ownermock.NewOwnerInterface()
			owners.Impl.FindByLogin = testcase.owner
			vets := vetmock.NewVeterinarianInterface()
			vets.Impl.FindByLogin = testcase.vet
			issuer := &fakeIssuer{expiry: expiry}

			e := newEcho()
			c, _ := httptestutil.Post(
				e, "/api/auth/login", httptestutil.JSON(testcase.login),
				httptestutil.ContentType(echo.MIMEApplicationJSON),
			)
			err := handlers.LoginHandler(owners, vets, issuer, sessionConfig)(c)
			assertHTTPError(t, err, testcase.code)
			if len(issuer.calls) != 0 {
				t.Errorf("token is issued: %+v", issuer.calls)
			}
		})
	}

	t.Run("When the request lacks the password, it should be a bad request", func(t *testing.T) {
		e := newEcho()
		c, _ := httptestutil.Post(
			e, "/api/auth/login",
			httptestutil.JSON(map[string]string{"userName": "alice"}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		err := handlers.LoginHandler(
			ownermock.NewOwnerInterface(), vetmock.NewVeterinarianInterface(), &fakeIssuer{}, sessionConfig,
		)(c)
		assertHTTPError(t, err, http.StatusBadRequest)
	})
}

func TestTokenHandler(t *testing.T) {
	hash := try.To(password.Hash("s3cret")).OrFatal(t)

	t.Run("When an owner asks a token, it should issue an API token without cookies", func(t *testing.T) {
		owners := ownermock.NewOwnerInterface()
		owners.Impl.FindByLogin = func(context.Context, string) (domain.Owner, error) {
			return domain.Owner{Id: 3, Profile: domain.Profile{UserName: "alice", PasswordHash: hash}}, nil
		}
		issuer := &fakeIssuer{}

		e := newEcho()
		c, resp := httptestutil.Post(
			e, "/api/auth/token",
			httptestutil.JSON(handlers.TokenRequest{UserName: "alice", Password: "s3cret"}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		if err := handlers.TokenHandler(owners, vetmock.NewVeterinarianInterface(), issuer, sessionConfig)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []issued{{
			Principal: domain.Principal{Role: domain.RoleOwner, UserId: 3, Name: "alice"},
			TTL:       sessionConfig.APIToken,
		}}
		if diff := cmp.Diff(want, issuer.calls); diff != "" {
			t.Errorf("issued (-want +got):\n%s", diff)
		}
		if cookies := resp.Result().Cookies(); len(cookies) != 0 {
			t.Errorf("cookies are set: %+v", cookies)
		}
	})

	t.Run("When the veterinarian is not verified, it should be unauthorized", func(t *testing.T) {
		owners := ownermock.NewOwnerInterface()
		owners.Impl.FindByLogin = func(context.Context, string) (domain.Owner, error) {
			return domain.Owner{}, kerr.ErrMissing
		}
		vets := vetmock.NewVeterinarianInterface()
		vets.Impl.FindByLogin = func(context.Context, string) (domain.Veterinarian, error) {
			return domain.Veterinarian{Id: 7, Profile: domain.Profile{PasswordHash: hash}}, nil
		}

		e := newEcho()
		c, _ := httptestutil.Post(
			e, "/api/auth/token",
			httptestutil.JSON(handlers.TokenRequest{UserName: "drbob", Password: "s3cret"}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		err := handlers.TokenHandler(owners, vets, &fakeIssuer{}, sessionConfig)(c)
		assertHTTPError(t, err, http.StatusUnauthorized)
	})
}

func TestRegisterOwnerHandler(t *testing.T) {
	form := map[string]string{
		"userName": "alice", "email": "alice@example.com",
		"password": "s3cret", "confirmPassword": "s3cret",
		"fullName": "Alice Liddell", "dob": "1990-04-01", "phoneNum": "+81 90-1234-5678",
	}

	t.Run("When a new owner registers, it should create the owner with a session", func(t *testing.T) {
		owners := ownermock.NewOwnerInterface()
		owners.Impl.Create = func(_ context.Context, o domain.Owner) (domain.Owner, error) {
			o.Id = 12
			return o, nil
		}
		accounts := accountmock.NewAccountInterface()
		accounts.Impl.Taken = func(context.Context, string, string, *domain.Recipient) (bool, bool, error) {
			return false, false, nil
		}
		issuer := &fakeIssuer{}

		e := newEcho()
		c, resp := httptestutil.Post(
			e, "/api/auth/register/owner", httptestutil.JSON(form),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		if err := handlers.RegisterOwnerHandler(owners, accounts, issuer, sessionConfig)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("status code: %d", resp.Code)
		}

		if owners.Calls.Create.Times() != 1 {
			t.Fatalf("owner is not created")
		}
		created := owners.Calls.Create[0]
		if created.UserName != "alice" || created.Email != "alice@example.com" || created.FullName != "Alice Liddell" {
			t.Errorf("unexpected owner: %+v", created)
		}
		if created.Img != domain.DefaultImage {
			t.Errorf("image should be the default: %s", created.Img)
		}
		if created.Dob == nil || created.Dob.Format("2006-01-02") != "1990-04-01" {
			t.Errorf("unexpected dob: %v", created.Dob)
		}
		if ok, _ := password.Verify(created.PasswordHash, "s3cret"); !ok {
			t.Errorf("password is not hashed: %s", created.PasswordHash)
		}
		if created.CreatedBy != "self-registration" {
			t.Errorf("unexpected creator: %s", created.CreatedBy)
		}
		if len(issuer.calls) != 1 || issuer.calls[0].Principal.UserId != 12 {
			t.Errorf("unexpected session: %+v", issuer.calls)
		}
	})

	for name, testcase := range map[string]struct {
		form     map[string]string
		userName bool
		email    bool
		code     int
	}{
		"the username is taken": {form: form, userName: true, code: http.StatusConflict},
		"the username is the administrator's one": {
			form: map[string]string{
				"userName": "Admin", "email": "mallory@example.com",
				"password": "s3cret", "confirmPassword": "s3cret", "fullName": "Mallory",
			},
			code: http.StatusConflict,
		},
		"the email is taken":    {form: form, email: true, code: http.StatusConflict},
		"passwords do not match": {
			form: map[string]string{
				"userName": "alice", "email": "alice@example.com",
				"password": "s3cret", "confirmPassword": "secret", "fullName": "Alice",
			},
			code: http.StatusBadRequest,
		},
		"the email is malformed": {
			form: map[string]string{
				"userName": "alice", "email": "alice", "password": "s", "confirmPassword": "s", "fullName": "Alice",
			},
			code: http.StatusBadRequest,
		},
		"the password is missing": {
			form: map[string]string{"userName": "alice", "email": "alice@example.com", "fullName": "Alice"},
			code: http.StatusBadRequest,
		},
	} {
		t.Run("When "+name+", it should not create the owner", func(t *testing.T) {
			owners := ownermock.NewOwnerInterface()
			accounts := accountmock.NewAccountInterface()
			accounts.Impl.Taken = func(context.Context, string, string, *domain.Recipient) (bool, bool, error) {
				return testcase.userName, testcase.email, nil
			}

			e := newEcho()
			c, _ := httptestutil.Post(
				e, "/api/auth/register/owner", httptestutil.JSON(testcase.form),
				httptestutil.ContentType(echo.MIMEApplicationJSON),
			)
			err := handlers.RegisterOwnerHandler(owners, accounts, &fakeIssuer{}, sessionConfig)(c)
			assertHTTPError(t, err, testcase.code)
			if owners.Calls.Create.Times() != 0 {
				t.Errorf("owner is created")
			}
		})
	}
}

func TestRegisterVeterinarianHandler(t *testing.T) {
	t.Run("When a veterinarian registers, it should create an unverified veterinarian", func(t *testing.T) {
		vets := vetmock.NewVeterinarianInterface()
		vets.Impl.Create = func(_ context.Context, v domain.Veterinarian) (domain.Veterinarian, error) {
			v.Id = 5
			return v, nil
		}
		accounts := accountmock.NewAccountInterface()
		accounts.Impl.Taken = func(context.Context, string, string, *domain.Recipient) (bool, bool, error) {
			return false, false, nil
		}

		body, ctyp := httptestutil.Multipart(map[string]string{
			"userName": "drbob", "email": "bob@example.com",
			"password": "s3cret", "confirmPassword": "s3cret", "fullName": "Bob",
			"nameOfConsultingRoom": "Room 1", "clinicAddress": "1-2-3 Tokyo",
			"qualification": "DVM", "experience": "10 years",
		})
		e := newEcho()
		c, resp := httptestutil.Post(e, "/api/auth/register/veterinarian", body, ctyp)
		if err := handlers.RegisterVeterinarianHandler(vets, accounts, "admin")(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("status code: %d", resp.Code)
		}
		if vets.Calls.Create.Times() != 1 {
			t.Fatal("veterinarian is not created")
		}
		created := vets.Calls.Create[0]
		if created.Verification != domain.Unverified {
			t.Errorf("veterinarian should be unverified: %v", created.Verification)
		}
		want := domain.Clinic{
			NameOfConsultingRoom: "Room 1", ClinicAddress: "1-2-3 Tokyo",
			Qualification: "DVM", Experience: "10 years",
		}
		if diff := cmp.Diff(want, created.Clinic); diff != "" {
			t.Errorf("clinic (-want +got):\n%s", diff)
		}
		if cookies := resp.Result().Cookies(); len(cookies) != 0 {
			t.Errorf("veterinarians should not be logged in: %+v", cookies)
		}
	})

	t.Run("When a veterinarian registers as the administrator's username, it should be a conflict", func(t *testing.T) {
		vets := vetmock.NewVeterinarianInterface()
		accounts := accountmock.NewAccountInterface()
		accounts.Impl.Taken = func(context.Context, string, string, *domain.Recipient) (bool, bool, error) {
			return false, false, nil
		}

		body, ctyp := httptestutil.Multipart(map[string]string{
			"userName": "admin", "email": "mallory@example.com",
			"password": "s3cret", "confirmPassword": "s3cret", "fullName": "Mallory",
		})
		e := newEcho()
		c, _ := httptestutil.Post(e, "/api/auth/register/veterinarian", body, ctyp)
		assertHTTPError(t, handlers.RegisterVeterinarianHandler(vets, accounts, "admin")(c), http.StatusConflict)
		if vets.Calls.Create.Times() != 0 {
			t.Error("veterinarian is created")
		}
	})
}

func TestLogoutHandler(t *testing.T) {
	e := newEcho()
	c, resp := httptestutil.Post(e, "/api/auth/logout", nil)
	if err := handlers.LogoutHandler(sessionConfig)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookie || cookies[0].MaxAge >= 0 {
		t.Errorf("session cookie is not expired: %+v", cookies)
	}
}

func TestMeHandler(t *testing.T) {
	e := newEcho()
	c, resp := httptestutil.Get(e, "/api/auth/me")
	as(c, domain.RoleVeterinarian, 7, "drbob")
	if err := handlers.MeHandler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := apiauth.Me{}
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := apiauth.Me{Role: "veterinarian", UserId: 7, Name: "drbob"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("me (-want +got):\n%s", diff)
	}
}

type recordingResets struct {
	resettoken.Store
	puts []string
}

func (r *recordingResets) Put(ctx context.Context, tok string, email string, ttl time.Duration) error {
	r.puts = append(r.puts, email)
	return r.Store.Put(ctx, tok, email, ttl)
}

func TestForgotPasswordHandler(t *testing.T) {
	for name, testcase := range map[string]struct {
		owner func(context.Context, string) (domain.Owner, error)
		vet   func(context.Context, string) (domain.Veterinarian, error)
		puts  []string
	}{
		"an owner has the email": {
			owner: func(context.Context, string) (domain.Owner, error) { return domain.Owner{Id: 3}, nil },
			puts:  []string{"alice@example.com"},
		},
		"a veterinarian has the email": {
			owner: func(context.Context, string) (domain.Owner, error) { return domain.Owner{}, kerr.ErrMissing },
			vet:   func(context.Context, string) (domain.Veterinarian, error) { return domain.Veterinarian{Id: 7}, nil },
			puts:  []string{"alice@example.com"},
		},
		"nobody has the email": {
			owner: func(context.Context, string) (domain.Owner, error) { return domain.Owner{}, kerr.ErrMissing },
			vet:   func(context.Context, string) (domain.Veterinarian, error) { return domain.Veterinarian{}, kerr.ErrMissing },
		},
	} {
		t.Run("When "+name+", it should respond the same message", func(t *testing.T) {
			owners := ownermock.NewOwnerInterface()
			owners.Impl.FindByEmail = testcase.owner
			vets := vetmock.NewVeterinarianInterface()
			vets.Impl.FindByEmail = testcase.vet
			resets := &recordingResets{Store: resettoken.Memory()}

			e := newEcho()
			c, resp := httptestutil.Post(
				e, "/api/auth/forgot-password",
				httptestutil.JSON(handlers.ForgotPasswordRequest{Email: "alice@example.com"}),
				httptestutil.ContentType(echo.MIMEApplicationJSON),
			)
			if err := handlers.ForgotPasswordHandler(owners, vets, resets, "/reset-password")(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Code != http.StatusOK {
				t.Errorf("status code: %d", resp.Code)
			}
			got := apiauth.Message{}
			if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got.Message != handlers.ForgotPasswordMessage {
				t.Errorf("unexpected message: %s", got.Message)
			}
			if diff := cmp.Diff(testcase.puts, resets.puts); diff != "" {
				t.Errorf("reset tokens (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResetPasswordHandler(t *testing.T) {
	request := func(tok, email string) handlers.ResetPasswordRequest {
		return handlers.ResetPasswordRequest{Token: tok, Email: email, Password: "n3w", ConfirmPassword: "n3w"}
	}

	t.Run("When the token maps to the email of an owner, it should reset the password of the owner", func(t *testing.T) {
		ctx := context.Background()
		resets := resettoken.Memory()
		if err := resets.Put(ctx, "tok", "alice@example.com", time.Hour); err != nil {
			t.Fatal(err)
		}
		owners := ownermock.NewOwnerInterface()
		owners.Impl.FindByEmail = func(context.Context, string) (domain.Owner, error) { return domain.Owner{Id: 3}, nil }
		owners.Impl.UpdatePassword = func(context.Context, int, string, string) error { return nil }

		e := newEcho()
		c, resp := httptestutil.Post(
			e, "/api/auth/reset-password", httptestutil.JSON(request("tok", "Alice@Example.com")),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		if err := handlers.ResetPasswordHandler(owners, vetmock.NewVeterinarianInterface(), resets)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d", resp.Code)
		}
		if owners.Calls.UpdatePassword.Times() != 1 {
			t.Fatal("password is not updated")
		}
		upd := owners.Calls.UpdatePassword[0]
		if ok, _ := password.Verify(upd.PasswordHash, "n3w"); !ok || upd.Id != 3 || upd.UpdatedBy != "password-reset" {
			t.Errorf("unexpected update: %+v", upd)
		}

		if _, err := resets.Take(ctx, "tok"); err == nil {
			t.Errorf("token should be used up")
		}
	})

	t.Run("When the token maps to the email of a veterinarian, it should reset the password of the veterinarian", func(t *testing.T) {
		resets := resettoken.Memory()
		if err := resets.Put(context.Background(), "tok", "bob@example.com", time.Hour); err != nil {
			t.Fatal(err)
		}
		owners := ownermock.NewOwnerInterface()
		owners.Impl.FindByEmail = func(context.Context, string) (domain.Owner, error) { return domain.Owner{}, kerr.ErrMissing }
		vets := vetmock.NewVeterinarianInterface()
		vets.Impl.FindByEmail = func(context.Context, string) (domain.Veterinarian, error) { return domain.Veterinarian{Id: 7}, nil }
		vets.Impl.UpdatePassword = func(context.Context, int, string, string) error { return nil }

		e := newEcho()
		c, _ := httptestutil.Post(
			e, "/api/auth/reset-password", httptestutil.JSON(request("tok", "bob@example.com")),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		if err := handlers.ResetPasswordHandler(owners, vets, resets)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vets.Calls.UpdatePassword.Times() != 1 || vets.Calls.UpdatePassword[0].Id != 7 {
			t.Errorf("unexpected updates: %+v", vets.Calls.UpdatePassword)
		}
	})

	for name, testcase := range map[string]struct {
		stored  string
		request handlers.ResetPasswordRequest
	}{
		"the token is unknown": {
			stored:  "alice@example.com",
			request: request("another", "alice@example.com"),
		},
		"the token is for another email": {
			stored:  "alice@example.com",
			request: request("tok", "mallory@example.com"),
		},
		"passwords do not match": {
			stored: "alice@example.com",
			request: handlers.ResetPasswordRequest{
				Token: "tok", Email: "alice@example.com", Password: "a", ConfirmPassword: "b",
			},
		},
	} {
		t.Run("When "+name+", it should be a bad request", func(t *testing.T) {
			resets := resettoken.Memory()
			if err := resets.Put(context.Background(), "tok", testcase.stored, time.Hour); err != nil {
				t.Fatal(err)
			}
			owners := ownermock.NewOwnerInterface()

			e := newEcho()
			c, _ := httptestutil.Post(
				e, "/api/auth/reset-password", httptestutil.JSON(testcase.request),
				httptestutil.ContentType(echo.MIMEApplicationJSON),
			)
			err := handlers.ResetPasswordHandler(owners, vetmock.NewVeterinarianInterface(), resets)(c)
			assertHTTPError(t, err, http.StatusBadRequest)
			if owners.Calls.UpdatePassword.Times() != 0 {
				t.Error("password is updated")
			}
		})
	}
}
