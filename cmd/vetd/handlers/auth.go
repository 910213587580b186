package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apiauth "github.com/opst/vettracker/pkg/api/types/auth"
	"github.com/opst/vettracker/pkg/api/types/misc"
	"github.com/opst/vettracker/pkg/auth/middleware"
	"github.com/opst/vettracker/pkg/auth/password"
	"github.com/opst/vettracker/pkg/auth/resettoken"
	"github.com/opst/vettracker/pkg/domain"
	kaccount "github.com/opst/vettracker/pkg/domain/account/db"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	kowner "github.com/opst/vettracker/pkg/domain/owner/db"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

// TokenIssuer issues tokens for principals.
type TokenIssuer interface {
	Issue(p domain.Principal, ttl time.Duration) (string, time.Time, error)
}

type SessionConfig struct {
	// Admin is the username of the administrator owner.
	Admin string

	Session  time.Duration
	Remember time.Duration
	APIToken time.Duration

	SecureCookie bool
}

// Home is the path where the role lands after login.
func Home(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin"
	case domain.RoleVeterinarian:
		return "/veterinarian"
	default:
		return "/owner"
	}
}

// authenticate finds the user by username or email and checks the password.
//
// Admins, owners and veterinarians are tried in this order.
// Passwords stored in legacy forms are upgraded to bcrypt.
func authenticate(
	ctx context.Context, logger echo.Logger,
	owners kowner.OwnerInterface, vets kveterinarian.VeterinarianInterface,
	admin string, login string, pw string,
) (domain.Principal, error) {
	if o, err := owners.FindByLogin(ctx, login); err == nil {
		if ok, rehash := password.Verify(o.PasswordHash, pw); ok {
			if rehash {
				upgrade(logger, o.UserName, func(hash string) error {
					return owners.UpdatePassword(ctx, o.Id, hash, o.UserName)
				}, pw)
			}
			role := domain.RoleOwner
			if admin != "" && strings.EqualFold(o.UserName, admin) {
				role = domain.RoleAdmin
			}
			return domain.Principal{Role: role, UserId: o.Id, Name: o.UserName}, nil
		}
	} else if !errors.Is(err, kerr.ErrMissing) {
		return domain.Principal{}, xe.Wrap(err)
	}

	v, err := vets.FindByLogin(ctx, login)
	if errors.Is(err, kerr.ErrMissing) {
		return domain.Principal{}, kerr.ErrInvalidCredential
	} else if err != nil {
		return domain.Principal{}, xe.Wrap(err)
	}
	ok, rehash := password.Verify(v.PasswordHash, pw)
	if !ok {
		return domain.Principal{}, kerr.ErrInvalidCredential
	}
	if v.Verification != domain.Verified {
		return domain.Principal{}, kerr.ErrNotVerified
	}
	if rehash {
		upgrade(logger, v.UserName, func(hash string) error {
			return vets.UpdatePassword(ctx, v.Id, hash, v.UserName)
		}, pw)
	}
	return domain.Principal{Role: domain.RoleVeterinarian, UserId: v.Id, Name: v.UserName}, nil
}

func upgrade(logger echo.Logger, user string, save func(hash string) error, pw string) {
	hash, err := password.Hash(pw)
	if err == nil {
		err = save(hash)
	}
	if err != nil {
		logger.Warnf("password of %s is not upgraded: %v", user, err)
	}
}

type LoginRequest struct {
	UserName   string `json:"userName" form:"userName" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe" form:"rememberMe"`
}

// startSession issues a session token for p, and set it as a cookie.
func startSession(c echo.Context, issuer TokenIssuer, conf SessionConfig, p domain.Principal, remember bool, status int) error {
	ttl := conf.Session
	if remember {
		ttl = conf.Remember
	}
	tok, exp, err := issuer.Issue(p, ttl)
	if err != nil {
		return apierr.InternalServerError(err)
	}
	c.SetCookie(middleware.NewSessionCookie(tok, exp, remember, conf.SecureCookie))
	return c.JSON(status, apiauth.Session{
		Token:     tok,
		ExpiresAt: exp,
		Role:      string(p.Role),
		UserId:    p.UserId,
		Name:      p.Name,
		Redirect:  Home(p.Role),
	})
}

func LoginHandler(
	owners kowner.OwnerInterface, vets kveterinarian.VeterinarianInterface,
	issuer TokenIssuer, conf SessionConfig,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(LoginRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		p, err := authenticate(c.Request().Context(), c.Logger(), owners, vets, conf.Admin, req.UserName, req.Password)
		switch {
		case errors.Is(err, kerr.ErrNotVerified):
			return apierr.Forbidden("your account is pending verification")
		case errors.Is(err, kerr.ErrInvalidCredential):
			return apierr.Unauthorized("invalid username or password", nil)
		case err != nil:
			return apierr.InternalServerError(err)
		}
		return startSession(c, issuer, conf, p, req.RememberMe, http.StatusOK)
	}
}

type TokenRequest struct {
	UserName string `json:"userName" form:"userName" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenHandler issues long-lived API tokens. No cookies are set.
func TokenHandler(
	owners kowner.OwnerInterface, vets kveterinarian.VeterinarianInterface,
	issuer TokenIssuer, conf SessionConfig,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(TokenRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		p, err := authenticate(c.Request().Context(), c.Logger(), owners, vets, conf.Admin, req.UserName, req.Password)
		if errors.Is(err, kerr.ErrNotVerified) || errors.Is(err, kerr.ErrInvalidCredential) {
			return apierr.Unauthorized("invalid username or password", nil)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		tok, exp, err := issuer.Issue(p, conf.APIToken)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiauth.Session{
			Token: tok, ExpiresAt: exp, Role: string(p.Role), UserId: p.UserId, Name: p.Name,
		})
	}
}

// ProfileForm is the form of owners and veterinarians.
type ProfileForm struct {
	UserName        string `json:"userName" form:"userName" validate:"required,max=64"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	PhoneNum        string `json:"phoneNum" form:"phoneNum" validate:"omitempty,phone"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	FullName        string `json:"fullName" form:"fullName" validate:"required"`
	Dob             string `json:"dob" form:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender          string `json:"gender" form:"gender"`
}

// profile converts the form into a profile. The password is hashed, if any.
func (f ProfileForm) profile() (domain.Profile, error) {
	if f.Password != f.ConfirmPassword {
		return domain.Profile{}, apierr.BadRequest("password and confirmPassword do not match", nil)
	}
	dob, err := misc.ParseDate(f.Dob)
	if err != nil {
		return domain.Profile{}, apierr.BadRequest("dob should be yyyy-MM-dd", err)
	}
	hash := ""
	if f.Password != "" {
		if hash, err = password.Hash(f.Password); err != nil {
			return domain.Profile{}, apierr.InternalServerError(err)
		}
	}
	return domain.Profile{
		UserName:     strings.TrimSpace(f.UserName),
		Email:        strings.TrimSpace(f.Email),
		PhoneNum:     f.PhoneNum,
		PasswordHash: hash,
		FullName:     f.FullName,
		Dob:          dob,
		Gender:       f.Gender,
	}, nil
}

// ClinicForm is the part of veterinarian forms about their clinic.
type ClinicForm struct {
	NameOfConsultingRoom string `json:"nameOfConsultingRoom" form:"nameOfConsultingRoom"`
	ClinicAddress        string `json:"clinicAddress" form:"clinicAddress"`
	Qualification        string `json:"qualification" form:"qualification"`
	Experience           string `json:"experience" form:"experience"`
}

func (f ClinicForm) clinic() domain.Clinic {
	return domain.Clinic{
		NameOfConsultingRoom: f.NameOfConsultingRoom,
		ClinicAddress:        f.ClinicAddress,
		Qualification:        f.Qualification,
		Experience:           f.Experience,
	}
}

// checkAvailable rejects usernames and emails used by others than except.
func checkAvailable(ctx context.Context, accounts kaccount.AccountInterface, p domain.Profile, except *domain.Recipient) error {
	userNameTaken, emailTaken, err := accounts.Taken(ctx, p.UserName, p.Email, except)
	if err != nil {
		return apierr.InternalServerError(err)
	}
	if userNameTaken {
		return apierr.Conflict("username is already taken: " + p.UserName)
	}
	if emailTaken {
		return apierr.Conflict("email is already registered: " + p.Email)
	}
	return nil
}

// checkNotAdmin rejects userName when it is the administrator's username, case insensitively.
//
// current is the username of the account being updated, if any. The administrator can keep its own name.
func checkNotAdmin(admin string, userName string, current string) error {
	if admin == "" || !strings.EqualFold(userName, admin) || strings.EqualFold(current, admin) {
		return nil
	}
	return apierr.Conflict("username is reserved: " + userName)
}

type RegisterOwnerRequest struct {
	ProfileForm
}

const selfRegistration = "self-registration"

func RegisterOwnerHandler(
	owners kowner.OwnerInterface, accounts kaccount.AccountInterface,
	issuer TokenIssuer, conf SessionConfig,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req := new(RegisterOwnerRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		if req.Password == "" {
			return apierr.BadRequest("password: required", nil)
		}
		profile, err := req.profile()
		if err != nil {
			return err
		}
		if err := checkNotAdmin(conf.Admin, profile.UserName, ""); err != nil {
			return err
		}
		if err := checkAvailable(ctx, accounts, profile, nil); err != nil {
			return err
		}
		profile.Img = domain.DefaultImage

		created, err := owners.Create(ctx, domain.Owner{
			Profile: profile,
			Audit:   domain.Audit{CreatedBy: selfRegistration, UpdatedBy: selfRegistration},
		})
		if err != nil {
			return dbError(err)
		}
		p := domain.Principal{Role: domain.RoleOwner, UserId: created.Id, Name: created.UserName}
		return startSession(c, issuer, conf, p, false, http.StatusCreated)
	}
}

type RegisterVeterinarianRequest struct {
	ProfileForm
	ClinicForm
}

func RegisterVeterinarianHandler(vets kveterinarian.VeterinarianInterface, accounts kaccount.AccountInterface, admin string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req := new(RegisterVeterinarianRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		if req.Password == "" {
			return apierr.BadRequest("password: required", nil)
		}
		profile, err := req.profile()
		if err != nil {
			return err
		}
		if err := checkNotAdmin(admin, profile.UserName, ""); err != nil {
			return err
		}
		if err := checkAvailable(ctx, accounts, profile, nil); err != nil {
			return err
		}
		profile.Img = domain.DefaultImage

		if _, err := vets.Create(ctx, domain.Veterinarian{
			Profile:      profile,
			Clinic:       req.clinic(),
			Verification: domain.Unverified,
			Audit:        domain.Audit{CreatedBy: selfRegistration, UpdatedBy: selfRegistration},
		}); err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusCreated, apiauth.Message{
			Message: "registration is accepted. your account is pending verification by admin.",
		})
	}
}

func LogoutHandler(conf SessionConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetCookie(middleware.ExpiredSessionCookie(conf.SecureCookie))
		return c.JSON(http.StatusOK, apiauth.Message{Message: "logged out"})
	}
}

func MeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, apiauth.ComposeMe(principalOf(c)))
	}
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// ForgotPasswordMessage is the response of forgot-password, whether the email is known or not.
const ForgotPasswordMessage = "if the email is registered, a link to reset the password has been sent."

// ForgotPasswordHandler stores a reset token for the email, and logs the link to reset the password.
//
// resetPage is the URL of the page to reset passwords, receiving "token" and "email" query parameters.
func ForgotPasswordHandler(
	owners kowner.OwnerInterface, vets kveterinarian.VeterinarianInterface,
	resets resettoken.Store, resetPage string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req := new(ForgotPasswordRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		ok := apiauth.Message{Message: ForgotPasswordMessage}

		known, err := emailKnown(ctx, owners, vets, req.Email)
		if err != nil {
			c.Logger().Errorf("forgot-password: %v", err)
			return c.JSON(http.StatusOK, ok)
		}
		if !known {
			return c.JSON(http.StatusOK, ok)
		}

		tok, err := resettoken.NewToken()
		if err == nil {
			err = resets.Put(ctx, tok, req.Email, resettoken.DefaultTTL)
		}
		if err != nil {
			c.Logger().Errorf("forgot-password: reset token is not stored: %v", err)
			return c.JSON(http.StatusOK, ok)
		}
		q := url.Values{"token": {tok}, "email": {req.Email}}
		c.Logger().Infof("password reset link for %s: %s?%s", req.Email, resetPage, q.Encode())
		return c.JSON(http.StatusOK, ok)
	}
}

func emailKnown(ctx context.Context, owners kowner.OwnerInterface, vets kveterinarian.VeterinarianInterface, email string) (bool, error) {
	if _, err := owners.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, kerr.ErrMissing) {
		return false, err
	}
	if _, err := vets.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, kerr.ErrMissing) {
		return false, err
	}
	return false, nil
}

type ResetPasswordRequest struct {
	Token           string `json:"token" form:"token" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
}

func ResetPasswordHandler(
	owners kowner.OwnerInterface, vets kveterinarian.VeterinarianInterface, resets resettoken.Store,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req := new(ResetPasswordRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		if req.Password != req.ConfirmPassword {
			return apierr.BadRequest("password and confirmPassword do not match", nil)
		}

		email, err := resets.Take(ctx, req.Token)
		if errors.Is(err, resettoken.ErrUnknownToken) {
			return apierr.BadRequest("the reset link is invalid or expired", err)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		if !strings.EqualFold(email, req.Email) {
			return apierr.BadRequest("the reset link is invalid or expired", nil)
		}

		hash, err := password.Hash(req.Password)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		const by = "password-reset"
		if o, err := owners.FindByEmail(ctx, email); err == nil {
			if err := owners.UpdatePassword(ctx, o.Id, hash, by); err != nil {
				return dbError(err)
			}
			return c.JSON(http.StatusOK, apiauth.Message{Message: "password is reset"})
		} else if !errors.Is(err, kerr.ErrMissing) {
			return apierr.InternalServerError(err)
		}
		if v, err := vets.FindByEmail(ctx, email); err == nil {
			if err := vets.UpdatePassword(ctx, v.Id, hash, by); err != nil {
				return dbError(err)
			}
			return c.JSON(http.StatusOK, apiauth.Message{Message: "password is reset"})
		} else if !errors.Is(err, kerr.ErrMissing) {
			return apierr.InternalServerError(err)
		}
		return apierr.BadRequest("the reset link is invalid or expired", nil)
	}
}
