package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apiusers "github.com/opst/vettracker/pkg/api/types/users"
	"github.com/opst/vettracker/pkg/domain"
	kaccount "github.com/opst/vettracker/pkg/domain/account/db"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	"github.com/opst/vettracker/pkg/imagestore"
	"github.com/opst/vettracker/pkg/utils"
)

func ListVeterinariansHandler(vets kveterinarian.VeterinarianInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := vets.List(c.Request().Context(), domain.VeterinarianQuery{
			Search:       c.QueryParam("search"),
			VerifiedOnly: queryBool(c, "verified"),
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apiusers.ComposeVeterinarian))
	}
}

// ListVerifiedVeterinariansHandler lists verified veterinarians publicly.
func ListVerifiedVeterinariansHandler(vets kveterinarian.VeterinarianInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := vets.List(c.Request().Context(), domain.VeterinarianQuery{VerifiedOnly: true})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apiusers.ComposeVerified))
	}
}

func GetVeterinarianHandler(vets kveterinarian.VeterinarianInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		v, err := vets.Get(c.Request().Context(), id)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apiusers.ComposeVeterinarianDetail(v))
	}
}

type VeterinarianForm struct {
	ProfileForm
	ClinicForm

	// Verified is applied on creation only. Use the verification endpoint for updates.
	Verified bool `json:"verified" form:"verified"`
}

func CreateVeterinarianHandler(vets kveterinarian.VeterinarianInterface, accounts kaccount.AccountInterface, images imagestore.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req := new(VeterinarianForm)
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
		if err := checkAvailable(ctx, accounts, profile, nil); err != nil {
			return err
		}

		img, err := uploadImage(c, images)
		if err != nil {
			return err
		}
		if img == "" {
			img = domain.DefaultImage
		}
		profile.Img = img

		verification := domain.Unverified
		if req.Verified {
			verification = domain.Verified
		}
		by := actor(c)
		created, err := vets.Create(ctx, domain.Veterinarian{
			Profile:      profile,
			Clinic:       req.clinic(),
			Verification: verification,
			Audit:        domain.Audit{CreatedBy: by, UpdatedBy: by},
		})
		if err != nil {
			discardImage(c, images, img)
			return dbError(err)
		}
		return c.JSON(http.StatusCreated, apiusers.ComposeVeterinarian(created))
	}
}

func UpdateVeterinarianHandler(vets kveterinarian.VeterinarianInterface, accounts kaccount.AccountInterface, images imagestore.Store, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		req := new(VeterinarianForm)
		if err := bind(c, req); err != nil {
			return err
		}
		profile, err := req.profile()
		if err != nil {
			return err
		}

		current, err := vets.Get(ctx, id)
		if err != nil {
			return dbError(err)
		}
		if err := checkAvailable(ctx, accounts, profile, &domain.Recipient{Role: domain.RoleVeterinarian, UserId: id}); err != nil {
			return err
		}

		img, err := uploadImage(c, images)
		if err != nil {
			return err
		}
		profile.Img = current.Img
		if img != "" {
			profile.Img = img
		}

		updated, err := vets.Update(ctx, domain.Veterinarian{
			Id:           id,
			Profile:      profile,
			Clinic:       req.clinic(),
			Verification: current.Verification,
			Available:    current.Available,
			Audit:        domain.Audit{UpdatedBy: actor(c)},
		})
		if err != nil {
			if img != "" {
				discardImage(c, images, img)
			}
			return dbError(err)
		}
		if img != "" && current.Img != img {
			discardImage(c, images, current.Img)
		}
		return c.JSON(http.StatusOK, apiusers.ComposeVeterinarian(updated))
	}
}

type VerificationRequest struct {
	Verified bool `json:"verified" form:"verified"`
}

func VerifyVeterinarianHandler(vets kveterinarian.VeterinarianInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		req := new(VerificationRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		verification := domain.Unverified
		if req.Verified {
			verification = domain.Verified
		}
		if err := vets.SetVerification(c.Request().Context(), id, verification, actor(c)); err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, VerificationRequest{Verified: req.Verified})
	}
}

// DeleteVeterinarianHandler deletes a veterinarian. Their pets and records are kept without the veterinarian.
func DeleteVeterinarianHandler(vets kveterinarian.VeterinarianInterface, images imagestore.Store, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		deleted, err := vets.Delete(c.Request().Context(), id)
		if err != nil {
			return dbError(err)
		}
		discardImage(c, images, deleted.Img)
		return c.NoContent(http.StatusNoContent)
	}
}
