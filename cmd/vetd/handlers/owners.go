package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apiusers "github.com/opst/vettracker/pkg/api/types/users"
	"github.com/opst/vettracker/pkg/domain"
	kaccount "github.com/opst/vettracker/pkg/domain/account/db"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	kowner "github.com/opst/vettracker/pkg/domain/owner/db"
	"github.com/opst/vettracker/pkg/imagestore"
)

func ListOwnersHandler(owners kowner.OwnerInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := domain.OwnerQuery{
			Search: c.QueryParam("search"),
			Sort:   domain.AsOwnerSort(c.QueryParam("sort")),
			Page:   queryInt(c, "page", 1),
		}
		page, err := owners.List(c.Request().Context(), q)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiusers.ComposeOwnerPage(page, q))
	}
}

func GetOwnerHandler(owners kowner.OwnerInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		o, err := owners.Get(c.Request().Context(), id)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apiusers.ComposeOwnerDetail(o))
	}
}

type OwnerForm struct {
	ProfileForm
}

// CreateOwnerHandler creates an owner. admin is the reserved username of the administrator.
func CreateOwnerHandler(owners kowner.OwnerInterface, accounts kaccount.AccountInterface, images imagestore.Store, admin string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req := new(OwnerForm)
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

		img, err := uploadImage(c, images)
		if err != nil {
			return err
		}
		if img == "" {
			img = domain.DefaultImage
		}
		profile.Img = img

		by := actor(c)
		created, err := owners.Create(ctx, domain.Owner{
			Profile: profile,
			Audit:   domain.Audit{CreatedBy: by, UpdatedBy: by},
		})
		if err != nil {
			discardImage(c, images, img)
			return dbError(err)
		}
		return c.JSON(http.StatusCreated, apiusers.ComposeOwner(created))
	}
}

// UpdateOwnerHandler updates an owner.
//
// An empty password keeps the current one. An uploaded image replaces the current one.
// Only the administrator itself can be named admin.
func UpdateOwnerHandler(owners kowner.OwnerInterface, accounts kaccount.AccountInterface, images imagestore.Store, admin string, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		req := new(OwnerForm)
		if err := bind(c, req); err != nil {
			return err
		}
		profile, err := req.profile()
		if err != nil {
			return err
		}

		current, err := owners.Get(ctx, id)
		if err != nil {
			return dbError(err)
		}
		if err := checkNotAdmin(admin, profile.UserName, current.UserName); err != nil {
			return err
		}
		if err := checkAvailable(ctx, accounts, profile, &domain.Recipient{Role: domain.RoleOwner, UserId: id}); err != nil {
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

		updated, err := owners.Update(ctx, domain.Owner{
			Id:      id,
			Profile: profile,
			Audit:   domain.Audit{UpdatedBy: actor(c)},
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
		return c.JSON(http.StatusOK, apiusers.ComposeOwner(updated))
	}
}

// DeleteOwnerHandler deletes an owner without pets, and its image.
func DeleteOwnerHandler(owners kowner.OwnerInterface, images imagestore.Store, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		deleted, err := owners.Delete(c.Request().Context(), id)
		if errors.Is(err, kerr.ErrInUse) {
			return apierr.Conflict(
				"the owner has pets",
				apierr.WithAdvice("delete or transfer the pets first."),
				apierr.WithError(err),
			)
		} else if err != nil {
			return dbError(err)
		}
		discardImage(c, images, deleted.Img)
		return c.NoContent(http.StatusNoContent)
	}
}

