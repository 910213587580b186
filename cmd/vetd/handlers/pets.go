package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apipets "github.com/opst/vettracker/pkg/api/types/pets"
	"github.com/opst/vettracker/pkg/domain"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	kowner "github.com/opst/vettracker/pkg/domain/owner/db"
	kpet "github.com/opst/vettracker/pkg/domain/pet/db"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	"github.com/opst/vettracker/pkg/imagestore"
	"github.com/opst/vettracker/pkg/utils"
)

func ListPetsHandler(pets kpet.PetInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := pets.List(c.Request().Context(), domain.PetQuery{
			Search:  c.QueryParam("search"),
			OwnerId: queryInt(c, "ownerId", 0),
			VetId:   queryInt(c, "vetId", 0),
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apipets.Compose))
	}
}

func GetPetHandler(pets kpet.PetInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		p, err := pets.Get(c.Request().Context(), id)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apipets.ComposeDetail(p))
	}
}

type PetForm struct {
	PetType        string `json:"petType" form:"petType" validate:"required"`
	PetName        string `json:"petName" form:"petName" validate:"required"`
	Age            int    `json:"age" form:"age" validate:"gte=0"`
	Sex            string `json:"sex" form:"sex"`
	Weight         string `json:"weight" form:"weight"`
	Height         string `json:"height" form:"height"`
	Identification string `json:"identification" form:"identification"`
	OwnerId        int    `json:"idOwner" form:"idOwner" validate:"gt=0"`

	// VetId is 0 for pets without veterinarians.
	VetId int `json:"idVeterinarian" form:"idVeterinarian" validate:"gte=0"`
}

func (f PetForm) pet() domain.Pet {
	p := domain.Pet{
		PetType:        f.PetType,
		PetName:        f.PetName,
		Age:            f.Age,
		Sex:            f.Sex,
		Weight:         f.Weight,
		Height:         f.Height,
		Identification: f.Identification,
		OwnerId:        f.OwnerId,
	}
	if f.VetId != 0 {
		vetId := f.VetId
		p.VetId = &vetId
	}
	return p
}

// ensureExists rejects references to missing entities as bad requests.
func ensureExists(ctx context.Context, what string, get func(context.Context) error) error {
	err := get(ctx)
	if errors.Is(err, kerr.ErrMissing) {
		return apierr.BadRequest(what+" is not found", err)
	} else if err != nil {
		return apierr.InternalServerError(err)
	}
	return nil
}

func ownerExists(owners kowner.OwnerInterface, id int) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := owners.Get(ctx, id)
		return err
	}
}

func vetExists(vets kveterinarian.VeterinarianInterface, id *int) func(context.Context) error {
	return func(ctx context.Context) error {
		if id == nil {
			return nil
		}
		_, err := vets.Get(ctx, *id)
		return err
	}
}

func petExists(pets kpet.PetInterface, id int) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := pets.Get(ctx, id)
		return err
	}
}

func CreatePetHandler(
	pets kpet.PetInterface, owners kowner.OwnerInterface, vets kveterinarian.VeterinarianInterface,
	images imagestore.Store,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req := new(PetForm)
		if err := bind(c, req); err != nil {
			return err
		}
		pet := req.pet()
		if err := ensureExists(ctx, "owner", ownerExists(owners, pet.OwnerId)); err != nil {
			return err
		}
		if err := ensureExists(ctx, "veterinarian", vetExists(vets, pet.VetId)); err != nil {
			return err
		}

		img, err := uploadImage(c, images)
		if err != nil {
			return err
		}
		if img == "" {
			img = domain.DefaultImage
		}
		pet.Img = img
		by := actor(c)
		pet.Audit = domain.Audit{CreatedBy: by, UpdatedBy: by}

		created, err := pets.Create(ctx, pet)
		if err != nil {
			discardImage(c, images, img)
			return referenceError(err, "owner or veterinarian")
		}
		return c.JSON(http.StatusCreated, apipets.ComposeBody(created))
	}
}

func UpdatePetHandler(
	pets kpet.PetInterface, owners kowner.OwnerInterface, vets kveterinarian.VeterinarianInterface,
	images imagestore.Store, param string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		req := new(PetForm)
		if err := bind(c, req); err != nil {
			return err
		}
		current, err := pets.Get(ctx, id)
		if err != nil {
			return dbError(err)
		}
		pet := req.pet()
		if err := ensureExists(ctx, "owner", ownerExists(owners, pet.OwnerId)); err != nil {
			return err
		}
		if err := ensureExists(ctx, "veterinarian", vetExists(vets, pet.VetId)); err != nil {
			return err
		}

		img, err := uploadImage(c, images)
		if err != nil {
			return err
		}
		pet.Id = id
		pet.Img = current.Img
		if img != "" {
			pet.Img = img
		}
		pet.Audit = domain.Audit{UpdatedBy: actor(c)}

		updated, err := pets.Update(ctx, pet)
		if err != nil {
			if img != "" {
				discardImage(c, images, img)
			}
			return dbError(err)
		}
		if img != "" && current.Img != img {
			discardImage(c, images, current.Img)
		}
		return c.JSON(http.StatusOK, apipets.ComposeBody(updated))
	}
}

// DeletePetHandler deletes a pet with its records and image.
func DeletePetHandler(pets kpet.PetInterface, images imagestore.Store, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		deleted, err := pets.Delete(c.Request().Context(), id)
		if err != nil {
			return dbError(err)
		}
		discardImage(c, images, deleted.Img)
		return c.NoContent(http.StatusNoContent)
	}
}
