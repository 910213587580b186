package main

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/opst/vettracker/pkg/auth/password"
	kcs "github.com/opst/vettracker/pkg/configs/server"
	"github.com/opst/vettracker/pkg/domain"
	kaccount "github.com/opst/vettracker/pkg/domain/account/db"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	kowner "github.com/opst/vettracker/pkg/domain/owner/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

const bootstrapper = "bootstrap"

// ensureAdmin creates the administrator owner from conf when it does not exist.
//
// Without AdminPassword, it does nothing.
func ensureAdmin(
	ctx context.Context, logger echo.Logger,
	owners kowner.OwnerInterface, accounts kaccount.AccountInterface,
	conf kcs.AuthConfig,
) error {
	if conf.AdminPassword == "" {
		return nil
	}

	o, err := owners.FindByLogin(ctx, conf.Admin)
	if err == nil {
		if !strings.EqualFold(o.UserName, conf.Admin) {
			return xe.Errorf("the administrator %s is the email of owner %s", conf.Admin, o.UserName)
		}
		return nil
	} else if !errors.Is(err, kerr.ErrMissing) {
		return xe.Wrap(err)
	}

	userNameTaken, emailTaken, err := accounts.Taken(ctx, conf.Admin, conf.AdminEmail, nil)
	if err != nil {
		return xe.Wrap(err)
	}
	if userNameTaken {
		return xe.Errorf("the administrator %s is taken by a veterinarian", conf.Admin)
	}
	if emailTaken {
		return xe.Errorf("the administrator email %s is already registered", conf.AdminEmail)
	}

	hash, err := password.Hash(conf.AdminPassword)
	if err != nil {
		return xe.Wrap(err)
	}
	created, err := owners.Create(ctx, domain.Owner{
		Profile: domain.Profile{
			Img:          domain.DefaultImage,
			UserName:     conf.Admin,
			Email:        conf.AdminEmail,
			PasswordHash: hash,
			FullName:     "Administrator",
		},
		Audit: domain.Audit{CreatedBy: bootstrapper, UpdatedBy: bootstrapper},
	})
	if err != nil {
		return xe.Wrap(err)
	}
	logger.Infof("administrator %s is created (id = %d)", created.UserName, created.Id)
	return nil
}
