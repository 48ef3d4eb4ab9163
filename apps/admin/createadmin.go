package main

import (
	"context"
	"time"

	"github.com/kasanda/chuo/core"
	"github.com/kasanda/chuo/core/user"
)

// createAdmin creates an active admin account.
func (cli *commandLine) createAdmin(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if _, err := cli.usrRepo.GetUserByEmail(ctx, email); err == nil {
		return user.ErrEmailExists
	} else if err != user.ErrNotFound {
		return err
	}

	usr := user.User{
		Email:     email,
		Role:      user.RoleAdmin,
		FirstName: "Admin",
		LastName:  "Admin",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err := cli.usrRepo.CreateUser(ctx, usr)
	return err
}
