package echoapi

import "github.com/kasanda/chuo/core/user"

type (
	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)
