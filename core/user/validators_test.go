package user

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/kasanda/chuo/core"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	validate := validator.New()
	eng := en.New()
	uni := ut.New(eng, eng)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		t.Fatal("en translator not found")
	}
	core.InitValidators(validate, trans)
	InitValidators(validate, trans)
	return validate
}

func TestNewUserValidate(t *testing.T) {
	validate := newValidator(t)

	base := NewUser{
		Email:     "patrice@test.cd",
		Role:      RoleStudent,
		FirstName: "Patrice",
		LastName:  "Lumumba",
	}

	tests := []struct {
		name    string
		mutate  func(nu *NewUser)
		wantErr bool
	}{
		{name: "valid", mutate: func(nu *NewUser) { nu.Password = "LeMotDePasse123" }},
		{name: "too short", mutate: func(nu *NewUser) { nu.Password = "abc12" }, wantErr: true},
		{name: "whitespace", mutate: func(nu *NewUser) { nu.Password = "le mot de passe" }, wantErr: true},
		{name: "all numeric", mutate: func(nu *NewUser) { nu.Password = "12345678901" }, wantErr: true},
		{name: "similar to email", mutate: func(nu *NewUser) { nu.Password = "patrice@test.cd" }, wantErr: true},
		{name: "similar to name", mutate: func(nu *NewUser) { nu.Password = "Lumumbaa" }, wantErr: true},
		{name: "bad role", mutate: func(nu *NewUser) { nu.Password = "LeMotDePasse123"; nu.Role = "owner" }, wantErr: true},
		{name: "missing email", mutate: func(nu *NewUser) { nu.Password = "LeMotDePasse123"; nu.Email = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := base
			tt.mutate(&nu)
			err := nu.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
