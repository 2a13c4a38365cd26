package usecase

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/betacycle/internal/domain/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateMail reports whether mail is a syntactically valid address.
func ValidateMail(mail string) bool {
	return validate.Var(mail, "required,email") == nil
}

func normalizeUser(user model.User) model.User {
	user.Name = strings.TrimSpace(user.Name)
	user.Surname = strings.TrimSpace(user.Surname)
	user.Phone = strings.TrimSpace(user.Phone)
	user.Mail = strings.TrimSpace(user.Mail)
	return user
}
