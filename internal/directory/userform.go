package directory

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired     = "Todos los campos son obligatorios"
	msgInvalidEmail = "Por favor ingresa un correo electrónico válido"
	msgInvalidPhone = "El número de contacto debe tener 10 dígitos"
	msgMismatch     = "Las contraseñas no coinciden"

	contactLength  = 10
	passwordLength = 12
	passwordChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return v
}

// UserForm backs the create and edit modals
type UserForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,simple_email"`
	Contact  string `validate:"required,len=10,numeric"`
	Password string `validate:"required"`
	Confirm  string `validate:"required,eqfield=Password"`
}

// ValidationError is a presentation-layer rejection; nothing was sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Normalize trims the text fields and sanitises the contact
func (f *UserForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.Contact = SanitizeContact(f.Contact)
}

// Validate checks a creation form
func (f *UserForm) Validate() error {
	f.Normalize()
	return translate(validate.Struct(f))
}

// ValidateEdit checks an edit form, where the password is optional
func (f *UserForm) ValidateEdit() error {
	f.Normalize()
	if err := translate(validate.StructExcept(f, "Password", "Confirm")); err != nil {
		return err
	}
	if err := validate.VarWithValue(f.Confirm, f.Password, "eqfield"); err != nil {
		return &ValidationError{Field: "Confirm", Message: msgMismatch}
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	msg := msgRequired
	switch {
	case fe.Tag() == "required":
	case fe.Field() == "Email":
		msg = msgInvalidEmail
	case fe.Field() == "Contact":
		msg = msgInvalidPhone
	case fe.Field() == "Confirm":
		msg = msgMismatch
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

// ValidEmail accepts the simple local@domain.tld shape
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// SanitizeContact keeps the digits and truncates to ten
func SanitizeContact(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == contactLength {
			break
		}
	}
	return b.String()
}

// GeneratePassword returns a random 12-character password
func GeneratePassword() (string, error) {
	n := big.NewInt(int64(len(passwordChars)))
	out := make([]byte, passwordLength)
	for i := range out {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		out[i] = passwordChars[idx.Int64()]
	}
	return string(out), nil
}

// FillGeneratedPassword sets both password fields to a fresh password
func (f *UserForm) FillGeneratedPassword() error {
	p, err := GeneratePassword()
	if err != nil {
		return err
	}
	f.Password, f.Confirm = p, p
	return nil
}
