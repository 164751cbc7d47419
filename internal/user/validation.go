package user

import (
	"regexp"
	"strings"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactPattern = regexp.MustCompile(`^\d{10}$`)
)

const (
	msgRequired      = "Username, email and password are required."
	msgInvalidEmail  = "Por favor ingresa un correo electrónico válido"
	msgInvalidPhone  = "El número de contacto debe tener 10 dígitos"
	msgDuplicateMail = "El email ya está registrado."
	msgNotFound      = "User not found"
	msgHasEvents     = "No se puede eliminar el usuario porque tiene eventos asociados."
)

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// validContact accepts an empty contact (optional field) or exactly ten digits
func validContact(s string) bool {
	return s == "" || contactPattern.MatchString(s)
}
