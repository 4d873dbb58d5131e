package animals

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Submission es el input crudo del formulario (todo string, sin trim).
type Submission struct {
	Name        string `json:"name" mapstructure:"name"`
	Species     string `json:"species" mapstructure:"species"`
	Breed       string `json:"breed" mapstructure:"breed"`
	Age         string `json:"age" mapstructure:"age"`
	Description string `json:"description" mapstructure:"description"`
	OwnerEmail  string `json:"owner_email" mapstructure:"owner_email"`
	Address     string `json:"address" mapstructure:"address"`
	City        string `json:"city" mapstructure:"city"`
	PostalCode  string `json:"postal_code" mapstructure:"postal_code"`
}

// DecodeSubmission arma una Submission desde un mapa suelto (JSON, form, YAML).
// Números y bools se convierten a string; la validación decide después.
func DecodeSubmission(in map[string]any) (Submission, error) {
	var sub Submission
	if err := mapstructure.WeakDecode(in, &sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// FieldErrors: campo canónico -> mensaje. Vacío = aceptado.
type FieldErrors map[string]string

// Validation es el resultado de Validate. Animal solo viene cargado si OK().
type Validation struct {
	Animal NewAnimal
	Errors FieldErrors
}

func (v Validation) OK() bool { return len(v.Errors) == 0 }

var (
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCA   = regexp.MustCompile(`^[A-Z]\d[A-Z] ?\d[A-Z]\d$`)
)

// submissionRules: el orden de los tags es el orden de chequeo por campo
// (required -> coma -> largo/formato). validator corta en el primer fallo.
type submissionRules struct {
	Name        string `json:"name" validate:"required,excludes=0x2C,min=3,max=20"`
	Species     string `json:"species" validate:"required,excludes=0x2C"`
	Breed       string `json:"breed" validate:"required,excludes=0x2C"`
	Description string `json:"description" validate:"required,excludes=0x2C"`
	OwnerEmail  string `json:"owner_email" validate:"required,excludes=0x2C,email_shape"`
	Address     string `json:"address" validate:"required,excludes=0x2C"`
	City        string `json:"city" validate:"required,excludes=0x2C"`
	PostalCode  string `json:"postal_code" validate:"required,excludes=0x2C,postal_ca"`
}

var rules = newRuleSet()

func newRuleSet() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Los regex son fijos; RegisterValidation solo falla con tags vacíos.
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("postal_ca", func(fl validator.FieldLevel) bool {
		return postalCA.MatchString(fl.Field().String())
	})

	return v
}

// Mensajes por campo y tag. Locale único: fr-CA.
var messages = map[string]map[string]string{
	"name": {
		"required": "Le nom est obligatoire",
		"excludes": "Le nom ne peut pas contenir de virgule",
		"min":      "Le nom doit avoir entre 3 et 20 caractères",
		"max":      "Le nom doit avoir entre 3 et 20 caractères",
	},
	"species": {
		"required": "L'espèce est obligatoire",
		"excludes": "L'espèce ne peut pas contenir de virgule",
	},
	"breed": {
		"required": "La race est obligatoire",
		"excludes": "La race ne peut pas contenir de virgule",
	},
	"description": {
		"required": "La description est obligatoire",
		"excludes": "La description ne peut pas contenir de virgule",
	},
	"owner_email": {
		"required":    "L'adresse courriel est obligatoire",
		"excludes":    "L'adresse courriel ne peut pas contenir de virgule",
		"email_shape": "Format d'adresse courriel invalide",
	},
	"address": {
		"required": "L'adresse civique est obligatoire",
		"excludes": "L'adresse civique ne peut pas contenir de virgule",
	},
	"city": {
		"required": "La ville est obligatoire",
		"excludes": "La ville ne peut pas contenir de virgule",
	},
	"postal_code": {
		"required":  "Le code postal est obligatoire",
		"excludes":  "Le code postal ne peut pas contenir de virgule",
		"postal_ca": "Format de code postal canadien invalide (ex: H1H 1H1)",
	},
	"age": {
		"required": "L'âge est obligatoire",
		"number":   "L'âge doit être un nombre valide",
		"range":    "L'âge doit être entre 0 et 30 ans",
	},
}

// Validate revisa todos los campos de forma independiente y devuelve a lo sumo
// un mensaje por campo. Nunca devuelve error: el resultado es data.
func Validate(sub Submission) Validation {
	r := submissionRules{
		Name:        strings.TrimSpace(sub.Name),
		Species:     strings.TrimSpace(sub.Species),
		Breed:       strings.TrimSpace(sub.Breed),
		Description: strings.TrimSpace(sub.Description),
		OwnerEmail:  strings.TrimSpace(sub.OwnerEmail),
		Address:     strings.TrimSpace(sub.Address),
		City:        strings.TrimSpace(sub.City),
		PostalCode:  strings.ToUpper(strings.TrimSpace(sub.PostalCode)),
	}

	errs := FieldErrors{}

	if err := rules.Struct(r); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ves {
				errs[fe.Field()] = messageFor(fe.Field(), fe.Tag())
			}
		}
	}

	age := validateAge(sub.Age, errs)

	if len(errs) > 0 {
		return Validation{Errors: errs}
	}

	return Validation{
		Animal: NewAnimal{
			Name:        r.Name,
			Species:     r.Species,
			Breed:       r.Breed,
			Age:         age,
			Description: r.Description,
			OwnerEmail:  r.OwnerEmail,
			Address:     r.Address,
			City:        r.City,
			PostalCode:  r.PostalCode,
		},
		Errors: errs,
	}
}

// validateAge deja a lo sumo un error en errs["age"].
func validateAge(raw string, errs FieldErrors) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs["age"] = messageFor("age", "required")
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		errs["age"] = messageFor("age", "number")
		return 0
	}

	if rules.Var(n, "min=0,max=30") != nil {
		errs["age"] = messageFor("age", "range")
		return 0
	}
	return n
}

func messageFor(field, tag string) string {
	if m, ok := messages[field][tag]; ok {
		return m
	}
	return "Valeur invalide"
}
