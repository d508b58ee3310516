package validation

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/persondata/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// NetIDPattern - a letter followed by up to 127 letters, digits, '-', '_' or '.'
	NetIDPattern = `^[a-z][a-z0-9\-_.]{0,127}$`

	// RegIDPattern - 32 hex characters, either case
	RegIDPattern = `^[0-9A-Fa-f]{32}$`

	// SystemKeyPattern - exactly 9 digits
	SystemKeyPattern = `^\d{9}$`

	// StudentNumberPattern - 1 to 9 digits
	StudentNumberPattern = `^\d{1,9}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	NetID         *regexp.Regexp
	RegID         *regexp.Regexp
	SystemKey     *regexp.Regexp
	StudentNumber *regexp.Regexp
}{
	NetID:         regexp.MustCompile(NetIDPattern),
	RegID:         regexp.MustCompile(RegIDPattern),
	SystemKey:     regexp.MustCompile(SystemKeyPattern),
	StudentNumber: regexp.MustCompile(StudentNumberPattern),
}

// Identifier classes
const (
	ClassNetID         = "netid"
	ClassRegID         = "regid"
	ClassSystemKey     = "systemkey"
	ClassStudentNumber = "studentnumber"
)

// IdentityValidator checks identifier syntax per class.
type IdentityValidator struct {
	validate *validator.Validate
}

// NewIdentityValidator registers the identifier tags on a fresh validator.
func NewIdentityValidator() *IdentityValidator {
	v := validator.New()
	register := func(tag string, re *regexp.Regexp) {
		// RegisterValidation only fails on an empty tag or a nil func.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	// Logins are stored lowercase and matched exactly, so no case folding.
	register(ClassNetID, CompiledPatterns.NetID)
	register(ClassRegID, CompiledPatterns.RegID)
	register(ClassSystemKey, CompiledPatterns.SystemKey)
	register(ClassStudentNumber, CompiledPatterns.StudentNumber)
	return &IdentityValidator{validate: v}
}

// Validate checks value against class and returns an InvalidIdentifierError
// on mismatch.
func (iv *IdentityValidator) Validate(class, value string) error {
	err := iv.validate.Var(value, "required,"+class)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.NewInvalidIdentifier(class, value)
	}
	return err
}

// NetID validates a login identifier.
func (iv *IdentityValidator) NetID(value string) error {
	return iv.Validate(ClassNetID, value)
}

// SystemKey validates a student system key.
func (iv *IdentityValidator) SystemKey(value string) error {
	return iv.Validate(ClassSystemKey, value)
}

// RegID validates a registry identifier.
func (iv *IdentityValidator) RegID(value string) error {
	return iv.Validate(ClassRegID, value)
}

// StudentNumber validates a student number.
func (iv *IdentityValidator) StudentNumber(value string) error {
	return iv.Validate(ClassStudentNumber, value)
}
