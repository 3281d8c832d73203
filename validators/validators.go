package validators

import (
  "reflect"
  "strings"
  "gopkg.in/go-playground/validator.v9"
)

// MessageTag lets a struct field override the default message of every failing rule.
const MessageTag = "msg"

// New returns a validator with the custom rules of this package registered.
func New() *validator.Validate {
  validate := validator.New()
  validate.RegisterValidation("notblank", NotBlank)
  return validate
}

// Messages translates the result of validate.Struct(form) into form field names mapped to
// user facing messages. A nil map means the form is valid.
func Messages(form interface{}, err error) (map[string][]string, error) {
  if err == nil {
    return nil, nil
  }

  // Validation syntax is invalid
  if _, ok := err.(*validator.InvalidValidationError); ok {
    return nil, err
  }

  validationErrors, ok := err.(validator.ValidationErrors)
  if !ok {
    return nil, err
  }

  errors := make(map[string][]string)
  reflected := reflect.Indirect(reflect.ValueOf(form)) // Use reflector to reverse engineer struct
  for _, e := range validationErrors {

    // Attempt to find field by name and get form tag name
    field, _ := reflected.Type().FieldByName(e.StructField())
    var name string

    // If form tag doesn't exist, use lower case of name
    if name = field.Tag.Get("form"); name == "" {
      name = strings.ToLower(e.StructField())
    }

    if msg := field.Tag.Get(MessageTag); msg != "" {
      errors[name] = append(errors[name], msg)
      continue
    }

    switch e.Tag() {
    case "required":
      errors[name] = append(errors[name], "Required")
    case "email":
      errors[name] = append(errors[name], "Not an E-mail")
    case "eqfield":
      errors[name] = append(errors[name], "Field should be equal to the " + e.Param())
    case "notblank":
      errors[name] = append(errors[name], "Not Blank")
    case "min":
      errors[name] = append(errors[name], "Must be at least " + e.Param() + " characters")
    default:
      errors[name] = append(errors[name], "Invalid")
    }
  }

  return errors, nil
}
