package config

import (
	"fmt"

	"github.com/brickingsoft/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct tags of cfg and the backend specific sections.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return validationError(err)
	}
	if _, err := cfg.UringOptions(); err != nil {
		return err
	}
	if _, err := cfg.LegacyOptions(); err != nil {
		return err
	}
	return nil
}

// validationError reports the first failed field.
func validationError(err error) error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		e := fields[0]
		return errors.New(
			fmt.Sprintf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value()),
			errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
			errors.WithWrap(ErrInvalid),
		)
	}
	return errors.New(
		"validation failed",
		errors.WithMeta(errMetaPkgKey, errMetaPkgVal),
		errors.WithWrap(errors.Join(ErrInvalid, err)),
	)
}

var ErrInvalid = errors.Define("invalid configuration")

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "config"
)
