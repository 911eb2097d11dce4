package httpkit

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "breachwatch/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// validatorSvc holds the singleton validator and its english translator
type validatorSvc struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

func getValidator() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vSvc = &validatorSvc{validate: v, trans: trans}
	})
	return vSvc
}

// maxBodyBytes caps request bodies at 1MB
const maxBodyBytes = 1 << 20

// ParseJSON decodes the request body into T, validates it, and maps
// failures onto project errors
func ParseJSON[T any](r *http.Request) (T, error) {
	var in T

	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, perr.Wrap(err, perr.ErrorCodeValidation, "malformed JSON body")
	}
	if dec.More() {
		return in, perr.New(perr.ErrorCodeValidation, "unexpected trailing JSON")
	}

	svc := getValidator()
	if err := svc.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return in, perr.WithField(
				perr.New(perr.ErrorCodeValidation, fe.Translate(svc.trans)),
				fe.Field(),
			)
		}
		return in, perr.Wrap(err, perr.ErrorCodeValidation, "validation failed")
	}
	return in, nil
}
