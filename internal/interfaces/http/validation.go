package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// los detalles usan el nombre JSON del campo
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validationError convierte los errores del validador en un domain.Error con un
// detalle por campo (campo → regla incumplida).
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.Invalid("%s", err.Error())
	}
	out := domain.Invalid("request validation failed")
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out.With(field, rule)
	}
	return out
}

// bindJSON parsea el cuerpo JSON en dst y lo valida.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &domain.Error{Kind: domain.ErrValidation, Message: "invalid request body", Fields: map[string]any{"body": err.Error()}}
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// bindOptionalJSON como bindJSON pero acepta cuerpo vacío.
func bindOptionalJSON(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return bindJSON(c, dst)
}

// pageQuery lee ?page=&page_size= y los valida.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	p := dto.PageRequest{Page: c.QueryInt("page", 0), PageSize: c.QueryInt("page_size", 0)}
	if err := validate.Struct(p); err != nil {
		return p, validationError(err)
	}
	return p, nil
}

// int64Query lee un filtro entero opcional (0 = sin filtro).
func int64Query(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v := c.QueryInt(name, -1)
	if v <= 0 {
		return 0, domain.Invalid("%s must be a positive integer", name).With("field", name)
	}
	return int64(v), nil
}
