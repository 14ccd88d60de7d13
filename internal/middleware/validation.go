package middleware

import (
	"productos/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	errorsKey = "validation.errors"
	bodyKey   = "validation.body"
)

// Validate runs the given rule chains and stores the failures on the request.
// Nothing is answered here; HandleInputErrors decides.
func Validate(fields ...validation.Field) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		bodyOK := true
		if needsBody(fields) {
			parsed, err := RequestBody(c)
			if err != nil {
				bodyOK = false
				addErrors(c, validation.Error{
					Type:     "body",
					Msg:      validation.MsgInvalidRequestPayload,
					Location: validation.LocationBody,
				})
			}
			body = parsed
		}

		checked := fields
		if !bodyOK {
			checked = paramsOnly(fields)
		}
		addErrors(c, validation.Run(checked, func(f validation.Field) validation.Value {
			if f.Location == validation.LocationParams {
				return validation.Value{Raw: c.Params(f.Name), Present: true}
			}
			raw, ok := body[f.Name]
			return validation.Value{Raw: raw, Present: ok}
		})...)
		return c.Next()
	}
}

func paramsOnly(fields []validation.Field) []validation.Field {
	var out []validation.Field
	for _, f := range fields {
		if f.Location == validation.LocationParams {
			out = append(out, f)
		}
	}
	return out
}

func needsBody(fields []validation.Field) bool {
	for _, f := range fields {
		if f.Location == validation.LocationBody {
			return true
		}
	}
	return false
}

// HandleInputErrors answers 400 with every collected failure, or passes the
// request through untouched.
func HandleInputErrors(c *fiber.Ctx) error {
	errs := ValidationErrors(c)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": errs,
		})
	}
	return c.Next()
}

// ValidationErrors returns the failures collected so far for this request.
func ValidationErrors(c *fiber.Ctx) []validation.Error {
	errs, _ := c.Locals(errorsKey).([]validation.Error)
	return errs
}

// RequestBody decodes the JSON object body once per request. An empty body
// is an empty object.
func RequestBody(c *fiber.Ctx) (map[string]any, error) {
	if body, ok := c.Locals(bodyKey).(map[string]any); ok {
		return body, nil
	}

	body := map[string]any{}
	if raw := c.Body(); len(raw) > 0 {
		if err := c.App().Config().JSONDecoder(raw, &body); err != nil {
			return nil, err
		}
		if body == nil {
			return nil, errNotAnObject
		}
	}
	c.Locals(bodyKey, body)
	return body, nil
}

var errNotAnObject = fiber.NewError(fiber.StatusBadRequest, "request body must be a JSON object")

func addErrors(c *fiber.Ctx, errs ...validation.Error) {
	if len(errs) == 0 {
		return
	}
	c.Locals(errorsKey, append(ValidationErrors(c), errs...))
}
