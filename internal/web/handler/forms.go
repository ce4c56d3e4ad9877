package handler

import (
	"github.com/gofiber/fiber/v2"
)

// FormFields flattens the posted form body into a plain string map, the shape
// the settings write mapper consumes. Repeated fields keep the last value.
func FormFields(c *fiber.Ctx) map[string]string {
	fields := make(map[string]string)

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})

	return fields
}
