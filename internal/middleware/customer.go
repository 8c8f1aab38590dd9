// Package middleware holds request-scoped fiber middleware.
package middleware

import "github.com/gofiber/fiber/v2"

const (
	customerHeader  = "X-Customer-Id"
	customerLocal   = "customer_id"
	defaultCustomer = "default"
)

// CustomerScope resolves the tenant of a request from the X-Customer-Id
// header and stores it in the request locals.
func CustomerScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Get(customerHeader)
		if customerID == "" {
			customerID = defaultCustomer
		}
		c.Locals(customerLocal, customerID)
		return c.Next()
	}
}

// GetCustomerID returns the tenant resolved by CustomerScope.
func GetCustomerID(c *fiber.Ctx) string {
	if customerID, ok := c.Locals(customerLocal).(string); ok && customerID != "" {
		return customerID
	}
	return defaultCustomer
}
