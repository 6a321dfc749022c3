package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/veloce-moto-api/internal/application/checkout"
	"github.com/jhoicas/veloce-moto-api/internal/application/dto"
)

// CheckoutHandler expone el handoff por WhatsApp: enlace, QR y cotización.
type CheckoutHandler struct {
	uc *checkout.UseCase
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(uc *checkout.UseCase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// Checkout godoc
// @Summary      Mensaje y enlace de WhatsApp del carrito
// @Tags         checkout
// @Produce      json
// @Param        X-Cart-ID  header  string  false  "ID del carrito"
// @Success      200  {object}  dto.CheckoutResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/cart/checkout [post]
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	out, err := h.uc.CheckoutCart(c.Context(), GetCartID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CheckoutQR godoc
// @Summary      QR del enlace de WhatsApp del carrito
// @Tags         checkout
// @Produce      png
// @Param        X-Cart-ID  header  string  false  "ID del carrito"
// @Success      200
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/cart/checkout/qr [get]
func (h *CheckoutHandler) CheckoutQR(c *fiber.Ctx) error {
	png, err := h.uc.CheckoutQR(c.Context(), GetCartID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}

// Quote godoc
// @Summary      Cotización PDF del carrito
// @Tags         checkout
// @Produce      application/pdf
// @Param        X-Cart-ID  header  string  false  "ID del carrito"
// @Success      200
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/cart/quote [get]
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Quote(c.Context(), GetCartID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

// OrderProduct godoc
// @Summary      Pedido directo de un producto por WhatsApp
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        slug  path  string                   true   "Slug del producto"
// @Param        body  body  dto.OrderProductRequest  false  "Cantidad (1 si se omite)"
// @Success      200  {object}  dto.CheckoutResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{slug}/order [post]
func (h *CheckoutHandler) OrderProduct(c *fiber.Ctx) error {
	in := dto.OrderProductRequest{Quantity: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.OrderProduct(c.Context(), c.Params("slug"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
