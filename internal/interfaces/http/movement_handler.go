package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// MovementHandler maneja entradas/salidas de stock y el historial global (protegido).
type MovementHandler struct {
	uc      *inventory.ApplyMovementUseCase
	history *inventory.HistoryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.ApplyMovementUseCase, history *inventory.HistoryUseCase) *MovementHandler {
	return &MovementHandler{uc: uc, history: history}
}

// Create godoc
// @Summary      Registrar entrada o salida de stock
// @Description  direction IN/OUT (alias MASUK/KELUAR); quantity entero positivo.
// @Description  El usuario actuante se toma del token.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "item_id, direction, quantity, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID <= 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ApplyMovementFromRequest(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial global de movimientos
// @Description  Más reciente primero; incluye kode_barang, nama_barang y username.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de filas (default 50, tope 500)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.MovementHistoryListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/transactions/history [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.history.ListAll(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
