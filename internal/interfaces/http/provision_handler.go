package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Provisiona-api/internal/application/usecase"
)

// ProvisionHandler estimación e historial de provisión.
type ProvisionHandler struct {
	uc *usecase.ProvisionUseCase
}

// NewProvisionHandler construye el handler.
func NewProvisionHandler(uc *usecase.ProvisionUseCase) *ProvisionHandler {
	return &ProvisionHandler{uc: uc}
}

// Estimate godoc
// @Summary      Provisión del mes en curso
// @Description  Si falta el perfil o los datos del mes responde 200 con ready=false y el motivo.
// @Tags         provision
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.EstimateResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/provision/estimate [get]
func (h *ProvisionHandler) Estimate(c *fiber.Ctx) error {
	out, err := h.uc.Estimate(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de provisión
// @Description  Ventana móvil de N meses que termina en el mes en curso; omite meses sin datos.
// @Tags         provision
// @Security     Bearer
// @Produce      json
// @Param        months  query  int  false  "ventana 1-24 (por defecto 6)"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/provision/history [get]
func (h *ProvisionHandler) History(c *fiber.Ctx) error {
	months, err := windowParam(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.History(c.UserContext(), GetUserID(c), months)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de provisión
// @Tags         provision
// @Security     Bearer
// @Produce      application/pdf
// @Param        months  query  int  false  "ventana 1-24 (por defecto 6)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/provision/report.pdf [get]
func (h *ProvisionHandler) Report(c *fiber.Ctx) error {
	months, err := windowParam(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.uc.Report(c.UserContext(), GetUserID(c), months)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="provision-%dm.pdf"`, months))
	return c.Send(pdf)
}
