package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Provisiona-api/internal/application/usecase"
	"github.com/jhoicas/Provisiona-api/internal/domain/provision"
)

// MonthlyInputHandler datos financieros mensuales.
type MonthlyInputHandler struct {
	uc *usecase.MonthlyInputUseCase
}

// NewMonthlyInputHandler construye el handler.
func NewMonthlyInputHandler(uc *usecase.MonthlyInputUseCase) *MonthlyInputHandler {
	return &MonthlyInputHandler{uc: uc}
}

// Put godoc
// @Summary      Registrar datos del mes en curso
// @Description  Upsert por (usuario, año, mes). Los meses anteriores están cerrados (409 MONTH_CLOSED).
// @Description  Montos en COP: income_cop, deductible_expenses_cop, withholdings_cop, vat_collected_cop.
// @Tags         monthly-inputs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.MonthlyInputResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/monthly-inputs [put]
func (h *MonthlyInputHandler) Put(c *fiber.Ctx) error {
	raw, err := rawObject(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Upsert(c.UserContext(), GetUserID(c), raw)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Datos de un mes
// @Tags         monthly-inputs
// @Security     Bearer
// @Produce      json
// @Param        year   path  int  true  "año"
// @Param        month  path  int  true  "mes 1-12"
// @Success      200  {object}  dto.MonthlyInputResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/monthly-inputs/{year}/{month} [get]
func (h *MonthlyInputHandler) Get(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return writeError(c, &provision.ValidationError{Field: provision.FieldYear, Reason: "debe ser un entero"})
	}
	month, err := c.ParamsInt("month")
	if err != nil {
		return writeError(c, &provision.ValidationError{Field: provision.FieldMonth, Reason: "debe ser un entero"})
	}
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Meses registrados en la ventana móvil
// @Tags         monthly-inputs
// @Security     Bearer
// @Produce      json
// @Param        months  query  int  false  "ventana 1-24 (por defecto 6)"
// @Success      200  {object}  dto.MonthlyInputListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/monthly-inputs [get]
func (h *MonthlyInputHandler) List(c *fiber.Ctx) error {
	months, err := windowParam(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), months)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// windowParam lee ?months=N; ausente usa la ventana por defecto.
func windowParam(c *fiber.Ctx) (int, error) {
	q := c.Query("months")
	if q == "" {
		return provision.DefaultWindow, nil
	}
	months, err := strconv.Atoi(q)
	if err != nil {
		return 0, &provision.ValidationError{Field: provision.FieldWindow, Reason: "debe ser un entero"}
	}
	return months, nil
}
