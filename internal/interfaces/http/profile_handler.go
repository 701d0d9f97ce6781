package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/application/usecase"
	"github.com/jhoicas/Provisiona-api/internal/domain"
)

// ProfileHandler perfil tributario del usuario autenticado.
type ProfileHandler struct {
	uc *usecase.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener perfil tributario
// @Tags         profile
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(p)
}

// Put godoc
// @Summary      Crear o reemplazar perfil tributario
// @Description  Campos: persona_type (natural|juridica|unknown), regimen (simple|ordinario|unknown),
// @Description  vat_responsible (yes|no|unknown), provision_style (conservative|balanced|aggressive), municipality,
// @Description  nit (con o sin DV) y responsibilities (códigos del RUT, ej. ["O-47","O-48"]).
// @Description  Los campos omitidos toman su valor por defecto; regimen y vat_responsible se deducen de responsibilities.
// @Tags         profile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Put(c *fiber.Ctx) error {
	raw, err := rawObject(c)
	if err != nil {
		return invalidBody(c)
	}
	p, err := h.uc.Upsert(c.UserContext(), GetUserID(c), raw)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

// rawObject decodifica el cuerpo como objeto JSON sin tipar; la validación y
// coerción de cada campo ocurre en el dominio.
func rawObject(c *fiber.Ctx) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("se esperaba un objeto JSON")
	}
	return raw, nil
}
