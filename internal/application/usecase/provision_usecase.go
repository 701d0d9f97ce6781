package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Provisiona-api/internal/application/dto"
	"github.com/jhoicas/Provisiona-api/internal/application/ports"
	"github.com/jhoicas/Provisiona-api/internal/domain"
	"github.com/jhoicas/Provisiona-api/internal/domain/entity"
	"github.com/jhoicas/Provisiona-api/internal/domain/provision"
	"github.com/jhoicas/Provisiona-api/internal/domain/repository"
)

// ProvisionUseCase orquesta el cálculo de provisión: carga perfil y datos
// mensuales, delega en el núcleo puro (domain/provision) y arma las respuestas.
type ProvisionUseCase struct {
	profiles repository.TaxProfileRepository
	inputs   repository.MonthlyInputRepository
	users    repository.UserRepository
	pdf      ports.ReportPDFGenerator
	now      func() time.Time
}

// NewProvisionUseCase construye el caso de uso. pdf puede ser nil si no se sirven reportes.
func NewProvisionUseCase(
	profiles repository.TaxProfileRepository,
	inputs repository.MonthlyInputRepository,
	users repository.UserRepository,
	pdf ports.ReportPDFGenerator,
	now func() time.Time,
) *ProvisionUseCase {
	if now == nil {
		now = time.Now
	}
	return &ProvisionUseCase{profiles: profiles, inputs: inputs, users: users, pdf: pdf, now: now}
}

// Estimate calcula la provisión del mes en curso. Los faltantes (perfil, datos del mes,
// perfil no soportado) no son errores: se informan con Ready=false y un motivo.
func (uc *ProvisionUseCase) Estimate(ctx context.Context, userID string) (*dto.EstimateResponse, error) {
	year, month := entity.CurrentPeriod(uc.now())
	resp := &dto.EstimateResponse{Period: fmt.Sprintf("%04d-%02d", year, month)}

	profile, err := uc.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		resp.Reason = dto.NotReadyProfileMissing
		resp.Message = domain.ErrProfileNotFound.Error()
		return resp, nil
	}
	resp.Profile = toProfileSummary(profile)

	in, err := uc.inputs.Get(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	if in == nil {
		resp.Reason = dto.NotReadyMonthlyInputMissing
		resp.Message = domain.ErrMonthlyInputNotFound.Error()
		return resp, nil
	}
	resp.Input = toMonthlyInputResponse(in)

	b, err := provision.Compute(*profile, *in)
	if err != nil {
		var unsupported *provision.UnsupportedProfileError
		if errors.As(err, &unsupported) {
			resp.Reason = dto.NotReadyUnsupportedProfile
			resp.Message = unsupported.Error()
			return resp, nil
		}
		return nil, err
	}
	resp.Ready = true
	resp.Breakdown = toBreakdownDTO(b)
	return resp, nil
}

// History devuelve la serie de los últimos months meses (incluido el actual) y su resumen.
func (uc *ProvisionUseCase) History(ctx context.Context, userID string, months int) (*dto.HistoryResponse, error) {
	if err := provision.ValidateWindow(months); err != nil {
		return nil, err
	}
	profile, err := uc.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}

	now := uc.now()
	cy, cm := entity.CurrentPeriod(now)
	inputs, err := uc.inputs.ListSince(ctx, userID, entity.PeriodNumber(cy, cm)-(months-1))
	if err != nil {
		return nil, err
	}
	points, err := provision.BuildHistory(*profile, inputs, months, now)
	if err != nil {
		return nil, err
	}
	return toHistoryResponse(months, points), nil
}

// chatContextBlock forma del bloque JSON que se inyecta en el prompt del asistente.
type chatContextBlock struct {
	Status    string                    `json:"status"` // ok | unavailable
	Period    string                    `json:"period"`
	Reason    string                    `json:"reason,omitempty"`
	Message   string                    `json:"message,omitempty"`
	Profile   *dto.ProfileSummaryDTO    `json:"profile,omitempty"`
	Input     *dto.MonthlyInputResponse `json:"input,omitempty"`
	Breakdown *dto.BreakdownDTO         `json:"breakdown,omitempty"`
}

// ChatContext serializa la estimación del mes como bloque JSON para el asistente.
// available indica si hay un cálculo completo.
func (uc *ProvisionUseCase) ChatContext(ctx context.Context, userID string) (block string, available bool, err error) {
	est, err := uc.Estimate(ctx, userID)
	if err != nil {
		return "", false, err
	}
	out := chatContextBlock{Status: "ok", Period: est.Period, Profile: est.Profile, Input: est.Input, Breakdown: est.Breakdown}
	if !est.Ready {
		out = chatContextBlock{Status: "unavailable", Period: est.Period, Reason: est.Reason, Message: est.Message}
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", false, fmt.Errorf("serializar contexto de provisión: %w", err)
	}
	return string(raw), est.Ready, nil
}

// Report genera el PDF con la estimación del mes y la serie histórica.
// Sin perfil el reporte no tiene sentido: devuelve domain.ErrProfileNotFound.
func (uc *ProvisionUseCase) Report(ctx context.Context, userID string, months int) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("reporte PDF no configurado")
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := uc.History(ctx, userID, months)
	if err != nil {
		return nil, err
	}
	estimate, err := uc.Estimate(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := &dto.ProvisionReportDTO{
		GeneratedAt: uc.now().Format("2006-01-02 15:04"),
		Estimate:    *estimate,
		History:     *history,
	}
	if user != nil {
		report.UserName = user.Name
		report.UserEmail = user.Email
	}
	return uc.pdf.Generate(report)
}
