package ports

import "github.com/jhoicas/Provisiona-api/internal/application/dto"

// ReportPDFGenerator genera el reporte de provisión en PDF.
type ReportPDFGenerator interface {
	Generate(report *dto.ProvisionReportDTO) ([]byte, error)
}
