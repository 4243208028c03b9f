package response

import (
	"github.com/google/uuid"

	"hospital-ops/internal/usecase/commands"
	"hospital-ops/internal/usecase/shared"
)

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ID          uuid.UUID `json:"id"`
	Role        string    `json:"role"`
	Name        string    `json:"name"`
}

func FromLoginResult(r *commands.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: r.Token,
		ID:          r.ID,
		Role:        r.Role.String(),
		Name:        r.Name,
	}
}

type RegisteredPatientResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	MedicalCardNo string    `json:"medical_card_no"`
}

func FromRegisteredPatient(p *shared.Patient) RegisteredPatientResponse {
	return RegisteredPatientResponse{
		ID:            p.ID,
		Username:      p.Username,
		Name:          p.Name,
		MedicalCardNo: p.MedicalCardNo,
	}
}
