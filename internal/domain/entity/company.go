package entity

import "time"

// Company representa una empresa del sistema (multi-empresa). Todo recurso
// pertenece a una empresa y cada comando valida la pertenencia: nunca hay
// "empresa actual" ambiente, el companyID viaja explícito.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT / identificación tributaria
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
