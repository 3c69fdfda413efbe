package entity

import "time"

// Company empresa dueña de los datos. El kardex es multi-empresa:
// cada entidad lleva CompanyID y nunca se cruza información entre empresas.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
