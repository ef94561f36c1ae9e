package identity

import "encoding/json"

const (
	RoleGerente      = "gerente"
	RoleVendedor     = "vendedor"
	RoleDistribuidor = "distribuidor"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// UnmarshalJSON normalizes the legacy "tipo_usuario" field into Role, so
// every consumer sees a single role field regardless of backend version.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          uint   `json:"id"`
		Nombre      string `json:"nombre"`
		Email       string `json:"email"`
		Role        string `json:"role"`
		TipoUsuario string `json:"tipo_usuario"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	u.Nombre = raw.Nombre
	u.Email = raw.Email
	u.Role = raw.Role
	if u.Role == "" {
		u.Role = raw.TipoUsuario
	}
	return nil
}

// HasRole reports whether the user's role is one of the given roles.
// A nil user or a user without a role matches nothing.
func (u *User) HasRole(roles ...string) bool {
	if u == nil || u.Role == "" {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
