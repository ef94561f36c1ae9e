package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre       string `gorm:"not null"                 json:"nombre"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type Sucursal struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre    string `gorm:"not null"                 json:"nombre"`
	Ciudad    string `gorm:"not null"                 json:"ciudad"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
}

// Poblacion is a served population; assigning SucursalID parametrizes which
// branch covers it.
type Poblacion struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre       string `gorm:"not null"                 json:"nombre"`
	Departamento string `gorm:"not null"                 json:"departamento"`
	SucursalID   *uint  `gorm:"index"                    json:"sucursal_id"`
}

type Cliente struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre      string `gorm:"not null"                 json:"nombre"`
	NIT         string `gorm:"unique;not null"          json:"nit"`
	Telefono    string `json:"telefono"`
	Direccion   string `json:"direccion"`
	PoblacionID *uint  `gorm:"index"                    json:"poblacion_id"`
}

// CuentaPago is a collection account clients can pay into.
type CuentaPago struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Banco  string `gorm:"not null"                 json:"banco"`
	Numero string `gorm:"unique;not null"          json:"numero"`
	Tipo   string `gorm:"not null"                 json:"tipo"`
	Activa bool   `gorm:"default:true"             json:"activa"`
}

const (
	FacturaPendiente = "pendiente"
	FacturaPagada    = "pagada"
	FacturaAnulada   = "anulada"
)

type Factura struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Numero           string    `gorm:"unique;not null"          json:"numero"`
	ClienteID        uint      `gorm:"index;not null"           json:"cliente_id"`
	Total            float64   `gorm:"not null"                 json:"total"`
	Saldo            float64   `gorm:"not null"                 json:"saldo"`
	Estado           string    `gorm:"not null;default:pendiente" json:"estado"`
	FechaEmision     time.Time `gorm:"not null"                 json:"fecha_emision"`
	FechaVencimiento time.Time `gorm:"not null"                 json:"fecha_vencimiento"`
}

type Pago struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Referencia string    `gorm:"unique;not null"          json:"referencia"`
	FacturaID  uint      `gorm:"index;not null"           json:"factura_id"`
	CuentaID   uint      `gorm:"index;not null"           json:"cuenta_id"`
	Monto      float64   `gorm:"not null"                 json:"monto"`
	Fecha      time.Time `gorm:"not null"                 json:"fecha"`
}
