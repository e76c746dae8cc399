package model

// Parametro is one configuration key/value pair. The loyalty ledger reads
// "fidelizacion_activa", "porcentaje_puntos_default" and
// "puntos_por_unidad_moneda"; the GUI writes them.
type Parametro struct {
	Clave string `gorm:"primaryKey"`
	Valor string `gorm:"not null"`
}

func (Parametro) TableName() string { return "parametros" }

// Contador is a named persistent sequence. "ticket_no" backs the global
// sequential ticket numbering.
type Contador struct {
	Nombre string `gorm:"primaryKey"`
	Valor  int64  `gorm:"not null"`
}

func (Contador) TableName() string { return "contadores" }
