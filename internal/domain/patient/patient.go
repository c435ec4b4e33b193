package patient

import (
	"math"
	"strings"
	"time"
)

// SiNo is the two-state flag used across clinical forms.
type SiNo string

const (
	Si SiNo = "si"
	No SiNo = "no"
)

type Sexo string

const (
	SexoMasculino Sexo = "Masculino"
	SexoFemenino  Sexo = "Femenino"
)

func (s Sexo) IsValid() bool {
	return s == SexoMasculino || s == SexoFemenino
}

type TipoConsulta string

const (
	TipoPrimeraConsulta TipoConsulta = "Primera consulta"
	TipoSucesivo        TipoConsulta = "Sucesivo"
)

func (t TipoConsulta) IsValid() bool {
	return t == TipoPrimeraConsulta || t == TipoSucesivo
}

// TriageData captures the vitals taken at intake. IMC is derived from
// talla/peso and is nil whenever either input is missing or non-positive.
type TriageData struct {
	PA          string   `json:"pa"`
	Talla       float64  `json:"talla"`
	Peso        float64  `json:"peso"`
	IMC         *float64 `json:"imc,omitempty"`
	Temperatura float64  `json:"temperatura"`
	SpO2        float64  `json:"spo2"`
	FC          float64  `json:"fc"`
	FR          float64  `json:"fr"`
}

// ComputeIMC returns peso / talla² rounded to 2 decimal places.
// The second return value is false when the inputs cannot produce a BMI.
func ComputeIMC(talla, peso float64) (float64, bool) {
	if talla <= 0 || peso <= 0 {
		return 0, false
	}
	return math.Round(peso/(talla*talla)*100) / 100, true
}

// RecomputeIMC refreshes the derived IMC field from the current talla/peso.
func (t *TriageData) RecomputeIMC() {
	if imc, ok := ComputeIMC(t.Talla, t.Peso); ok {
		t.IMC = &imc
	} else {
		t.IMC = nil
	}
}

type HepatitisBData struct {
	AgSHB SiNo `json:"agshb"`
	AgHBC SiNo `json:"aghbc"`
}

// Present reports whether either serologic marker is positive.
func (h HepatitisBData) Present() bool {
	return h.AgSHB == Si || h.AgHBC == Si
}

type CoInfeccionData struct {
	TB                  string         `json:"tb"`
	HepatitisB          HepatitisBData `json:"hepatitisB"`
	HepatitisC          string         `json:"hepatitisC"`
	Toxoplasmosis       string         `json:"toxoplasmosis"`
	Criptococoxis       string         `json:"criptococoxis"`
	Histoplasmosis      string         `json:"histoplasmosis"`
	Candida             string         `json:"candida"`
	Neurosifilis        SiNo           `json:"neurosifilis"`
	Paracoccidiomicosis string         `json:"paracoccidiomicosis"`
	CMV                 string         `json:"cmv"`
	EBV                 string         `json:"ebv"`
}

type NeoplasiaTipo string

const (
	NeoplasiaNinguna          NeoplasiaTipo = "ninguna"
	NeoplasiaLinfomaNoHodking NeoplasiaTipo = "linfoma-no-hodking"
	NeoplasiaCARecto          NeoplasiaTipo = "ca-recto"
	NeoplasiaSarcomaKaposi    NeoplasiaTipo = "sarcoma-kaposi"
	NeoplasiaOtro             NeoplasiaTipo = "otro"
)

type NeoplasiaData struct {
	Tipo                 NeoplasiaTipo `json:"tipo"`
	ClasificacionCARecto string        `json:"clasificacionCARecto"`
	OtroDetalle          string        `json:"otroDetalle"`
}

type FactoresRiesgoData struct {
	Tabaco       bool `json:"tabaco"`
	Alcohol      bool `json:"alcohol"`
	Dislipidemia bool `json:"dislipidemia"`
	UsoDrogas    bool `json:"usoDrogas"`
	HTA          bool `json:"hta"`
	DM           bool `json:"dm"`
}

// EvaluatorRef identifies who performed a clinical evaluation: either a
// resident-level code or a roster staff id, never both and never neither.
type EvaluatorRef struct {
	Residente         string `json:"residente,omitempty"`
	MedicoEvaluadorID string `json:"medicoEvaluadorId,omitempty"`
}

// Validate enforces the exactly-one rule before a history entry may be saved.
func (e EvaluatorRef) Validate() error {
	residente := strings.TrimSpace(e.Residente) != ""
	medico := strings.TrimSpace(e.MedicoEvaluadorID) != ""
	switch {
	case residente && medico:
		return ErrEvaluatorConflict
	case !residente && !medico:
		return ErrEvaluatorMissing
	}
	return nil
}

type HistoriaClinicaPrimera struct {
	EnfermedadActual        string             `json:"enfermedadActual"`
	AntecedentesPersonales  string             `json:"antecedentesPersonales"`
	AntecedentesFamiliares  string             `json:"antecedentesFamiliares"`
	AntecedentesQuirurgicos string             `json:"antecedentesQuirurgicos"`
	AntecedentesAlergicos   string             `json:"antecedentesAlergicos"`
	FactoresRiesgo          FactoresRiesgoData `json:"factoresRiesgo"`
	OtrosFactores           string             `json:"otrosFactores"`
	ExamenFisico            string             `json:"examenFisico"`
	CoInfeccion             CoInfeccionData    `json:"coInfeccion"`
	Neoplasia               NeoplasiaData      `json:"neoplasia"`
	EvaluatorRef
}

type HistoriaClinicaSucesiva struct {
	ID           string     `json:"id"`
	Fecha        string     `json:"fecha"`
	Triage       TriageData `json:"triage"`
	Evolucion    string     `json:"evolucion"`
	ExamenFisico string     `json:"examenFisico"`
	Plan         string     `json:"plan"`
	EvaluatorRef
}

type TratamientoNota struct {
	ID        string `json:"id"`
	Fecha     string `json:"fecha"`
	Contenido string `json:"contenido"`
}

type EsquemaTAR string

const (
	EsquemaKocitaf   EsquemaTAR = "KOCITAF"
	EsquemaDLT3TC    EsquemaTAR = "DLT+3TC"
	EsquemaKivexaDLT EsquemaTAR = "Kivexa/DLT"
	EsquemaTLD       EsquemaTAR = "TLD"
)

func (e EsquemaTAR) IsValid() bool {
	switch e {
	case EsquemaKocitaf, EsquemaDLT3TC, EsquemaKivexaDLT, EsquemaTLD:
		return true
	}
	return false
}

type TARChange struct {
	ID      string     `json:"id"`
	Fecha   string     `json:"fecha"`
	Esquema EsquemaTAR `json:"esquema"`
	Notas   string     `json:"notas"`
}

type Inmunizacion struct {
	Aplicada SiNo   `json:"aplicada"`
	Fecha    string `json:"fecha,omitempty"`
}

type InmunizacionesData struct {
	Neumococo    Inmunizacion `json:"neumococo"`
	Trivalente   Inmunizacion `json:"trivalente"`
	Pentavalente Inmunizacion `json:"pentavalente"`
	SarsCov2     Inmunizacion `json:"sarsCov2"`
	HepatitisA   Inmunizacion `json:"hepatitisA"`
	Influenza    Inmunizacion `json:"influenza"`
	Toxoide      Inmunizacion `json:"toxoide"`
}

// ResultadoNoRealizado marks a study that was never performed. Statistics
// must exclude it rather than bucket it as a clinical result.
const ResultadoNoRealizado = "no-realizado"

type EstudiosData struct {
	CargaViral      *float64           `json:"cargaViral,omitempty"`
	ContajeCD4      *float64           `json:"contajeCD4,omitempty"`
	HepatitisB      string             `json:"hepatitisB"`
	HepatitisC      string             `json:"hepatitisC"`
	VDRL            string             `json:"vdrl"`
	CitologiaAnal   string             `json:"citologiaAnal"`
	Trigliceridos   *float64           `json:"trigliceridos,omitempty"`
	ColesterolTotal *float64           `json:"colesterolTotal,omitempty"`
	ColesterolHDL   *float64           `json:"colesterolHDL,omitempty"`
	ColesterolLDL   *float64           `json:"colesterolLDL,omitempty"`
	Urea            *float64           `json:"urea,omitempty"`
	Creatinina      *float64           `json:"creatinina,omitempty"`
	Densitometria   string             `json:"densitometria"`
	HepatitisA      string             `json:"hepatitisA"`
	Inmunizaciones  InmunizacionesData `json:"inmunizaciones"`
}

type EmbarazadaData struct {
	FUM                     string   `json:"fum"`
	AntecedentesObstetricos string   `json:"antecedentesObstetricos"`
	FechaDiagnosticoVIH     string   `json:"fechaDiagnosticoVIH"`
	Hemoglobina             *float64 `json:"hemoglobina,omitempty"`
	CargaViral              *float64 `json:"cargaViral,omitempty"`
	ContajeCD4              *float64 `json:"contajeCD4,omitempty"`
	HepatitisB              string   `json:"hepatitisB"`
	HepatitisC              string   `json:"hepatitisC"`
}

// Patient is the root aggregate, keyed by the national identity document
// number (cédula). Sub-records are owned by the aggregate, stored as JSONB
// columns, and only ever written through section patches.
type Patient struct {
	ID        string    `gorm:"column:id;type:varchar(20);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	Nombres         string       `gorm:"column:nombres;type:varchar(100);not null" json:"nombres"`
	Apellidos       string       `gorm:"column:apellidos;type:varchar(100);not null" json:"apellidos"`
	Edad            int          `gorm:"column:edad;not null" json:"edad"`
	Sexo            Sexo         `gorm:"column:sexo;type:varchar(10);not null" json:"sexo"`
	FechaNacimiento string       `gorm:"column:fecha_nacimiento;type:varchar(20)" json:"fechaNacimiento"`
	Direccion       string       `gorm:"column:direccion;type:text" json:"direccion"`
	MotivoConsulta  string       `gorm:"column:motivo_consulta;type:text" json:"motivoConsulta"`
	TipoConsulta    TipoConsulta `gorm:"column:tipo_consulta;type:varchar(20);not null;index" json:"tipoConsulta"`

	ConsultationDate time.Time `gorm:"column:consultation_date;not null;index" json:"consultationDate"`
	ConsultationTime string    `gorm:"column:consultation_time;type:varchar(10)" json:"consultationTime"`
	Location         string    `gorm:"column:location;type:varchar(200)" json:"location"`

	Triage                     TriageData                  `gorm:"column:triage;serializer:json" json:"triage"`
	HistoriaClinicaPrimera     HistoriaClinicaPrimera      `gorm:"column:historia_clinica_primera;serializer:json" json:"historiaClinicaPrimera"`
	HistoriasClinicasSucesivas []HistoriaClinicaSucesiva   `gorm:"column:historias_clinicas_sucesivas;serializer:json" json:"historiasClinicasSucesivas"`
	TratamientoNotas           []TratamientoNota           `gorm:"column:tratamiento_notas;serializer:json" json:"tratamientoNotas"`
	TARChanges                 []TARChange                 `gorm:"column:tar_changes;serializer:json" json:"tarChanges"`
	EmbarazadaData             *EmbarazadaData             `gorm:"column:embarazada_data;serializer:json" json:"embarazadaData"`
	FichaInicioTratamiento     *FichaInicioTratamientoData `gorm:"column:ficha_inicio_tratamiento;serializer:json" json:"fichaInicioTratamiento"`
	Estudios                   EstudiosData                `gorm:"column:estudios;serializer:json" json:"estudios"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.Nombres + " " + p.Apellidos)
}

// Identificacion groups the root-level identity and intake fields that the
// registration view edits together.
type Identificacion struct {
	Nombres         string `json:"nombres"`
	Apellidos       string `json:"apellidos"`
	Edad            int    `json:"edad"`
	Sexo            Sexo   `json:"sexo"`
	FechaNacimiento string `json:"fechaNacimiento"`
	Direccion       string `json:"direccion"`
	MotivoConsulta  string `json:"motivoConsulta"`
}

type CreatePatientCommand struct {
	ID              string       `json:"id"`
	Nombres         string       `json:"nombres"`
	Apellidos       string       `json:"apellidos"`
	Edad            int          `json:"edad"`
	Sexo            Sexo         `json:"sexo"`
	FechaNacimiento string       `json:"fechaNacimiento"`
	Direccion       string       `json:"direccion"`
	MotivoConsulta  string       `json:"motivoConsulta"`
	TipoConsulta    TipoConsulta `json:"tipoConsulta"`
	Location        string       `json:"location"`
	Triage          TriageData   `json:"triage"`
}
