package patient

// Drug catalogs of the national treatment-initiation form, by ARV class.
// Keys double as chart identifiers in the statistics module.
var (
	ITRNMeds = []string{
		"abacavir", "zidovudina", "lamivudina", "zidovudinaLamivudina",
		"zidovudina3tcAbc", "abacavirLamivudina", "didanosina", "stavudina",
		"tenofovir",
	}
	ITRNNMeds             = []string{"efavirenz", "nevirapina", "etravirina"}
	InhFusionMeds         = []string{"enfuvirtide"}
	InhIntegrasaMeds      = []string{"raltegravir"}
	IPMeds                = []string{"saquinavir", "lopinavirRtv", "atazanavir", "fosamprenavir", "ritonavir", "darunavir"}
	EsquemasCombinadosMeds = []string{"kocitaf", "dlt3tc", "kivexaDlt", "tld"}
)

// MedicamentoARV is one drug row of the form: whether it is part of the
// requested regimen and its free-text dosage.
type MedicamentoARV struct {
	Selected bool   `json:"selected"`
	Dosis    string `json:"dosis"`
}

type MedicamentosARV struct {
	ITRN               map[string]MedicamentoARV `json:"ITRN"`
	ITRNN              map[string]MedicamentoARV `json:"ITRNN"`
	IP                 map[string]MedicamentoARV `json:"IP"`
	InhFusion          map[string]MedicamentoARV `json:"InhFusion"`
	InhIntegrasa       map[string]MedicamentoARV `json:"InhIntegrasa"`
	EsquemasCombinados map[string]MedicamentoARV `json:"EsquemasCombinados"`
}

// Classes returns the drug-class sub-maps in a stable order.
func (m MedicamentosARV) Classes() []map[string]MedicamentoARV {
	return []map[string]MedicamentoARV{
		m.ITRN, m.ITRNN, m.IP, m.InhFusion, m.InhIntegrasa, m.EsquemasCombinados,
	}
}

type EstadoClinico struct {
	Asintomatico bool   `json:"asintomatico"`
	SintomaticoB bool   `json:"sintomaticoB"`
	EnfermedadB  bool   `json:"enfermedadB"`
	SintomaticoC bool   `json:"sintomaticoC"`
	EnfermedadC  bool   `json:"enfermedadC"`
	HistoriaTB   bool   `json:"historiaTB"`
	TipoTB       string `json:"tipoTB"`
}

type EmbarazoInfo struct {
	Si               bool `json:"si"`
	Num              bool `json:"num"`
	Actualmente      bool `json:"actualmente"`
	SemanaGestacional bool `json:"semanaGestacional"`
}

type OtrasTerapias struct {
	TmsSms             bool   `json:"tmsSms"`
	Isoniazida         bool   `json:"isoniazida"`
	TerapiaAntiTB      bool   `json:"terapiaAntiTB"`
	TiempoTerapiaAntiTB string `json:"tiempoTerapiaAntiTB"`
	OtrasProfilaxis    string `json:"otrasProfilaxis"`
}

type RazonCambio struct {
	CriterioInmunologico        bool `json:"criterioInmunologico"`
	CriterioClinico             bool `json:"criterioClinico"`
	CriterioVirologico          bool `json:"criterioVirologico"`
	ToxicidadMedicamentosa      bool `json:"toxicidadMedicamentosa"`
	IntoleranciaSevera          bool `json:"intoleranciaSevera"`
	DesabastecimientoARV        bool `json:"desabastecimientoARV"`
	InteraccionesMedicamentosas bool `json:"interaccionesMedicamentosas"`
}

type ValorFecha struct {
	Valor string `json:"valor"`
	Fecha string `json:"fecha"`
}

type ContajeCD4Historial struct {
	Previo ValorFecha `json:"previo"`
	Actual ValorFecha `json:"actual"`
}

type CargaViralHistorial struct {
	Previa1 ValorFecha `json:"previa1"`
	Previa2 ValorFecha `json:"previa2"`
	Actual  ValorFecha `json:"actual"`
}

// FichaInicioTratamientoData is the treatment initiation/change request form.
// It is nil until the treatment view first saves it.
type FichaInicioTratamientoData struct {
	ID                     string              `json:"id"`
	EntidadFederal         string              `json:"entidadFederal"`
	CentroAsistencial      string              `json:"centroAsistencial"`
	Nacionalidad           string              `json:"nacionalidad"`
	FactoresRiesgo         FactoresRiesgoData  `json:"factoresRiesgo"`
	AntecedentesFamiliares string              `json:"antecedentesFamiliares"`
	OtrosFactores          string              `json:"otrosFactores"`
	EstadoClinico          EstadoClinico       `json:"estadoClinico"`
	Embarazo               EmbarazoInfo        `json:"embarazo"`
	ClasificacionClinica   string              `json:"clasificacionClinica"`
	AnoDiagnosticoVIH      string              `json:"anoDiagnosticoVIH"`
	CD4Actual              string              `json:"cd4Actual"`
	CargaViralActual       string              `json:"cargaViralActual"`
	TipoTratamiento        string              `json:"tipoTratamiento"`
	MedicamentosARV        MedicamentosARV     `json:"medicamentosARV"`
	OtrasTerapias          OtrasTerapias       `json:"otrasTerapias"`
	RazonCambio            RazonCambio         `json:"razonCambio"`
	ContajeCD4             ContajeCD4Historial `json:"contajeCD4"`
	CargaViral             CargaViralHistorial `json:"cargaViral"`
	EsquemaActual          string              `json:"esquemaActual"`
	Justificacion          string              `json:"justificacion"`
	FechaElaboracion       string              `json:"fechaElaboracion"`
	MedicoTratante         string              `json:"medicoTratante"`
	Sello                  string              `json:"sello"`
	CoordinadorRegional    string              `json:"coordinadorRegional"`
}

func newMedMap(catalog []string) map[string]MedicamentoARV {
	m := make(map[string]MedicamentoARV, len(catalog))
	for _, med := range catalog {
		m[med] = MedicamentoARV{}
	}
	return m
}

// NewMedicamentosARV builds the full drug-class structure with every
// catalog drug present and unselected.
func NewMedicamentosARV() MedicamentosARV {
	return MedicamentosARV{
		ITRN:               newMedMap(ITRNMeds),
		ITRNN:              newMedMap(ITRNNMeds),
		IP:                 newMedMap(IPMeds),
		InhFusion:          newMedMap(InhFusionMeds),
		InhIntegrasa:       newMedMap(InhIntegrasaMeds),
		EsquemasCombinados: newMedMap(EsquemasCombinadosMeds),
	}
}
