package patient

import (
	"errors"
	"testing"
	"time"
)

func TestComputeIMC(t *testing.T) {
	tests := []struct {
		name  string
		talla float64
		peso  float64
		want  float64
		ok    bool
	}{
		{"typical adult", 1.70, 70, 24.22, true},
		{"rounds to two decimals", 1.75, 80, 26.12, true},
		{"zero talla", 0, 70, 0, false},
		{"zero peso", 1.70, 0, 0, false},
		{"negative talla", -1.70, 70, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeIMC(tt.talla, tt.peso)
			if ok != tt.ok {
				t.Fatalf("ComputeIMC(%v, %v) ok = %v, want %v", tt.talla, tt.peso, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ComputeIMC(%v, %v) = %v, want %v", tt.talla, tt.peso, got, tt.want)
			}
		})
	}
}

func TestRecomputeIMC(t *testing.T) {
	tr := TriageData{Talla: 1.70, Peso: 70}
	tr.RecomputeIMC()
	if tr.IMC == nil || *tr.IMC != 24.22 {
		t.Fatalf("IMC = %v, want 24.22", tr.IMC)
	}

	// Missing height must clear a previously derived value, not keep it.
	tr.Talla = 0
	tr.RecomputeIMC()
	if tr.IMC != nil {
		t.Fatalf("IMC = %v, want nil when talla is zero", *tr.IMC)
	}
}

func TestEvaluatorRefValidate(t *testing.T) {
	tests := []struct {
		name    string
		ref     EvaluatorRef
		wantErr error
	}{
		{"residente only", EvaluatorRef{Residente: "R2 Pérez"}, nil},
		{"medico only", EvaluatorRef{MedicoEvaluadorID: "3"}, nil},
		{"both set", EvaluatorRef{Residente: "R2 Pérez", MedicoEvaluadorID: "3"}, ErrEvaluatorConflict},
		{"neither set", EvaluatorRef{}, ErrEvaluatorMissing},
		{"whitespace is not a value", EvaluatorRef{Residente: "   "}, ErrEvaluatorMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ref.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewFromIntakeDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	cmd := &CreatePatientCommand{
		ID:           "12345678",
		Nombres:      "Ana",
		Apellidos:    "García",
		Edad:         34,
		Sexo:         SexoFemenino,
		TipoConsulta: TipoPrimeraConsulta,
		Triage:       TriageData{Talla: 1.60, Peso: 55},
	}

	p := NewFromIntake(cmd, now)

	if p.ID != "12345678" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Location != DefaultLocation {
		t.Errorf("Location = %q, want default", p.Location)
	}
	if p.ConsultationTime != "09:30" {
		t.Errorf("ConsultationTime = %q, want 09:30", p.ConsultationTime)
	}
	if p.Triage.IMC == nil || *p.Triage.IMC != 21.48 {
		t.Errorf("Triage.IMC = %v, want 21.48", p.Triage.IMC)
	}

	if p.EmbarazadaData != nil {
		t.Error("EmbarazadaData should start nil")
	}
	if p.FichaInicioTratamiento != nil {
		t.Error("FichaInicioTratamiento should start nil")
	}
	if p.HistoriasClinicasSucesivas == nil || len(p.HistoriasClinicasSucesivas) != 0 {
		t.Error("HistoriasClinicasSucesivas should start as an empty slice")
	}
	if p.TARChanges == nil || len(p.TARChanges) != 0 {
		t.Error("TARChanges should start as an empty slice")
	}

	if p.Estudios.HepatitisB != ResultadoNoRealizado {
		t.Errorf("Estudios.HepatitisB = %q, want no-realizado", p.Estudios.HepatitisB)
	}
	if p.Estudios.CargaViral != nil || p.Estudios.ContajeCD4 != nil {
		t.Error("numeric lab values should start absent")
	}
	if p.Estudios.Inmunizaciones.Neumococo.Aplicada != No {
		t.Error("immunizations should start not applied")
	}

	hist := p.HistoriaClinicaPrimera
	if hist.CoInfeccion.HepatitisB.AgSHB != No || hist.CoInfeccion.Neurosifilis != No {
		t.Error("co-infection flags should default to no")
	}
	if hist.Neoplasia.Tipo != NeoplasiaNinguna {
		t.Errorf("Neoplasia.Tipo = %q, want ninguna", hist.Neoplasia.Tipo)
	}
}

func TestNewFromIntakeKeepsExplicitLocation(t *testing.T) {
	cmd := &CreatePatientCommand{ID: "1", Location: "Ambulatorio El Valle"}
	p := NewFromIntake(cmd, time.Now())
	if p.Location != "Ambulatorio El Valle" {
		t.Errorf("Location = %q", p.Location)
	}
}

// Two views saving disjoint sections must not clobber each other, in
// either order of arrival.
func TestApplyPatchDisjointSections(t *testing.T) {
	base := func() *Patient {
		return NewFromIntake(&CreatePatientCommand{ID: "1", Sexo: SexoFemenino}, time.Now())
	}

	triage := TriageData{Talla: 1.70, Peso: 70}
	triage.RecomputeIMC()
	cv := 120.0
	estudios := NewEstudios()
	estudios.CargaViral = &cv

	patchA := &SectionPatch{Triage: &triage}
	patchB := &SectionPatch{Estudios: &estudios}

	for _, order := range [][]*SectionPatch{{patchA, patchB}, {patchB, patchA}} {
		p := base()
		for _, patch := range order {
			p.ApplyPatch(patch)
		}
		if p.Triage.Peso != 70 {
			t.Errorf("triage section lost after merge")
		}
		if p.Estudios.CargaViral == nil || *p.Estudios.CargaViral != 120 {
			t.Errorf("estudios section lost after merge")
		}
	}
}

func TestApplyPatchNilLeavesAggregateUntouched(t *testing.T) {
	p := NewFromIntake(&CreatePatientCommand{ID: "1", Nombres: "Ana"}, time.Now())
	p.ApplyPatch(nil)
	p.ApplyPatch(&SectionPatch{})
	if p.Nombres != "Ana" {
		t.Errorf("Nombres = %q", p.Nombres)
	}
	if p.EmbarazadaData != nil {
		t.Error("EmbarazadaData changed by empty patch")
	}
}

func TestEsquemaTARIsValid(t *testing.T) {
	for _, e := range []EsquemaTAR{EsquemaKocitaf, EsquemaDLT3TC, EsquemaKivexaDLT, EsquemaTLD} {
		if !e.IsValid() {
			t.Errorf("%q should be valid", e)
		}
	}
	if EsquemaTAR("AZT+3TC").IsValid() {
		t.Error("unknown scheme should be invalid")
	}
}

func TestNewMedicamentosARVCoversCatalog(t *testing.T) {
	m := NewMedicamentosARV()
	if len(m.ITRN) != len(ITRNMeds) {
		t.Errorf("ITRN has %d drugs, want %d", len(m.ITRN), len(ITRNMeds))
	}
	for _, med := range ITRNMeds {
		row, ok := m.ITRN[med]
		if !ok {
			t.Errorf("missing catalog drug %q", med)
		}
		if row.Selected {
			t.Errorf("drug %q should start unselected", med)
		}
	}
}
