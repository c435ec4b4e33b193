// Package stats computes the aggregate tables shown on the statistics view.
// Every function is pure: it takes a patient collection and returns a
// labeled count table, so the whole report is safe to recompute on demand.
//
// Patients with no recorded value for a dimension are excluded from that
// chart, never counted as a zero result. A study marked no-realizado is
// missing data, not a clinical finding.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vihcare/vihcare/internal/domain/patient"
)

// Count is one labeled row of a chart table.
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type TimeFrame string

const (
	FrameAll      TimeFrame = "all"
	FrameYear     TimeFrame = "year"
	FrameSemester TimeFrame = "semester"
	FrameQuarter  TimeFrame = "quarter"
	FrameMonth    TimeFrame = "month"
	FrameWeek     TimeFrame = "week"
)

// ParseTimeFrame validates a period tag from the query string.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(s) {
	case "", FrameAll:
		return FrameAll, nil
	case FrameYear, FrameSemester, FrameQuarter, FrameMonth, FrameWeek:
		return TimeFrame(s), nil
	}
	return "", fmt.Errorf("unknown time frame %q", s)
}

// FilterByTimeFrame keeps patients whose consultation date falls within
// [now - window, now]. FrameAll is the identity filter.
func FilterByTimeFrame(patients []*patient.Patient, tf TimeFrame, now time.Time) []*patient.Patient {
	if tf == FrameAll {
		return patients
	}

	var cutoff time.Time
	switch tf {
	case FrameWeek:
		cutoff = now.AddDate(0, 0, -7)
	case FrameMonth:
		cutoff = now.AddDate(0, -1, 0)
	case FrameQuarter:
		cutoff = now.AddDate(0, -3, 0)
	case FrameSemester:
		cutoff = now.AddDate(0, -6, 0)
	case FrameYear:
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return patients
	}

	filtered := make([]*patient.Patient, 0, len(patients))
	for _, p := range patients {
		if !p.ConsultationDate.Before(cutoff) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ageBuckets is the fixed, ordered partition of the age axis: 5-year
// buckets up to 69, then an open-ended 70+.
var ageBuckets = []string{
	"0-4", "5-9", "10-14", "15-19", "20-24", "25-29", "30-34", "35-39",
	"40-44", "45-49", "50-54", "55-59", "60-64", "65-69", "70+",
}

// AgeBucket assigns an age to exactly one bucket label.
func AgeBucket(edad int) string {
	if edad >= 70 {
		return "70+"
	}
	if edad < 0 {
		edad = 0
	}
	return ageBuckets[edad/5]
}

// AgeHistogram counts patients per age bucket, in bucket order, omitting
// empty buckets from the table.
func AgeHistogram(patients []*patient.Patient) []Count {
	counts := make(map[string]int, len(ageBuckets))
	for _, p := range patients {
		counts[AgeBucket(p.Edad)]++
	}

	out := make([]Count, 0, len(ageBuckets))
	for _, name := range ageBuckets {
		if counts[name] > 0 {
			out = append(out, Count{Name: name, Value: counts[name]})
		}
	}
	return out
}

var coInfectionLabels = []struct {
	key   string
	label string
}{
	{"tb", "Tuberculosis"},
	{"hepatitisB", "Hepatitis B"},
	{"hepatitisC", "Hepatitis C"},
	{"toxoplasmosis", "Toxoplasmosis"},
	{"criptococoxis", "Criptococoxis"},
	{"histoplasmosis", "Histoplasmosis"},
	{"candida", "Cándida"},
	{"neurosifilis", "Neurosífilis"},
	{"paracoccidiomicosis", "Paracoccidio."},
	{"cmv", "CMV"},
	{"ebv", "EBV"},
}

func coInfectionPresent(c patient.CoInfeccionData, key string) bool {
	switch key {
	case "tb":
		return c.TB != ""
	case "hepatitisB":
		return c.HepatitisB.Present()
	case "hepatitisC":
		return c.HepatitisC != ""
	case "toxoplasmosis":
		return c.Toxoplasmosis != ""
	case "criptococoxis":
		return c.Criptococoxis != ""
	case "histoplasmosis":
		return c.Histoplasmosis != ""
	case "candida":
		return c.Candida != ""
	case "neurosifilis":
		return c.Neurosifilis == patient.Si
	case "paracoccidiomicosis":
		return c.Paracoccidiomicosis != ""
	case "cmv":
		return c.CMV != ""
	case "ebv":
		return c.EBV != ""
	}
	return false
}

// CoInfectionCounts counts patients per co-infection. Free-text fields
// count when non-empty; hepatitis B when either marker is positive;
// neurosifilis when the flag is si. Zero categories are omitted.
func CoInfectionCounts(patients []*patient.Patient) []Count {
	out := make([]Count, 0, len(coInfectionLabels))
	for _, ci := range coInfectionLabels {
		n := 0
		for _, p := range patients {
			if coInfectionPresent(p.HistoriaClinicaPrimera.CoInfeccion, ci.key) {
				n++
			}
		}
		if n > 0 {
			out = append(out, Count{Name: ci.label, Value: n})
		}
	}
	return out
}

var neoplasiaLabels = map[patient.NeoplasiaTipo]string{
	patient.NeoplasiaLinfomaNoHodking: "Linfoma no Hodking",
	patient.NeoplasiaCARecto:          "CA de Recto",
	patient.NeoplasiaSarcomaKaposi:    "Sarcoma de Kaposi",
	patient.NeoplasiaOtro:             "Otro",
}

// NeoplasiaCounts counts patients per neoplasia type, excluding "ninguna"
// and empty categories.
func NeoplasiaCounts(patients []*patient.Patient) []Count {
	order := []patient.NeoplasiaTipo{
		patient.NeoplasiaLinfomaNoHodking,
		patient.NeoplasiaCARecto,
		patient.NeoplasiaSarcomaKaposi,
		patient.NeoplasiaOtro,
	}

	counts := make(map[patient.NeoplasiaTipo]int)
	for _, p := range patients {
		counts[p.HistoriaClinicaPrimera.Neoplasia.Tipo]++
	}

	out := make([]Count, 0, len(order))
	for _, tipo := range order {
		if counts[tipo] > 0 {
			out = append(out, Count{Name: neoplasiaLabels[tipo], Value: counts[tipo]})
		}
	}
	return out
}

// RiskFactorCounts counts cardiovascular risk factors across the treatment
// initiation forms. Patients without a form contribute nothing.
func RiskFactorCounts(patients []*patient.Patient) []Count {
	var tabaco, alcohol, dislipidemia, usoDrogas, hta, dm int
	for _, p := range patients {
		if p.FichaInicioTratamiento == nil {
			continue
		}
		fr := p.FichaInicioTratamiento.FactoresRiesgo
		if fr.Tabaco {
			tabaco++
		}
		if fr.Alcohol {
			alcohol++
		}
		if fr.Dislipidemia {
			dislipidemia++
		}
		if fr.UsoDrogas {
			usoDrogas++
		}
		if fr.HTA {
			hta++
		}
		if fr.DM {
			dm++
		}
	}

	return nonZero([]Count{
		{"Tabaco", tabaco},
		{"Alcohol", alcohol},
		{"Dislipidemia", dislipidemia},
		{"Uso Drogas", usoDrogas},
		{"HTA", hta},
		{"DM", dm},
	})
}

// EstadoClinicoCounts counts clinical-state flags across treatment forms.
func EstadoClinicoCounts(patients []*patient.Patient) []Count {
	var asintomatico, sintomaticoB, enfermedadB, sintomaticoC, enfermedadC, historiaTB int
	for _, p := range patients {
		if p.FichaInicioTratamiento == nil {
			continue
		}
		ec := p.FichaInicioTratamiento.EstadoClinico
		if ec.Asintomatico {
			asintomatico++
		}
		if ec.SintomaticoB {
			sintomaticoB++
		}
		if ec.EnfermedadB {
			enfermedadB++
		}
		if ec.SintomaticoC {
			sintomaticoC++
		}
		if ec.EnfermedadC {
			enfermedadC++
		}
		if ec.HistoriaTB {
			historiaTB++
		}
	}

	return nonZero([]Count{
		{"Asintomático", asintomatico},
		{"Sintomático B", sintomaticoB},
		{"Enfermedad B", enfermedadB},
		{"Sintomático C", sintomaticoC},
		{"Enfermedad C", enfermedadC},
		{"Historia TB", historiaTB},
	})
}

// RazonCambioCounts counts regimen-change criteria across treatment forms.
func RazonCambioCounts(patients []*patient.Patient) []Count {
	var inmunologico, clinico, virologico, toxicidad, intolerancia, desabastecimiento, interacciones int
	for _, p := range patients {
		if p.FichaInicioTratamiento == nil {
			continue
		}
		rc := p.FichaInicioTratamiento.RazonCambio
		if rc.CriterioInmunologico {
			inmunologico++
		}
		if rc.CriterioClinico {
			clinico++
		}
		if rc.CriterioVirologico {
			virologico++
		}
		if rc.ToxicidadMedicamentosa {
			toxicidad++
		}
		if rc.IntoleranciaSevera {
			intolerancia++
		}
		if rc.DesabastecimientoARV {
			desabastecimiento++
		}
		if rc.InteraccionesMedicamentosas {
			interacciones++
		}
	}

	return nonZero([]Count{
		{"Inmunológico", inmunologico},
		{"Clínico", clinico},
		{"Virológico", virologico},
		{"Toxicidad", toxicidad},
		{"Intolerancia", intolerancia},
		{"Desabastecimiento", desabastecimiento},
		{"Interacciones", interacciones},
	})
}

// CD4Buckets partitions patients with a numeric CD4 count into the
// standard clinical ranges. Patients without a value are excluded.
func CD4Buckets(patients []*patient.Patient) []Count {
	var under200, to350, to500, over500 int
	for _, p := range patients {
		cd4 := p.Estudios.ContajeCD4
		if cd4 == nil {
			continue
		}
		switch {
		case *cd4 < 200:
			under200++
		case *cd4 <= 350:
			to350++
		case *cd4 <= 500:
			to500++
		default:
			over500++
		}
	}

	return []Count{
		{"< 200", under200},
		{"200-350", to350},
		{"351-500", to500},
		{"> 500", over500},
	}
}

// ViralLoadBuckets partitions patients with a numeric viral load; < 50
// copies is the undetectable threshold. Patients without a value are
// excluded.
func ViralLoadBuckets(patients []*patient.Patient) []Count {
	var undetectable, low, moderate, high int
	for _, p := range patients {
		cv := p.Estudios.CargaViral
		if cv == nil {
			continue
		}
		switch {
		case *cv < 50:
			undetectable++
		case *cv <= 1000:
			low++
		case *cv <= 100000:
			moderate++
		default:
			high++
		}
	}

	return []Count{
		{"Indetectable (<50)", undetectable},
		{"Baja (50-1k)", low},
		{"Moderada (1k-100k)", moderate},
		{"Alta (>100k)", high},
	}
}

// valueDistribution counts patients by an extracted enum/string value,
// excluding missing values and no-realizado.
func valueDistribution(patients []*patient.Patient, extract func(*patient.Patient) string) []Count {
	counts := make(map[string]int)
	var order []string
	for _, p := range patients {
		v := extract(p)
		if v == "" || v == patient.ResultadoNoRealizado {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	out := make([]Count, 0, len(order))
	for _, name := range order {
		out = append(out, Count{Name: name, Value: counts[name]})
	}
	return out
}

func SexDistribution(patients []*patient.Patient) []Count {
	return valueDistribution(patients, func(p *patient.Patient) string { return string(p.Sexo) })
}

func ConsultationTypeDistribution(patients []*patient.Patient) []Count {
	return valueDistribution(patients, func(p *patient.Patient) string { return string(p.TipoConsulta) })
}

func DensitometriaDistribution(patients []*patient.Patient) []Count {
	return valueDistribution(patients, func(p *patient.Patient) string { return p.Estudios.Densitometria })
}

func HepatitisBDistribution(patients []*patient.Patient) []Count {
	return valueDistribution(patients, func(p *patient.Patient) string { return p.Estudios.HepatitisB })
}

func HepatitisCDistribution(patients []*patient.Patient) []Count {
	return valueDistribution(patients, func(p *patient.Patient) string { return p.Estudios.HepatitisC })
}

func VDRLDistribution(patients []*patient.Patient) []Count {
	return valueDistribution(patients, func(p *patient.Patient) string { return p.Estudios.VDRL })
}

// ImmunizationCounts counts applied vaccines per antigen, omitting zeros.
func ImmunizationCounts(patients []*patient.Patient) []Count {
	type vaccine struct {
		label   string
		applied func(patient.InmunizacionesData) patient.SiNo
	}
	vaccines := []vaccine{
		{"Neumococo", func(i patient.InmunizacionesData) patient.SiNo { return i.Neumococo.Aplicada }},
		{"Trivalente", func(i patient.InmunizacionesData) patient.SiNo { return i.Trivalente.Aplicada }},
		{"Pentavalente", func(i patient.InmunizacionesData) patient.SiNo { return i.Pentavalente.Aplicada }},
		{"Sars-Cov2", func(i patient.InmunizacionesData) patient.SiNo { return i.SarsCov2.Aplicada }},
		{"Hepatitis A", func(i patient.InmunizacionesData) patient.SiNo { return i.HepatitisA.Aplicada }},
		{"Influenza", func(i patient.InmunizacionesData) patient.SiNo { return i.Influenza.Aplicada }},
		{"Toxoide", func(i patient.InmunizacionesData) patient.SiNo { return i.Toxoide.Aplicada }},
	}

	out := make([]Count, 0, len(vaccines))
	for _, v := range vaccines {
		n := 0
		for _, p := range patients {
			if v.applied(p.Estudios.Inmunizaciones) == patient.Si {
				n++
			}
		}
		if n > 0 {
			out = append(out, Count{Name: v.label, Value: n})
		}
	}
	return out
}

// ARVMedicationUsage counts, per drug, the patients whose treatment form
// selected it, across all drug classes. Sorted descending by count; ties
// break alphabetically for a stable table. Patients without a treatment
// form contribute nothing.
func ARVMedicationUsage(patients []*patient.Patient) []Count {
	counts := make(map[string]int)
	for _, p := range patients {
		if p.FichaInicioTratamiento == nil {
			continue
		}
		for _, class := range p.FichaInicioTratamiento.MedicamentosARV.Classes() {
			for med, data := range class {
				if data.Selected {
					counts[med]++
				}
			}
		}
	}

	out := make([]Count, 0, len(counts))
	for med, n := range counts {
		out = append(out, Count{Name: MedicationLabel(med), Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TARSchemeCounts counts regimen occurrences across every patient's TAR
// change log, omitting unused schemes.
func TARSchemeCounts(patients []*patient.Patient) []Count {
	order := []patient.EsquemaTAR{
		patient.EsquemaKocitaf,
		patient.EsquemaDLT3TC,
		patient.EsquemaKivexaDLT,
		patient.EsquemaTLD,
	}

	counts := make(map[patient.EsquemaTAR]int)
	for _, p := range patients {
		for _, change := range p.TARChanges {
			if change.Esquema.IsValid() {
				counts[change.Esquema]++
			}
		}
	}

	out := make([]Count, 0, len(order))
	for _, esquema := range order {
		if counts[esquema] > 0 {
			out = append(out, Count{Name: string(esquema), Value: counts[esquema]})
		}
	}
	return out
}

func nonZero(counts []Count) []Count {
	out := counts[:0]
	for _, c := range counts {
		if c.Value > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Summary is the period overview shown above the charts.
type Summary struct {
	TotalPatients           int     `json:"totalPatients"`
	PredominantAgeGroup     string  `json:"predominantAgeGroup"`
	MostReportedCoInfection string  `json:"mostReportedCoInfection"`
	UndetectablePercent     float64 `json:"undetectablePercent"`
	AverageCD4              float64 `json:"averageCD4"`
	AverageCD4Known         bool    `json:"averageCD4Known"`
}

// Summarize derives the headline figures for a period. Percent undetectable
// is over all patients in the window; average CD4 only over patients with a
// recorded count.
func Summarize(patients []*patient.Patient) Summary {
	s := Summary{TotalPatients: len(patients)}
	if len(patients) == 0 {
		return s
	}

	if ages := AgeHistogram(patients); len(ages) > 0 {
		max := ages[0]
		for _, c := range ages[1:] {
			if c.Value > max.Value {
				max = c
			}
		}
		s.PredominantAgeGroup = max.Name
	}

	if cos := CoInfectionCounts(patients); len(cos) > 0 {
		max := cos[0]
		for _, c := range cos[1:] {
			if c.Value > max.Value {
				max = c
			}
		}
		s.MostReportedCoInfection = max.Name
	}

	undetectable := 0
	var cd4Sum float64
	cd4N := 0
	for _, p := range patients {
		if cv := p.Estudios.CargaViral; cv != nil && *cv < 50 {
			undetectable++
		}
		if cd4 := p.Estudios.ContajeCD4; cd4 != nil {
			cd4Sum += *cd4
			cd4N++
		}
	}

	s.UndetectablePercent = float64(undetectable) / float64(len(patients)) * 100
	if cd4N > 0 {
		s.AverageCD4 = cd4Sum / float64(cd4N)
		s.AverageCD4Known = true
	}

	return s
}

// Report bundles every table the statistics view renders for one period.
type Report struct {
	TimeFrame TimeFrame `json:"timeFrame"`
	Summary   Summary   `json:"summary"`

	Ages              []Count `json:"ages"`
	Sex               []Count `json:"sex"`
	ConsultationTypes []Count `json:"consultationTypes"`
	CoInfections      []Count `json:"coInfections"`
	Neoplasias        []Count `json:"neoplasias"`
	RiskFactors       []Count `json:"riskFactors"`
	EstadoClinico     []Count `json:"estadoClinico"`
	RazonCambio       []Count `json:"razonCambio"`
	CD4               []Count `json:"cd4"`
	ViralLoad         []Count `json:"viralLoad"`
	Densitometria     []Count `json:"densitometria"`
	HepatitisB        []Count `json:"hepatitisB"`
	HepatitisC        []Count `json:"hepatitisC"`
	VDRL              []Count `json:"vdrl"`
	Immunizations     []Count `json:"immunizations"`
	ARVMedications    []Count `json:"arvMedications"`
	TARSchemes        []Count `json:"tarSchemes"`
}

// BuildReport filters the collection to the requested window and computes
// every table.
func BuildReport(patients []*patient.Patient, tf TimeFrame, now time.Time) *Report {
	filtered := FilterByTimeFrame(patients, tf, now)
	return &Report{
		TimeFrame: tf,
		Summary:   Summarize(filtered),

		Ages:              AgeHistogram(filtered),
		Sex:               SexDistribution(filtered),
		ConsultationTypes: ConsultationTypeDistribution(filtered),
		CoInfections:      CoInfectionCounts(filtered),
		Neoplasias:        NeoplasiaCounts(filtered),
		RiskFactors:       RiskFactorCounts(filtered),
		EstadoClinico:     EstadoClinicoCounts(filtered),
		RazonCambio:       RazonCambioCounts(filtered),
		CD4:               CD4Buckets(filtered),
		ViralLoad:         ViralLoadBuckets(filtered),
		Densitometria:     DensitometriaDistribution(filtered),
		HepatitisB:        HepatitisBDistribution(filtered),
		HepatitisC:        HepatitisCDistribution(filtered),
		VDRL:              VDRLDistribution(filtered),
		Immunizations:     ImmunizationCounts(filtered),
		ARVMedications:    ARVMedicationUsage(filtered),
		TARSchemes:        TARSchemeCounts(filtered),
	}
}

var medicationLabels = map[string]string{
	"abacavir": "Abacavir (ABC)", "zidovudina": "Zidovudina (AZT)",
	"lamivudina": "Lamivudina (3TC)", "zidovudinaLamivudina": "Zidovudina/Lamivudina",
	"zidovudina3tcAbc": "Zidovudina/3TC/ABC", "abacavirLamivudina": "Abacavir/Lamivudina",
	"didanosina": "Didanosina (DDI)", "stavudina": "Stavudina (D4T)",
	"tenofovir": "Tenofovir (TDF)",
	"efavirenz":  "Efavirenz (EFV)", "nevirapina": "Nevirapina (NVP)",
	"etravirina": "Etravirina* (ETRV)",
	"enfuvirtide": "Enfuvirtide*(T20)",
	"raltegravir": "Raltegravir*(RALT)",
	"saquinavir": "Saquinavir (SQV)", "lopinavirRtv": "Lopinavir/Rtv (LPV/r)",
	"atazanavir": "Atazanavir(ATV)", "fosamprenavir": "Fosamprenavir (FPV)",
	"ritonavir": "Ritonavir (RTV)", "darunavir": "Darunavir* (DRV)",
	"kocitaf": "Kocitaf", "dlt3tc": "DLT+3TC", "kivexaDlt": "Kivexa+DLT", "tld": "TLD",
}

// MedicationLabel maps a catalog key to its display label, falling back to
// the key itself for drugs added to the catalog later.
func MedicationLabel(key string) string {
	if label, ok := medicationLabels[strings.TrimSpace(key)]; ok {
		return label
	}
	return key
}
