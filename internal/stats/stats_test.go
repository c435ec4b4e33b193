package stats

import (
	"testing"
	"time"

	"github.com/vihcare/vihcare/internal/domain/patient"
)

func newPatient(id string, edad int) *patient.Patient {
	return patient.NewFromIntake(&patient.CreatePatientCommand{
		ID:           id,
		Edad:         edad,
		Sexo:         patient.SexoMasculino,
		TipoConsulta: patient.TipoPrimeraConsulta,
	}, time.Now())
}

func findCount(t *testing.T, counts []Count, name string) int {
	t.Helper()
	for _, c := range counts {
		if c.Name == name {
			return c.Value
		}
	}
	return 0
}

func TestAgeHistogramOmitsEmptyBuckets(t *testing.T) {
	patients := []*patient.Patient{
		newPatient("1", 3),
		newPatient("2", 67),
		newPatient("3", 71),
	}

	got := AgeHistogram(patients)

	want := []Count{{"0-4", 1}, {"65-69", 1}, {"70+", 1}}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// Every patient lands in exactly one bucket, so the bucket totals always
// partition the population.
func TestAgeHistogramPartitionsPopulation(t *testing.T) {
	ages := []int{0, 4, 5, 17, 19, 20, 34, 35, 64, 69, 70, 99}
	patients := make([]*patient.Patient, 0, len(ages))
	for i, a := range ages {
		patients = append(patients, newPatient(string(rune('a'+i)), a))
	}

	total := 0
	for _, c := range AgeHistogram(patients) {
		total += c.Value
	}
	if total != len(patients) {
		t.Errorf("bucket sum = %d, want %d", total, len(patients))
	}
}

func TestAgeBucketBoundaries(t *testing.T) {
	tests := []struct {
		edad int
		want string
	}{
		{0, "0-4"}, {4, "0-4"}, {5, "5-9"}, {69, "65-69"}, {70, "70+"}, {103, "70+"},
	}
	for _, tt := range tests {
		if got := AgeBucket(tt.edad); got != tt.want {
			t.Errorf("AgeBucket(%d) = %q, want %q", tt.edad, got, tt.want)
		}
	}
}

func TestCD4Buckets(t *testing.T) {
	vals := []float64{199, 200, 350, 351, 500, 501}
	patients := make([]*patient.Patient, 0, len(vals)+1)
	for i := range vals {
		p := newPatient(string(rune('a'+i)), 30)
		p.Estudios.ContajeCD4 = &vals[i]
		patients = append(patients, p)
	}
	// No CD4 recorded: excluded, not bucketed as zero.
	patients = append(patients, newPatient("z", 30))

	got := CD4Buckets(patients)

	want := []Count{{"< 200", 1}, {"200-350", 2}, {"351-500", 2}, {"> 500", 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestViralLoadBuckets(t *testing.T) {
	vals := []float64{49, 50, 1000, 1001, 100000, 100001}
	patients := make([]*patient.Patient, 0, len(vals))
	for i := range vals {
		p := newPatient(string(rune('a'+i)), 30)
		p.Estudios.CargaViral = &vals[i]
		patients = append(patients, p)
	}

	got := ViralLoadBuckets(patients)

	want := []Count{
		{"Indetectable (<50)", 1},
		{"Baja (50-1k)", 2},
		{"Moderada (1k-100k)", 2},
		{"Alta (>100k)", 1},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCoInfectionCounts(t *testing.T) {
	a := newPatient("a", 30)
	a.HistoriaClinicaPrimera.CoInfeccion.TB = "pulmonar 2023"
	a.HistoriaClinicaPrimera.CoInfeccion.HepatitisB.AgSHB = patient.Si

	b := newPatient("b", 40)
	b.HistoriaClinicaPrimera.CoInfeccion.HepatitisB.AgHBC = patient.Si
	b.HistoriaClinicaPrimera.CoInfeccion.Neurosifilis = patient.Si

	c := newPatient("c", 50) // nothing reported

	got := CoInfectionCounts([]*patient.Patient{a, b, c})

	if n := findCount(t, got, "Hepatitis B"); n != 2 {
		t.Errorf("Hepatitis B = %d, want 2 (either marker counts)", n)
	}
	if n := findCount(t, got, "Tuberculosis"); n != 1 {
		t.Errorf("Tuberculosis = %d, want 1", n)
	}
	if n := findCount(t, got, "Neurosífilis"); n != 1 {
		t.Errorf("Neurosífilis = %d, want 1", n)
	}
	for _, row := range got {
		if row.Value == 0 {
			t.Errorf("zero category %q should be omitted", row.Name)
		}
	}
}

func TestEnumDistributionExcludesNoRealizado(t *testing.T) {
	a := newPatient("a", 30)
	a.Estudios.VDRL = "reactivo"
	b := newPatient("b", 40) // VDRL stays no-realizado
	c := newPatient("c", 50)
	c.Estudios.VDRL = "no-reactivo"

	got := VDRLDistribution([]*patient.Patient{a, b, c})

	if len(got) != 2 {
		t.Fatalf("got %v, want 2 categories", got)
	}
	if findCount(t, got, patient.ResultadoNoRealizado) != 0 {
		t.Error("no-realizado must never appear as a category")
	}
}

func TestNeoplasiaCountsDropNinguna(t *testing.T) {
	a := newPatient("a", 30)
	a.HistoriaClinicaPrimera.Neoplasia.Tipo = patient.NeoplasiaSarcomaKaposi
	b := newPatient("b", 40) // stays ninguna

	got := NeoplasiaCounts([]*patient.Patient{a, b})

	if len(got) != 1 || got[0].Name != "Sarcoma de Kaposi" || got[0].Value != 1 {
		t.Errorf("got %v, want only Sarcoma de Kaposi: 1", got)
	}
}

func TestARVMedicationUsageSortedDescending(t *testing.T) {
	withMeds := func(id string, meds ...string) *patient.Patient {
		p := newPatient(id, 30)
		ficha := &patient.FichaInicioTratamientoData{MedicamentosARV: patient.NewMedicamentosARV()}
		for _, med := range meds {
			for _, class := range ficha.MedicamentosARV.Classes() {
				if _, ok := class[med]; ok {
					class[med] = patient.MedicamentoARV{Selected: true, Dosis: "1 diaria"}
				}
			}
		}
		p.FichaInicioTratamiento = ficha
		return p
	}

	patients := []*patient.Patient{
		withMeds("a", "tenofovir", "lamivudina"),
		withMeds("b", "tenofovir"),
		withMeds("c", "tenofovir"),
		newPatient("d", 30), // no form: contributes nothing
	}

	got := ARVMedicationUsage(patients)

	if len(got) != 2 {
		t.Fatalf("got %v, want 2 drugs", got)
	}
	if got[0].Name != "Tenofovir (TDF)" || got[0].Value != 3 {
		t.Errorf("top drug = %v, want Tenofovir (TDF): 3", got[0])
	}
	if got[1].Name != "Lamivudina (3TC)" || got[1].Value != 1 {
		t.Errorf("second drug = %v", got[1])
	}
}

func TestTARSchemeCounts(t *testing.T) {
	a := newPatient("a", 30)
	a.TARChanges = []patient.TARChange{
		{ID: "1", Esquema: patient.EsquemaTLD},
		{ID: "2", Esquema: patient.EsquemaKocitaf},
	}
	b := newPatient("b", 40)
	b.TARChanges = []patient.TARChange{{ID: "3", Esquema: patient.EsquemaTLD}}

	got := TARSchemeCounts([]*patient.Patient{a, b})

	if findCount(t, got, "TLD") != 2 {
		t.Errorf("TLD = %d, want 2", findCount(t, got, "TLD"))
	}
	if findCount(t, got, "KOCITAF") != 1 {
		t.Errorf("KOCITAF = %d, want 1", findCount(t, got, "KOCITAF"))
	}
	if findCount(t, got, "DLT+3TC") != 0 {
		t.Error("unused schemes should be omitted")
	}
}

func TestFilterByTimeFrame(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	at := func(id string, daysAgo int) *patient.Patient {
		p := newPatient(id, 30)
		p.ConsultationDate = now.AddDate(0, 0, -daysAgo)
		return p
	}

	patients := []*patient.Patient{
		at("a", 2),   // within the week
		at("b", 20),  // within the month
		at("c", 80),  // within the quarter
		at("d", 170), // within the semester
		at("e", 300), // within the year
		at("f", 400), // older than a year
	}

	tests := []struct {
		tf   TimeFrame
		want int
	}{
		{FrameWeek, 1},
		{FrameMonth, 2},
		{FrameQuarter, 3},
		{FrameSemester, 4},
		{FrameYear, 5},
		{FrameAll, 6},
	}

	for _, tt := range tests {
		if got := len(FilterByTimeFrame(patients, tt.tf, now)); got != tt.want {
			t.Errorf("FilterByTimeFrame(%s) kept %d, want %d", tt.tf, got, tt.want)
		}
	}
}

func TestParseTimeFrame(t *testing.T) {
	if tf, err := ParseTimeFrame(""); err != nil || tf != FrameAll {
		t.Errorf("empty period should default to all, got %v, %v", tf, err)
	}
	if _, err := ParseTimeFrame("decade"); err == nil {
		t.Error("unknown period should be rejected")
	}
}

func TestSummarize(t *testing.T) {
	cv1, cv2 := 30.0, 5000.0
	cd4 := 400.0

	a := newPatient("a", 32)
	a.Estudios.CargaViral = &cv1
	a.Estudios.ContajeCD4 = &cd4
	b := newPatient("b", 33)
	b.Estudios.CargaViral = &cv2

	s := Summarize([]*patient.Patient{a, b})

	if s.TotalPatients != 2 {
		t.Errorf("TotalPatients = %d", s.TotalPatients)
	}
	if s.PredominantAgeGroup != "30-34" {
		t.Errorf("PredominantAgeGroup = %q", s.PredominantAgeGroup)
	}
	if s.UndetectablePercent != 50 {
		t.Errorf("UndetectablePercent = %v, want 50", s.UndetectablePercent)
	}
	if !s.AverageCD4Known || s.AverageCD4 != 400 {
		t.Errorf("AverageCD4 = %v (known=%v), want 400 over patients with a value", s.AverageCD4, s.AverageCD4Known)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalPatients != 0 || s.AverageCD4Known {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestBuildReportUsesWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := newPatient("a", 25)
	recent.ConsultationDate = now.AddDate(0, 0, -1)
	old := newPatient("b", 60)
	old.ConsultationDate = now.AddDate(0, -2, 0)

	r := BuildReport([]*patient.Patient{recent, old}, FrameMonth, now)

	if r.Summary.TotalPatients != 1 {
		t.Errorf("TotalPatients = %d, want 1 inside the month window", r.Summary.TotalPatients)
	}
	if len(r.Ages) != 1 || r.Ages[0].Name != "25-29" {
		t.Errorf("Ages = %v", r.Ages)
	}
}
