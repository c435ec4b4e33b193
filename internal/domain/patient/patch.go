package patient

// SectionPatch carries the sections a single view actually edited. Nil
// fields are left untouched when the patch is applied, which is what keeps
// independently-saving views from clobbering each other's sections.
type SectionPatch struct {
	Identificacion *Identificacion
	TipoConsulta   *TipoConsulta

	Triage                     *TriageData
	HistoriaClinicaPrimera     *HistoriaClinicaPrimera
	HistoriasClinicasSucesivas *[]HistoriaClinicaSucesiva
	TratamientoNotas           *[]TratamientoNota
	TARChanges                 *[]TARChange
	EmbarazadaData             *EmbarazadaData
	FichaInicioTratamiento     *FichaInicioTratamientoData
	Estudios                   *EstudiosData
}

// ApplyPatch writes the non-nil sections of the patch onto the aggregate.
// It is the single place merge semantics are defined; the repository calls
// it inside a read-modify-write transaction.
func (p *Patient) ApplyPatch(patch *SectionPatch) {
	if patch == nil {
		return
	}
	if patch.Identificacion != nil {
		id := patch.Identificacion
		p.Nombres = id.Nombres
		p.Apellidos = id.Apellidos
		p.Edad = id.Edad
		p.Sexo = id.Sexo
		p.FechaNacimiento = id.FechaNacimiento
		p.Direccion = id.Direccion
		p.MotivoConsulta = id.MotivoConsulta
	}
	if patch.TipoConsulta != nil {
		p.TipoConsulta = *patch.TipoConsulta
	}
	if patch.Triage != nil {
		p.Triage = *patch.Triage
	}
	if patch.HistoriaClinicaPrimera != nil {
		p.HistoriaClinicaPrimera = *patch.HistoriaClinicaPrimera
	}
	if patch.HistoriasClinicasSucesivas != nil {
		p.HistoriasClinicasSucesivas = *patch.HistoriasClinicasSucesivas
	}
	if patch.TratamientoNotas != nil {
		p.TratamientoNotas = *patch.TratamientoNotas
	}
	if patch.TARChanges != nil {
		p.TARChanges = *patch.TARChanges
	}
	if patch.EmbarazadaData != nil {
		p.EmbarazadaData = patch.EmbarazadaData
	}
	if patch.FichaInicioTratamiento != nil {
		p.FichaInicioTratamiento = patch.FichaInicioTratamiento
	}
	if patch.Estudios != nil {
		p.Estudios = *patch.Estudios
	}
}
