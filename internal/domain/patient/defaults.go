package patient

import "time"

// DefaultLocation is the outpatient service this system was built for.
const DefaultLocation = "Hospital Universitario de Caracas"

func newInmunizaciones() InmunizacionesData {
	return InmunizacionesData{
		Neumococo:    Inmunizacion{Aplicada: No},
		Trivalente:   Inmunizacion{Aplicada: No},
		Pentavalente: Inmunizacion{Aplicada: No},
		SarsCov2:     Inmunizacion{Aplicada: No},
		HepatitisA:   Inmunizacion{Aplicada: No},
		Influenza:    Inmunizacion{Aplicada: No},
		Toxoide:      Inmunizacion{Aplicada: No},
	}
}

// NewEstudios returns the studies section in its documented empty state:
// enumerated results not performed, no lab values, no immunizations applied.
func NewEstudios() EstudiosData {
	return EstudiosData{
		HepatitisB:     ResultadoNoRealizado,
		HepatitisC:     ResultadoNoRealizado,
		VDRL:           ResultadoNoRealizado,
		Densitometria:  ResultadoNoRealizado,
		HepatitisA:     ResultadoNoRealizado,
		Inmunizaciones: newInmunizaciones(),
	}
}

func newHistoriaClinicaPrimera() HistoriaClinicaPrimera {
	return HistoriaClinicaPrimera{
		CoInfeccion: CoInfeccionData{
			HepatitisB:   HepatitisBData{AgSHB: No, AgHBC: No},
			Neurosifilis: No,
		},
		Neoplasia: NeoplasiaData{
			Tipo:                 NeoplasiaNinguna,
			ClasificacionCARecto: "no-aplica",
		},
	}
}

// NewFromIntake builds a Patient from the triage intake form with every
// sub-record in its empty default state. The derived IMC is computed here
// regardless of what the caller supplied.
func NewFromIntake(cmd *CreatePatientCommand, now time.Time) *Patient {
	triage := cmd.Triage
	triage.RecomputeIMC()

	location := cmd.Location
	if location == "" {
		location = DefaultLocation
	}

	return &Patient{
		ID:              cmd.ID,
		Nombres:         cmd.Nombres,
		Apellidos:       cmd.Apellidos,
		Edad:            cmd.Edad,
		Sexo:            cmd.Sexo,
		FechaNacimiento: cmd.FechaNacimiento,
		Direccion:       cmd.Direccion,
		MotivoConsulta:  cmd.MotivoConsulta,
		TipoConsulta:    cmd.TipoConsulta,

		ConsultationDate: now,
		ConsultationTime: now.Format("15:04"),
		Location:         location,

		Triage:                     triage,
		HistoriaClinicaPrimera:     newHistoriaClinicaPrimera(),
		HistoriasClinicasSucesivas: []HistoriaClinicaSucesiva{},
		TratamientoNotas:           []TratamientoNota{},
		TARChanges:                 []TARChange{},
		EmbarazadaData:             nil,
		FichaInicioTratamiento:     nil,
		Estudios:                   NewEstudios(),
	}
}
