package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this cedula already exists")
	ErrCedulaRequired       = errors.New("cedula is required")
	ErrInvalidSexo          = errors.New("invalid sexo value")
	ErrInvalidTipoConsulta  = errors.New("invalid tipo de consulta")
	ErrInvalidEsquemaTAR    = errors.New("invalid TAR scheme")

	// Evaluator reference: exactly one of residente / medicoEvaluadorId
	// must be set before a history entry can be persisted.
	ErrEvaluatorMissing  = errors.New("an evaluator is required: set residente or medico evaluador")
	ErrEvaluatorConflict = errors.New("only one evaluator may be set: residente or medico evaluador, not both")

	ErrPregnancyNotApplicable = errors.New("pregnancy record is only applicable to female patients")
)
