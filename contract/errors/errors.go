package errors

// Error codes for the bus contracts. Keep stable; used across adapters and bus.
const (
	ErrCodeHandlerFault          = "componentbus.handler_fault"
	ErrCodeHandlerTypeMismatch   = "componentbus.handler_type_mismatch"
	ErrCodeExporterNotConfigured = "componentbus.exporter_not_configured"
	ErrCodeExportFailed          = "componentbus.export_failed"
	ErrCodeSerializationFailed   = "componentbus.serialization_failed"
	ErrCodeScopeClosed           = "componentbus.scope_closed"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrHandlerFault          = Code(ErrCodeHandlerFault)
	ErrHandlerTypeMismatch   = Code(ErrCodeHandlerTypeMismatch)
	ErrExporterNotConfigured = Code(ErrCodeExporterNotConfigured)
	ErrExportFailed          = Code(ErrCodeExportFailed)
	ErrSerializationFailed   = Code(ErrCodeSerializationFailed)
	ErrScopeClosed           = Code(ErrCodeScopeClosed)
)
