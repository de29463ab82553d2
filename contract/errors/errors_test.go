package errors_test

import (
	"errors"
	"fmt"
	"testing"

	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

func TestCodeAndVars(t *testing.T) {
	e := berr.Code(berr.ErrCodeExportFailed)
	if e.Error() != berr.ErrCodeExportFailed {
		t.Fatalf("unexpected error string: %s", e.Error())
	}

	// exported variables must carry their codes
	tests := []struct {
		err  error
		code string
	}{
		{berr.ErrHandlerFault, berr.ErrCodeHandlerFault},
		{berr.ErrHandlerTypeMismatch, berr.ErrCodeHandlerTypeMismatch},
		{berr.ErrExporterNotConfigured, berr.ErrCodeExporterNotConfigured},
		{berr.ErrExportFailed, berr.ErrCodeExportFailed},
		{berr.ErrSerializationFailed, berr.ErrCodeSerializationFailed},
		{berr.ErrScopeClosed, berr.ErrCodeScopeClosed},
	}

	for _, tc := range tests {
		if !errors.Is(tc.err, berr.Code(tc.code)) {
			t.Fatalf("expected %s to be %s", tc.err, tc.code)
		}
	}
}

func TestCodeSurvivesWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("publish main.Ping: %w", errors.Join(berr.ErrHandlerFault, cause))

	if !errors.Is(err, berr.ErrHandlerFault) {
		t.Fatalf("want ErrHandlerFault in chain, got %v", err)
	}

	if !errors.Is(err, cause) {
		t.Fatalf("want cause in chain, got %v", err)
	}
}
