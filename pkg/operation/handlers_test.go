package operation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/efortin/podctl/pkg/lifecycle"
)

func TestHTTPStatusFor(t *testing.T) {
	tests := []struct {
		kind lifecycle.ErrorKind
		want int
	}{
		{lifecycle.ErrNotFound, http.StatusNotFound},
		{lifecycle.ErrNoAffordableGPU, http.StatusConflict},
		{lifecycle.ErrNoCapacity, http.StatusConflict},
		{lifecycle.ErrProviderUnreachable, http.StatusBadGateway},
		{lifecycle.ErrStartFailed, http.StatusInternalServerError},
		{lifecycle.ErrStopFailed, http.StatusInternalServerError},
		{lifecycle.ErrRestartFailed, http.StatusInternalServerError},
		{lifecycle.ErrTerminateFailed, http.StatusInternalServerError},
		{lifecycle.ErrConfiguration, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, httpStatusFor(tt.kind))
		})
	}
}
