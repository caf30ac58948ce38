package sl_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
)

func TestErr(t *testing.T) {
	attr := sl.Err(errors.New("treba not found"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("treba not found"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.NotPanics(t, func() {
		attr := sl.Err(nil)
		assert.Equal(t, "", attr.Value.String())
	})
}

func TestOp(t *testing.T) {
	attr := sl.Op("handlers.treba.create")

	assert.Equal(t, "op", attr.Key)
	assert.Equal(t, "handlers.treba.create", attr.Value.String())
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env        string
		json       bool
		debugShown bool
	}{
		{env: sl.EnvLocal, json: false, debugShown: true},
		{env: sl.EnvDev, json: true, debugShown: true},
		{env: sl.EnvProd, json: true, debugShown: false},
		{env: "unknown", json: false, debugShown: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := sl.NewLogger(tt.env, &buf)

			log.Info("treba created")
			if tt.json {
				assert.Contains(t, buf.String(), `"msg":"treba created"`)
			} else {
				assert.Contains(t, buf.String(), `msg="treba created"`)
			}
			assert.Equal(t, tt.debugShown, log.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}
