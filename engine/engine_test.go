package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermitLedger_Start(t *testing.T) {
	t.Run("configure and start the engine", func(t *testing.T) {
		engine := NewPermitLedgerEngine()
		assert.NoError(t, engine.Configure())
		assert.NoError(t, engine.Start())
		defer engine.Shutdown()

		assert.Equal(t, "permits", engine.ConfigKey)
		assert.NotNil(t, engine.Cmd)
	})
}

func TestPermitLedger_Selfcheck(t *testing.T) {
	engine := NewPermitLedgerEngine()

	output := new(bytes.Buffer)
	engine.Cmd.SetOut(output)
	engine.Cmd.SetErr(output)
	engine.Cmd.SetArgs([]string{"selfcheck", "10"})

	assert.NoError(t, engine.Cmd.Execute())
	assert.Contains(t, output.String(), "chain length")
}
