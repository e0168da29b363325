package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/flywave/go-meshpipe/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, report.Status(nil)))
	assert.Contains(t, buf.String(), `"status": "ok"`)

	buf.Reset()
	err := printStatus(&buf, report.Status(errors.New("boom")))
	assert.ErrorIs(t, err, errRunFailed)

	var doc report.StatusDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "error", doc.Status)
	assert.Equal(t, "boom", doc.Error)
}
